package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"reviewhub-backend/internal/domains/title/model"
)

// TitleRepository persists titles. Write methods take a pgx.Tx so the
// service can pair them with ledger bookkeeping in one transaction.
type TitleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.TitleDetail, error)
	List(ctx context.Context, filter model.TitleFilter, limit, offset int) ([]model.TitleDetail, int64, error)

	Insert(ctx context.Context, tx pgx.Tx, title *model.Title, genreIDs []uuid.UUID) error
	Update(ctx context.Context, tx pgx.Tx, title *model.Title) error
	ReplaceGenres(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, genreIDs []uuid.UUID) error
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}
