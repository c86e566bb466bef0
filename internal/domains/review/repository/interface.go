package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"reviewhub-backend/internal/domains/review/model"
)

// ReviewRepository persists reviews. Methods taking a pgx.Tx run as
// part of the caller's transaction; the service opens it so that a
// review mutation and its ledger adjustment commit together.
type ReviewRepository interface {
	// Read paths (outside any transaction)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ReviewWithAuthor, error)
	ListByTitle(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]model.ReviewWithAuthor, int64, error)
	TitleExists(ctx context.Context, titleID uuid.UUID) (bool, error)

	// Transactional paths
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Review, error)
	GetByTitleAndAuthor(ctx context.Context, tx pgx.Tx, titleID, authorID uuid.UUID) (*model.Review, error)
	Insert(ctx context.Context, tx pgx.Tx, review *model.Review) error
	Update(ctx context.Context, tx pgx.Tx, review *model.Review) error
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// LedgerRepository maintains the per-title score ledgers.
type LedgerRepository interface {
	Create(ctx context.Context, tx pgx.Tx, titleID uuid.UUID) error
	GetByTitle(ctx context.Context, titleID uuid.UUID) (*model.ScoreLedger, error)

	// Adjust applies deltas atomically and returns the resulting
	// ledger. A missing ledger row is reported as ErrLedgerMissing.
	Adjust(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, sumDelta, countDelta int64) (*model.ScoreLedger, error)

	Delete(ctx context.Context, tx pgx.Tx, titleID uuid.UUID) error
}
