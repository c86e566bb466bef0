package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"reviewhub-backend/internal/domains/review/model"
)

// =====================================================
// POSTGRES REVIEW REPOSITORY
// =====================================================

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

func (r *postgresReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ReviewWithAuthor, error) {
	query := `
		SELECT
			r.id, r.title_id, r.author_id, r.text, r.score,
			r.created_at, r.updated_at,
			u.username
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.id = $1
	`

	review := &model.ReviewWithAuthor{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Text,
		&review.Score,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.AuthorUsername,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

func (r *postgresReviewRepository) ListByTitle(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]model.ReviewWithAuthor, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM reviews WHERE title_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := `
		SELECT
			r.id, r.title_id, r.author_id, r.text, r.score,
			r.created_at, r.updated_at,
			u.username
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.title_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.ReviewWithAuthor, 0, limit)
	for rows.Next() {
		var review model.ReviewWithAuthor
		if err := rows.Scan(
			&review.ID,
			&review.TitleID,
			&review.AuthorID,
			&review.Text,
			&review.Score,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.AuthorUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate reviews: %w", err)
	}

	return reviews, total, nil
}

func (r *postgresReviewRepository) TitleExists(ctx context.Context, titleID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM titles WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, titleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check title existence: %w", err)
	}

	return exists, nil
}

func (r *postgresReviewRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Review, error) {
	// FOR UPDATE holds the row until the surrounding transaction
	// commits, so the ledger delta is computed against a stable score.
	query := `
		SELECT id, title_id, author_id, text, score, created_at, updated_at
		FROM reviews
		WHERE id = $1
		FOR UPDATE
	`

	review := &model.Review{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Text,
		&review.Score,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review for update: %w", err)
	}

	return review, nil
}

func (r *postgresReviewRepository) GetByTitleAndAuthor(ctx context.Context, tx pgx.Tx, titleID, authorID uuid.UUID) (*model.Review, error) {
	query := `
		SELECT id, title_id, author_id, text, score, created_at, updated_at
		FROM reviews
		WHERE title_id = $1 AND author_id = $2
	`

	review := &model.Review{}
	err := tx.QueryRow(ctx, query, titleID, authorID).Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Text,
		&review.Score,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review by title and author: %w", err)
	}

	return review, nil
}

func (r *postgresReviewRepository) Insert(ctx context.Context, tx pgx.Tx, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, title_id, author_id, text, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		review.ID,
		review.TitleID,
		review.AuthorID,
		review.Text,
		review.Score,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// The unique index on (title_id, author_id) is the
			// authoritative duplicate guard.
			if pgErr.Code == "23505" {
				return model.ErrDuplicateReview
			}
			if pgErr.Code == "23503" {
				return model.ErrTitleNotFound
			}
		}
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

func (r *postgresReviewRepository) Update(ctx context.Context, tx pgx.Tx, review *model.Review) error {
	query := `
		UPDATE reviews
		SET text = $2, score = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query,
		review.ID,
		review.Text,
		review.Score,
		review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

func (r *postgresReviewRepository) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

// =====================================================
// POSTGRES LEDGER REPOSITORY
// =====================================================

type postgresLedgerRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLedgerRepository(pool *pgxpool.Pool) LedgerRepository {
	return &postgresLedgerRepository{pool: pool}
}

func (r *postgresLedgerRepository) Create(ctx context.Context, tx pgx.Tx, titleID uuid.UUID) error {
	query := `
		INSERT INTO score_ledgers (title_id, sum_vote, count_vote)
		VALUES ($1, 0, 0)
	`

	if _, err := tx.Exec(ctx, query, titleID); err != nil {
		return fmt.Errorf("failed to create score ledger: %w", err)
	}

	return nil
}

func (r *postgresLedgerRepository) GetByTitle(ctx context.Context, titleID uuid.UUID) (*model.ScoreLedger, error) {
	query := `
		SELECT title_id, sum_vote, count_vote
		FROM score_ledgers
		WHERE title_id = $1
	`

	ledger := &model.ScoreLedger{}
	err := r.pool.QueryRow(ctx, query, titleID).Scan(
		&ledger.TitleID,
		&ledger.SumVote,
		&ledger.CountVote,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLedgerMissing
		}
		return nil, fmt.Errorf("failed to get score ledger: %w", err)
	}

	return ledger, nil
}

func (r *postgresLedgerRepository) Adjust(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, sumDelta, countDelta int64) (*model.ScoreLedger, error) {
	// Single UPDATE, no read-modify-write: the row lock it takes makes
	// concurrent adjustments serialize instead of losing votes.
	query := `
		UPDATE score_ledgers
		SET sum_vote = sum_vote + $2, count_vote = count_vote + $3
		WHERE title_id = $1
		RETURNING title_id, sum_vote, count_vote
	`

	ledger := &model.ScoreLedger{}
	err := tx.QueryRow(ctx, query, titleID, sumDelta, countDelta).Scan(
		&ledger.TitleID,
		&ledger.SumVote,
		&ledger.CountVote,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLedgerMissing
		}
		return nil, fmt.Errorf("failed to adjust score ledger: %w", err)
	}

	return ledger, nil
}

func (r *postgresLedgerRepository) Delete(ctx context.Context, tx pgx.Tx, titleID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM score_ledgers WHERE title_id = $1`, titleID); err != nil {
		return fmt.Errorf("failed to delete score ledger: %w", err)
	}

	return nil
}
