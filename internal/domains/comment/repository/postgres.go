package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reviewhub-backend/internal/domains/comment/model"
)

// CommentRepository persists comments. Comments never touch the score
// ledger, so no method here takes a transaction.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.CommentWithAuthor, error)
	ListByReview(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]model.CommentWithAuthor, int64, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ReviewExists confirms the review exists under the given title,
	// so nested routes cannot reach a review through the wrong title.
	ReviewExists(ctx context.Context, titleID, reviewID uuid.UUID) (bool, error)
}

type postgresCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresCommentRepository{pool: pool}
}

func (r *postgresCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO comments (id, review_id, author_id, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.ReviewID,
		comment.AuthorID,
		comment.Text,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *postgresCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CommentWithAuthor, error) {
	query := `
		SELECT
			cm.id, cm.review_id, cm.author_id, cm.text,
			cm.created_at, cm.updated_at,
			u.username
		FROM comments cm
		JOIN users u ON u.id = cm.author_id
		WHERE cm.id = $1
	`

	comment := &model.CommentWithAuthor{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.Text,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.AuthorUsername,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

func (r *postgresCommentRepository) ListByReview(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]model.CommentWithAuthor, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM comments WHERE review_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := `
		SELECT
			cm.id, cm.review_id, cm.author_id, cm.text,
			cm.created_at, cm.updated_at,
			u.username
		FROM comments cm
		JOIN users u ON u.id = cm.author_id
		WHERE cm.review_id = $1
		ORDER BY cm.created_at
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.CommentWithAuthor, 0, limit)
	for rows.Next() {
		var comment model.CommentWithAuthor
		if err := rows.Scan(
			&comment.ID,
			&comment.ReviewID,
			&comment.AuthorID,
			&comment.Text,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.AuthorUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, total, nil
}

func (r *postgresCommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	query := `
		UPDATE comments
		SET text = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, comment.ID, comment.Text, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}

	return nil
}

func (r *postgresCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}

	return nil
}

func (r *postgresCommentRepository) ReviewExists(ctx context.Context, titleID, reviewID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1 AND title_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, reviewID, titleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}

	return exists, nil
}
