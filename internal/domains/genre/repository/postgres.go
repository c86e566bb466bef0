package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"reviewhub-backend/internal/domains/genre/model"
)

// GenreRepository persists genres.
type GenreRepository interface {
	Create(ctx context.Context, genre *model.Genre) error
	GetBySlug(ctx context.Context, slug string) (*model.Genre, error)

	// GetBySlugs resolves several slugs at once; any slug that does
	// not exist makes the whole call fail with ErrGenreNotFound.
	GetBySlugs(ctx context.Context, slugs []string) ([]model.Genre, error)

	List(ctx context.Context, search string, limit, offset int) ([]model.Genre, int64, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type postgresGenreRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresGenreRepository(pool *pgxpool.Pool) GenreRepository {
	return &postgresGenreRepository{pool: pool}
}

func (r *postgresGenreRepository) Create(ctx context.Context, genre *model.Genre) error {
	query := `
		INSERT INTO genres (id, name, slug, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		genre.ID,
		genre.Name,
		genre.Slug,
		genre.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create genre: %w", err)
	}

	return nil
}

func (r *postgresGenreRepository) GetBySlug(ctx context.Context, slug string) (*model.Genre, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM genres
		WHERE slug = $1
	`

	genre := &model.Genre{}
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&genre.ID,
		&genre.Name,
		&genre.Slug,
		&genre.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrGenreNotFound
		}
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}

	return genre, nil
}

func (r *postgresGenreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]model.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, slug, created_at
		FROM genres
		WHERE slug = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, slugs)
	if err != nil {
		return nil, fmt.Errorf("failed to get genres: %w", err)
	}
	defer rows.Close()

	genres := make([]model.Genre, 0, len(slugs))
	for rows.Next() {
		var genre model.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate genres: %w", err)
	}

	if len(genres) != len(slugs) {
		return nil, model.ErrGenreNotFound
	}

	return genres, nil
}

func (r *postgresGenreRepository) List(ctx context.Context, search string, limit, offset int) ([]model.Genre, int64, error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		where = `WHERE name ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM genres ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count genres: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, slug, created_at
		FROM genres
		%s
		ORDER BY name
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list genres: %w", err)
	}
	defer rows.Close()

	genres := make([]model.Genre, 0, limit)
	for rows.Next() {
		var genre model.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate genres: %w", err)
	}

	return genres, total, nil
}

func (r *postgresGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	// Rows in title_genres go with the genre via the FK cascade.
	tag, err := r.pool.Exec(ctx, `DELETE FROM genres WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrGenreNotFound
	}

	return nil
}
