package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	categorymodel "reviewhub-backend/internal/domains/category/model"
	genremodel "reviewhub-backend/internal/domains/genre/model"
	"reviewhub-backend/internal/domains/title/model"
)

// =====================================================
// POSTGRES TITLE REPOSITORY
// =====================================================

type postgresTitleRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTitleRepository(pool *pgxpool.Pool) TitleRepository {
	return &postgresTitleRepository{pool: pool}
}

const titleDetailColumns = `
	t.id, t.name, t.year, t.description, t.created_at, t.updated_at,
	c.id, c.name, c.slug, c.created_at,
	COALESCE(l.sum_vote, 0), COALESCE(l.count_vote, 0)
`

func scanTitleDetail(row pgx.Row) (*model.TitleDetail, error) {
	detail := &model.TitleDetail{}

	var catID *uuid.UUID
	var catName, catSlug *string
	var catCreatedAt *time.Time

	err := row.Scan(
		&detail.ID,
		&detail.Name,
		&detail.Year,
		&detail.Description,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&catID,
		&catName,
		&catSlug,
		&catCreatedAt,
		&detail.SumVote,
		&detail.CountVote,
	)
	if err != nil {
		return nil, err
	}

	if catID != nil {
		detail.CategoryID = catID
		detail.Category = &categorymodel.Category{
			ID:        *catID,
			Name:      *catName,
			Slug:      *catSlug,
			CreatedAt: *catCreatedAt,
		}
	}

	return detail, nil
}

func (r *postgresTitleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TitleDetail, error) {
	query := `
		SELECT ` + titleDetailColumns + `
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
		LEFT JOIN score_ledgers l ON l.title_id = t.id
		WHERE t.id = $1
	`

	detail, err := scanTitleDetail(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTitleNotFound
		}
		return nil, fmt.Errorf("failed to get title: %w", err)
	}

	genres, err := r.loadGenres(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	detail.Genres = genres[id]

	return detail, nil
}

func (r *postgresTitleRepository) List(ctx context.Context, filter model.TitleFilter, limit, offset int) ([]model.TitleDetail, int64, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("t.name ILIKE $%d", len(args)))
	}
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if filter.GenreSlug != "" {
		args = append(args, filter.GenreSlug)
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (
				SELECT 1 FROM title_genres tg
				JOIN genres g ON g.id = tg.genre_id
				WHERE tg.title_id = t.id AND g.slug = $%d
			)`, len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		conditions = append(conditions, fmt.Sprintf("t.year = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
		%s
	`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count titles: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
		LEFT JOIN score_ledgers l ON l.title_id = t.id
		%s
		ORDER BY t.name
		LIMIT $%d OFFSET $%d
	`, titleDetailColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list titles: %w", err)
	}
	defer rows.Close()

	details := make([]model.TitleDetail, 0, limit)
	titleIDs := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		detail, err := scanTitleDetail(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan title: %w", err)
		}
		details = append(details, *detail)
		titleIDs = append(titleIDs, detail.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate titles: %w", err)
	}

	genres, err := r.loadGenres(ctx, titleIDs)
	if err != nil {
		return nil, 0, err
	}
	for i := range details {
		details[i].Genres = genres[details[i].ID]
	}

	return details, total, nil
}

// loadGenres fetches the genres for a batch of titles in one query.
func (r *postgresTitleRepository) loadGenres(ctx context.Context, titleIDs []uuid.UUID) (map[uuid.UUID][]genremodel.Genre, error) {
	result := make(map[uuid.UUID][]genremodel.Genre, len(titleIDs))
	if len(titleIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT tg.title_id, g.id, g.name, g.slug, g.created_at
		FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id = ANY($1)
		ORDER BY g.name
	`

	rows, err := r.pool.Query(ctx, query, titleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var titleID uuid.UUID
		var genre genremodel.Genre
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		result[titleID] = append(result[titleID], genre)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate genres: %w", err)
	}

	return result, nil
}

func (r *postgresTitleRepository) Insert(ctx context.Context, tx pgx.Tx, title *model.Title, genreIDs []uuid.UUID) error {
	query := `
		INSERT INTO titles (id, name, year, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.CreatedAt,
		title.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert title: %w", err)
	}

	return r.insertGenres(ctx, tx, title.ID, genreIDs)
}

func (r *postgresTitleRepository) Update(ctx context.Context, tx pgx.Tx, title *model.Title) error {
	query := `
		UPDATE titles
		SET name = $2, year = $3, description = $4, category_id = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update title: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTitleNotFound
	}

	return nil
}

func (r *postgresTitleRepository) ReplaceGenres(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM title_genres WHERE title_id = $1`, titleID); err != nil {
		return fmt.Errorf("failed to clear title genres: %w", err)
	}

	return r.insertGenres(ctx, tx, titleID, genreIDs)
}

func (r *postgresTitleRepository) insertGenres(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	for _, genreID := range genreIDs {
		query := `INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2)`
		if _, err := tx.Exec(ctx, query, titleID, genreID); err != nil {
			return fmt.Errorf("failed to attach genre: %w", err)
		}
	}
	return nil
}

func (r *postgresTitleRepository) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	// Reviews and genre links follow via FK cascades; the ledger is
	// removed explicitly by the service before this call.
	tag, err := tx.Exec(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete title: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTitleNotFound
	}

	return nil
}
