package model

import (
	"time"

	"github.com/google/uuid"

	categorymodel "reviewhub-backend/internal/domains/category/model"
	genremodel "reviewhub-backend/internal/domains/genre/model"
)

// Title is a reviewable work: a book, a film, an album.
type Title struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Year        int        `json:"year"`
	Description *string    `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TitleDetail is a title joined with its category, genres and ledger
// counters for read paths.
type TitleDetail struct {
	Title
	Category  *categorymodel.Category
	Genres    []genremodel.Genre
	SumVote   int64
	CountVote int64
}

// TitleFilter narrows a title listing. Zero values mean "any".
type TitleFilter struct {
	Name         string
	CategorySlug string
	GenreSlug    string
	Year         *int
}

const (
	// DetailCacheTTL bounds staleness of cached title details.
	DetailCacheTTL = 5 * time.Minute
)

// DetailCacheKey is the cache key for one title's detail view.
// Review mutations invalidate it because the rating lives here.
func DetailCacheKey(id uuid.UUID) string {
	return "title:detail:" + id.String()
}
