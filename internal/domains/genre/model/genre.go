package model

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Genre tags titles across categories, e.g. "Drama" or "Sci-Fi".
// A title may carry any number of genres.
type Genre struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// =====================================================
// DTOs
// =====================================================

// CreateGenreRequest request to create a genre. When Slug is empty one
// is generated from the name.
type CreateGenreRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (r CreateGenreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 256)),
		validation.Field(&r.Slug, validation.Length(0, 50)),
	)
}

// ListGenresRequest request to list genres
type ListGenresRequest struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (r *ListGenresRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}

// ListGenresResponse paginated genre listing
type ListGenresResponse struct {
	Genres     []Genre `json:"genres"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}

// =====================================================
// ERRORS
// =====================================================

// Error codes
const (
	ErrCodeGenreNotFound = "GEN001"
	ErrCodeDuplicateSlug = "GEN002"
)

// Errors
var (
	ErrGenreNotFound = errors.New("genre not found")
	ErrDuplicateSlug = errors.New("genre slug already exists")
)

// GenreError custom error type
type GenreError struct {
	Code    string
	Message string
	Err     error
}

func (e *GenreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GenreError) Unwrap() error {
	return e.Err
}

func NewGenreNotFoundError(slug string) *GenreError {
	return &GenreError{
		Code:    ErrCodeGenreNotFound,
		Message: fmt.Sprintf("Genre %q not found", slug),
		Err:     ErrGenreNotFound,
	}
}

func NewDuplicateSlugError(slug string) *GenreError {
	return &GenreError{
		Code:    ErrCodeDuplicateSlug,
		Message: fmt.Sprintf("Genre slug %q already exists", slug),
		Err:     ErrDuplicateSlug,
	}
}
