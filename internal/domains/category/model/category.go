package model

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Category groups titles by medium, e.g. "Books" or "Movies".
// A title belongs to at most one category.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// =====================================================
// DTOs
// =====================================================

// CreateCategoryRequest request to create a category. When Slug is
// empty one is generated from the name.
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 256)),
		validation.Field(&r.Slug, validation.Length(0, 50)),
	)
}

// ListCategoriesRequest request to list categories
type ListCategoriesRequest struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (r *ListCategoriesRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}

// ListCategoriesResponse paginated category listing
type ListCategoriesResponse struct {
	Categories []Category `json:"categories"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

// =====================================================
// ERRORS
// =====================================================

// Error codes
const (
	ErrCodeCategoryNotFound = "CAT001"
	ErrCodeDuplicateSlug    = "CAT002"
)

// Errors
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateSlug    = errors.New("category slug already exists")
)

// CategoryError custom error type
type CategoryError struct {
	Code    string
	Message string
	Err     error
}

func (e *CategoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CategoryError) Unwrap() error {
	return e.Err
}

func NewCategoryNotFoundError(slug string) *CategoryError {
	return &CategoryError{
		Code:    ErrCodeCategoryNotFound,
		Message: fmt.Sprintf("Category %q not found", slug),
		Err:     ErrCategoryNotFound,
	}
}

func NewDuplicateSlugError(slug string) *CategoryError {
	return &CategoryError{
		Code:    ErrCodeDuplicateSlug,
		Message: fmt.Sprintf("Category slug %q already exists", slug),
		Err:     ErrDuplicateSlug,
	}
}
