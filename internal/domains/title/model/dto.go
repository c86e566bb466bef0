package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateTitleRequest request to create a title. Category and Genres
// reference existing entries by slug.
type CreateTitleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genres"`
}

func (r CreateTitleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 256)),
		validation.Field(&r.Year,
			validation.Required,
			validation.Min(1000),
			validation.Max(time.Now().Year()),
		),
	)
}

// UpdateTitleRequest request to update a title; nil fields keep their
// current value. A non-nil Genres replaces the whole set.
type UpdateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genres"`
}

func (r UpdateTitleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 256)),
		validation.Field(&r.Year,
			validation.Min(1000),
			validation.Max(time.Now().Year()),
		),
	)
}

// ListTitlesRequest request to list titles with filters
type ListTitlesRequest struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Genre    string `form:"genre"`
	Year     *int   `form:"year"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

func (r *ListTitlesRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// CategoryInfo category reference inside a title response
type CategoryInfo struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GenreInfo genre reference inside a title response
type GenreInfo struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TitleResponse title returned to clients. Rating is nil until the
// title has at least one review.
type TitleResponse struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Year        int           `json:"year"`
	Description *string       `json:"description"`
	Rating      *int          `json:"rating"`
	Category    *CategoryInfo `json:"category"`
	Genres      []GenreInfo   `json:"genres"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListTitlesResponse paginated title listing
type ListTitlesResponse struct {
	Titles     []TitleResponse `json:"titles"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}
