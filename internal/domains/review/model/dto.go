package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateReviewRequest request to create a review
type CreateReviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text,
			validation.Required,
			validation.Length(1, MaxTextLength),
		),
		validation.Field(&r.Score,
			validation.Required,
			validation.Min(MinScore),
			validation.Max(MaxScore),
		),
	)
}

// UpdateReviewRequest request to update a review; nil fields keep
// their current value.
type UpdateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text,
			validation.Length(1, MaxTextLength),
		),
		validation.Field(&r.Score,
			validation.Min(MinScore),
			validation.Max(MaxScore),
		),
	)
}

// ListReviewsRequest request to list a title's reviews
type ListReviewsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize clamps pagination to sane bounds.
func (r *ListReviewsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > MaxLimit {
		r.Limit = DefaultLimit
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// AuthorInfo identifies the review or comment author.
type AuthorInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// ReviewResponse review returned to clients
type ReviewResponse struct {
	ID      uuid.UUID  `json:"id"`
	TitleID uuid.UUID  `json:"title_id"`
	Author  AuthorInfo `json:"author"`
	Text    string     `json:"text"`
	Score   int        `json:"score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListReviewsResponse paginated review listing
type ListReviewsResponse struct {
	Reviews    []ReviewResponse `json:"reviews"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}
