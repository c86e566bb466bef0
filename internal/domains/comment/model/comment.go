package model

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	reviewmodel "reviewhub-backend/internal/domains/review/model"
)

// Comment is a reply to a review. Comments do not carry scores and
// never touch the score ledger.
type Comment struct {
	ID       uuid.UUID `json:"id"`
	ReviewID uuid.UUID `json:"review_id"`
	AuthorID uuid.UUID `json:"author_id"`
	Text     string    `json:"text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentWithAuthor is a comment joined with its author's username.
type CommentWithAuthor struct {
	Comment
	AuthorUsername string `json:"author_username"`
}

const maxTextLength = 5000

// =====================================================
// DTOs
// =====================================================

// CreateCommentRequest request to create a comment
type CreateCommentRequest struct {
	Text string `json:"text"`
}

func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required, validation.Length(1, maxTextLength)),
	)
}

// UpdateCommentRequest request to update a comment
type UpdateCommentRequest struct {
	Text string `json:"text"`
}

func (r UpdateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required, validation.Length(1, maxTextLength)),
	)
}

// ListCommentsRequest request to list a review's comments
type ListCommentsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (r *ListCommentsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}

// CommentResponse comment returned to clients
type CommentResponse struct {
	ID       uuid.UUID              `json:"id"`
	ReviewID uuid.UUID              `json:"review_id"`
	Author   reviewmodel.AuthorInfo `json:"author"`
	Text     string                 `json:"text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListCommentsResponse paginated comment listing
type ListCommentsResponse struct {
	Comments   []CommentResponse `json:"comments"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// =====================================================
// ERRORS
// =====================================================

// Error codes
const (
	ErrCodeCommentNotFound = "CMT001"
	ErrCodeReviewNotFound  = "CMT002"
)

// Errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrReviewNotFound  = errors.New("review not found")
)

// CommentError custom error type
type CommentError struct {
	Code    string
	Message string
	Err     error
}

func (e *CommentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CommentError) Unwrap() error {
	return e.Err
}

func NewCommentNotFoundError() *CommentError {
	return &CommentError{
		Code:    ErrCodeCommentNotFound,
		Message: "Comment not found",
		Err:     ErrCommentNotFound,
	}
}

func NewReviewNotFoundError() *CommentError {
	return &CommentError{
		Code:    ErrCodeReviewNotFound,
		Message: "Review not found",
		Err:     ErrReviewNotFound,
	}
}
