package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeReviewNotFound  = "REV001"
	ErrCodeDuplicateReview = "REV002"
	ErrCodeInvalidScore    = "REV003"
	ErrCodeLedgerMissing   = "REV004"
	ErrCodeTitleNotFound   = "REV005"
)

// Errors
var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("already reviewed this title")
	ErrInvalidScore    = errors.New("score must be between 1 and 10")
	ErrLedgerMissing   = errors.New("score ledger missing for title")
	ErrTitleNotFound   = errors.New("title not found")
)

// ReviewError custom error type
type ReviewError struct {
	Code    string
	Message string
	Err     error
}

func (e *ReviewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ReviewError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewReviewNotFoundError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeReviewNotFound,
		Message: "Review not found",
		Err:     ErrReviewNotFound,
	}
}

func NewDuplicateReviewError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeDuplicateReview,
		Message: "You have already reviewed this title",
		Err:     ErrDuplicateReview,
	}
}

func NewInvalidScoreError(score int) *ReviewError {
	return &ReviewError{
		Code:    ErrCodeInvalidScore,
		Message: fmt.Sprintf("Score %d is out of range [%d, %d]", score, MinScore, MaxScore),
		Err:     ErrInvalidScore,
	}
}

func NewLedgerMissingError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeLedgerMissing,
		Message: "Score ledger is missing for this title",
		Err:     ErrLedgerMissing,
	}
}

func NewTitleNotFoundError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeTitleNotFound,
		Message: "Title not found",
		Err:     ErrTitleNotFound,
	}
}
