package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeTitleNotFound   = "TTL001"
	ErrCodeUnknownCategory = "TTL002"
	ErrCodeUnknownGenre    = "TTL003"
)

// Errors
var (
	ErrTitleNotFound   = errors.New("title not found")
	ErrUnknownCategory = errors.New("unknown category slug")
	ErrUnknownGenre    = errors.New("unknown genre slug")
)

// TitleError custom error type
type TitleError struct {
	Code    string
	Message string
	Err     error
}

func (e *TitleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TitleError) Unwrap() error {
	return e.Err
}

func NewTitleNotFoundError() *TitleError {
	return &TitleError{
		Code:    ErrCodeTitleNotFound,
		Message: "Title not found",
		Err:     ErrTitleNotFound,
	}
}

func NewUnknownCategoryError(slug string) *TitleError {
	return &TitleError{
		Code:    ErrCodeUnknownCategory,
		Message: fmt.Sprintf("Category %q does not exist", slug),
		Err:     ErrUnknownCategory,
	}
}

func NewUnknownGenreError(slug string) *TitleError {
	return &TitleError{
		Code:    ErrCodeUnknownGenre,
		Message: fmt.Sprintf("Genre %q does not exist", slug),
		Err:     ErrUnknownGenre,
	}
}
