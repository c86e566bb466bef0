package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is an account on the platform. There is no password: identity
// is proven by a confirmation code sent to the email address.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  *string   `json:"username"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Bio       *string   `json:"bio"`
	Role      string    `json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// =====================================================
// ERRORS
// =====================================================

// Error codes
const (
	ErrCodeUserNotFound      = "USR001"
	ErrCodeDuplicateEmail    = "USR002"
	ErrCodeDuplicateUsername = "USR003"
	ErrCodeInvalidCode       = "USR004"
	ErrCodeInvalidRefresh    = "USR005"
	ErrCodeInvalidRole       = "USR006"
)

// Errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrInvalidCode       = errors.New("invalid or expired confirmation code")
	ErrInvalidRefresh    = errors.New("invalid refresh token")
	ErrInvalidRole       = errors.New("unknown role")
)

// UserError custom error type
type UserError struct {
	Code    string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func NewUserNotFoundError() *UserError {
	return &UserError{
		Code:    ErrCodeUserNotFound,
		Message: "User not found",
		Err:     ErrUserNotFound,
	}
}

func NewDuplicateEmailError(email string) *UserError {
	return &UserError{
		Code:    ErrCodeDuplicateEmail,
		Message: fmt.Sprintf("Email %q is already registered", email),
		Err:     ErrDuplicateEmail,
	}
}

func NewDuplicateUsernameError(username string) *UserError {
	return &UserError{
		Code:    ErrCodeDuplicateUsername,
		Message: fmt.Sprintf("Username %q is already taken", username),
		Err:     ErrDuplicateUsername,
	}
}

func NewInvalidCodeError() *UserError {
	return &UserError{
		Code:    ErrCodeInvalidCode,
		Message: "Confirmation code is invalid or expired",
		Err:     ErrInvalidCode,
	}
}

func NewInvalidRefreshError() *UserError {
	return &UserError{
		Code:    ErrCodeInvalidRefresh,
		Message: "Refresh token is invalid or expired",
		Err:     ErrInvalidRefresh,
	}
}

func NewInvalidRoleError(role string) *UserError {
	return &UserError{
		Code:    ErrCodeInvalidRole,
		Message: fmt.Sprintf("Role %q does not exist", role),
		Err:     ErrInvalidRole,
	}
}
