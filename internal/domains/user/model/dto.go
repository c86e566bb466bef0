package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// =====================================================
// AUTH DTOs
// =====================================================

// RequestCodeRequest starts passwordless registration or sign-in.
// Username is only used when the email is seen for the first time.
type RequestCodeRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (r RequestCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Username,
			validation.Length(3, 150),
			validation.Match(usernamePattern),
		),
	)
}

// IssueTokenRequest exchanges a confirmation code for a token pair.
type IssueTokenRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

func (r IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.ConfirmationCode, validation.Required),
	)
}

// RefreshTokenRequest trades a refresh token for a fresh pair.
type RefreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

func (r RefreshTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Refresh, validation.Required),
	)
}

// TokenResponse the issued token pair
type TokenResponse struct {
	Token   string `json:"token"`
	Refresh string `json:"refresh"`
}

// RegisteredResponse confirms a confirmation code was dispatched.
type RegisteredResponse struct {
	Email string `json:"email"`
}

// =====================================================
// PROFILE DTOs
// =====================================================

// UpdateProfileRequest updates profile fields; nil keeps the current
// value. Role changes ride on the admin variant only.
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Length(3, 150),
			validation.Match(usernamePattern),
		),
		validation.Field(&r.FirstName, validation.Length(0, 150)),
		validation.Field(&r.LastName, validation.Length(0, 150)),
	)
}

// AdminUpdateUserRequest is the admin variant; it may also change the
// user's role.
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Role *string `json:"role"`
}

// ListUsersRequest request to list users (admin only)
type ListUsersRequest struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (r *ListUsersRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}

// UserResponse user returned to clients
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  *string   `json:"username"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Bio       *string   `json:"bio"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ListUsersResponse paginated user listing
type ListUsersResponse struct {
	Users      []UserResponse `json:"users"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}
