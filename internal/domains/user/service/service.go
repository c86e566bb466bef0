package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"reviewhub-backend/internal/domains/user/model"
	"reviewhub-backend/internal/domains/user/repository"
	"reviewhub-backend/internal/infrastructure/queue"
	"reviewhub-backend/internal/shared/policy"
	"reviewhub-backend/pkg/cache"
	"reviewhub-backend/pkg/database"
	"reviewhub-backend/pkg/jwt"
)

type ServiceInterface interface {
	// RegisterByEmail upserts the account and dispatches a
	// confirmation code to the address.
	RegisterByEmail(ctx context.Context, req model.RequestCodeRequest) (*model.RegisteredResponse, error)

	// IssueToken exchanges email + confirmation code for a token pair.
	IssueToken(ctx context.Context, req model.IssueTokenRequest) (*model.TokenResponse, error)

	// RefreshToken trades a valid refresh token for a fresh pair.
	RefreshToken(ctx context.Context, req model.RefreshTokenRequest) (*model.TokenResponse, error)

	GetMe(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.UserResponse, error)

	// Admin surface
	ListUsers(ctx context.Context, req model.ListUsersRequest) (*model.ListUsersResponse, error)
	GetUserByUsername(ctx context.Context, username string) (*model.UserResponse, error)
	AdminUpdateUser(ctx context.Context, username string, req model.AdminUpdateUserRequest) (*model.UserResponse, error)
	AdminDeleteUser(ctx context.Context, username string) error
}

type userService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
	cache      cache.Cache
	enqueuer   queue.Enqueuer
	txRunner   database.TxRunner
	codeTTL    time.Duration
}

func NewUserService(
	userRepo repository.UserRepository,
	jwtManager *jwt.Manager,
	cache cache.Cache,
	enqueuer queue.Enqueuer,
	txRunner database.TxRunner,
	codeTTL time.Duration,
) ServiceInterface {
	return &userService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		cache:      cache,
		enqueuer:   enqueuer,
		txRunner:   txRunner,
		codeTTL:    codeTTL,
	}
}

// =====================================================
// REGISTRATION
// =====================================================

func (s *userService) RegisterByEmail(ctx context.Context, req model.RequestCodeRequest) (*model.RegisteredResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 1: Find or create the account. Re-requesting a code for a
	// known address is a normal sign-in, not an error.
	_, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			return nil, err
		}

		user := &model.User{
			ID:        uuid.New(),
			Email:     req.Email,
			Role:      string(policy.RoleUser),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if req.Username != "" {
			user.Username = &req.Username
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, model.ErrDuplicateUsername) {
				return nil, model.NewDuplicateUsernameError(req.Username)
			}
			if errors.Is(err, model.ErrDuplicateEmail) {
				// Lost a race with a concurrent registration; the
				// account exists now, which is all we need.
			} else {
				return nil, err
			}
		}
	}

	// Step 2: Issue a fresh code; only its hash is stored
	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate confirmation code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash confirmation code: %w", err)
	}

	if err := s.cache.Set(ctx, model.CodeCacheKey(req.Email), string(hash), s.codeTTL); err != nil {
		return nil, fmt.Errorf("failed to store confirmation code: %w", err)
	}

	// Step 3: Deliver asynchronously; the HTTP path never blocks on SMTP
	if err := s.enqueuer.EnqueueConfirmationCode(ctx, req.Email, code); err != nil {
		return nil, fmt.Errorf("failed to enqueue confirmation email: %w", err)
	}

	log.Info().Str("email", req.Email).Msg("confirmation code dispatched")

	return &model.RegisteredResponse{Email: req.Email}, nil
}

// =====================================================
// TOKEN ISSUANCE
// =====================================================

func (s *userService) IssueToken(ctx context.Context, req model.IssueTokenRequest) (*model.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var storedHash string
	found, err := s.cache.Get(ctx, model.CodeCacheKey(req.Email), &storedHash)
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmation code: %w", err)
	}
	if !found {
		return nil, model.NewInvalidCodeError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.ConfirmationCode)); err != nil {
		return nil, model.NewInvalidCodeError()
	}

	// Single use: a verified code is gone
	if err := s.cache.Delete(ctx, model.CodeCacheKey(req.Email)); err != nil {
		log.Warn().Err(err).Msg("failed to drop used confirmation code")
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewInvalidCodeError()
		}
		return nil, err
	}

	return s.issuePair(user)
}

func (s *userService) RefreshToken(ctx context.Context, req model.RefreshTokenRequest) (*model.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.jwtManager.ValidateRefreshToken(req.Refresh)
	if err != nil {
		return nil, model.NewInvalidRefreshError()
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.NewInvalidRefreshError()
	}

	// Reload the account so a role change since issuance takes effect
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewInvalidRefreshError()
		}
		return nil, err
	}

	return s.issuePair(user)
}

func (s *userService) issuePair(user *model.User) (*model.TokenResponse, error) {
	access, err := s.jwtManager.GenerateAccessToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.TokenResponse{Token: access, Refresh: refresh}, nil
}

// =====================================================
// PROFILE
// =====================================================

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, err
	}
	return buildUserResponse(user), nil
}

func (s *userService) UpdateMe(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, err
	}

	applyProfileUpdate(user, req)

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicateUsername) {
			taken := ""
			if req.Username != nil {
				taken = *req.Username
			}
			return nil, model.NewDuplicateUsernameError(taken)
		}
		return nil, err
	}

	return buildUserResponse(user), nil
}

// =====================================================
// ADMIN
// =====================================================

func (s *userService) ListUsers(ctx context.Context, req model.ListUsersRequest) (*model.ListUsersResponse, error) {
	req.Normalize()

	offset := (req.Page - 1) * req.Limit
	users, total, err := s.userRepo.List(ctx, req.Search, req.Limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *buildUserResponse(&users[i]))
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &model.ListUsersResponse{
		Users:      responses,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*model.UserResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, err
	}
	return buildUserResponse(user), nil
}

func (s *userService) AdminUpdateUser(ctx context.Context, username string, req model.AdminUpdateUserRequest) (*model.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Role != nil && !policy.ValidRole(*req.Role) {
		return nil, model.NewInvalidRoleError(*req.Role)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, err
	}

	applyProfileUpdate(user, req.UpdateProfileRequest)
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicateUsername) {
			taken := ""
			if req.Username != nil {
				taken = *req.Username
			}
			return nil, model.NewDuplicateUsernameError(taken)
		}
		return nil, err
	}

	return buildUserResponse(user), nil
}

func (s *userService) AdminDeleteUser(ctx context.Context, username string) error {
	err := s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		return s.userRepo.DeleteByUsername(ctx, tx, username)
	})
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.NewUserNotFoundError()
		}
		return err
	}
	return nil
}

// =====================================================
// HELPERS
// =====================================================

func applyProfileUpdate(user *model.User, req model.UpdateProfileRequest) {
	if req.Username != nil {
		user.Username = req.Username
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	user.UpdatedAt = time.Now()
}

func buildUserResponse(user *model.User) *model.UserResponse {
	return &model.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// generateCode produces a zero-padded numeric confirmation code.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < model.ConfirmationCodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", model.ConfirmationCodeLength, n), nil
}
