package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"reviewhub-backend/internal/domains/review/model"
	"reviewhub-backend/internal/domains/review/repository"
	titlemodel "reviewhub-backend/internal/domains/title/model"
	"reviewhub-backend/internal/shared/policy"
	"reviewhub-backend/pkg/cache"
	"reviewhub-backend/pkg/database"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type reviewService struct {
	reviewRepo repository.ReviewRepository
	ledgerRepo repository.LedgerRepository
	txRunner   database.TxRunner
	cache      cache.Cache
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	ledgerRepo repository.LedgerRepository,
	txRunner database.TxRunner,
	cache cache.Cache,
) ServiceInterface {
	return &reviewService{
		reviewRepo: reviewRepo,
		ledgerRepo: ledgerRepo,
		txRunner:   txRunner,
		cache:      cache,
	}
}

// =====================================================
// CREATE REVIEW
// =====================================================

func (s *reviewService) CreateReview(
	ctx context.Context,
	actor policy.Actor,
	titleID uuid.UUID,
	req model.CreateReviewRequest,
) (*model.ReviewResponse, error) {
	// Step 1: Validate before touching any state
	if err := req.Validate(); err != nil {
		if req.Score < model.MinScore || req.Score > model.MaxScore {
			return nil, model.NewInvalidScoreError(req.Score)
		}
		return nil, err
	}

	if err := policy.Allow(actor, policy.ActionCreate, policy.ResourceReview); err != nil {
		return nil, err
	}

	// Step 2: The title must exist before we open the transaction
	exists, err := s.reviewRepo.TitleExists(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("failed to check title: %w", err)
	}
	if !exists {
		return nil, model.NewTitleNotFoundError()
	}

	review := &model.Review{
		ID:        uuid.New(),
		TitleID:   titleID,
		AuthorID:  actor.ID,
		Text:      req.Text,
		Score:     req.Score,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Step 3: Insert the review and grow the ledger atomically.
	// If either fails, neither happened.
	err = s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		_, err := s.reviewRepo.GetByTitleAndAuthor(ctx, tx, titleID, actor.ID)
		if err == nil {
			return model.NewDuplicateReviewError()
		}
		if !errors.Is(err, model.ErrReviewNotFound) {
			return fmt.Errorf("failed to check existing review: %w", err)
		}

		if err := s.reviewRepo.Insert(ctx, tx, review); err != nil {
			// The unique index catches the race the check above
			// cannot see.
			if errors.Is(err, model.ErrDuplicateReview) {
				return model.NewDuplicateReviewError()
			}
			if errors.Is(err, model.ErrTitleNotFound) {
				return model.NewTitleNotFoundError()
			}
			return err
		}

		if _, err := s.ledgerRepo.Adjust(ctx, tx, titleID, int64(review.Score), 1); err != nil {
			if errors.Is(err, model.ErrLedgerMissing) {
				return model.NewLedgerMissingError()
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTitleCache(ctx, titleID)

	return s.loadResponse(ctx, review.ID)
}

// =====================================================
// GET REVIEW
// =====================================================

func (s *reviewService) GetReview(
	ctx context.Context,
	titleID, reviewID uuid.UUID,
) (*model.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, model.NewReviewNotFoundError()
		}
		return nil, err
	}

	// Nested route: a review is only addressable under its own title
	if review.TitleID != titleID {
		return nil, model.NewReviewNotFoundError()
	}

	return buildResponse(review), nil
}

// =====================================================
// LIST REVIEWS
// =====================================================

func (s *reviewService) ListReviews(
	ctx context.Context,
	titleID uuid.UUID,
	req model.ListReviewsRequest,
) (*model.ListReviewsResponse, error) {
	req.Normalize()

	exists, err := s.reviewRepo.TitleExists(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("failed to check title: %w", err)
	}
	if !exists {
		return nil, model.NewTitleNotFoundError()
	}

	offset := (req.Page - 1) * req.Limit
	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, req.Limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]model.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *buildResponse(&reviews[i]))
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &model.ListReviewsResponse{
		Reviews:    responses,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// =====================================================
// UPDATE REVIEW
// =====================================================

func (s *reviewService) UpdateReview(
	ctx context.Context,
	actor policy.Actor,
	titleID, reviewID uuid.UUID,
	req model.UpdateReviewRequest,
) (*model.ReviewResponse, error) {
	// Step 1: Validate before touching any state
	if err := req.Validate(); err != nil {
		if req.Score != nil && (*req.Score < model.MinScore || *req.Score > model.MaxScore) {
			return nil, model.NewInvalidScoreError(*req.Score)
		}
		return nil, err
	}

	// Step 2: Apply review change and ledger delta in one transaction
	err := s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		review, err := s.reviewRepo.GetByIDForUpdate(ctx, tx, reviewID)
		if err != nil {
			if errors.Is(err, model.ErrReviewNotFound) {
				return model.NewReviewNotFoundError()
			}
			return err
		}
		if review.TitleID != titleID {
			return model.NewReviewNotFoundError()
		}

		if err := policy.AllowObject(actor, policy.ActionUpdate, policy.ResourceReview, review.AuthorID); err != nil {
			return err
		}

		oldScore := review.Score
		if req.Text != nil {
			review.Text = *req.Text
		}
		if req.Score != nil {
			review.Score = *req.Score
		}
		review.UpdatedAt = time.Now()

		if err := s.reviewRepo.Update(ctx, tx, review); err != nil {
			return err
		}

		// Only the net score delta moves; the vote count stays put
		if delta := int64(review.Score - oldScore); delta != 0 {
			if _, err := s.ledgerRepo.Adjust(ctx, tx, titleID, delta, 0); err != nil {
				if errors.Is(err, model.ErrLedgerMissing) {
					return model.NewLedgerMissingError()
				}
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTitleCache(ctx, titleID)

	return s.loadResponse(ctx, reviewID)
}

// =====================================================
// DELETE REVIEW
// =====================================================

func (s *reviewService) DeleteReview(
	ctx context.Context,
	actor policy.Actor,
	titleID, reviewID uuid.UUID,
) error {
	err := s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		review, err := s.reviewRepo.GetByIDForUpdate(ctx, tx, reviewID)
		if err != nil {
			if errors.Is(err, model.ErrReviewNotFound) {
				return model.NewReviewNotFoundError()
			}
			return err
		}
		if review.TitleID != titleID {
			return model.NewReviewNotFoundError()
		}

		if err := policy.AllowObject(actor, policy.ActionDelete, policy.ResourceReview, review.AuthorID); err != nil {
			return err
		}

		if err := s.reviewRepo.Delete(ctx, tx, reviewID); err != nil {
			return err
		}

		// Back the vote out so the rating reflects remaining reviews
		if _, err := s.ledgerRepo.Adjust(ctx, tx, titleID, -int64(review.Score), -1); err != nil {
			if errors.Is(err, model.ErrLedgerMissing) {
				return model.NewLedgerMissingError()
			}
			return err
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateTitleCache(ctx, titleID)

	return nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *reviewService) loadResponse(ctx context.Context, reviewID uuid.UUID) (*model.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return buildResponse(review), nil
}

func buildResponse(review *model.ReviewWithAuthor) *model.ReviewResponse {
	return &model.ReviewResponse{
		ID:      review.ID,
		TitleID: review.TitleID,
		Author: model.AuthorInfo{
			ID:       review.AuthorID,
			Username: review.AuthorUsername,
		},
		Text:      review.Text,
		Score:     review.Score,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

// invalidateTitleCache drops the cached title detail; its rating just
// changed. Best effort, a stale miss only costs one DB read.
func (s *reviewService) invalidateTitleCache(ctx context.Context, titleID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, titlemodel.DetailCacheKey(titleID)); err != nil {
		log.Warn().Err(err).Str("title_id", titleID.String()).Msg("failed to invalidate title cache")
	}
}
