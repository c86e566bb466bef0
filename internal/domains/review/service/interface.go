package service

import (
	"context"

	"github.com/google/uuid"

	"reviewhub-backend/internal/domains/review/model"
	"reviewhub-backend/internal/shared/policy"
)

// ServiceInterface is the review lifecycle. All operations are scoped
// to a title because reviews are only addressable through one.
type ServiceInterface interface {
	// CreateReview creates the actor's review for a title and adds its
	// score to the title's ledger in the same transaction.
	CreateReview(ctx context.Context, actor policy.Actor, titleID uuid.UUID, req model.CreateReviewRequest) (*model.ReviewResponse, error)

	// GetReview gets one review under a title.
	GetReview(ctx context.Context, titleID, reviewID uuid.UUID) (*model.ReviewResponse, error)

	// ListReviews lists a title's reviews, newest first.
	ListReviews(ctx context.Context, titleID uuid.UUID, req model.ListReviewsRequest) (*model.ListReviewsResponse, error)

	// UpdateReview updates text and/or score; a score change applies
	// the net delta to the ledger in the same transaction.
	UpdateReview(ctx context.Context, actor policy.Actor, titleID, reviewID uuid.UUID, req model.UpdateReviewRequest) (*model.ReviewResponse, error)

	// DeleteReview removes the review and backs its score out of the
	// ledger in the same transaction.
	DeleteReview(ctx context.Context, actor policy.Actor, titleID, reviewID uuid.UUID) error
}
