package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reviewhub-backend/internal/domains/comment/model"
	"reviewhub-backend/internal/domains/comment/repository"
	reviewmodel "reviewhub-backend/internal/domains/review/model"
	"reviewhub-backend/internal/shared/policy"
)

type ServiceInterface interface {
	CreateComment(ctx context.Context, actor policy.Actor, titleID, reviewID uuid.UUID, req model.CreateCommentRequest) (*model.CommentResponse, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*model.CommentResponse, error)
	ListComments(ctx context.Context, titleID, reviewID uuid.UUID, req model.ListCommentsRequest) (*model.ListCommentsResponse, error)
	UpdateComment(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID uuid.UUID, req model.UpdateCommentRequest) (*model.CommentResponse, error)
	DeleteComment(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID uuid.UUID) error
}

type commentService struct {
	commentRepo repository.CommentRepository
}

func NewCommentService(commentRepo repository.CommentRepository) ServiceInterface {
	return &commentService{commentRepo: commentRepo}
}

func (s *commentService) CreateComment(
	ctx context.Context,
	actor policy.Actor,
	titleID, reviewID uuid.UUID,
	req model.CreateCommentRequest,
) (*model.CommentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := policy.Allow(actor, policy.ActionCreate, policy.ResourceComment); err != nil {
		return nil, err
	}

	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:        uuid.New(),
		ReviewID:  reviewID,
		AuthorID:  actor.ID,
		Text:      req.Text,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.loadResponse(ctx, comment.ID)
}

func (s *commentService) GetComment(
	ctx context.Context,
	titleID, reviewID, commentID uuid.UUID,
) (*model.CommentResponse, error) {
	comment, err := s.fetchUnderReview(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return buildResponse(comment), nil
}

func (s *commentService) ListComments(
	ctx context.Context,
	titleID, reviewID uuid.UUID,
	req model.ListCommentsRequest,
) (*model.ListCommentsResponse, error) {
	req.Normalize()

	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	offset := (req.Page - 1) * req.Limit
	comments, total, err := s.commentRepo.ListByReview(ctx, reviewID, req.Limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]model.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *buildResponse(&comments[i]))
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &model.ListCommentsResponse{
		Comments:   responses,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *commentService) UpdateComment(
	ctx context.Context,
	actor policy.Actor,
	titleID, reviewID, commentID uuid.UUID,
	req model.UpdateCommentRequest,
) (*model.CommentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.fetchUnderReview(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := policy.AllowObject(actor, policy.ActionUpdate, policy.ResourceComment, existing.AuthorID); err != nil {
		return nil, err
	}

	comment := existing.Comment
	comment.Text = req.Text
	comment.UpdatedAt = time.Now()

	if err := s.commentRepo.Update(ctx, &comment); err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			return nil, model.NewCommentNotFoundError()
		}
		return nil, err
	}

	return s.loadResponse(ctx, commentID)
}

func (s *commentService) DeleteComment(
	ctx context.Context,
	actor policy.Actor,
	titleID, reviewID, commentID uuid.UUID,
) error {
	existing, err := s.fetchUnderReview(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := policy.AllowObject(actor, policy.ActionDelete, policy.ResourceComment, existing.AuthorID); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			return model.NewCommentNotFoundError()
		}
		return err
	}

	return nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *commentService) checkReview(ctx context.Context, titleID, reviewID uuid.UUID) error {
	exists, err := s.commentRepo.ReviewExists(ctx, titleID, reviewID)
	if err != nil {
		return fmt.Errorf("failed to check review: %w", err)
	}
	if !exists {
		return model.NewReviewNotFoundError()
	}
	return nil
}

// fetchUnderReview loads a comment and verifies the whole nested path
// (title -> review -> comment) actually lines up.
func (s *commentService) fetchUnderReview(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*model.CommentWithAuthor, error) {
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			return nil, model.NewCommentNotFoundError()
		}
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, model.NewCommentNotFoundError()
	}

	return comment, nil
}

func (s *commentService) loadResponse(ctx context.Context, commentID uuid.UUID) (*model.CommentResponse, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return buildResponse(comment), nil
}

func buildResponse(comment *model.CommentWithAuthor) *model.CommentResponse {
	return &model.CommentResponse{
		ID:       comment.ID,
		ReviewID: comment.ReviewID,
		Author: reviewmodel.AuthorInfo{
			ID:       comment.AuthorID,
			Username: comment.AuthorUsername,
		},
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}
