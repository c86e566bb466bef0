package handler

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reviewhub-backend/internal/domains/comment/model"
	"reviewhub-backend/internal/domains/comment/service"
	"reviewhub-backend/internal/shared/middleware"
	"reviewhub-backend/internal/shared/policy"
	"reviewhub-backend/internal/shared/response"
	"reviewhub-backend/internal/shared/utils"
)

type CommentHandler struct {
	commentService service.ServiceInterface
}

func NewCommentHandler(commentService service.ServiceInterface) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateComment creates a comment under a review
// POST /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	titleID, reviewID, ok := nestedIDs(c)
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	actor := middleware.ActorFromContext(c)
	result, err := h.commentService.CreateComment(c.Request.Context(), actor, titleID, reviewID, req)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	response.Created(c, "Comment created", result)
}

// GetComment gets one comment
// GET /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) GetComment(c *gin.Context) {
	titleID, reviewID, ok := nestedIDs(c)
	if !ok {
		return
	}
	commentID, ok := pathUUID(c, "comment_id")
	if !ok {
		return
	}

	result, err := h.commentService.GetComment(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	response.Success(c, "Comment retrieved", result)
}

// ListComments lists a review's comments
// GET /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	titleID, reviewID, ok := nestedIDs(c)
	if !ok {
		return
	}

	var req model.ListCommentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid query parameters", err.Error())
		return
	}

	result, err := h.commentService.ListComments(c.Request.Context(), titleID, reviewID, req)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	response.Success(c, "Comments retrieved", result)
}

// UpdateComment updates a comment
// PATCH /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	titleID, reviewID, ok := nestedIDs(c)
	if !ok {
		return
	}
	commentID, ok := pathUUID(c, "comment_id")
	if !ok {
		return
	}

	var req model.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	actor := middleware.ActorFromContext(c)
	result, err := h.commentService.UpdateComment(c.Request.Context(), actor, titleID, reviewID, commentID, req)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	response.Success(c, "Comment updated", result)
}

// DeleteComment deletes a comment
// DELETE /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	titleID, reviewID, ok := nestedIDs(c)
	if !ok {
		return
	}
	commentID, ok := pathUUID(c, "comment_id")
	if !ok {
		return
	}

	actor := middleware.ActorFromContext(c)
	if err := h.commentService.DeleteComment(c.Request.Context(), actor, titleID, reviewID, commentID); err != nil {
		respondCommentError(c, err)
		return
	}

	response.NoContent(c)
}

// =====================================================
// HELPERS
// =====================================================

func nestedIDs(c *gin.Context) (titleID, reviewID uuid.UUID, ok bool) {
	titleID, ok = pathUUID(c, "title_id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	reviewID, ok = pathUUID(c, "review_id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return titleID, reviewID, true
}

func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := utils.ParseStringToUUID(c.Param(param))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "invalid "+param, nil)
		return uuid.Nil, false
	}
	return id, true
}

func respondCommentError(c *gin.Context, err error) {
	if errors.Is(err, policy.ErrUnauthenticated) {
		response.Unauthorized(c, "AUTH_001", "authentication required")
		return
	}
	if errors.Is(err, policy.ErrForbidden) {
		response.Forbidden(c, "AUTH_006", "insufficient permissions")
		return
	}

	var commentErr *model.CommentError
	if errors.As(err, &commentErr) {
		switch commentErr.Code {
		case model.ErrCodeCommentNotFound, model.ErrCodeReviewNotFound:
			response.NotFound(c, commentErr.Code, commentErr.Message)
		default:
			response.InternalServerError(c, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}

	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.BadRequest(c, "VALIDATION_ERROR", "validation failed", vErrs)
		return
	}

	response.InternalServerError(c, "INTERNAL_ERROR", "Internal server error")
}
