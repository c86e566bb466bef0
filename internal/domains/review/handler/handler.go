package handler

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reviewhub-backend/internal/domains/review/model"
	"reviewhub-backend/internal/domains/review/service"
	"reviewhub-backend/internal/shared/middleware"
	"reviewhub-backend/internal/shared/policy"
	"reviewhub-backend/internal/shared/response"
	"reviewhub-backend/internal/shared/utils"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// =====================================================
// ENDPOINTS
// =====================================================

// CreateReview creates a review for a title
// POST /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	titleID, ok := pathUUID(c, "title_id")
	if !ok {
		return
	}

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	actor := middleware.ActorFromContext(c)
	result, err := h.reviewService.CreateReview(c.Request.Context(), actor, titleID, req)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Created(c, "Review created", result)
}

// GetReview gets one review under a title
// GET /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	titleID, ok := pathUUID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathUUID(c, "review_id")
	if !ok {
		return
	}

	result, err := h.reviewService.GetReview(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, "Review retrieved", result)
}

// ListReviews lists a title's reviews
// GET /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	titleID, ok := pathUUID(c, "title_id")
	if !ok {
		return
	}

	var req model.ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid query parameters", err.Error())
		return
	}

	result, err := h.reviewService.ListReviews(c.Request.Context(), titleID, req)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, "Reviews retrieved", result)
}

// UpdateReview updates the caller's review (moderators may edit any)
// PATCH /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	titleID, ok := pathUUID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathUUID(c, "review_id")
	if !ok {
		return
	}

	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	actor := middleware.ActorFromContext(c)
	result, err := h.reviewService.UpdateReview(c.Request.Context(), actor, titleID, reviewID, req)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	response.Success(c, "Review updated", result)
}

// DeleteReview deletes a review
// DELETE /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	titleID, ok := pathUUID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathUUID(c, "review_id")
	if !ok {
		return
	}

	actor := middleware.ActorFromContext(c)
	if err := h.reviewService.DeleteReview(c.Request.Context(), actor, titleID, reviewID); err != nil {
		respondReviewError(c, err)
		return
	}

	response.NoContent(c)
}

// =====================================================
// HELPERS
// =====================================================

func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := utils.ParseStringToUUID(c.Param(param))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "invalid "+param, nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondReviewError maps service errors to HTTP status codes
func respondReviewError(c *gin.Context, err error) {
	if errors.Is(err, policy.ErrUnauthenticated) {
		response.Unauthorized(c, "AUTH_001", "authentication required")
		return
	}
	if errors.Is(err, policy.ErrForbidden) {
		response.Forbidden(c, "AUTH_006", "insufficient permissions")
		return
	}

	var reviewErr *model.ReviewError
	if errors.As(err, &reviewErr) {
		switch reviewErr.Code {
		case model.ErrCodeReviewNotFound, model.ErrCodeTitleNotFound:
			response.NotFound(c, reviewErr.Code, reviewErr.Message)
		case model.ErrCodeDuplicateReview:
			response.Conflict(c, reviewErr.Code, reviewErr.Message)
		case model.ErrCodeInvalidScore:
			response.BadRequest(c, reviewErr.Code, reviewErr.Message, nil)
		case model.ErrCodeLedgerMissing:
			response.InternalServerError(c, reviewErr.Code, "Internal server error")
		default:
			response.InternalServerError(c, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}

	// Validation errors from the DTO layer
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.BadRequest(c, "VALIDATION_ERROR", "validation failed", vErrs)
		return
	}

	response.InternalServerError(c, "INTERNAL_ERROR", "Internal server error")
}
