package handler

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reviewhub-backend/internal/domains/title/model"
	"reviewhub-backend/internal/domains/title/service"
	"reviewhub-backend/internal/shared/response"
	"reviewhub-backend/internal/shared/utils"
)

type TitleHandler struct {
	titleService service.ServiceInterface
}

func NewTitleHandler(titleService service.ServiceInterface) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

// CreateTitle creates a title
// POST /api/v1/titles
func (h *TitleHandler) CreateTitle(c *gin.Context) {
	var req model.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	title, err := h.titleService.CreateTitle(c.Request.Context(), req)
	if err != nil {
		respondTitleError(c, err)
		return
	}

	response.Created(c, "Title created", title)
}

// GetTitle gets a title with its rating
// GET /api/v1/titles/:title_id
func (h *TitleHandler) GetTitle(c *gin.Context) {
	id, ok := pathUUID(c, "title_id")
	if !ok {
		return
	}

	title, err := h.titleService.GetTitle(c.Request.Context(), id)
	if err != nil {
		respondTitleError(c, err)
		return
	}

	response.Success(c, "Title retrieved", title)
}

// ListTitles lists titles with filters
// GET /api/v1/titles
func (h *TitleHandler) ListTitles(c *gin.Context) {
	var req model.ListTitlesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid query parameters", err.Error())
		return
	}

	result, err := h.titleService.ListTitles(c.Request.Context(), req)
	if err != nil {
		respondTitleError(c, err)
		return
	}

	response.Success(c, "Titles retrieved", result)
}

// UpdateTitle updates a title
// PATCH /api/v1/titles/:title_id
func (h *TitleHandler) UpdateTitle(c *gin.Context) {
	id, ok := pathUUID(c, "title_id")
	if !ok {
		return
	}

	var req model.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	title, err := h.titleService.UpdateTitle(c.Request.Context(), id, req)
	if err != nil {
		respondTitleError(c, err)
		return
	}

	response.Success(c, "Title updated", title)
}

// DeleteTitle deletes a title and everything under it
// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) DeleteTitle(c *gin.Context) {
	id, ok := pathUUID(c, "title_id")
	if !ok {
		return
	}

	if err := h.titleService.DeleteTitle(c.Request.Context(), id); err != nil {
		respondTitleError(c, err)
		return
	}

	response.NoContent(c)
}

func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := utils.ParseStringToUUID(c.Param(param))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "invalid "+param, nil)
		return uuid.Nil, false
	}
	return id, true
}

func respondTitleError(c *gin.Context, err error) {
	var titleErr *model.TitleError
	if errors.As(err, &titleErr) {
		switch titleErr.Code {
		case model.ErrCodeTitleNotFound:
			response.NotFound(c, titleErr.Code, titleErr.Message)
		case model.ErrCodeUnknownCategory, model.ErrCodeUnknownGenre:
			// References to nonexistent slugs are a bad request, not
			// a missing resource: the resource here is the title.
			response.BadRequest(c, titleErr.Code, titleErr.Message, nil)
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
