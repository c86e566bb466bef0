package handler

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"reviewhub-backend/internal/domains/genre/model"
	"reviewhub-backend/internal/domains/genre/service"
	"reviewhub-backend/internal/shared/response"
)

type GenreHandler struct {
	genreService service.ServiceInterface
}

func NewGenreHandler(genreService service.ServiceInterface) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

// CreateGenre creates a genre
// POST /api/v1/genres
func (h *GenreHandler) CreateGenre(c *gin.Context) {
	var req model.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	genre, err := h.genreService.CreateGenre(c.Request.Context(), req)
	if err != nil {
		respondGenreError(c, err)
		return
	}

	response.Created(c, "Genre created", genre)
}

// GetGenre gets a genre by slug
// GET /api/v1/genres/:slug
func (h *GenreHandler) GetGenre(c *gin.Context) {
	genre, err := h.genreService.GetGenre(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondGenreError(c, err)
		return
	}

	response.Success(c, "Genre retrieved", genre)
}

// ListGenres lists genres
// GET /api/v1/genres
func (h *GenreHandler) ListGenres(c *gin.Context) {
	var req model.ListGenresRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid query parameters", err.Error())
		return
	}

	result, err := h.genreService.ListGenres(c.Request.Context(), req)
	if err != nil {
		respondGenreError(c, err)
		return
	}

	response.Success(c, "Genres retrieved", result)
}

// DeleteGenre deletes a genre by slug
// DELETE /api/v1/genres/:slug
func (h *GenreHandler) DeleteGenre(c *gin.Context) {
	if err := h.genreService.DeleteGenre(c.Request.Context(), c.Param("slug")); err != nil {
		respondGenreError(c, err)
		return
	}

	response.NoContent(c)
}

func respondGenreError(c *gin.Context, err error) {
	var genreErr *model.GenreError
	if errors.As(err, &genreErr) {
		switch genreErr.Code {
		case model.ErrCodeGenreNotFound:
			response.NotFound(c, genreErr.Code, genreErr.Message)
		case model.ErrCodeDuplicateSlug:
			response.Conflict(c, genreErr.Code, genreErr.Message)
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
