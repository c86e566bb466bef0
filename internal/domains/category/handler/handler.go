package handler

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"reviewhub-backend/internal/domains/category/model"
	"reviewhub-backend/internal/domains/category/service"
	"reviewhub-backend/internal/shared/response"
)

type CategoryHandler struct {
	categoryService service.ServiceInterface
}

func NewCategoryHandler(categoryService service.ServiceInterface) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategory creates a category
// POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	response.Created(c, "Category created", category)
}

// GetCategory gets a category by slug
// GET /api/v1/categories/:slug
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	response.Success(c, "Category retrieved", category)
}

// ListCategories lists categories
// GET /api/v1/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var req model.ListCategoriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid query parameters", err.Error())
		return
	}

	result, err := h.categoryService.ListCategories(c.Request.Context(), req)
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	response.Success(c, "Categories retrieved", result)
}

// DeleteCategory deletes a category by slug
// DELETE /api/v1/categories/:slug
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.categoryService.DeleteCategory(c.Request.Context(), c.Param("slug")); err != nil {
		respondCategoryError(c, err)
		return
	}

	response.NoContent(c)
}

func respondCategoryError(c *gin.Context, err error) {
	var catErr *model.CategoryError
	if errors.As(err, &catErr) {
		switch catErr.Code {
		case model.ErrCodeCategoryNotFound:
			response.NotFound(c, catErr.Code, catErr.Message)
		case model.ErrCodeDuplicateSlug:
			response.Conflict(c, catErr.Code, catErr.Message)
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
