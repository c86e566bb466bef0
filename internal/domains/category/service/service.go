package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"reviewhub-backend/internal/domains/category/model"
	"reviewhub-backend/internal/domains/category/repository"
	"reviewhub-backend/internal/shared/utils"
)

type ServiceInterface interface {
	CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error)
	GetCategory(ctx context.Context, slug string) (*model.Category, error)
	ListCategories(ctx context.Context, req model.ListCategoriesRequest) (*model.ListCategoriesResponse, error)
	DeleteCategory(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) ServiceInterface {
	return &categoryService{repo: repo}
}

func (s *categoryService) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}

	category := &model.Category{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      slug,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, model.ErrDuplicateSlug) {
			return nil, model.NewDuplicateSlugError(slug)
		}
		return nil, err
	}

	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, slug string) (*model.Category, error) {
	category, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, model.ErrCategoryNotFound) {
			return nil, model.NewCategoryNotFoundError(slug)
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, req model.ListCategoriesRequest) (*model.ListCategoriesResponse, error) {
	req.Normalize()

	offset := (req.Page - 1) * req.Limit
	categories, total, err := s.repo.List(ctx, req.Search, req.Limit, offset)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &model.ListCategoriesResponse{
		Categories: categories,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, model.ErrCategoryNotFound) {
			return model.NewCategoryNotFoundError(slug)
		}
		return err
	}
	return nil
}
