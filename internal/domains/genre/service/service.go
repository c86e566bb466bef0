package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"reviewhub-backend/internal/domains/genre/model"
	"reviewhub-backend/internal/domains/genre/repository"
	"reviewhub-backend/internal/shared/utils"
)

type ServiceInterface interface {
	CreateGenre(ctx context.Context, req model.CreateGenreRequest) (*model.Genre, error)
	GetGenre(ctx context.Context, slug string) (*model.Genre, error)
	ListGenres(ctx context.Context, req model.ListGenresRequest) (*model.ListGenresResponse, error)
	DeleteGenre(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) ServiceInterface {
	return &genreService{repo: repo}
}

func (s *genreService) CreateGenre(ctx context.Context, req model.CreateGenreRequest) (*model.Genre, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}

	genre := &model.Genre{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      slug,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, genre); err != nil {
		if errors.Is(err, model.ErrDuplicateSlug) {
			return nil, model.NewDuplicateSlugError(slug)
		}
		return nil, err
	}

	return genre, nil
}

func (s *genreService) GetGenre(ctx context.Context, slug string) (*model.Genre, error) {
	genre, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, model.ErrGenreNotFound) {
			return nil, model.NewGenreNotFoundError(slug)
		}
		return nil, err
	}
	return genre, nil
}

func (s *genreService) ListGenres(ctx context.Context, req model.ListGenresRequest) (*model.ListGenresResponse, error) {
	req.Normalize()

	offset := (req.Page - 1) * req.Limit
	genres, total, err := s.repo.List(ctx, req.Search, req.Limit, offset)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &model.ListGenresResponse{
		Genres:     genres,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *genreService) DeleteGenre(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, model.ErrGenreNotFound) {
			return model.NewGenreNotFoundError(slug)
		}
		return err
	}
	return nil
}
