package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	categorymodel "reviewhub-backend/internal/domains/category/model"
	categoryrepo "reviewhub-backend/internal/domains/category/repository"
	genremodel "reviewhub-backend/internal/domains/genre/model"
	genrerepo "reviewhub-backend/internal/domains/genre/repository"
	reviewmodel "reviewhub-backend/internal/domains/review/model"
	reviewrepo "reviewhub-backend/internal/domains/review/repository"
	"reviewhub-backend/internal/domains/title/model"
	"reviewhub-backend/internal/domains/title/repository"
	"reviewhub-backend/pkg/cache"
	"reviewhub-backend/pkg/database"
)

type ServiceInterface interface {
	CreateTitle(ctx context.Context, req model.CreateTitleRequest) (*model.TitleResponse, error)
	GetTitle(ctx context.Context, id uuid.UUID) (*model.TitleResponse, error)
	ListTitles(ctx context.Context, req model.ListTitlesRequest) (*model.ListTitlesResponse, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, req model.UpdateTitleRequest) (*model.TitleResponse, error)
	DeleteTitle(ctx context.Context, id uuid.UUID) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	ledgerRepo   reviewrepo.LedgerRepository
	categoryRepo categoryrepo.CategoryRepository
	genreRepo    genrerepo.GenreRepository
	txRunner     database.TxRunner
	cache        cache.Cache
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	ledgerRepo reviewrepo.LedgerRepository,
	categoryRepo categoryrepo.CategoryRepository,
	genreRepo genrerepo.GenreRepository,
	txRunner database.TxRunner,
	cache cache.Cache,
) ServiceInterface {
	return &titleService{
		titleRepo:    titleRepo,
		ledgerRepo:   ledgerRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		txRunner:     txRunner,
		cache:        cache,
	}
}

// =====================================================
// CREATE TITLE
// =====================================================

func (s *titleService) CreateTitle(ctx context.Context, req model.CreateTitleRequest) (*model.TitleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	genreIDs, err := s.resolveGenres(ctx, req.Genres)
	if err != nil {
		return nil, err
	}

	title := &model.Title{
		ID:          uuid.New(),
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  categoryID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	// A title is born with an empty ledger; every review transaction
	// after this point assumes the ledger row exists.
	err = s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.titleRepo.Insert(ctx, tx, title, genreIDs); err != nil {
			return err
		}
		return s.ledgerRepo.Create(ctx, tx, title.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTitle(ctx, title.ID)
}

// =====================================================
// GET TITLE
// =====================================================

func (s *titleService) GetTitle(ctx context.Context, id uuid.UUID) (*model.TitleResponse, error) {
	cacheKey := model.DetailCacheKey(id)

	if s.cache != nil {
		var cached model.TitleResponse
		if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	detail, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrTitleNotFound) {
			return nil, model.NewTitleNotFoundError()
		}
		return nil, err
	}

	resp := buildTitleResponse(detail)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp, model.DetailCacheTTL); err != nil {
			log.Warn().Err(err).Str("title_id", id.String()).Msg("failed to cache title detail")
		}
	}

	return resp, nil
}

// =====================================================
// LIST TITLES
// =====================================================

func (s *titleService) ListTitles(ctx context.Context, req model.ListTitlesRequest) (*model.ListTitlesResponse, error) {
	req.Normalize()

	filter := model.TitleFilter{
		Name:         req.Name,
		CategorySlug: req.Category,
		GenreSlug:    req.Genre,
		Year:         req.Year,
	}

	offset := (req.Page - 1) * req.Limit
	details, total, err := s.titleRepo.List(ctx, filter, req.Limit, offset)
	if err != nil {
		return nil, err
	}

	titles := make([]model.TitleResponse, 0, len(details))
	for i := range details {
		titles = append(titles, *buildTitleResponse(&details[i]))
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &model.ListTitlesResponse{
		Titles:     titles,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// =====================================================
// UPDATE TITLE
// =====================================================

func (s *titleService) UpdateTitle(ctx context.Context, id uuid.UUID, req model.UpdateTitleRequest) (*model.TitleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	detail, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrTitleNotFound) {
			return nil, model.NewTitleNotFoundError()
		}
		return nil, err
	}

	title := detail.Title
	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		categoryID, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = categoryID
	}

	var genreIDs []uuid.UUID
	if req.Genres != nil {
		genreIDs, err = s.resolveGenres(ctx, *req.Genres)
		if err != nil {
			return nil, err
		}
	}

	title.UpdatedAt = time.Now()

	err = s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.titleRepo.Update(ctx, tx, &title); err != nil {
			return err
		}
		if req.Genres != nil {
			return s.titleRepo.ReplaceGenres(ctx, tx, id, genreIDs)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrTitleNotFound) {
			return nil, model.NewTitleNotFoundError()
		}
		return nil, err
	}

	s.invalidateCache(ctx, id)

	return s.GetTitle(ctx, id)
}

// =====================================================
// DELETE TITLE
// =====================================================

func (s *titleService) DeleteTitle(ctx context.Context, id uuid.UUID) error {
	// The ledger goes first so no review transaction can adjust a
	// counter for a title that is about to vanish.
	err := s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.ledgerRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.titleRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, model.ErrTitleNotFound) {
			return model.NewTitleNotFoundError()
		}
		return err
	}

	s.invalidateCache(ctx, id)

	return nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*uuid.UUID, error) {
	if slug == "" {
		return nil, nil
	}

	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, categorymodel.ErrCategoryNotFound) {
			return nil, model.NewUnknownCategoryError(slug)
		}
		return nil, err
	}

	return &category.ID, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]uuid.UUID, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	// Dedupe so a repeated slug cannot trip the count check below
	seen := make(map[string]struct{}, len(slugs))
	unique := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		unique = append(unique, slug)
	}

	genres, err := s.genreRepo.GetBySlugs(ctx, unique)
	if err != nil {
		if errors.Is(err, genremodel.ErrGenreNotFound) {
			return nil, model.NewUnknownGenreError(missingSlug(unique, genres))
		}
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(genres))
	for _, genre := range genres {
		ids = append(ids, genre.ID)
	}

	return ids, nil
}

func missingSlug(requested []string, found []genremodel.Genre) string {
	existing := make(map[string]struct{}, len(found))
	for _, genre := range found {
		existing[genre.Slug] = struct{}{}
	}
	for _, slug := range requested {
		if _, ok := existing[slug]; !ok {
			return slug
		}
	}
	return ""
}

func buildTitleResponse(detail *model.TitleDetail) *model.TitleResponse {
	resp := &model.TitleResponse{
		ID:          detail.ID,
		Name:        detail.Name,
		Year:        detail.Year,
		Description: detail.Description,
		Rating: reviewmodel.RatingFromLedger(&reviewmodel.ScoreLedger{
			TitleID:   detail.ID,
			SumVote:   detail.SumVote,
			CountVote: detail.CountVote,
		}),
		Genres:    make([]model.GenreInfo, 0, len(detail.Genres)),
		CreatedAt: detail.CreatedAt,
		UpdatedAt: detail.UpdatedAt,
	}

	if detail.Category != nil {
		resp.Category = &model.CategoryInfo{
			Name: detail.Category.Name,
			Slug: detail.Category.Slug,
		}
	}

	for _, genre := range detail.Genres {
		resp.Genres = append(resp.Genres, model.GenreInfo{
			Name: genre.Name,
			Slug: genre.Slug,
		})
	}

	return resp
}

func (s *titleService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, model.DetailCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("title_id", id.String()).Msg("failed to invalidate title cache")
	}
}
