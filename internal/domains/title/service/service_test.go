package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	categorymodel "reviewhub-backend/internal/domains/category/model"
	genremodel "reviewhub-backend/internal/domains/genre/model"
	reviewmodel "reviewhub-backend/internal/domains/review/model"
	"reviewhub-backend/internal/domains/title/model"
	"reviewhub-backend/pkg/database"
)

// =====================================================
// FAKES
// =====================================================

type fakeLedgerRepo struct {
	ledgers map[uuid.UUID]*reviewmodel.ScoreLedger
}

func (f *fakeLedgerRepo) Create(ctx context.Context, tx pgx.Tx, titleID uuid.UUID) error {
	f.ledgers[titleID] = &reviewmodel.ScoreLedger{TitleID: titleID}
	return nil
}

func (f *fakeLedgerRepo) GetByTitle(ctx context.Context, titleID uuid.UUID) (*reviewmodel.ScoreLedger, error) {
	l, ok := f.ledgers[titleID]
	if !ok {
		return nil, reviewmodel.ErrLedgerMissing
	}
	return l, nil
}

func (f *fakeLedgerRepo) Adjust(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, sumDelta, countDelta int64) (*reviewmodel.ScoreLedger, error) {
	l, ok := f.ledgers[titleID]
	if !ok {
		return nil, reviewmodel.ErrLedgerMissing
	}
	l.SumVote += sumDelta
	l.CountVote += countDelta
	return l, nil
}

func (f *fakeLedgerRepo) Delete(ctx context.Context, tx pgx.Tx, titleID uuid.UUID) error {
	delete(f.ledgers, titleID)
	return nil
}

type fakeCategoryRepo struct {
	categories []categorymodel.Category
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *categorymodel.Category) error {
	f.categories = append(f.categories, *category)
	return nil
}

func (f *fakeCategoryRepo) GetBySlug(ctx context.Context, slug string) (*categorymodel.Category, error) {
	for i := range f.categories {
		if f.categories[i].Slug == slug {
			return &f.categories[i], nil
		}
	}
	return nil, categorymodel.ErrCategoryNotFound
}

func (f *fakeCategoryRepo) List(ctx context.Context, search string, limit, offset int) ([]categorymodel.Category, int64, error) {
	return f.categories, int64(len(f.categories)), nil
}

func (f *fakeCategoryRepo) DeleteBySlug(ctx context.Context, slug string) error { return nil }

type fakeGenreRepo struct {
	genres []genremodel.Genre
}

func (f *fakeGenreRepo) Create(ctx context.Context, genre *genremodel.Genre) error {
	f.genres = append(f.genres, *genre)
	return nil
}

func (f *fakeGenreRepo) GetBySlug(ctx context.Context, slug string) (*genremodel.Genre, error) {
	for i := range f.genres {
		if f.genres[i].Slug == slug {
			return &f.genres[i], nil
		}
	}
	return nil, genremodel.ErrGenreNotFound
}

func (f *fakeGenreRepo) GetBySlugs(ctx context.Context, slugs []string) ([]genremodel.Genre, error) {
	var found []genremodel.Genre
	for _, slug := range slugs {
		for i := range f.genres {
			if f.genres[i].Slug == slug {
				found = append(found, f.genres[i])
			}
		}
	}
	if len(found) != len(slugs) {
		return nil, genremodel.ErrGenreNotFound
	}
	return found, nil
}

func (f *fakeGenreRepo) List(ctx context.Context, search string, limit, offset int) ([]genremodel.Genre, int64, error) {
	return f.genres, int64(len(f.genres)), nil
}

func (f *fakeGenreRepo) DeleteBySlug(ctx context.Context, slug string) error { return nil }

// fakeTitleRepo assembles details the way the SQL joins do: category
// and genres resolved by id, counters read from the ledger fake.
type fakeTitleRepo struct {
	titles      map[uuid.UUID]model.Title
	titleGenres map[uuid.UUID][]uuid.UUID

	categoryRepo *fakeCategoryRepo
	genreRepo    *fakeGenreRepo
	ledgerRepo   *fakeLedgerRepo
}

func (f *fakeTitleRepo) detail(title model.Title) *model.TitleDetail {
	d := &model.TitleDetail{Title: title}

	if title.CategoryID != nil {
		for i := range f.categoryRepo.categories {
			if f.categoryRepo.categories[i].ID == *title.CategoryID {
				d.Category = &f.categoryRepo.categories[i]
			}
		}
	}

	for _, genreID := range f.titleGenres[title.ID] {
		for i := range f.genreRepo.genres {
			if f.genreRepo.genres[i].ID == genreID {
				d.Genres = append(d.Genres, f.genreRepo.genres[i])
			}
		}
	}

	if l, ok := f.ledgerRepo.ledgers[title.ID]; ok {
		d.SumVote = l.SumVote
		d.CountVote = l.CountVote
	}

	return d
}

func (f *fakeTitleRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.TitleDetail, error) {
	title, ok := f.titles[id]
	if !ok {
		return nil, model.ErrTitleNotFound
	}
	return f.detail(title), nil
}

func (f *fakeTitleRepo) List(ctx context.Context, filter model.TitleFilter, limit, offset int) ([]model.TitleDetail, int64, error) {
	var details []model.TitleDetail
	for _, title := range f.titles {
		if filter.Year != nil && title.Year != *filter.Year {
			continue
		}
		details = append(details, *f.detail(title))
	}
	return details, int64(len(details)), nil
}

func (f *fakeTitleRepo) Insert(ctx context.Context, tx pgx.Tx, title *model.Title, genreIDs []uuid.UUID) error {
	f.titles[title.ID] = *title
	f.titleGenres[title.ID] = genreIDs
	return nil
}

func (f *fakeTitleRepo) Update(ctx context.Context, tx pgx.Tx, title *model.Title) error {
	if _, ok := f.titles[title.ID]; !ok {
		return model.ErrTitleNotFound
	}
	f.titles[title.ID] = *title
	return nil
}

func (f *fakeTitleRepo) ReplaceGenres(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	f.titleGenres[titleID] = genreIDs
	return nil
}

func (f *fakeTitleRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, ok := f.titles[id]; !ok {
		return model.ErrTitleNotFound
	}
	delete(f.titles, id)
	delete(f.titleGenres, id)
	return nil
}

type fakeCache struct {
	entries map[string][]byte
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

func (f *fakeCache) Ping(ctx context.Context) error                          { return nil }
func (f *fakeCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (f *fakeCache) Exists(ctx context.Context, key string) (bool, error)    { return false, nil }
func (f *fakeCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}
func (f *fakeCache) TTL(ctx context.Context, key string) (time.Duration, error) { return 0, nil }

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, fn database.TxFunc) error { return fn(nil) }

// =====================================================
// FIXTURE
// =====================================================

type titleFixture struct {
	svc        ServiceInterface
	titleRepo  *fakeTitleRepo
	ledgerRepo *fakeLedgerRepo
	cache      *fakeCache
}

func newTitleFixture(t *testing.T) *titleFixture {
	t.Helper()

	categoryRepo := &fakeCategoryRepo{categories: []categorymodel.Category{
		{ID: uuid.New(), Name: "Movies", Slug: "movies"},
		{ID: uuid.New(), Name: "Books", Slug: "books"},
	}}
	genreRepo := &fakeGenreRepo{genres: []genremodel.Genre{
		{ID: uuid.New(), Name: "Drama", Slug: "drama"},
		{ID: uuid.New(), Name: "Comedy", Slug: "comedy"},
	}}
	ledgerRepo := &fakeLedgerRepo{ledgers: make(map[uuid.UUID]*reviewmodel.ScoreLedger)}

	titleRepo := &fakeTitleRepo{
		titles:       make(map[uuid.UUID]model.Title),
		titleGenres:  make(map[uuid.UUID][]uuid.UUID),
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		ledgerRepo:   ledgerRepo,
	}
	cache := &fakeCache{entries: make(map[string][]byte)}

	return &titleFixture{
		svc:        NewTitleService(titleRepo, ledgerRepo, categoryRepo, genreRepo, fakeTxRunner{}, cache),
		titleRepo:  titleRepo,
		ledgerRepo: ledgerRepo,
		cache:      cache,
	}
}

// =====================================================
// CREATE
// =====================================================

func TestCreateTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("creates title with empty ledger", func(t *testing.T) {
		f := newTitleFixture(t)

		resp, err := f.svc.CreateTitle(ctx, model.CreateTitleRequest{
			Name:     "The Long Voyage",
			Year:     2019,
			Category: "movies",
			Genres:   []string{"drama", "comedy"},
		})
		require.NoError(t, err)

		assert.Nil(t, resp.Rating, "a fresh title has no rating")
		require.NotNil(t, resp.Category)
		assert.Equal(t, "movies", resp.Category.Slug)
		assert.Len(t, resp.Genres, 2)

		ledger, ok := f.ledgerRepo.ledgers[resp.ID]
		require.True(t, ok, "ledger row must be created with the title")
		assert.Equal(t, int64(0), ledger.SumVote)
		assert.Equal(t, int64(0), ledger.CountVote)
	})

	t.Run("category and genres are optional", func(t *testing.T) {
		f := newTitleFixture(t)

		resp, err := f.svc.CreateTitle(ctx, model.CreateTitleRequest{Name: "Standalone", Year: 2001})
		require.NoError(t, err)
		assert.Nil(t, resp.Category)
		assert.Empty(t, resp.Genres)
	})

	t.Run("unknown category slug is rejected", func(t *testing.T) {
		f := newTitleFixture(t)

		_, err := f.svc.CreateTitle(ctx, model.CreateTitleRequest{
			Name:     "Nope",
			Year:     2019,
			Category: "podcasts",
		})
		assert.ErrorIs(t, err, model.ErrUnknownCategory)
		assert.Empty(t, f.titleRepo.titles)
	})

	t.Run("unknown genre slug is rejected", func(t *testing.T) {
		f := newTitleFixture(t)

		_, err := f.svc.CreateTitle(ctx, model.CreateTitleRequest{
			Name:   "Nope",
			Year:   2019,
			Genres: []string{"drama", "western"},
		})
		assert.ErrorIs(t, err, model.ErrUnknownGenre)
	})

	t.Run("repeated genre slugs are deduplicated", func(t *testing.T) {
		f := newTitleFixture(t)

		resp, err := f.svc.CreateTitle(ctx, model.CreateTitleRequest{
			Name:   "Echo",
			Year:   2019,
			Genres: []string{"drama", "drama"},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Genres, 1)
	})

	t.Run("rejects years outside the plausible range", func(t *testing.T) {
		f := newTitleFixture(t)

		_, err := f.svc.CreateTitle(ctx, model.CreateTitleRequest{Name: "Ancient", Year: 999})
		assert.Error(t, err)

		_, err = f.svc.CreateTitle(ctx, model.CreateTitleRequest{
			Name: "Future",
			Year: time.Now().Year() + 1,
		})
		assert.Error(t, err)
	})
}

// =====================================================
// GET
// =====================================================

func TestGetTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("rating is the truncated ledger average", func(t *testing.T) {
		f := newTitleFixture(t)

		created, err := f.svc.CreateTitle(ctx, model.CreateTitleRequest{Name: "Rated", Year: 2010})
		require.NoError(t, err)

		f.ledgerRepo.ledgers[created.ID].SumVote = 15
		f.ledgerRepo.ledgers[created.ID].CountVote = 2
		require.NoError(t, f.cache.Delete(ctx, model.DetailCacheKey(created.ID)))

		resp, err := f.svc.GetTitle(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, resp.Rating)
		assert.Equal(t, 7, *resp.Rating)
	})

	t.Run("detail is served from cache once warmed", func(t *testing.T) {
		f := newTitleFixture(t)

		created, err := f.svc.CreateTitle(ctx, model.CreateTitleRequest{Name: "Cached", Year: 2010})
		require.NoError(t, err)

		// Mutate the backing store without invalidating; the stale
		// cached detail must still be returned.
		title := f.titleRepo.titles[created.ID]
		title.Name = "Changed Behind The Cache"
		f.titleRepo.titles[created.ID] = title

		resp, err := f.svc.GetTitle(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cached", resp.Name)
	})

	t.Run("unknown title", func(t *testing.T) {
		f := newTitleFixture(t)

		_, err := f.svc.GetTitle(ctx, uuid.New())
		assert.ErrorIs(t, err, model.ErrTitleNotFound)
	})
}

// =====================================================
// UPDATE AND DELETE
// =====================================================

func TestUpdateTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("update invalidates the cached detail", func(t *testing.T) {
		f := newTitleFixture(t)

		created, err := f.svc.CreateTitle(ctx, model.CreateTitleRequest{Name: "Before", Year: 2010})
		require.NoError(t, err)

		name := "After"
		resp, err := f.svc.UpdateTitle(ctx, created.ID, model.UpdateTitleRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "After", resp.Name)

		// The next read reflects the change as well
		again, err := f.svc.GetTitle(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "After", again.Name)
	})

	t.Run("genres can be replaced", func(t *testing.T) {
		f := newTitleFixture(t)

		created, err := f.svc.CreateTitle(ctx, model.CreateTitleRequest{
			Name:   "Shifting",
			Year:   2010,
			Genres: []string{"drama"},
		})
		require.NoError(t, err)

		genres := []string{"comedy"}
		resp, err := f.svc.UpdateTitle(ctx, created.ID, model.UpdateTitleRequest{Genres: &genres})
		require.NoError(t, err)
		require.Len(t, resp.Genres, 1)
		assert.Equal(t, "comedy", resp.Genres[0].Slug)
	})

	t.Run("unknown title", func(t *testing.T) {
		f := newTitleFixture(t)

		name := "Whatever"
		_, err := f.svc.UpdateTitle(ctx, uuid.New(), model.UpdateTitleRequest{Name: &name})
		assert.ErrorIs(t, err, model.ErrTitleNotFound)
	})
}

func TestDeleteTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("removes title and its ledger", func(t *testing.T) {
		f := newTitleFixture(t)

		created, err := f.svc.CreateTitle(ctx, model.CreateTitleRequest{Name: "Doomed", Year: 2010})
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteTitle(ctx, created.ID))

		_, ok := f.ledgerRepo.ledgers[created.ID]
		assert.False(t, ok, "ledger must go with the title")

		_, err = f.svc.GetTitle(ctx, created.ID)
		assert.ErrorIs(t, err, model.ErrTitleNotFound)
	})

	t.Run("unknown title", func(t *testing.T) {
		f := newTitleFixture(t)

		err := f.svc.DeleteTitle(ctx, uuid.New())
		assert.ErrorIs(t, err, model.ErrTitleNotFound)
	})
}
