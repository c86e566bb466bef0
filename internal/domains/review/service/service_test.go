package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub-backend/internal/domains/review/model"
	"reviewhub-backend/internal/shared/policy"
	"reviewhub-backend/pkg/database"
)

// =====================================================
// FAKES
// =====================================================

// fakeTxRunner runs the callback directly; the fakes below keep their
// state in memory, so there is nothing to commit or roll back.
type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, fn database.TxFunc) error {
	return fn(nil)
}

type fakeReviewRepo struct {
	reviews   map[uuid.UUID]*model.Review
	usernames map[uuid.UUID]string
	titles    map[uuid.UUID]bool
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:   make(map[uuid.UUID]*model.Review),
		usernames: make(map[uuid.UUID]string),
		titles:    make(map[uuid.UUID]bool),
	}
}

func (f *fakeReviewRepo) withAuthor(r *model.Review) *model.ReviewWithAuthor {
	username := f.usernames[r.AuthorID]
	if username == "" {
		username = "someone"
	}
	return &model.ReviewWithAuthor{Review: *r, AuthorUsername: username}
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.ReviewWithAuthor, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, model.ErrReviewNotFound
	}
	return f.withAuthor(r), nil
}

func (f *fakeReviewRepo) ListByTitle(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]model.ReviewWithAuthor, int64, error) {
	var all []model.ReviewWithAuthor
	for _, r := range f.reviews {
		if r.TitleID == titleID {
			all = append(all, *f.withAuthor(r))
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeReviewRepo) TitleExists(ctx context.Context, titleID uuid.UUID) (bool, error) {
	return f.titles[titleID], nil
}

func (f *fakeReviewRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, model.ErrReviewNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReviewRepo) GetByTitleAndAuthor(ctx context.Context, tx pgx.Tx, titleID, authorID uuid.UUID) (*model.Review, error) {
	for _, r := range f.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, model.ErrReviewNotFound
}

func (f *fakeReviewRepo) Insert(ctx context.Context, tx pgx.Tx, review *model.Review) error {
	if !f.titles[review.TitleID] {
		return model.ErrTitleNotFound
	}
	for _, r := range f.reviews {
		if r.TitleID == review.TitleID && r.AuthorID == review.AuthorID {
			return model.ErrDuplicateReview
		}
	}
	copied := *review
	f.reviews[review.ID] = &copied
	return nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, tx pgx.Tx, review *model.Review) error {
	if _, ok := f.reviews[review.ID]; !ok {
		return model.ErrReviewNotFound
	}
	copied := *review
	f.reviews[review.ID] = &copied
	return nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, ok := f.reviews[id]; !ok {
		return model.ErrReviewNotFound
	}
	delete(f.reviews, id)
	return nil
}

type fakeLedgerRepo struct {
	ledgers map[uuid.UUID]*model.ScoreLedger
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{ledgers: make(map[uuid.UUID]*model.ScoreLedger)}
}

func (f *fakeLedgerRepo) Create(ctx context.Context, tx pgx.Tx, titleID uuid.UUID) error {
	f.ledgers[titleID] = &model.ScoreLedger{TitleID: titleID}
	return nil
}

func (f *fakeLedgerRepo) GetByTitle(ctx context.Context, titleID uuid.UUID) (*model.ScoreLedger, error) {
	l, ok := f.ledgers[titleID]
	if !ok {
		return nil, model.ErrLedgerMissing
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLedgerRepo) Adjust(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, sumDelta, countDelta int64) (*model.ScoreLedger, error) {
	l, ok := f.ledgers[titleID]
	if !ok {
		return nil, model.ErrLedgerMissing
	}
	l.SumVote += sumDelta
	l.CountVote += countDelta
	copied := *l
	return &copied, nil
}

func (f *fakeLedgerRepo) Delete(ctx context.Context, tx pgx.Tx, titleID uuid.UUID) error {
	delete(f.ledgers, titleID)
	return nil
}

// =====================================================
// FIXTURE
// =====================================================

type fixture struct {
	svc     ServiceInterface
	reviews *fakeReviewRepo
	ledgers *fakeLedgerRepo
	titleID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reviews := newFakeReviewRepo()
	ledgers := newFakeLedgerRepo()

	titleID := uuid.New()
	reviews.titles[titleID] = true
	require.NoError(t, ledgers.Create(context.Background(), nil, titleID))

	return &fixture{
		svc:     NewReviewService(reviews, ledgers, fakeTxRunner{}, nil),
		reviews: reviews,
		ledgers: ledgers,
		titleID: titleID,
	}
}

func userActor(username string, f *fixture) policy.Actor {
	actor := policy.Actor{ID: uuid.New(), Role: policy.RoleUser, Authenticated: true}
	f.reviews.usernames[actor.ID] = username
	return actor
}

func (f *fixture) ledger(t *testing.T) *model.ScoreLedger {
	t.Helper()
	l, err := f.ledgers.GetByTitle(context.Background(), f.titleID)
	require.NoError(t, err)
	return l
}

// =====================================================
// RATING DERIVATION
// =====================================================

func TestRatingFromLedger(t *testing.T) {
	tests := []struct {
		name  string
		sum   int64
		count int64
		want  *int
	}{
		{"no votes means no rating", 0, 0, nil},
		{"single vote", 8, 1, intPtr(8)},
		{"truncates 15/2 to 7", 15, 2, intPtr(7)},
		{"truncates 13/2 to 6", 13, 2, intPtr(6)},
		{"truncates 9/2 to 4", 9, 2, intPtr(4)},
		{"exact division", 20, 4, intPtr(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &model.ScoreLedger{SumVote: tt.sum, CountVote: tt.count}
			got := model.RatingFromLedger(ledger)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}

	assert.Nil(t, model.RatingFromLedger(nil))
}

func intPtr(v int) *int { return &v }

// =====================================================
// CREATE
// =====================================================

func TestCreateReview(t *testing.T) {
	ctx := context.Background()

	t.Run("creates review and grows ledger", func(t *testing.T) {
		f := newFixture(t)
		actor := userActor("gordon", f)

		result, err := f.svc.CreateReview(ctx, actor, f.titleID, model.CreateReviewRequest{
			Text:  "Tense from the first scene.",
			Score: 8,
		})
		require.NoError(t, err)

		assert.Equal(t, 8, result.Score)
		assert.Equal(t, "gordon", result.Author.Username)
		assert.Equal(t, f.titleID, result.TitleID)

		ledger := f.ledger(t)
		assert.Equal(t, int64(8), ledger.SumVote)
		assert.Equal(t, int64(1), ledger.CountVote)
	})

	t.Run("two reviewers accumulate into one ledger", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateReview(ctx, userActor("ann", f), f.titleID, model.CreateReviewRequest{Text: "Great", Score: 8})
		require.NoError(t, err)
		_, err = f.svc.CreateReview(ctx, userActor("bob", f), f.titleID, model.CreateReviewRequest{Text: "Good", Score: 7})
		require.NoError(t, err)

		ledger := f.ledger(t)
		assert.Equal(t, int64(15), ledger.SumVote)
		assert.Equal(t, int64(2), ledger.CountVote)

		rating := model.RatingFromLedger(ledger)
		require.NotNil(t, rating)
		assert.Equal(t, 7, *rating)
	})

	t.Run("second review by same author is rejected", func(t *testing.T) {
		f := newFixture(t)
		actor := userActor("ann", f)

		_, err := f.svc.CreateReview(ctx, actor, f.titleID, model.CreateReviewRequest{Text: "First", Score: 8})
		require.NoError(t, err)

		_, err = f.svc.CreateReview(ctx, actor, f.titleID, model.CreateReviewRequest{Text: "Second", Score: 3})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrDuplicateReview)

		// The rejected attempt must leave the ledger untouched
		ledger := f.ledger(t)
		assert.Equal(t, int64(8), ledger.SumVote)
		assert.Equal(t, int64(1), ledger.CountVote)
	})

	t.Run("rejects out of range scores before touching state", func(t *testing.T) {
		f := newFixture(t)
		actor := userActor("ann", f)

		for _, score := range []int{0, -1, 11, 100} {
			_, err := f.svc.CreateReview(ctx, actor, f.titleID, model.CreateReviewRequest{Text: "x", Score: score})
			require.Error(t, err, "score %d", score)
			assert.ErrorIs(t, err, model.ErrInvalidScore, "score %d", score)
		}

		ledger := f.ledger(t)
		assert.Equal(t, int64(0), ledger.SumVote)
		assert.Equal(t, int64(0), ledger.CountVote)
		assert.Empty(t, f.reviews.reviews)
	})

	t.Run("unknown title is not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateReview(ctx, userActor("ann", f), uuid.New(), model.CreateReviewRequest{Text: "x", Score: 5})
		assert.ErrorIs(t, err, model.ErrTitleNotFound)
	})

	t.Run("missing ledger surfaces as internal inconsistency", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.ledgers.Delete(ctx, nil, f.titleID))

		_, err := f.svc.CreateReview(ctx, userActor("ann", f), f.titleID, model.CreateReviewRequest{Text: "x", Score: 5})
		assert.ErrorIs(t, err, model.ErrLedgerMissing)
	})

	t.Run("anonymous actor cannot create", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateReview(ctx, policy.Anonymous, f.titleID, model.CreateReviewRequest{Text: "x", Score: 5})
		assert.ErrorIs(t, err, policy.ErrUnauthenticated)
	})
}

// =====================================================
// UPDATE
// =====================================================

func TestUpdateReview(t *testing.T) {
	ctx := context.Background()

	t.Run("score change applies the net delta", func(t *testing.T) {
		f := newFixture(t)
		actor := userActor("ann", f)

		created, err := f.svc.CreateReview(ctx, actor, f.titleID, model.CreateReviewRequest{Text: "ok", Score: 8})
		require.NoError(t, err)

		updated, err := f.svc.UpdateReview(ctx, actor, f.titleID, created.ID, model.UpdateReviewRequest{Score: intPtr(3)})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.Score)

		// Sum moved by -5, count stayed at 1
		ledger := f.ledger(t)
		assert.Equal(t, int64(3), ledger.SumVote)
		assert.Equal(t, int64(1), ledger.CountVote)
	})

	t.Run("text-only update leaves the ledger alone", func(t *testing.T) {
		f := newFixture(t)
		actor := userActor("ann", f)

		created, err := f.svc.CreateReview(ctx, actor, f.titleID, model.CreateReviewRequest{Text: "ok", Score: 8})
		require.NoError(t, err)

		newText := "revised opinion"
		updated, err := f.svc.UpdateReview(ctx, actor, f.titleID, created.ID, model.UpdateReviewRequest{Text: &newText})
		require.NoError(t, err)
		assert.Equal(t, "revised opinion", updated.Text)
		assert.Equal(t, 8, updated.Score)

		ledger := f.ledger(t)
		assert.Equal(t, int64(8), ledger.SumVote)
		assert.Equal(t, int64(1), ledger.CountVote)
	})

	t.Run("invalid score is rejected before any write", func(t *testing.T) {
		f := newFixture(t)
		actor := userActor("ann", f)

		created, err := f.svc.CreateReview(ctx, actor, f.titleID, model.CreateReviewRequest{Text: "ok", Score: 8})
		require.NoError(t, err)

		_, err = f.svc.UpdateReview(ctx, actor, f.titleID, created.ID, model.UpdateReviewRequest{Score: intPtr(11)})
		assert.ErrorIs(t, err, model.ErrInvalidScore)

		ledger := f.ledger(t)
		assert.Equal(t, int64(8), ledger.SumVote)
		assert.Equal(t, int64(1), ledger.CountVote)
	})

	t.Run("other users cannot edit, moderators can", func(t *testing.T) {
		f := newFixture(t)
		owner := userActor("ann", f)

		created, err := f.svc.CreateReview(ctx, owner, f.titleID, model.CreateReviewRequest{Text: "ok", Score: 8})
		require.NoError(t, err)

		stranger := userActor("bob", f)
		_, err = f.svc.UpdateReview(ctx, stranger, f.titleID, created.ID, model.UpdateReviewRequest{Score: intPtr(1)})
		assert.ErrorIs(t, err, policy.ErrForbidden)

		moderator := policy.Actor{ID: uuid.New(), Role: policy.RoleModerator, Authenticated: true}
		f.reviews.usernames[moderator.ID] = "mod"
		updated, err := f.svc.UpdateReview(ctx, moderator, f.titleID, created.ID, model.UpdateReviewRequest{Score: intPtr(5)})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Score)

		ledger := f.ledger(t)
		assert.Equal(t, int64(5), ledger.SumVote)
	})

	t.Run("review under another title is not found", func(t *testing.T) {
		f := newFixture(t)
		actor := userActor("ann", f)

		created, err := f.svc.CreateReview(ctx, actor, f.titleID, model.CreateReviewRequest{Text: "ok", Score: 8})
		require.NoError(t, err)

		otherTitle := uuid.New()
		f.reviews.titles[otherTitle] = true

		_, err = f.svc.UpdateReview(ctx, actor, otherTitle, created.ID, model.UpdateReviewRequest{Score: intPtr(5)})
		assert.ErrorIs(t, err, model.ErrReviewNotFound)
	})
}

// =====================================================
// DELETE
// =====================================================

func TestDeleteReview(t *testing.T) {
	ctx := context.Background()

	t.Run("create then delete restores the ledger", func(t *testing.T) {
		f := newFixture(t)
		actor := userActor("ann", f)

		created, err := f.svc.CreateReview(ctx, actor, f.titleID, model.CreateReviewRequest{Text: "ok", Score: 9})
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteReview(ctx, actor, f.titleID, created.ID))

		ledger := f.ledger(t)
		assert.Equal(t, int64(0), ledger.SumVote)
		assert.Equal(t, int64(0), ledger.CountVote)
		assert.Nil(t, model.RatingFromLedger(ledger))

		_, err = f.svc.GetReview(ctx, f.titleID, created.ID)
		assert.ErrorIs(t, err, model.ErrReviewNotFound)
	})

	t.Run("delete backs out only the deleted vote", func(t *testing.T) {
		f := newFixture(t)
		ann := userActor("ann", f)
		bob := userActor("bob", f)

		first, err := f.svc.CreateReview(ctx, ann, f.titleID, model.CreateReviewRequest{Text: "a", Score: 9})
		require.NoError(t, err)
		_, err = f.svc.CreateReview(ctx, bob, f.titleID, model.CreateReviewRequest{Text: "b", Score: 4})
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteReview(ctx, ann, f.titleID, first.ID))

		ledger := f.ledger(t)
		assert.Equal(t, int64(4), ledger.SumVote)
		assert.Equal(t, int64(1), ledger.CountVote)
	})

	t.Run("only owner, moderator or admin may delete", func(t *testing.T) {
		f := newFixture(t)
		owner := userActor("ann", f)

		created, err := f.svc.CreateReview(ctx, owner, f.titleID, model.CreateReviewRequest{Text: "ok", Score: 8})
		require.NoError(t, err)

		stranger := userActor("bob", f)
		err = f.svc.DeleteReview(ctx, stranger, f.titleID, created.ID)
		assert.ErrorIs(t, err, policy.ErrForbidden)

		admin := policy.Actor{ID: uuid.New(), Role: policy.RoleAdmin, Authenticated: true}
		assert.NoError(t, f.svc.DeleteReview(ctx, admin, f.titleID, created.ID))
	})

	t.Run("deleting a missing review is not found", func(t *testing.T) {
		f := newFixture(t)
		actor := userActor("ann", f)

		err := f.svc.DeleteReview(ctx, actor, f.titleID, uuid.New())
		assert.ErrorIs(t, err, model.ErrReviewNotFound)
	})
}

// =====================================================
// LIST
// =====================================================

func TestListReviews(t *testing.T) {
	ctx := context.Background()

	t.Run("lists reviews with pagination metadata", func(t *testing.T) {
		f := newFixture(t)

		for i, name := range []string{"ann", "bob", "carol"} {
			_, err := f.svc.CreateReview(ctx, userActor(name, f), f.titleID, model.CreateReviewRequest{
				Text:  "review",
				Score: 5 + i,
			})
			require.NoError(t, err)
		}

		result, err := f.svc.ListReviews(ctx, f.titleID, model.ListReviewsRequest{Page: 1, Limit: 2})
		require.NoError(t, err)

		assert.Equal(t, int64(3), result.Total)
		assert.Len(t, result.Reviews, 2)
		assert.Equal(t, 2, result.TotalPages)
	})

	t.Run("unknown title is not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.ListReviews(ctx, uuid.New(), model.ListReviewsRequest{})
		assert.ErrorIs(t, err, model.ErrTitleNotFound)
	})
}
