package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub-backend/internal/domains/comment/model"
	"reviewhub-backend/internal/shared/policy"
)

type reviewKey struct {
	titleID  uuid.UUID
	reviewID uuid.UUID
}

type fakeCommentRepo struct {
	comments  map[uuid.UUID]*model.Comment
	usernames map[uuid.UUID]string
	reviews   map[reviewKey]bool
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments:  make(map[uuid.UUID]*model.Comment),
		usernames: make(map[uuid.UUID]string),
		reviews:   make(map[reviewKey]bool),
	}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.CommentWithAuthor, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	username := f.usernames[comment.AuthorID]
	if username == "" {
		username = "someone"
	}
	return &model.CommentWithAuthor{Comment: *comment, AuthorUsername: username}, nil
}

func (f *fakeCommentRepo) ListByReview(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]model.CommentWithAuthor, int64, error) {
	var all []model.CommentWithAuthor
	for id, comment := range f.comments {
		if comment.ReviewID == reviewID {
			withAuthor, _ := f.GetByID(ctx, id)
			all = append(all, *withAuthor)
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

func (f *fakeCommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	if _, ok := f.comments[comment.ID]; !ok {
		return model.ErrCommentNotFound
	}
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.comments[id]; !ok {
		return model.ErrCommentNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) ReviewExists(ctx context.Context, titleID, reviewID uuid.UUID) (bool, error) {
	return f.reviews[reviewKey{titleID, reviewID}], nil
}

type commentFixture struct {
	svc      ServiceInterface
	repo     *fakeCommentRepo
	titleID  uuid.UUID
	reviewID uuid.UUID
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()

	repo := newFakeCommentRepo()
	titleID := uuid.New()
	reviewID := uuid.New()
	repo.reviews[reviewKey{titleID, reviewID}] = true

	return &commentFixture{
		svc:      NewCommentService(repo),
		repo:     repo,
		titleID:  titleID,
		reviewID: reviewID,
	}
}

func (f *commentFixture) user(username string) policy.Actor {
	actor := policy.Actor{ID: uuid.New(), Role: policy.RoleUser, Authenticated: true}
	f.repo.usernames[actor.ID] = username
	return actor
}

func TestCreateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("creates comment under review", func(t *testing.T) {
		f := newCommentFixture(t)

		result, err := f.svc.CreateComment(ctx, f.user("ann"), f.titleID, f.reviewID, model.CreateCommentRequest{
			Text: "Couldn't agree more.",
		})
		require.NoError(t, err)
		assert.Equal(t, "Couldn't agree more.", result.Text)
		assert.Equal(t, "ann", result.Author.Username)
		assert.Equal(t, f.reviewID, result.ReviewID)
	})

	t.Run("anonymous actor cannot comment", func(t *testing.T) {
		f := newCommentFixture(t)

		_, err := f.svc.CreateComment(ctx, policy.Anonymous, f.titleID, f.reviewID, model.CreateCommentRequest{Text: "hi"})
		assert.ErrorIs(t, err, policy.ErrUnauthenticated)
	})

	t.Run("missing review is not found", func(t *testing.T) {
		f := newCommentFixture(t)

		_, err := f.svc.CreateComment(ctx, f.user("ann"), f.titleID, uuid.New(), model.CreateCommentRequest{Text: "hi"})
		assert.ErrorIs(t, err, model.ErrReviewNotFound)
	})

	t.Run("review reached through wrong title is not found", func(t *testing.T) {
		f := newCommentFixture(t)

		_, err := f.svc.CreateComment(ctx, f.user("ann"), uuid.New(), f.reviewID, model.CreateCommentRequest{Text: "hi"})
		assert.ErrorIs(t, err, model.ErrReviewNotFound)
	})

	t.Run("empty text is rejected", func(t *testing.T) {
		f := newCommentFixture(t)

		_, err := f.svc.CreateComment(ctx, f.user("ann"), f.titleID, f.reviewID, model.CreateCommentRequest{Text: ""})
		assert.Error(t, err)
		assert.Empty(t, f.repo.comments)
	})
}

func TestUpdateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can edit", func(t *testing.T) {
		f := newCommentFixture(t)
		owner := f.user("ann")

		created, err := f.svc.CreateComment(ctx, owner, f.titleID, f.reviewID, model.CreateCommentRequest{Text: "first"})
		require.NoError(t, err)

		updated, err := f.svc.UpdateComment(ctx, owner, f.titleID, f.reviewID, created.ID, model.UpdateCommentRequest{Text: "edited"})
		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Text)
	})

	t.Run("stranger cannot edit, moderator can", func(t *testing.T) {
		f := newCommentFixture(t)
		owner := f.user("ann")

		created, err := f.svc.CreateComment(ctx, owner, f.titleID, f.reviewID, model.CreateCommentRequest{Text: "first"})
		require.NoError(t, err)

		_, err = f.svc.UpdateComment(ctx, f.user("bob"), f.titleID, f.reviewID, created.ID, model.UpdateCommentRequest{Text: "hijack"})
		assert.ErrorIs(t, err, policy.ErrForbidden)

		moderator := policy.Actor{ID: uuid.New(), Role: policy.RoleModerator, Authenticated: true}
		f.repo.usernames[moderator.ID] = "mod"
		updated, err := f.svc.UpdateComment(ctx, moderator, f.titleID, f.reviewID, created.ID, model.UpdateCommentRequest{Text: "moderated"})
		require.NoError(t, err)
		assert.Equal(t, "moderated", updated.Text)
	})
}

func TestDeleteComment(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can delete", func(t *testing.T) {
		f := newCommentFixture(t)
		owner := f.user("ann")

		created, err := f.svc.CreateComment(ctx, owner, f.titleID, f.reviewID, model.CreateCommentRequest{Text: "bye"})
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteComment(ctx, owner, f.titleID, f.reviewID, created.ID))

		_, err = f.svc.GetComment(ctx, f.titleID, f.reviewID, created.ID)
		assert.ErrorIs(t, err, model.ErrCommentNotFound)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		f := newCommentFixture(t)
		owner := f.user("ann")

		created, err := f.svc.CreateComment(ctx, owner, f.titleID, f.reviewID, model.CreateCommentRequest{Text: "bye"})
		require.NoError(t, err)

		err = f.svc.DeleteComment(ctx, f.user("bob"), f.titleID, f.reviewID, created.ID)
		assert.ErrorIs(t, err, policy.ErrForbidden)
	})
}

func TestListComments(t *testing.T) {
	ctx := context.Background()

	f := newCommentFixture(t)
	for _, name := range []string{"ann", "bob", "carol"} {
		_, err := f.svc.CreateComment(ctx, f.user(name), f.titleID, f.reviewID, model.CreateCommentRequest{Text: "hello from " + name})
		require.NoError(t, err)
	}

	result, err := f.svc.ListComments(ctx, f.titleID, f.reviewID, model.ListCommentsRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	assert.Len(t, result.Comments, 2)
	assert.Equal(t, 2, result.TotalPages)
}
