package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAllow_PublicReads(t *testing.T) {
	for _, res := range []Resource{ResourceTitle, ResourceCategory, ResourceGenre, ResourceReview, ResourceComment} {
		assert.NoError(t, Allow(Anonymous, ActionRead, res), "anonymous read of %s", res)
	}
}

func TestAllow_CatalogWritesAreAdminOnly(t *testing.T) {
	user := Actor{ID: uuid.New(), Role: RoleUser, Authenticated: true}
	mod := Actor{ID: uuid.New(), Role: RoleModerator, Authenticated: true}
	admin := Actor{ID: uuid.New(), Role: RoleAdmin, Authenticated: true}

	for _, res := range []Resource{ResourceTitle, ResourceCategory, ResourceGenre} {
		for _, act := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
			assert.ErrorIs(t, Allow(Anonymous, act, res), ErrUnauthenticated)
			assert.ErrorIs(t, Allow(user, act, res), ErrForbidden)
			assert.ErrorIs(t, Allow(mod, act, res), ErrForbidden, "moderator must not manage %s", res)
			assert.NoError(t, Allow(admin, act, res))
		}
	}
}

func TestAllow_ReviewWritesNeedAuth(t *testing.T) {
	user := Actor{ID: uuid.New(), Role: RoleUser, Authenticated: true}

	assert.ErrorIs(t, Allow(Anonymous, ActionCreate, ResourceReview), ErrUnauthenticated)
	assert.NoError(t, Allow(user, ActionCreate, ResourceReview))
	assert.NoError(t, Allow(user, ActionCreate, ResourceComment))
}

func TestAllow_UserCollection(t *testing.T) {
	user := Actor{ID: uuid.New(), Role: RoleUser, Authenticated: true}
	mod := Actor{ID: uuid.New(), Role: RoleModerator, Authenticated: true}
	admin := Actor{ID: uuid.New(), Role: RoleAdmin, Authenticated: true}

	// Reads of the collection are admin-only too.
	assert.ErrorIs(t, Allow(Anonymous, ActionRead, ResourceUser), ErrUnauthenticated)
	assert.ErrorIs(t, Allow(user, ActionRead, ResourceUser), ErrForbidden)
	assert.ErrorIs(t, Allow(mod, ActionDelete, ResourceUser), ErrForbidden)
	assert.NoError(t, Allow(admin, ActionRead, ResourceUser))
	assert.NoError(t, Allow(admin, ActionDelete, ResourceUser))
}

func TestAllowObject_OwnerOrElevated(t *testing.T) {
	owner := Actor{ID: uuid.New(), Role: RoleUser, Authenticated: true}
	other := Actor{ID: uuid.New(), Role: RoleUser, Authenticated: true}
	mod := Actor{ID: uuid.New(), Role: RoleModerator, Authenticated: true}
	admin := Actor{ID: uuid.New(), Role: RoleAdmin, Authenticated: true}

	for _, res := range []Resource{ResourceReview, ResourceComment} {
		for _, act := range []Action{ActionUpdate, ActionDelete} {
			assert.NoError(t, AllowObject(owner, act, res, owner.ID))
			assert.ErrorIs(t, AllowObject(other, act, res, owner.ID), ErrForbidden)
			assert.NoError(t, AllowObject(mod, act, res, owner.ID))
			assert.NoError(t, AllowObject(admin, act, res, owner.ID))
			assert.ErrorIs(t, AllowObject(Anonymous, act, res, owner.ID), ErrUnauthenticated)
		}
	}
}

func TestAllowObject_OwnAccountIsSelfOnly(t *testing.T) {
	me := Actor{ID: uuid.New(), Role: RoleUser, Authenticated: true}
	somebody := uuid.New()

	assert.NoError(t, AllowObject(me, ActionUpdate, ResourceOwnAccount, me.ID))
	assert.ErrorIs(t, AllowObject(me, ActionUpdate, ResourceOwnAccount, somebody), ErrForbidden)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("user"))
	assert.True(t, ValidRole("moderator"))
	assert.True(t, ValidRole("admin"))
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}
