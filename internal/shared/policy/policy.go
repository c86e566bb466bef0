package policy

import (
	"errors"

	"github.com/google/uuid"
)

// Role is the privilege level carried by an authenticated user.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Action is the capability being exercised against a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is the kind of object an action targets.
type Resource string

const (
	ResourceTitle    Resource = "title"
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
	// ResourceUser is the admin-managed user collection.
	ResourceUser Resource = "user"
	// ResourceOwnAccount is the requester's own account (/users/me).
	ResourceOwnAccount Resource = "own_account"
)

// Actor is the identity a request acts as. The zero value is anonymous.
type Actor struct {
	ID            uuid.UUID
	Role          Role
	Authenticated bool
}

// Anonymous is the actor for requests presenting no identity.
var Anonymous = Actor{}

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
)

// elevated reports whether the actor may act on others' reviews/comments.
func (a Actor) elevated() bool {
	return a.Authenticated && (a.Role == RoleModerator || a.Role == RoleAdmin)
}

// Allow is the route-level phase: is this category of action permitted
// for this actor at all, independent of which object it targets.
func Allow(actor Actor, action Action, resource Resource) error {
	switch resource {
	case ResourceReview, ResourceComment:
		// Anyone may read; any authenticated user may write.
		// Ownership is settled at the object level.
		if action == ActionRead {
			return nil
		}
		if !actor.Authenticated {
			return ErrUnauthenticated
		}
		return nil

	case ResourceTitle, ResourceCategory, ResourceGenre:
		// Catalog reads are public; writes are admin-only.
		if action == ActionRead {
			return nil
		}
		if !actor.Authenticated {
			return ErrUnauthenticated
		}
		if actor.Role != RoleAdmin {
			return ErrForbidden
		}
		return nil

	case ResourceUser:
		// The user collection is an admin surface, reads included.
		if !actor.Authenticated {
			return ErrUnauthenticated
		}
		if actor.Role != RoleAdmin {
			return ErrForbidden
		}
		return nil

	case ResourceOwnAccount:
		if !actor.Authenticated {
			return ErrUnauthenticated
		}
		return nil
	}

	return ErrForbidden
}

// AllowObject is the object-level phase: may the actor act on this
// specific object, identified by its owner. It implies the route-level
// phase, so callers may invoke it alone.
func AllowObject(actor Actor, action Action, resource Resource, ownerID uuid.UUID) error {
	if err := Allow(actor, action, resource); err != nil {
		return err
	}

	switch resource {
	case ResourceReview, ResourceComment:
		if action == ActionRead || action == ActionCreate {
			return nil
		}
		// Owner, or an elevated role. Never both required.
		if actor.ID == ownerID || actor.elevated() {
			return nil
		}
		return ErrForbidden

	case ResourceOwnAccount:
		if actor.ID != ownerID {
			return ErrForbidden
		}
		return nil
	}

	// Title/Category/Genre/User decisions are identity-independent;
	// the route phase already settled them.
	return nil
}
