package middleware

import (
	"errors"

	"reviewhub-backend/internal/shared/policy"
	"reviewhub-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Authorize runs the route-level permission check for a resource kind.
// The HTTP method determines the action. Object-level checks (ownership)
// stay in the services, which load the object.
func Authorize(resource policy.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFromContext(c)
		action := actionForMethod(c.Request.Method)

		if err := policy.Allow(actor, action, resource); err != nil {
			if errors.Is(err, policy.ErrUnauthenticated) {
				response.Unauthorized(c, "AUTH_001", "authentication required")
			} else {
				response.Forbidden(c, "AUTH_006", "insufficient permissions")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

func actionForMethod(method string) policy.Action {
	switch method {
	case "POST":
		return policy.ActionCreate
	case "PUT", "PATCH":
		return policy.ActionUpdate
	case "DELETE":
		return policy.ActionDelete
	default:
		return policy.ActionRead
	}
}
