package middleware

import (
	"strings"

	"reviewhub-backend/internal/shared/policy"
	"reviewhub-backend/internal/shared/response"
	"reviewhub-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextKeyActor = "actor"

// Authenticate verifies the Bearer access token and stores the resulting
// actor in the context. Requests without a valid token are rejected with 401.
func Authenticate(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Take the token from the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "AUTH_001", "missing authorization header")
			c.Abort()
			return
		}

		// 2. Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "AUTH_002", "invalid authorization header format")
			c.Abort()
			return
		}

		// 3. Verify signature, expiry and token type
		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "AUTH_003", "invalid or expired token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "AUTH_004", "invalid user ID in token")
			c.Abort()
			return
		}

		if !policy.ValidRole(claims.Role) {
			response.Unauthorized(c, "AUTH_005", "unknown role in token")
			c.Abort()
			return
		}

		// 4. Store the actor for handlers and the authorization phase
		SetActor(c, policy.Actor{
			ID:            userID,
			Role:          policy.Role(claims.Role),
			Authenticated: true,
		})

		c.Next()
	}
}

// SetActor stores the request actor in the gin context.
func SetActor(c *gin.Context, actor policy.Actor) {
	c.Set(contextKeyActor, actor)
}

// ActorFromContext returns the actor set by Authenticate, or the
// anonymous actor when the request presented no identity.
func ActorFromContext(c *gin.Context) policy.Actor {
	value, exists := c.Get(contextKeyActor)
	if !exists {
		return policy.Anonymous
	}

	actor, ok := value.(policy.Actor)
	if !ok {
		return policy.Anonymous
	}

	return actor
}
