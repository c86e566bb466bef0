package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"reviewhub-backend/internal/shared/response"
)

// Recovery converts panics into a 500 with the standard envelope,
// so a broken handler never leaks a stack trace to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Str("path", c.Request.URL.Path).
					Interface("error", err).
					Msg("Panic recovered")

				response.Error(c, http.StatusInternalServerError,
					"SYS_001", "Internal server error", nil)
				c.Abort()
			}
		}()

		c.Next()
	}
}
