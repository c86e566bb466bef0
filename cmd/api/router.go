package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reviewhub-backend/internal/shared/middleware"
	"reviewhub-backend/internal/shared/policy"
	"reviewhub-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupCategoryRoutes(v1, c)
		setupGenreRoutes(v1, c)
		setupTitleRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/auth/email", c.UserHandler.RequestCode)
	v1.POST("/token", c.UserHandler.IssueToken)
	v1.POST("/token/refresh", c.UserHandler.RefreshToken)
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Own account; any authenticated user
	me := v1.Group("/users/me", middleware.Authenticate(c.JWTManager))
	{
		me.GET("", c.UserHandler.GetMe)
		me.PATCH("", c.UserHandler.UpdateMe)
		// Always 405; account removal is an admin operation
		me.DELETE("", c.UserHandler.DeleteMe)
	}

	// User collection; admin only, reads included
	users := v1.Group("/users",
		middleware.Authenticate(c.JWTManager),
		middleware.Authorize(policy.ResourceUser),
	)
	{
		users.GET("", c.UserHandler.ListUsers)
		users.GET("/:username", c.UserHandler.GetUser)
		users.PATCH("/:username", c.UserHandler.UpdateUser)
		users.DELETE("/:username", c.UserHandler.DeleteUser)
	}
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/categories", c.CategoryHandler.ListCategories)
	v1.GET("/categories/:slug", c.CategoryHandler.GetCategory)

	categories := v1.Group("/categories",
		middleware.Authenticate(c.JWTManager),
		middleware.Authorize(policy.ResourceCategory),
	)
	{
		categories.POST("", c.CategoryHandler.CreateCategory)
		categories.DELETE("/:slug", c.CategoryHandler.DeleteCategory)
	}
}

// ========================================
// GENRE ROUTES
// ========================================
func setupGenreRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/genres", c.GenreHandler.ListGenres)
	v1.GET("/genres/:slug", c.GenreHandler.GetGenre)

	genres := v1.Group("/genres",
		middleware.Authenticate(c.JWTManager),
		middleware.Authorize(policy.ResourceGenre),
	)
	{
		genres.POST("", c.GenreHandler.CreateGenre)
		genres.DELETE("/:slug", c.GenreHandler.DeleteGenre)
	}
}

// ========================================
// TITLE ROUTES (WITH NESTED REVIEWS AND COMMENTS)
// ========================================
func setupTitleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Public catalog reads
	v1.GET("/titles", c.TitleHandler.ListTitles)
	v1.GET("/titles/:title_id", c.TitleHandler.GetTitle)

	// Catalog writes; admin only
	titles := v1.Group("/titles",
		middleware.Authenticate(c.JWTManager),
		middleware.Authorize(policy.ResourceTitle),
	)
	{
		titles.POST("", c.TitleHandler.CreateTitle)
		titles.PATCH("/:title_id", c.TitleHandler.UpdateTitle)
		titles.DELETE("/:title_id", c.TitleHandler.DeleteTitle)
	}

	setupReviewRoutes(v1, c)
	setupCommentRoutes(v1, c)
}

func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Public reads
	v1.GET("/titles/:title_id/reviews", c.ReviewHandler.ListReviews)
	v1.GET("/titles/:title_id/reviews/:review_id", c.ReviewHandler.GetReview)

	// Writes require a signed-in author; ownership is enforced in the
	// service once the target row is loaded
	reviews := v1.Group("/titles/:title_id/reviews",
		middleware.Authenticate(c.JWTManager),
		middleware.Authorize(policy.ResourceReview),
	)
	{
		reviews.POST("", c.ReviewHandler.CreateReview)
		reviews.PATCH("/:review_id", c.ReviewHandler.UpdateReview)
		reviews.DELETE("/:review_id", c.ReviewHandler.DeleteReview)
	}
}

func setupCommentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/titles/:title_id/reviews/:review_id/comments", c.CommentHandler.ListComments)
	v1.GET("/titles/:title_id/reviews/:review_id/comments/:comment_id", c.CommentHandler.GetComment)

	comments := v1.Group("/titles/:title_id/reviews/:review_id/comments",
		middleware.Authenticate(c.JWTManager),
		middleware.Authorize(policy.ResourceComment),
	)
	{
		comments.POST("", c.CommentHandler.CreateComment)
		comments.PATCH("/:comment_id", c.CommentHandler.UpdateComment)
		comments.DELETE("/:comment_id", c.CommentHandler.DeleteComment)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"services":  gin.H{},
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis; degraded cache is not fatal
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
