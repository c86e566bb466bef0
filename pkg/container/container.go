package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"reviewhub-backend/internal/config"
	infraCache "reviewhub-backend/internal/infrastructure/cache"
	"reviewhub-backend/internal/infrastructure/database"
	"reviewhub-backend/internal/infrastructure/queue"
	"reviewhub-backend/pkg/cache"
	pkgDatabase "reviewhub-backend/pkg/database"
	"reviewhub-backend/pkg/jwt"

	categoryHandler "reviewhub-backend/internal/domains/category/handler"
	categoryRepo "reviewhub-backend/internal/domains/category/repository"
	categoryService "reviewhub-backend/internal/domains/category/service"
	commentHandler "reviewhub-backend/internal/domains/comment/handler"
	commentRepo "reviewhub-backend/internal/domains/comment/repository"
	commentService "reviewhub-backend/internal/domains/comment/service"
	genreHandler "reviewhub-backend/internal/domains/genre/handler"
	genreRepo "reviewhub-backend/internal/domains/genre/repository"
	genreService "reviewhub-backend/internal/domains/genre/service"
	reviewHandler "reviewhub-backend/internal/domains/review/handler"
	reviewRepo "reviewhub-backend/internal/domains/review/repository"
	reviewService "reviewhub-backend/internal/domains/review/service"
	titleHandler "reviewhub-backend/internal/domains/title/handler"
	titleRepo "reviewhub-backend/internal/domains/title/repository"
	titleService "reviewhub-backend/internal/domains/title/service"
	userHandler "reviewhub-backend/internal/domains/user/handler"
	userRepo "reviewhub-backend/internal/domains/user/repository"
	userService "reviewhub-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is
// a singleton built once at startup and shared for the process lifetime.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	QueueClient *queue.Client
	TxRunner    pkgDatabase.TxRunner

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	UserRepo     userRepo.UserRepository
	CategoryRepo categoryRepo.CategoryRepository
	GenreRepo    genreRepo.GenreRepository
	TitleRepo    titleRepo.TitleRepository
	ReviewRepo   reviewRepo.ReviewRepository
	LedgerRepo   reviewRepo.LedgerRepository
	CommentRepo  commentRepo.CommentRepository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	UserService     userService.ServiceInterface
	CategoryService categoryService.ServiceInterface
	GenreService    genreService.ServiceInterface
	TitleService    titleService.ServiceInterface
	ReviewService   reviewService.ServiceInterface
	CommentService  commentService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	UserHandler     *userHandler.UserHandler
	CategoryHandler *categoryHandler.CategoryHandler
	GenreHandler    *genreHandler.GenreHandler
	TitleHandler    *titleHandler.TitleHandler
	ReviewHandler   *reviewHandler.ReviewHandler
	CommentHandler  *commentHandler.CommentHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the whole graph in dependency order:
// config, then infrastructure, then repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("Initializing DI container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("Config loaded (environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	c.TxRunner = pkgDatabase.NewPoolRunner(db.Pool)
	log.Println("Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE, JWT AND QUEUE
	// ========================================
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	// Cache failure is non-critical: services fall through to the
	// database on misses, and confirmation codes simply stop working
	// until Redis is back.
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			log.Printf("Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("Redis connected")
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	c.QueueClient = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	// ========================================
	// STEP 4: INITIALIZE REPOSITORIES
	// ========================================
	c.initRepositories()

	// ========================================
	// STEP 5: INITIALIZE SERVICES
	// ========================================
	c.initServices()

	// ========================================
	// STEP 6: INITIALIZE HANDLERS
	// ========================================
	c.initHandlers()

	log.Println("DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresCategoryRepository(pool)
	c.GenreRepo = genreRepo.NewPostgresGenreRepository(pool)
	c.TitleRepo = titleRepo.NewPostgresTitleRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
	c.LedgerRepo = reviewRepo.NewPostgresLedgerRepository(pool)
	c.CommentRepo = commentRepo.NewPostgresCommentRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.JWTManager,
		c.Cache,
		c.QueueClient,
		c.TxRunner,
		time.Duration(config.ConfirmationCodeTTLMinutes)*time.Minute,
	)

	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)
	c.GenreService = genreService.NewGenreService(c.GenreRepo)

	c.TitleService = titleService.NewTitleService(
		c.TitleRepo,
		c.LedgerRepo,
		c.CategoryRepo,
		c.GenreRepo,
		c.TxRunner,
		c.Cache,
	)

	c.ReviewService = reviewService.NewReviewService(
		c.ReviewRepo,
		c.LedgerRepo,
		c.TxRunner,
		c.Cache,
	)

	c.CommentService = commentService.NewCommentService(c.CommentRepo)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.GenreHandler = genreHandler.NewGenreHandler(c.GenreService)
	c.TitleHandler = titleHandler.NewTitleHandler(c.TitleService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases container resources during graceful shutdown.
func (c *Container) Cleanup() {
	log.Println("Cleaning up container resources...")

	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			log.Printf("Failed to close queue client: %v", err)
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("Failed to close Redis: %v", err)
			} else {
				log.Println("Redis connections closed")
			}
		}
	}

	log.Println("Container cleanup completed")
}
