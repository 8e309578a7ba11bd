package container

import (
	"context"
	"fmt"
	"time"

	"github.com/humanmade/authorship/internal/config"
	infraCache "github.com/humanmade/authorship/internal/infrastructure/cache"
	"github.com/humanmade/authorship/internal/infrastructure/database"
	"github.com/humanmade/authorship/pkg/cache"
	"github.com/humanmade/authorship/pkg/jwt"
	"github.com/humanmade/authorship/pkg/logger"

	"github.com/humanmade/authorship/internal/domains/attribution"
	attributionRepo "github.com/humanmade/authorship/internal/domains/attribution/repository"
	attributionService "github.com/humanmade/authorship/internal/domains/attribution/service"
	"github.com/humanmade/authorship/internal/domains/capability"
	"github.com/humanmade/authorship/internal/domains/post"
	postHandler "github.com/humanmade/authorship/internal/domains/post/handler"
	"github.com/humanmade/authorship/internal/domains/post/query"
	postRepo "github.com/humanmade/authorship/internal/domains/post/repository"
	postService "github.com/humanmade/authorship/internal/domains/post/service"
	"github.com/humanmade/authorship/internal/domains/user"
	userHandler "github.com/humanmade/authorship/internal/domains/user/handler"
	userRepo "github.com/humanmade/authorship/internal/domains/user/repository"
	userService "github.com/humanmade/authorship/internal/domains/user/service"
)

// Container holds the full dependency graph. Everything in here is a
// singleton built once at startup; handlers and services are stateless.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	Types *post.TypeRegistry

	UserRepo        user.Repository
	PostRepo        post.Repository
	AttributionRepo attribution.Repository

	AttributionService attribution.Service
	PostService        post.Service
	UserService        user.Service

	Checker  *capability.Checker
	Rewriter *query.Rewriter

	UserHandler *userHandler.UserHandler
	PostHandler *postHandler.PostHandler
}

// NewContainer builds the dependency graph in layer order: config,
// infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("configuration loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

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
	logger.Info("database connected", nil)

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisCache.Ping(context.Background()); err != nil {
		// Cache is an accelerator, not a dependency. Start without it.
		logger.Warn("redis connection failed, continuing without cache warm-up", err)
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	c.Types = post.NewTypeRegistry()

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", nil)
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.PostRepo = postRepo.NewPostgresRepository(pool)
	c.AttributionRepo = attributionRepo.NewPostgresRepository(pool, c.Cache)
}

func (c *Container) initServices() {
	c.AttributionService = attributionService.NewAttributionService(
		c.AttributionRepo,
		c.UserRepo,
		c.Types,
		c.Cache,
	)

	c.Checker = capability.NewChecker(c.Types, c.AttributionService, c.PostRepo)
	c.Rewriter = query.NewRewriter(c.Types, c.UserRepo)

	// nil keeps the built-in owner default for unattributed saves;
	// deployments can plug their own DefaultAuthorsFunc here.
	c.PostService = postService.NewPostService(c.PostRepo, c.AttributionService, c.Rewriter, nil)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.Checker)
	c.PostHandler = postHandler.NewPostHandler(
		c.PostService,
		c.AttributionService,
		c.Types,
		c.Checker,
	)
}

// Cleanup releases infrastructure connections.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Warn("failed to close redis connection", err)
		}
	}
}
