package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kedai_pos_backend/internal/config"
	"kedai_pos_backend/internal/database"
	"kedai_pos_backend/internal/repositories"
	"kedai_pos_backend/internal/router"
	"kedai_pos_backend/internal/services"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info", true)
		utils.LogError(err, "Invalid configuration")
		os.Exit(1)
	}

	// Initialize Logger
	utils.InitLogger(cfg.LogLevel, !cfg.LogJSON)

	ctx := context.Background()

	backend, redisClient := openBackend(ctx, cfg)
	store, err := loadStore(ctx, backend)
	if err != nil {
		utils.LogError(err, "Failed to initialize memory store")
		os.Exit(1)
	}
	if store.BackendName() != backend.Name() {
		// the fallback closed the backend, a shared Redis client included
		redisClient = nil
	}
	utils.LogInfo("Store initialized", map[string]interface{}{"backend": store.BackendName()})

	jwtManager, err := utils.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	if err != nil {
		utils.LogError(err, "Failed to create JWT manager")
		os.Exit(1)
	}

	publisher := services.NewNoopEventPublisher()
	if cfg.EventsEnabled {
		if redisClient == nil {
			redisClient, err = database.NewRedisClient(ctx, cfg.Redis)
			if err != nil {
				utils.LogWarn(err, "Sale events disabled")
			}
		}
		if redisClient != nil {
			publisher = services.NewRedisEventPublisher(redisClient)
		}
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	deps := router.Dependencies{
		Config:    cfg,
		Store:     store,
		JWT:       jwtManager,
		Publisher: publisher,
		Now:       time.Now,
	}
	svc := router.NewServices(deps)
	if err := router.Setup(engine, deps, svc); err != nil {
		utils.LogError(err, "Failed to set up routes")
		os.Exit(1)
	}

	if err := svc.Auth.EnsureOperatorPIN(ctx, cfg.Auth.OperatorPIN); err != nil {
		utils.LogError(err, "Failed to set initial operator PIN")
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port})
		utils.LogInfo("Frontend should be configured to make API calls", map[string]interface{}{"url": "http://localhost:" + cfg.Port + "/api/v1"})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
	if err := store.Close(); err != nil {
		utils.LogWarn(err, "Error closing store")
	}
	if redisClient != nil && store.BackendName() != config.StorageRedis {
		redisClient.Close()
	}
}

// loadStore loads backend into a Store. When that fails the backend is closed and
// an empty in-memory store takes its place.
func loadStore(ctx context.Context, backend repositories.KVBackend) (*repositories.Store, error) {
	store := repositories.NewStore(backend)
	err := store.Load(ctx)
	if err == nil {
		return store, nil
	}
	utils.LogWarn(err, "Could not load persisted state, starting with an empty in-memory store")
	if closeErr := store.Close(); closeErr != nil {
		utils.LogWarn(closeErr, "Error closing storage backend")
	}
	store = repositories.NewStore(repositories.NewMemoryBackend())
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// openBackend picks the persistence layer named by STORAGE_BACKEND and falls
// back to memory when it is unreachable.
func openBackend(ctx context.Context, cfg config.Config) (repositories.KVBackend, *redis.Client) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		db, err := database.OpenPostgres(ctx, cfg.DB)
		if err != nil {
			utils.LogWarn(err, "PostgreSQL unavailable, falling back to in-memory storage")
			return repositories.NewMemoryBackend(), nil
		}
		return repositories.NewPostgresBackend(db), nil
	case config.StorageRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			utils.LogWarn(err, "Redis unavailable, falling back to in-memory storage")
			return repositories.NewMemoryBackend(), nil
		}
		return repositories.NewRedisBackend(client, cfg.Redis.StateKey), client
	}
	return repositories.NewMemoryBackend(), nil
}
