package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ShehanaHewage/TheCloset/controllers"
	"github.com/ShehanaHewage/TheCloset/database"
	"github.com/ShehanaHewage/TheCloset/middleware"
	"github.com/ShehanaHewage/TheCloset/repository"
	"github.com/ShehanaHewage/TheCloset/routes"
	"github.com/ShehanaHewage/TheCloset/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Database ---
	client, db, err := database.Connect(context.Background(), cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		logger.Fatal("Index creation failed", zap.Error(err))
	}

	// --- File storage ---
	if err := os.MkdirAll(cfg.StoragePath, 0o755); err != nil {
		logger.Fatal("Failed to create storage directory", zap.String("path", cfg.StoragePath), zap.Error(err))
	}

	// --- Redis (optional, catalog list cache) ---
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
			redisClient = nil
		}
		cancel()
	}

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RequestTimeout(30 * time.Second))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// --- Dependency injection ---
	userRepo := repository.NewMongoUserRepository(db)
	itemRepo := repository.NewMongoItemRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	fileRepo := repository.NewMongoFileRepository(db)

	tokens := services.NewTokenService(cfg.JWTSecret)
	userService := services.NewUserService(userRepo, tokens, logger)
	itemService := services.NewItemService(itemRepo, logger)
	orderService := services.NewOrderService(orderRepo, itemRepo, logger)
	fileService := services.NewFileService(fileRepo, cfg.StoragePath, logger)

	catalogCache := controllers.NewCatalogCache(redisClient, logger)

	routes.Register(r, &routes.Handlers{
		Users:     controllers.NewUserController(userService),
		Items:     controllers.NewItemController(itemService, catalogCache),
		Orders:    controllers.NewOrderController(orderService),
		Files:     controllers.NewFileController(fileService),
		JWTSecret: []byte(cfg.JWTSecret),
		Limiter:   middleware.NewRateLimiter(rate.Every(time.Second), 10),
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "thecloset-api"})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("TheCloset API started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}
	if err := database.Disconnect(context.Background(), client); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	logger.Info("TheCloset API stopped gracefully")
}
