package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wordquiz/config"
	"wordquiz/handlers"
	"wordquiz/logger"
	"wordquiz/middleware"
	"wordquiz/models"
	"wordquiz/routes"
	"wordquiz/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// Base schema only: hint1 is added by the schema probe.
	if err := db.AutoMigrate(&models.Question{}, &models.User{}); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	schema := services.NewSchemaProbe(db, zlog, cfg.Schema.Hint1Column)
	schema.Resolve(ctx)

	// Initialize WebSocket hub
	hub := services.NewHub(zlog)
	go hub.Run(ctx)

	// Change events go through redis when it is enabled so that every instance
	// relays them to its own clients.
	var notifier services.Notifier = hub
	if cfg.Redis.Enabled {
		redisClient := config.InitRedis(cfg)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			zlog.Warn("redis unavailable, notifying local clients only", zap.Error(err))
		} else {
			notifier = services.NewRedisNotifier(redisClient, cfg.Redis.Channel)
			go services.RelayRedisEvents(ctx, redisClient, cfg.Redis.Channel, hub, zlog)
		}
	}

	// Initialize services
	questionService := services.NewQuestionService(db, schema, notifier, zlog)

	var authHandler *handlers.AuthHandler
	if cfg.Auth.Enabled {
		authService := services.NewAuthService(db, cfg.Auth.JWTSecret)
		if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			zlog.Fatal("failed to seed admin user", zap.Error(err))
		}
		authHandler = handlers.NewAuthHandler(authService, zlog)
	}

	questionHandler := handlers.NewQuestionHandler(questionService, zlog)

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(zlog), middleware.CORS(cfg.CORS.AllowedOrigins))

	routes.SetupRoutes(router, authHandler, questionHandler, questionService, hub, routes.AuthOptions{
		Enabled:   cfg.Auth.Enabled,
		JWTSecret: cfg.Auth.JWTSecret,
	}, zlog)

	server := &http.Server{
		Addr:              cfg.BindAddress + ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
