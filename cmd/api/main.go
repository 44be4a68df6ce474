package main

import (
	"log"

	"opinor/internal/config"
	"opinor/internal/database"
	"opinor/internal/middleware"
	"opinor/internal/modules/admin"
	"opinor/internal/modules/auth"
	"opinor/internal/modules/feedback"
	"opinor/internal/modules/keywords"
	"opinor/internal/modules/notification"
	"opinor/internal/modules/qrcode"
	jwtsvc "opinor/internal/pkg/jwt"
	"opinor/internal/pkg/logger"
	"opinor/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zlog.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	lexicon, err := keywords.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		zlog.Fatal("lexicon load failed", zap.Error(err))
	}
	detector := keywords.NewDetector(lexicon)
	zlog.Info("keyword lexicon loaded", zap.Int("terms", lexicon.Len()))

	businessRepo := repository.NewBusinessRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notification.NewHub()
	notificationService := notification.NewService(notificationRepo, hub, zlog)
	router := notification.NewRouter(notificationService, detector)
	dispatcher := notification.NewDispatcher(notificationService, businessRepo, zlog)
	notificationHandler := notification.NewHandler(notificationService, hub, j)

	feedbackService := feedback.NewService(feedbackRepo, businessRepo, router, feedback.RateLimitConfig{
		Enabled: cfg.RateLimitEnabled,
		Window:  cfg.RateLimitWindow,
	}, zlog)
	feedbackHandler := feedback.NewHandler(feedbackService)

	authService := auth.NewService(businessRepo, adminRepo, j, router, cfg.FrontendURL, zlog)
	authHandler := auth.NewHandler(authService)

	qrService := qrcode.NewService(businessRepo, router, rdb, cfg.QRMilestoneStep, cfg.FrontendURL, zlog)
	qrHandler := qrcode.NewHandler(qrService)

	adminService := admin.NewService(businessRepo, feedbackRepo, notificationService, router, dispatcher, zlog)
	adminHandler := admin.NewHandler(adminService)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public: anonymous customers and login
		authHandler.RegisterPublicRoutes(v1)
		feedbackHandler.RegisterPublicRoutes(v1)
		qrHandler.RegisterPublicRoutes(v1)

		// websocket stream authenticates via query token
		notificationHandler.RegisterStreamRoute(v1)

		// owner dashboard
		owner := v1.Group("/")
		owner.Use(middleware.Auth(j))
		{
			authHandler.RegisterOwnerRoutes(owner)
			feedbackHandler.RegisterOwnerRoutes(owner)
			notificationHandler.RegisterRoutes(owner)
			qrHandler.RegisterOwnerRoutes(owner)
		}

		// platform admin
		adm := v1.Group("/admin")
		adm.Use(middleware.Auth(j), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adm)
		}
	}

	zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
