package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/config"
	_ "portfolio-backend/docs" // Important for Swagger
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/repository/postgres"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/auth"
	"portfolio-backend/pkg/database"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/redis"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/storage"
	"portfolio-backend/pkg/validation"
)

// @title           Portfolio Backend API
// @version         1.0
// @description     Portfolio visibility, recruiter access links and snapshot import/export.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting portfolio backend", "port", cfg.Port)
	secLog := security.InitSecurityLogger("portfolio-backend", os.Getenv("GIN_MODE"))
	defer secLog.Sync()

	// 3. Setup Database
	if cfg.RunMigrations {
		if err := database.Migrate(cfg.DBUrl); err != nil {
			logger.Log.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	dbPool, err := database.NewPostgresConnection(context.Background(), cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Optional Redis for rate limiting
	useRedis := false
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		} else {
			useRedis = true
			defer redis.Close()
		}
	}

	// 5. Supporting file storage
	var presigner *storage.Presigner
	if cfg.S3Bucket != "" {
		s3Client, err := storage.NewS3Client(context.Background(), storage.Config{
			Provider:        storage.Provider(cfg.S3Provider),
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logger.Log.Error("Failed to create storage client", "error", err)
			os.Exit(1)
		}
		presigner = storage.NewPresigner(s3Client, cfg.S3Bucket)
	}

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	tokenRepo := postgres.NewAccessTokenRepository(dbPool)
	portfolioRepo := postgres.NewPortfolioRepository(dbPool)
	fileRepo := postgres.NewSupportingFileRepository(dbPool)
	graphStore := postgres.NewGraphStore(dbPool)

	// 7. Setup UseCases
	authUC := usecase.NewAuthUsecase(userRepo)
	tokenUC := usecase.NewAccessTokenUsecase(tokenRepo, validation.New(), secLog, cfg.PublicBaseURL, cfg.AccessDebounce)
	resolver := usecase.NewAccessResolver(tokenUC)
	portfolioUC := usecase.NewPortfolioUsecase(portfolioRepo, resolver)
	fileUC := usecase.NewSupportingFileUsecase(fileRepo, resolver, presigner, cfg.FileLinkTTL)
	snapshotUC := usecase.NewSnapshotUsecase(graphStore, secLog, time.Now)
	justificationUC := usecase.NewJustificationUsecase(graphStore)
	healthUC := usecase.NewHealthUsecase(dbPool, useRedis)

	// 8. Owner token verification (HS256 secret and/or Supabase JWKS)
	var jwksProvider *auth.Provider
	if cfg.SupabaseUrl != "" {
		jwksProvider = auth.NewProvider(cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json")
	}
	verifier := auth.NewVerifier(cfg.JWTSecret, jwksProvider)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:          authUC,
		TokenUC:         tokenUC,
		PortfolioUC:     portfolioUC,
		FileUC:          fileUC,
		SnapshotUC:      snapshotUC,
		JustificationUC: justificationUC,
		HealthUC:        healthUC,
		Verifier:        verifier,
		Config:          cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
