package v1

import (
	"time"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC          domain.AuthUsecase
	TokenUC         domain.AccessTokenUsecase
	PortfolioUC     domain.PortfolioUsecase
	FileUC          domain.SupportingFileUsecase
	SnapshotUC      domain.SnapshotUsecase
	JustificationUC domain.JustificationUsecase
	HealthUC        usecase.HealthUsecase
	Verifier        *auth.Verifier
	Config          *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	v1.GET("/health", healthHandler(deps.HealthUC))
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	NewPortfolioHandler(v1, deps.PortfolioUC, deps.FileUC,
		middleware.OptionalAuth(deps.Verifier), middleware.RecruiterSecret())

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier, deps.AuthUC))
	{
		validateLimit := middleware.RateLimitMiddleware(middleware.ValidateRateLimitConfig(cfg.RateLimitValidateThreshold, window))
		NewAccessTokenHandler(v1, protected, deps.TokenUC, validateLimit)
		NewSnapshotHandler(protected, deps.SnapshotUC, cfg.ImportMaxBytes)
		NewJustificationHandler(protected, deps.JustificationUC)
		NewMeHandler(protected, deps.AuthUC)
	}

	return r
}
