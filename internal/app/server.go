// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"accounts-service/internal/config"
	"accounts-service/internal/db"
	authHandler "accounts-service/internal/handlers/auth"
	catalogHandler "accounts-service/internal/handlers/catalog"
	"accounts-service/internal/middleware"
	"accounts-service/internal/pkg/otp"
	"accounts-service/internal/pkg/password"
	"accounts-service/internal/pkg/ratelimit"
	"accounts-service/internal/pkg/token"
	"accounts-service/internal/repository/postgres"
	authUsecase "accounts-service/internal/service/auth"
	catalogUsecase "accounts-service/internal/service/catalog"
	"accounts-service/internal/service/email"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	http   *http.Server
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectPostgres(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := db.RunMigrations(ctx, s.cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("redis connected", zap.String("addr", s.cfg.RedisAddr))

	// ----- Auth building blocks -----
	tokenIssuer, err := token.NewIssuer(s.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to build token issuer: %w", err)
	}

	if s.cfg.OTP.Secret == "" {
		return fmt.Errorf("OTP_SECRET must be configured")
	}
	otpEngine := otp.NewEngine(s.cfg.OTP)
	hasher := password.NewHasher(s.cfg.BcryptCost)
	limiter := ratelimit.NewLimiter(redisClient)

	emailSender := email.NewSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
	)

	// ----- Repositories -----
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	// ----- Services -----
	authService := authUsecase.NewAuthService(
		userRepo,
		sessionRepo,
		otpEngine,
		hasher,
		tokenIssuer,
		limiter,
		emailSender,
		logger,
	)
	catalogService := catalogUsecase.NewCatalogService(categoryRepo, productRepo, logger)

	// ----- Super admin bootstrap -----
	bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := authService.EnsureSuperAdmin(
		bootCtx,
		s.cfg.SuperAdminEmail,
		s.cfg.SuperAdminPassword,
		s.cfg.SuperAdminName,
	); err != nil {
		// Don't fail startup, just log the error
		logger.Error("failed to ensure super admin", zap.Error(err))
	}

	// ----- Handlers & Middlewares -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	catalogHandlerInst := catalogHandler.NewCatalogHandler(catalogService)
	authMiddleware := middleware.NewAuthMiddleware(tokenIssuer)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	SetupRouter(s.engine, &Handlers{
		AuthHandler:    authHandlerInst,
		CatalogHandler: catalogHandlerInst,
		AuthMiddleware: authMiddleware,
	})

	// ----- Start HTTP -----
	s.http = &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting new requests and drains in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
