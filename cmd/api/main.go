package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rdua-dev/sadhana-tracker/internal/auth"
	"github.com/rdua-dev/sadhana-tracker/internal/background"
	"github.com/rdua-dev/sadhana-tracker/internal/config"
	"github.com/rdua-dev/sadhana-tracker/internal/database"
	"github.com/rdua-dev/sadhana-tracker/internal/handlers"
	middlewareCustom "github.com/rdua-dev/sadhana-tracker/internal/middleware"
	"github.com/rdua-dev/sadhana-tracker/internal/models"
	"github.com/rdua-dev/sadhana-tracker/internal/repositories"
	"github.com/rdua-dev/sadhana-tracker/internal/routes"
	"github.com/rdua-dev/sadhana-tracker/internal/services"
	pkgauth "github.com/rdua-dev/sadhana-tracker/pkg/auth"
	pkglogger "github.com/rdua-dev/sadhana-tracker/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Apply pending migrations
	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.Migrate(migrateCtx, "migrations"); err != nil {
		migrateCancel()
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	migrateCancel()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	sadhanaRepo := repositories.NewSadhanaRepository(db)
	goalRepo := repositories.NewGoalRepository(db)
	ekadashiRepo := repositories.NewEkadashiRepository(db)

	// Initialize cleanup manager for expired reset tokens
	cleanupManager := background.NewCleanupManager(userRepo, logger, cfg.Auth.CleanupInterval)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.SessionTokenExpiry,
		cfg.Auth.VerificationTokenExpiry,
	)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// AWS SES email service
	emailService, err := services.NewAWSSESEmailService(
		cfg.Email.AWSRegion,
		cfg.Email.FromAddress,
		cfg.Email.FrontendURL,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenManager, emailService, logger, auditLogger, cfg.Auth.ResetTokenExpiry)
	userService := services.NewUserService(userRepo, logger, auditLogger)
	sadhanaService := services.NewSadhanaService(sadhanaRepo, goalRepo, userRepo, logger)
	leaderboardService := services.NewLeaderboardService(ekadashiRepo, logger, auditLogger)

	// Initialize handlers
	cookieConfig := auth.CookieConfig{
		Secure:   cfg.Server.Env == "production",
		SameSite: "strict",
	}
	authHandler := handlers.NewAuthHandler(authService, cookieConfig, cfg.Auth.SessionTokenExpiry)
	sadhanaHandler := handlers.NewSadhanaHandler(sadhanaService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	userHandler := handlers.NewUserHandler(userService, cookieConfig)

	// Bootstrap first superadmin user if configured
	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureAdminUser(bootstrapCtx, userRepo, logger); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	bootstrapCancel()

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.Env)
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, sadhanaHandler, leaderboardHandler, userHandler, tokenManager, userRepo)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// adminUserStore is the slice of the user repository the bootstrap needs
type adminUserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// ensureAdminUser creates the first superadmin if ADMIN_EMAIL and ADMIN_PASSWORD are set
func ensureAdminUser(ctx context.Context, userRepo adminUserStore, logger *slog.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminUsername := os.Getenv("ADMIN_USERNAME")

	if adminEmail == "" || adminPassword == "" {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping admin user creation")
		return nil
	}
	if adminUsername == "" {
		adminUsername = "admin"
	}

	// Login lowercases identifiers, so the stored account must match
	adminEmail = strings.ToLower(adminEmail)
	adminUsername = strings.ToLower(adminUsername)

	// Check if admin already exists
	_, err := userRepo.GetByEmail(ctx, adminEmail)
	if err == nil {
		logger.Info("admin user already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	hashedPassword, err := pkgauth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:     adminUsername,
		Email:        adminEmail,
		FirstName:    "Admin",
		PasswordHash: hashedPassword,
		Role:         models.RoleSuperadmin,
		IsVerified:   true,
	}

	if _, err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created successfully")
	return nil
}
