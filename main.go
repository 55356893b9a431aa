package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/auth"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/config"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/database"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/handlers"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/mail"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/middleware"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/repositories"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", cfg.Database.Host),
		zap.Bool("smtp_configured", cfg.Email.IsConfigured()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	cancel()
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database.URL(), cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Repositories and services
	entityRepo := repositories.NewEntityRepository()
	recordRepo := repositories.NewWorkRecordRepository()
	userRepo := repositories.NewUserRepository()

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	mailer := mail.NewMailer(cfg.Email, logger)

	lifecycleService := services.NewLifecycleService(db, entityRepo, recordRepo, logger)
	entityService := services.NewEntityService(entityRepo, logger)
	recordService := services.NewWorkRecordService(recordRepo, entityRepo, logger)
	userService := services.NewUserService(userRepo, tokens, mailer, logger)

	// HTTP surface
	authMiddleware := auth.NewMiddleware(tokens, logger)
	mux := http.NewServeMux()

	handlers.NewHealthHandler(db, cfg.Version, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(userService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewUsersHandler(userService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewEntitiesHandler(entityService, lifecycleService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewRecordsHandler(recordService, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(database.WithPoolContext(db)(mux))

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}

// newLogger builds a production logger outside local development.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
