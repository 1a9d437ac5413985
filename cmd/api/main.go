package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"eventhub/config"
	"eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/email"
	httpdelivery "eventhub/internal/delivery/http"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/repository/postgres"
	"eventhub/internal/services"
)

// @title eventhub API
// @version 1.0
// @description Event management API: registration, login, events with capacity-limited participation.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DBUrl, logger); err != nil {
			return err
		}
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	participationRepo := postgres.NewParticipationRepository(db)

	// Services
	tokens := auth.NewJWTAuthority(cfg.JWTSecret)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(bcrypt.DefaultCost), tokens, emailService, logger, cfg.JWTExpiry, cfg.RequestTimeout)
	eventService := services.NewEventService(eventRepo, cfg.RequestTimeout)
	participationService := services.NewParticipationService(userRepo, eventRepo, participationRepo, emailService, logger, cfg.RequestTimeout)

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:          controllers.NewAuthController(logger, authService, cfg.Environment == "production"),
		Event:         controllers.NewEventController(logger, eventService),
		Participation: controllers.NewParticipationController(logger, participationService),
	}, tokens, db, cfg.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
