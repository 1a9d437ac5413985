// Command seed-admin creates the admin user described by ADMIN_EMAIL, ADMIN_PASSWORD
// and ADMIN_NAME. Running it again is a no-op.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"eventhub/config"
	"eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/email"
	"eventhub/internal/repository/postgres"
	"eventhub/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	if err := seed(cfg, logger); err != nil {
		logger.Error("seed admin failed", "err", err)
		os.Exit(1)
	}
}

func seed(cfg *config.Config, logger *slog.Logger) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

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

	// Admin seeding never sends mail.
	mailer, err := email.NewMailer(email.MailerConfig{Provider: "noop"}, logger)
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	authService := services.NewAuthService(
		postgres.NewUserRepository(db),
		auth.NewBcryptHasher(bcrypt.DefaultCost),
		auth.NewJWTAuthority(cfg.JWTSecret),
		emailService,
		logger,
		cfg.JWTExpiry,
		cfg.RequestTimeout,
	)

	created, err := authService.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
	if err != nil {
		return err
	}
	if created {
		logger.Info("admin user created", "email", cfg.Admin.Email)
	} else {
		logger.Info("admin user already present, nothing to do", "email", cfg.Admin.Email)
	}
	return nil
}
