package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	appidentity "github.com/tradenet/backend/internal/application/identity"
	"github.com/tradenet/backend/internal/infrastructure/auth"
	"github.com/tradenet/backend/internal/infrastructure/config"
	"github.com/tradenet/backend/internal/infrastructure/logger"
	"github.com/tradenet/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Creates or promotes a staff account. Idempotent: running it twice
// with the same email leaves the account unchanged.
func main() {
	var (
		email    string
		password string
	)

	flag.StringVar(&email, "email", os.Getenv("TRADENET_SUPERUSER_EMAIL"), "Superuser email")
	flag.StringVar(&password, "password", os.Getenv("TRADENET_SUPERUSER_PASSWORD"), "Superuser password")
	flag.Parse()

	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Usage: createsuperuser -email <email> -password <password>")
		fmt.Fprintln(os.Stderr, "Or set TRADENET_SUPERUSER_EMAIL and TRADENET_SUPERUSER_PASSWORD")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	userRepo := persistence.NewGormUserRepository(db.DB)
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := appidentity.NewAuthService(userRepo, jwtService, auth.NewBcryptHasher(), auth.NewInMemoryTokenBlacklist())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, created, err := authService.EnsureSuperuser(ctx, email, password)
	if err != nil {
		log.Fatal("Failed to ensure superuser", zap.Error(err))
	}

	if created {
		log.Info("Superuser created", zap.String("email", user.Email), zap.String("id", user.ID.String()))
	} else {
		log.Info("Superuser already present", zap.String("email", user.Email), zap.String("id", user.ID.String()))
	}
}
