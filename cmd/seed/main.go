package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-ports-adapters/config"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/application"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/service"
	pginfra "github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	repo := pginfra.NewUserRepository(pool)
	users := application.NewUserService(repo, service.NewUserDomainService(repo, helpers.NewPasswordHasher(cfg.BcryptCost)), nil, logger)

	email := "demo@example.com"
	password := "password123"
	name := "Demo User"

	out, err := users.CreateUser(ctx, application.CreateUserInput{Email: email, Name: name, Password: password}).Unwrap()
	switch {
	case err == nil:
		fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", out.ID, out.Email, out.Name, password)
	case errors.Is(err, errs.ErrConflict):
		existing, ferr := repo.FindByEmail(ctx, email)
		if ferr != nil {
			logger.WithError(ferr).Fatal("failed to load existing user")
		}
		fmt.Printf("user already present: id=%s email=%s name=%s\n", existing.ID, existing.Email, existing.Name)
	default:
		logger.WithError(err).Fatal("failed to seed user")
	}
}
