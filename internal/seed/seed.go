package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/rahulm/classtrack/internal/app/models"
	"github.com/rahulm/classtrack/internal/app/repositories"
	"github.com/rahulm/classtrack/internal/pkg/apperrors"
	"github.com/rahulm/classtrack/internal/pkg/auth"
)

// CreateDefaultAdmin provisions the bootstrap admin login if it does not
// exist yet. The password comes from configuration so deployments can
// rotate it without touching the database by hand.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, password string, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)

	_, err := userRepo.GetByUsername(ctx, "admin")
	if err == nil {
		lgr.Debug().Msg("Admin login already present, skipping seed")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin login: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:  "admin",
		Password:  hash,
		Role:      models.RoleAdmin,
		StudentID: models.NoStudent,
	}
	if _, err := userRepo.Create(ctx, nil, admin); err != nil {
		return fmt.Errorf("failed to create admin login: %w", err)
	}

	lgr.Info().Msg("Default admin login created")
	return nil
}
