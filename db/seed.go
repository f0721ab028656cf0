package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chrisbel07054/AquaSport/models"
	"github.com/chrisbel07054/AquaSport/repositories"
	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin создаёт стартового администратора, если в базе ещё нет
// ни одного пользователя с ролью admin.
func EnsureAdmin(ctx context.Context, users repositories.UserRepository, email, password string, logger *slog.Logger) error {
	exists, err := users.HasRole(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Name:         "Administrador",
		Email:        email,
		PasswordHash: string(hash),
		Gender:       models.GenderMale,
		Age:          30,
		Role:         models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created", slog.String("email", email))
	return nil
}
