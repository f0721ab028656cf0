package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/chrisbel07054/AquaSport/models"
	"github.com/chrisbel07054/AquaSport/repositories"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name     string        `json:"nombre"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Gender   models.Gender `json:"genero"`
	Age      int           `json:"edad"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

type authService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return nil, fmt.Errorf("%w: nombre es requerido", ErrValidationFailed)
	case input.Password == "":
		return nil, fmt.Errorf("%w: contraseña es requerida", ErrValidationFailed)
	case input.Gender != models.GenderMale && input.Gender != models.GenderFemale:
		return nil, fmt.Errorf("%w: género inválido", ErrValidationFailed)
	case input.Age <= 0:
		return nil, fmt.Errorf("%w: edad inválida", ErrValidationFailed)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, fmt.Errorf("%w: email inválido", ErrValidationFailed)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Gender:       input.Gender,
		Age:          input.Age,
		Role:         models.RoleParticipant,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	return user, nil
}
