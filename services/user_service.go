package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/chrisbel07054/AquaSport/models"
	"github.com/chrisbel07054/AquaSport/repositories"
)

type UpdateProfileInput struct {
	Name   string        `json:"nombre"`
	Email  string        `json:"email"`
	Gender models.Gender `json:"genero"`
	Age    int           `json:"edad"`
}

// UserProfile — публичный профиль вместе с выигранными турнирами.
type UserProfile struct {
	User           models.PublicUser `json:"usuario"`
	WonTournaments []models.Winner   `json:"torneosGanados"`
}

type UserService interface {
	GetProfile(ctx context.Context, id int) (*UserProfile, error)
	ListParticipants(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int, input UpdateProfileInput) (*models.PublicUser, error)
}

type userService struct {
	users   repositories.UserRepository
	winners repositories.WinnerRepository
}

func NewUserService(users repositories.UserRepository, winners repositories.WinnerRepository) UserService {
	return &userService{users: users, winners: winners}
}

func (s *userService) GetProfile(ctx context.Context, id int) (*UserProfile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	won, err := s.winners.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}

	return &UserProfile{
		User:           user.Public(),
		WonTournaments: won,
	}, nil
}

func (s *userService) ListParticipants(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListByRole(ctx, models.RoleParticipant)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id int, input UpdateProfileInput) (*models.PublicUser, error) {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return nil, fmt.Errorf("%w: nombre es requerido", ErrValidationFailed)
	case input.Gender != models.GenderMale && input.Gender != models.GenderFemale:
		return nil, fmt.Errorf("%w: género inválido", ErrValidationFailed)
	case input.Age <= 0:
		return nil, fmt.Errorf("%w: edad inválida", ErrValidationFailed)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, fmt.Errorf("%w: email inválido", ErrValidationFailed)
	}

	user := &models.User{
		ID:     id,
		Name:   input.Name,
		Email:  input.Email,
		Gender: input.Gender,
		Age:    input.Age,
	}
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	public := user.Public()
	return &public, nil
}
