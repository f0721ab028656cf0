package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chrisbel07054/AquaSport/live"
	"github.com/chrisbel07054/AquaSport/models"
	"github.com/chrisbel07054/AquaSport/repositories"
)

type EnrollmentService interface {
	// Enroll создаёт инскрипцию атомарно: существование турнира,
	// активность, отсутствие дубликата и свободный cupo проверяются
	// в одной транзакции.
	Enroll(ctx context.Context, tournamentID, userID int) (*models.Enrollment, error)
	Cancel(ctx context.Context, tournamentID, userID int) error
	ListUserTournaments(ctx context.Context, userID int) ([]models.Enrollment, error)
}

type enrollmentService struct {
	db          *sql.DB
	enrollments repositories.EnrollmentRepository
	tournaments repositories.TournamentRepository
	hub         *live.Hub
	logger      *slog.Logger
}

func NewEnrollmentService(
	db *sql.DB,
	enrollments repositories.EnrollmentRepository,
	tournaments repositories.TournamentRepository,
	hub *live.Hub,
	logger *slog.Logger,
) EnrollmentService {
	return &enrollmentService{
		db:          db,
		enrollments: enrollments,
		tournaments: tournaments,
		hub:         hub,
		logger:      logger,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, tournamentID, userID int) (*models.Enrollment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin enrollment transaction: %w", err)
	}
	defer tx.Rollback()

	// Блокировка строки турнира сериализует конкурирующие инскрипции
	// в один и тот же турнир: count-then-insert ниже видит
	// согласованный снимок.
	tournament, err := s.tournaments.GetByIDForUpdate(ctx, tx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to lock tournament %d: %w", tournamentID, err)
	}

	if tournament.State != models.StateActive {
		return nil, ErrTournamentNotActive
	}

	_, err = s.enrollments.FindByUserAndTournament(ctx, tx, userID, tournamentID)
	if err == nil {
		return nil, ErrAlreadyEnrolled
	}
	if !errors.Is(err, repositories.ErrEnrollmentNotFound) {
		return nil, fmt.Errorf("failed to check existing enrollment: %w", err)
	}

	count, err := s.enrollments.CountByTournament(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	if count >= tournament.Capacity {
		return nil, ErrNoCapacity
	}

	enrollment := &models.Enrollment{
		UserID:       userID,
		TournamentID: tournamentID,
	}
	if err := s.enrollments.Create(ctx, tx, enrollment); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEnrollmentConflict):
			return nil, ErrAlreadyEnrolled
		case errors.Is(err, repositories.ErrEnrollmentUserInvalid):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrEnrollmentTournamentInvalid):
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit enrollment: %w", err)
	}

	s.logger.Info("enrollment created",
		slog.Int("tournament_id", tournamentID),
		slog.Int("user_id", userID),
		slog.Int("occupied", count+1),
		slog.Int("capacity", tournament.Capacity))

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.TournamentRoom(tournamentID), live.Event{
			Type: live.EventEnrollmentCreated,
			Payload: map[string]interface{}{
				"torneoId":         tournamentID,
				"usuarioId":        userID,
				"inscripciones":    count + 1,
				"cuposDisponibles": tournament.Capacity - count - 1,
			},
		})
	}

	return enrollment, nil
}

func (s *enrollmentService) Cancel(ctx context.Context, tournamentID, userID int) error {
	err := s.enrollments.Delete(ctx, userID, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrEnrollmentNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}
	return nil
}

func (s *enrollmentService) ListUserTournaments(ctx context.Context, userID int) ([]models.Enrollment, error) {
	return s.enrollments.ListByUser(ctx, userID)
}
