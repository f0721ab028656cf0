package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chrisbel07054/AquaSport/models"
	"github.com/lib/pq"
)

var (
	ErrEnrollmentNotFound          = errors.New("enrollment not found")
	ErrEnrollmentConflict          = errors.New("enrollment conflict: user already enrolled in this tournament")
	ErrEnrollmentUserInvalid       = errors.New("enrollment user reference invalid")
	ErrEnrollmentTournamentInvalid = errors.New("enrollment tournament reference invalid")
)

type EnrollmentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, e *models.Enrollment) error
	FindByUserAndTournament(ctx context.Context, exec SQLExecutor, userID, tournamentID int) (*models.Enrollment, error)
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Enrollment, error)
	ListByUser(ctx context.Context, userID int) ([]models.Enrollment, error)
	Delete(ctx context.Context, userID, tournamentID int) error
}

type postgresEnrollmentRepository struct {
	db *sql.DB
}

func NewPostgresEnrollmentRepository(db *sql.DB) EnrollmentRepository {
	return &postgresEnrollmentRepository{db: db}
}

func (r *postgresEnrollmentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEnrollmentRepository) Create(ctx context.Context, exec SQLExecutor, e *models.Enrollment) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO inscripciones (usuario_id, torneo_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, e.UserID, e.TournamentID).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "inscripciones_usuario_id_torneo_id_key" {
					return ErrEnrollmentConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "inscripciones_usuario_id_fkey":
					return ErrEnrollmentUserInvalid
				case "inscripciones_torneo_id_fkey":
					return ErrEnrollmentTournamentInvalid
				}
			}
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *postgresEnrollmentRepository) FindByUserAndTournament(ctx context.Context, exec SQLExecutor, userID, tournamentID int) (*models.Enrollment, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, usuario_id, torneo_id, created_at FROM inscripciones WHERE usuario_id = $1 AND torneo_id = $2`

	e := &models.Enrollment{}
	err := executor.QueryRowContext(ctx, query, userID, tournamentID).Scan(
		&e.ID, &e.UserID, &e.TournamentID, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	return e, nil
}

func (r *postgresEnrollmentRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	query := `SELECT COUNT(*) FROM inscripciones WHERE torneo_id = $1`

	var count int
	if err := executor.QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count enrollments for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresEnrollmentRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Enrollment, error) {
	query := `
		SELECT
			i.id, i.usuario_id, i.torneo_id, i.created_at,
			u.id, u.nombre, u.genero, u.edad
		FROM inscripciones i
		JOIN usuarios u ON u.id = i.usuario_id
		WHERE i.torneo_id = $1
		ORDER BY i.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments by tournament: %w", err)
	}
	defer rows.Close()

	enrollments := make([]models.Enrollment, 0)
	for rows.Next() {
		var e models.Enrollment
		var u models.PublicUser
		if scanErr := rows.Scan(
			&e.ID, &e.UserID, &e.TournamentID, &e.CreatedAt,
			&u.ID, &u.Name, &u.Gender, &u.Age,
		); scanErr != nil {
			return nil, scanErr
		}
		e.User = &u
		enrollments = append(enrollments, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *postgresEnrollmentRepository) ListByUser(ctx context.Context, userID int) ([]models.Enrollment, error) {
	query := `
		SELECT
			i.id, i.usuario_id, i.torneo_id, i.created_at,
			t.id, t.nombre, t.deporte, t.fecha, t.ubicacion, t.descripcion,
			t.cupo, t.precio, t.estado, t.imagen_key, t.created_at
		FROM inscripciones i
		JOIN torneos t ON t.id = i.torneo_id
		WHERE i.usuario_id = $1
		ORDER BY t.fecha ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments by user: %w", err)
	}
	defer rows.Close()

	enrollments := make([]models.Enrollment, 0)
	for rows.Next() {
		var e models.Enrollment
		var t models.Tournament
		if scanErr := rows.Scan(
			&e.ID, &e.UserID, &e.TournamentID, &e.CreatedAt,
			&t.ID, &t.Name, &t.Sport, &t.Date, &t.Location, &t.Description,
			&t.Capacity, &t.Price, &t.State, &t.ImageKey, &t.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		e.Tournament = &t
		enrollments = append(enrollments, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *postgresEnrollmentRepository) Delete(ctx context.Context, userID, tournamentID int) error {
	query := `DELETE FROM inscripciones WHERE usuario_id = $1 AND torneo_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return checkAffectedRows(result, ErrEnrollmentNotFound)
}
