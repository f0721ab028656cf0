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
	ErrWinnerExists            = errors.New("tournament already has a winner")
	ErrWinnerUserInvalid       = errors.New("winner user reference invalid")
	ErrWinnerTournamentInvalid = errors.New("winner tournament reference invalid")
)

type WinnerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, w *models.Winner) error
	ListByUser(ctx context.Context, userID int) ([]models.Winner, error)
}

type postgresWinnerRepository struct {
	db *sql.DB
}

func NewPostgresWinnerRepository(db *sql.DB) WinnerRepository {
	return &postgresWinnerRepository{db: db}
}

func (r *postgresWinnerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresWinnerRepository) Create(ctx context.Context, exec SQLExecutor, w *models.Winner) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO ganadores (usuario_id, torneo_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, w.UserID, w.TournamentID).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation: один победитель на турнир
				if pqErr.Constraint == "ganadores_torneo_id_key" {
					return ErrWinnerExists
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "ganadores_usuario_id_fkey":
					return ErrWinnerUserInvalid
				case "ganadores_torneo_id_fkey":
					return ErrWinnerTournamentInvalid
				}
			}
		}
		return fmt.Errorf("failed to create winner: %w", err)
	}
	return nil
}

func (r *postgresWinnerRepository) ListByUser(ctx context.Context, userID int) ([]models.Winner, error) {
	query := `
		SELECT
			g.id, g.usuario_id, g.torneo_id, g.created_at,
			t.id, t.nombre, t.deporte, t.fecha, t.ubicacion, t.descripcion,
			t.cupo, t.precio, t.estado, t.imagen_key, t.created_at
		FROM ganadores g
		JOIN torneos t ON t.id = g.torneo_id
		WHERE g.usuario_id = $1
		ORDER BY t.fecha DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners by user: %w", err)
	}
	defer rows.Close()

	winners := make([]models.Winner, 0)
	for rows.Next() {
		var w models.Winner
		var t models.Tournament
		if scanErr := rows.Scan(
			&w.ID, &w.UserID, &w.TournamentID, &w.CreatedAt,
			&t.ID, &t.Name, &t.Sport, &t.Date, &t.Location, &t.Description,
			&t.Capacity, &t.Price, &t.State, &t.ImageKey, &t.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		w.Tournament = &t
		winners = append(winners, w)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return winners, nil
}
