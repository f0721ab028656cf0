package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chrisbel07054/AquaSport/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
)

type TournamentFilter struct {
	Sport  *models.Sport
	State  *models.TournamentState
	Search *string
}

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	// GetByIDForUpdate читает турнир с блокировкой строки (FOR UPDATE).
	// Только внутри транзакции.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Tournament, error)
	ListWithFilters(ctx context.Context, filter TournamentFilter) ([]models.Tournament, error)
	ListFinalized(ctx context.Context) ([]models.FinalizedTournament, error)
	ListAllWithCounts(ctx context.Context) ([]models.TournamentWithCount, error)
	Update(ctx context.Context, t *models.Tournament) error
	UpdateState(ctx context.Context, exec SQLExecutor, id int, state models.TournamentState) error
	UpdateImageKey(ctx context.Context, id int, imageKey *string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `id, nombre, deporte, fecha, ubicacion, descripcion, cupo, precio, estado, imagen_key, created_at`

func scanTournament(row interface{ Scan(dest ...interface{}) error }, t *models.Tournament) error {
	return row.Scan(
		&t.ID, &t.Name, &t.Sport, &t.Date, &t.Location, &t.Description,
		&t.Capacity, &t.Price, &t.State, &t.ImageKey, &t.CreatedAt,
	)
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO torneos (nombre, deporte, fecha, ubicacion, descripcion, cupo, precio, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Sport, t.Date, t.Location, t.Description, t.Capacity, t.Price, t.State,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	return r.getByID(ctx, exec, id, false)
}

func (r *postgresTournamentRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	return r.getByID(ctx, exec, id, true)
}

func (r *postgresTournamentRepository) getByID(ctx context.Context, exec SQLExecutor, id int, forUpdate bool) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM torneos WHERE id = $1`, tournamentColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	t := &models.Tournament{}
	err := scanTournament(executor.QueryRowContext(ctx, query, id), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) ListActive(ctx context.Context, now time.Time) ([]models.Tournament, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM torneos
		WHERE estado = $1 AND fecha >= $2
		ORDER BY fecha ASC`, tournamentColumns)

	return r.list(ctx, query, models.StateActive, now)
}

func (r *postgresTournamentRepository) ListWithFilters(ctx context.Context, filter TournamentFilter) ([]models.Tournament, error) {
	query := fmt.Sprintf(`SELECT %s FROM torneos WHERE 1=1`, tournamentColumns)
	args := []interface{}{}
	argID := 1

	// Без явного состояния показываем только активные, как и публичный список.
	state := models.StateActive
	if filter.State != nil {
		state = *filter.State
	}
	query += fmt.Sprintf(" AND estado = $%d", argID)
	args = append(args, state)
	argID++

	if filter.Sport != nil {
		query += fmt.Sprintf(" AND deporte = $%d", argID)
		args = append(args, *filter.Sport)
		argID++
	}
	if filter.Search != nil && *filter.Search != "" {
		query += fmt.Sprintf(" AND nombre ILIKE $%d", argID)
		args = append(args, "%"+*filter.Search+"%")
	}

	query += " ORDER BY fecha ASC"
	return r.list(ctx, query, args...)
}

func (r *postgresTournamentRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := scanTournament(rows, &t); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) ListFinalized(ctx context.Context) ([]models.FinalizedTournament, error) {
	query := `
		SELECT
			t.id, t.nombre, t.deporte, t.fecha, t.ubicacion, t.descripcion,
			t.cupo, t.precio, t.estado, t.imagen_key, t.created_at,
			u.id, u.nombre, u.genero, u.edad
		FROM torneos t
		JOIN ganadores g ON g.torneo_id = t.id
		JOIN usuarios u ON u.id = g.usuario_id
		WHERE t.estado = $1
		ORDER BY t.fecha DESC`

	rows, err := r.db.QueryContext(ctx, query, models.StateFinalized)
	if err != nil {
		return nil, fmt.Errorf("failed to list finalized tournaments: %w", err)
	}
	defer rows.Close()

	result := make([]models.FinalizedTournament, 0)
	for rows.Next() {
		var ft models.FinalizedTournament
		if scanErr := rows.Scan(
			&ft.Tournament.ID, &ft.Tournament.Name, &ft.Tournament.Sport, &ft.Tournament.Date,
			&ft.Tournament.Location, &ft.Tournament.Description, &ft.Tournament.Capacity,
			&ft.Tournament.Price, &ft.Tournament.State, &ft.Tournament.ImageKey, &ft.Tournament.CreatedAt,
			&ft.Winner.ID, &ft.Winner.Name, &ft.Winner.Gender, &ft.Winner.Age,
		); scanErr != nil {
			return nil, scanErr
		}
		result = append(result, ft)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresTournamentRepository) ListAllWithCounts(ctx context.Context) ([]models.TournamentWithCount, error) {
	query := `
		SELECT
			t.id, t.nombre, t.deporte, t.fecha, t.ubicacion, t.descripcion,
			t.cupo, t.precio, t.estado, t.imagen_key, t.created_at,
			COUNT(i.id)
		FROM torneos t
		LEFT JOIN inscripciones i ON i.torneo_id = t.id
		GROUP BY t.id
		ORDER BY t.fecha DESC, t.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments with counts: %w", err)
	}
	defer rows.Close()

	result := make([]models.TournamentWithCount, 0)
	for rows.Next() {
		var tc models.TournamentWithCount
		if scanErr := rows.Scan(
			&tc.ID, &tc.Name, &tc.Sport, &tc.Date, &tc.Location, &tc.Description,
			&tc.Capacity, &tc.Price, &tc.State, &tc.ImageKey, &tc.CreatedAt,
			&tc.EnrollmentCount,
		); scanErr != nil {
			return nil, scanErr
		}
		result = append(result, tc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE torneos SET
			nombre = $1,
			deporte = $2,
			fecha = $3,
			ubicacion = $4,
			descripcion = $5,
			cupo = $6,
			precio = $7,
			estado = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Sport, t.Date, t.Location, t.Description, t.Capacity, t.Price, t.State,
		t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateState(ctx context.Context, exec SQLExecutor, id int, state models.TournamentState) error {
	executor := r.getExecutor(exec)
	query := `UPDATE torneos SET estado = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, state, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateImageKey(ctx context.Context, id int, imageKey *string) error {
	query := `UPDATE torneos SET imagen_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, imageKey, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament image key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23514": // check_violation: cupo >= 1, precio >= 0
			return fmt.Errorf("tournament constraint %s violated: %w", pqErr.Constraint, err)
		case "22P02": // invalid enum input (deporte / estado)
			return fmt.Errorf("invalid enum value for tournament: %w", err)
		}
	}
	return err
}
