package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chrisbel07054/AquaSport/models"
)

// StatsRepository собирает агрегаты для админской панели.
type StatsRepository interface {
	CountUsers(ctx context.Context) (int, error)
	CountTournaments(ctx context.Context) (int, error)
	CountEnrollments(ctx context.Context) (int, error)
	TournamentsBySport(ctx context.Context) ([]models.SportCount, error)
	EnrollmentsByGender(ctx context.Context) ([]models.GenderCount, error)
	CountUpcomingTournaments(ctx context.Context, now time.Time) (int, error)
	CountPastTournaments(ctx context.Context, now time.Time) (int, error)
	AverageTestimonialRating(ctx context.Context) (float64, error)
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

func (r *postgresStatsRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}

func (r *postgresStatsRepository) CountUsers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM usuarios`)
}

func (r *postgresStatsRepository) CountTournaments(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM torneos`)
}

func (r *postgresStatsRepository) CountEnrollments(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM inscripciones`)
}

func (r *postgresStatsRepository) CountUpcomingTournaments(ctx context.Context, now time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM torneos WHERE fecha > $1 AND estado = $2`, now, models.StateActive)
}

func (r *postgresStatsRepository) CountPastTournaments(ctx context.Context, now time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM torneos WHERE fecha < $1`, now)
}

func (r *postgresStatsRepository) TournamentsBySport(ctx context.Context) ([]models.SportCount, error) {
	query := `SELECT deporte, COUNT(*) FROM torneos GROUP BY deporte ORDER BY deporte`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count tournaments by sport: %w", err)
	}
	defer rows.Close()

	counts := make([]models.SportCount, 0)
	for rows.Next() {
		var c models.SportCount
		if scanErr := rows.Scan(&c.Sport, &c.Total); scanErr != nil {
			return nil, scanErr
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *postgresStatsRepository) EnrollmentsByGender(ctx context.Context) ([]models.GenderCount, error) {
	query := `
		SELECT u.genero, COUNT(i.id)
		FROM inscripciones i
		JOIN usuarios u ON u.id = i.usuario_id
		GROUP BY u.genero
		ORDER BY u.genero`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments by gender: %w", err)
	}
	defer rows.Close()

	counts := make([]models.GenderCount, 0)
	for rows.Next() {
		var c models.GenderCount
		if scanErr := rows.Scan(&c.Gender, &c.Total); scanErr != nil {
			return nil, scanErr
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *postgresStatsRepository) AverageTestimonialRating(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	query := `SELECT AVG(calificacion) FROM testimonios`
	if err := r.db.QueryRowContext(ctx, query).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to average testimonial rating: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}
