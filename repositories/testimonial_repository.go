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
	ErrTestimonialNotFound    = errors.New("testimonial not found")
	ErrTestimonialUserInvalid = errors.New("testimonial user reference invalid")
)

type TestimonialRepository interface {
	Create(ctx context.Context, t *models.Testimonial) error
	GetWithAuthor(ctx context.Context, id int) (*models.Testimonial, error)
	// ListAll возвращает все отзывы с автором; includeEmail добавляет
	// email автора (админский список).
	ListAll(ctx context.Context, includeEmail bool) ([]models.Testimonial, error)
	ListByUser(ctx context.Context, userID int) ([]models.Testimonial, error)
}

type postgresTestimonialRepository struct {
	db *sql.DB
}

func NewPostgresTestimonialRepository(db *sql.DB) TestimonialRepository {
	return &postgresTestimonialRepository{db: db}
}

func (r *postgresTestimonialRepository) Create(ctx context.Context, t *models.Testimonial) error {
	query := `
		INSERT INTO testimonios (usuario_id, comentario, calificacion)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, t.UserID, t.Comment, t.Rating).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "testimonios_usuario_id_fkey" {
				return ErrTestimonialUserInvalid
			}
		}
		return fmt.Errorf("failed to create testimonial: %w", err)
	}
	return nil
}

func (r *postgresTestimonialRepository) GetWithAuthor(ctx context.Context, id int) (*models.Testimonial, error) {
	query := `
		SELECT
			ts.id, ts.usuario_id, ts.comentario, ts.calificacion, ts.created_at,
			u.id, u.nombre
		FROM testimonios ts
		JOIN usuarios u ON u.id = ts.usuario_id
		WHERE ts.id = $1`

	t := &models.Testimonial{}
	var u models.PublicUser
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Comment, &t.Rating, &t.CreatedAt,
		&u.ID, &u.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTestimonialNotFound
		}
		return nil, fmt.Errorf("failed to get testimonial %d: %w", id, err)
	}
	t.User = &u
	return t, nil
}

func (r *postgresTestimonialRepository) ListAll(ctx context.Context, includeEmail bool) ([]models.Testimonial, error) {
	authorCols := "u.id, u.nombre"
	if includeEmail {
		authorCols += ", u.email"
	}
	query := fmt.Sprintf(`
		SELECT
			ts.id, ts.usuario_id, ts.comentario, ts.calificacion, ts.created_at,
			%s
		FROM testimonios ts
		JOIN usuarios u ON u.id = ts.usuario_id
		ORDER BY ts.created_at DESC`, authorCols)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	defer rows.Close()

	testimonials := make([]models.Testimonial, 0)
	for rows.Next() {
		var t models.Testimonial
		var u models.PublicUser
		dest := []interface{}{&t.ID, &t.UserID, &t.Comment, &t.Rating, &t.CreatedAt, &u.ID, &u.Name}
		if includeEmail {
			dest = append(dest, &u.Email)
		}
		if scanErr := rows.Scan(dest...); scanErr != nil {
			return nil, scanErr
		}
		t.User = &u
		testimonials = append(testimonials, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return testimonials, nil
}

func (r *postgresTestimonialRepository) ListByUser(ctx context.Context, userID int) ([]models.Testimonial, error) {
	query := `
		SELECT id, usuario_id, comentario, calificacion, created_at
		FROM testimonios
		WHERE usuario_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials by user: %w", err)
	}
	defer rows.Close()

	testimonials := make([]models.Testimonial, 0)
	for rows.Next() {
		var t models.Testimonial
		if scanErr := rows.Scan(&t.ID, &t.UserID, &t.Comment, &t.Rating, &t.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		testimonials = append(testimonials, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return testimonials, nil
}
