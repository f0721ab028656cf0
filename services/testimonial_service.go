package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chrisbel07054/AquaSport/models"
	"github.com/chrisbel07054/AquaSport/repositories"
)

type CreateTestimonialInput struct {
	Comment string `json:"comentario"`
	Rating  int    `json:"calificacion"`
}

type TestimonialService interface {
	Create(ctx context.Context, userID int, input CreateTestimonialInput) (*models.Testimonial, error)
	ListAll(ctx context.Context) ([]models.Testimonial, error)
	ListAllForAdmin(ctx context.Context) ([]models.Testimonial, error)
	ListByUser(ctx context.Context, userID int) ([]models.Testimonial, error)
}

type testimonialService struct {
	testimonials repositories.TestimonialRepository
}

func NewTestimonialService(testimonials repositories.TestimonialRepository) TestimonialService {
	return &testimonialService{testimonials: testimonials}
}

func (s *testimonialService) Create(ctx context.Context, userID int, input CreateTestimonialInput) (*models.Testimonial, error) {
	if strings.TrimSpace(input.Comment) == "" {
		return nil, fmt.Errorf("%w: comentario es requerido", ErrValidationFailed)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrTestimonialInvalidRating
	}

	testimonial := &models.Testimonial{
		UserID:  userID,
		Comment: input.Comment,
		Rating:  input.Rating,
	}
	if err := s.testimonials.Create(ctx, testimonial); err != nil {
		if errors.Is(err, repositories.ErrTestimonialUserInvalid) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Ответ включает автора, как на чтении.
	return s.testimonials.GetWithAuthor(ctx, testimonial.ID)
}

func (s *testimonialService) ListAll(ctx context.Context) ([]models.Testimonial, error) {
	return s.testimonials.ListAll(ctx, false)
}

func (s *testimonialService) ListAllForAdmin(ctx context.Context) ([]models.Testimonial, error) {
	return s.testimonials.ListAll(ctx, true)
}

func (s *testimonialService) ListByUser(ctx context.Context, userID int) ([]models.Testimonial, error) {
	return s.testimonials.ListByUser(ctx, userID)
}
