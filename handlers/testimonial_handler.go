package handlers

import (
	"net/http"

	"github.com/chrisbel07054/AquaSport/middleware"
	"github.com/chrisbel07054/AquaSport/services"
)

type TestimonialHandler struct {
	testimonialService services.TestimonialService
}

func NewTestimonialHandler(ts services.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{testimonialService: ts}
}

// List обрабатывает GET /testimonio (публичный).
func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.testimonialService.ListAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "testimonios": testimonials}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create обрабатывает POST /testimonio (аутентифицированный).
func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "No autorizado")
		return
	}

	var input services.CreateTestimonialInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	testimonial, err := h.testimonialService.Create(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success":    true,
		"message":    "Testimonio creado exitosamente",
		"testimonio": testimonial,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
