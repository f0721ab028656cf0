package handlers

import (
	"net/http"

	"github.com/chrisbel07054/AquaSport/services"
)

type AdminHandler struct {
	adminService       services.AdminService
	testimonialService services.TestimonialService
}

func NewAdminHandler(as services.AdminService, ts services.TestimonialService) *AdminHandler {
	return &AdminHandler{
		adminService:       as,
		testimonialService: ts,
	}
}

// GetStats обрабатывает GET /admin/estadisticas.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "estadisticas": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTestimonials обрабатывает GET /admin/testimonios: отзывы с
// email автора.
func (h *AdminHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.testimonialService.ListAllForAdmin(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "testimonios": testimonials}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
