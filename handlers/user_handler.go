package handlers

import (
	"net/http"

	"github.com/chrisbel07054/AquaSport/middleware"
	"github.com/chrisbel07054/AquaSport/models"
	"github.com/chrisbel07054/AquaSport/services"
)

type UserHandler struct {
	userService        services.UserService
	enrollmentService  services.EnrollmentService
	testimonialService services.TestimonialService
}

func NewUserHandler(us services.UserService, es services.EnrollmentService, ts services.TestimonialService) *UserHandler {
	return &UserHandler{
		userService:        us,
		enrollmentService:  es,
		testimonialService: ts,
	}
}

// GetByID обрабатывает GET /usuario/{id}: публичный профиль с
// выигранными турнирами.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success":        true,
		"message":        "Datos del usuario y torneos ganados",
		"usuario":        profile.User,
		"torneosGanados": profile.WonTournaments,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListParticipants обрабатывает GET /usuario (admin).
func (h *UserHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListParticipants(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "usuarios": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTournaments обрабатывает GET /usuario/torneos/{id}: турниры,
// в которые инскрит пользователь.
func (h *UserHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !h.canAccessUser(r, id) {
		forbiddenResponse(w, r, "Acceso denegado")
		return
	}

	enrollments, err := h.enrollmentService.ListUserTournaments(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	tournaments := make([]*models.Tournament, 0, len(enrollments))
	for _, e := range enrollments {
		tournaments = append(tournaments, e.Tournament)
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "torneos": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTestimonials обрабатывает GET /usuario/testimonios/{id}.
func (h *UserHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !h.canAccessUser(r, id) {
		forbiddenResponse(w, r, "Acceso denegado")
		return
	}

	testimonials, err := h.testimonialService.ListByUser(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "testimonios": testimonials}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateProfile обрабатывает PUT /usuario/{id}.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !h.canAccessUser(r, id) {
		forbiddenResponse(w, r, "Acceso denegado")
		return
	}

	var input services.UpdateProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"message": "Perfil actualizado exitosamente",
		"usuario": user,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// canAccessUser: владелец ресурса или админ.
func (h *UserHandler) canAccessUser(r *http.Request, userID int) bool {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		return false
	}
	if currentUserID == userID {
		return true
	}
	role, err := middleware.GetUserRoleFromContext(r.Context())
	return err == nil && role == models.RoleAdmin
}
