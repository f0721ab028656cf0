package handlers

import (
	"net/http"

	"github.com/chrisbel07054/AquaSport/middleware"
	"github.com/chrisbel07054/AquaSport/models"
	"github.com/chrisbel07054/AquaSport/services"
)

type EnrollmentHandler struct {
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(es services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: es}
}

type enrollInput struct {
	UserID int `json:"usuarioId"`
}

// Enroll обрабатывает POST /torneo/inscripcion/{id}. usuarioId из тела
// должен совпадать с владельцем токена; админ может инскрибировать
// любого.
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "No autorizado")
		return
	}

	// Тело опционально: без него инскрибируется владелец токена.
	// Присланное, но некорректное тело — ошибка клиента.
	userID := currentUserID
	if r.ContentLength != 0 {
		var input enrollInput
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		if input.UserID > 0 {
			userID = input.UserID
		}
	}

	if userID != currentUserID {
		role, roleErr := middleware.GetUserRoleFromContext(r.Context())
		if roleErr != nil || role != models.RoleAdmin {
			forbiddenResponse(w, r, "No puedes inscribir a otro usuario")
			return
		}
	}

	enrollment, err := h.enrollmentService.Enroll(r.Context(), tournamentID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success":     true,
		"message":     "Inscripción realizada exitosamente",
		"inscripcion": enrollment,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Cancel обрабатывает DELETE /torneo/inscripcion/{id}: снимает
// собственную инскрипцию.
func (h *EnrollmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "No autorizado")
		return
	}

	if err := h.enrollmentService.Cancel(r.Context(), tournamentID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"message": "Inscripción cancelada exitosamente",
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
