package handlers

import (
	"net/http"

	"github.com/chrisbel07054/AquaSport/models"
	"github.com/chrisbel07054/AquaSport/repositories"
	"github.com/chrisbel07054/AquaSport/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

// Create обрабатывает POST /torneo (admin).
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"message": "Torneo creado exitosamente",
		"torneo":  tournament,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID обрабатывает GET /torneo/{id}: деталь с инскрипциями и
// производными полями занятости.
func (h *TournamentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	detail, err := h.tournamentService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "torneo": detail}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListActive обрабатывает GET /torneo/activos.
func (h *TournamentHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListActive(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "torneos": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListWithFilters обрабатывает GET /torneo/filtros?deporte=&busqueda=&estado=.
func (h *TournamentHandler) ListWithFilters(w http.ResponseWriter, r *http.Request) {
	var filter repositories.TournamentFilter
	query := r.URL.Query()

	if sportStr := query.Get("deporte"); sportStr != "" {
		sport := models.Sport(sportStr)
		filter.Sport = &sport
	}
	if stateStr := query.Get("estado"); stateStr != "" {
		state := models.TournamentState(stateStr)
		filter.State = &state
	}
	if search := query.Get("busqueda"); search != "" {
		filter.Search = &search
	}

	tournaments, err := h.tournamentService.ListWithFilters(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "torneos": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListFinalized обрабатывает GET /torneo/finalizados: история с
// победителями.
func (h *TournamentHandler) ListFinalized(w http.ResponseWriter, r *http.Request) {
	finalized, err := h.tournamentService.ListFinalized(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "torneos": finalized}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListAllWithCounts обрабатывает GET /torneo (admin): все турниры с
// живым числом инскритых.
func (h *TournamentHandler) ListAllWithCounts(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListAllWithCounts(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "torneos": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update обрабатывает PUT /torneo/{id} (admin).
func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"message": "Torneo actualizado exitosamente",
		"torneo":  tournament,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type changeStateInput struct {
	State        models.TournamentState `json:"estado"`
	WinnerUserID *int                   `json:"usuarioId"`
}

// ChangeState обрабатывает PUT /torneo/cambiar-estado/{id} (admin).
// Для estado=finalizado требуется usuarioId победителя.
func (h *TournamentHandler) ChangeState(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input changeStateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.ChangeState(r.Context(), id, input.State, input.WinnerUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"message": "Estado del torneo actualizado a " + string(input.State),
		"torneo":  tournament,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadImage обрабатывает POST /torneo/{id}/imagen (admin).
func (h *TournamentHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("imagen")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	tournament, err := h.tournamentService.UploadImage(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"message": "Imagen actualizada exitosamente",
		"torneo":  tournament,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
