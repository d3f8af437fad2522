package handler

import (
	"net/http"

	"minibar/internal/model"
	"minibar/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ScheduleHandler handles a room's service time slot.
type ScheduleHandler struct {
	service service.ScheduleService
	logger  zerolog.Logger
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(service service.ScheduleService, logger zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		logger:  logger.With().Str("handler", "schedule").Logger(),
	}
}

// State handles GET /api/rooms/{room}/schedule requests.
func (h *ScheduleHandler) State(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.service.State(r.Context(), chi.URLParam(r, "room")))
}

// SetDraft handles PUT /api/rooms/{room}/schedule/draft requests.
func (h *ScheduleHandler) SetDraft(w http.ResponseWriter, r *http.Request) {
	var req model.DraftRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	h.respond(w)(h.service.SetDraft(r.Context(), chi.URLParam(r, "room"), &req))
}

// Load handles POST /api/rooms/{room}/schedule/load requests.
func (h *ScheduleHandler) Load(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.service.Load(r.Context(), chi.URLParam(r, "room")))
}

// Edit handles POST /api/rooms/{room}/schedule/edit requests.
func (h *ScheduleHandler) Edit(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.service.BeginEditing(r.Context(), chi.URLParam(r, "room")))
}

// Save handles POST /api/rooms/{room}/schedule/save requests. A rejected
// draft is answered with 422 and the editor state, whose error field carries
// the validation message.
func (h *ScheduleHandler) Save(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Save(r.Context(), chi.URLParam(r, "room"))
	if err != nil && state != nil && isSlotError(err) {
		h.logger.Info().Str("room", chi.URLParam(r, "room")).Str("error", state.Error).Msg("time slot rejected")
		writeJSON(w, http.StatusUnprocessableEntity, state)
		return
	}

	h.respond(w)(state, err)
}

// Delete handles DELETE /api/rooms/{room}/schedule requests.
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.service.Delete(r.Context(), chi.URLParam(r, "room")))
}

func (h *ScheduleHandler) respond(w http.ResponseWriter) func(*model.ScheduleState, error) {
	return func(state *model.ScheduleState, err error) {
		if err != nil {
			writeServiceError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}
