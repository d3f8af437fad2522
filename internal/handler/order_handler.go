package handler

import (
	"net/http"

	"minibar/internal/model"
	"minibar/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OrderHandler handles a room's order lines.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// History handles GET /api/rooms/{room}/orders requests.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History(r.Context(), chi.URLParam(r, "room"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// Add handles POST /api/rooms/{room}/orders requests.
func (h *OrderHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.AddOrderRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	line, err := h.service.AddProduct(r.Context(), chi.URLParam(r, "room"), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, line)
}

// Update handles PUT /api/rooms/{room}/orders/{id} requests.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req model.UpdateOrderRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	line, err := h.service.UpdateQuantity(r.Context(), chi.URLParam(r, "room"), id, req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, line)
}

// Delete handles DELETE /api/rooms/{room}/orders/{id} requests.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "room"), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
