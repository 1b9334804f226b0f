package demo

import (
	"encoding/json"
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/hotelworks/kotboard/internal/kot"
)

// Handler serves the slice of the hotel backend the board consumes, backed by
// the in-memory store. Responses use the same {"data": ...} envelope the real
// services answer with.
type Handler struct {
	store  *Store
	logger aqm.Logger
}

func NewHandler(store *Store, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/restaurant/orders", h.RestaurantOrders)
	r.Get("/room-service/orders", h.RoomServiceOrders)
	r.Get("/menu/items", h.MenuItems)
	r.Get("/staff", h.Staff)
	r.Get("/tables", h.Tables)
	r.Patch("/kot/tickets/{id}/status", h.UpdateTicketStatus)
	r.Put("/orders/{id}/status", h.UpdateOrderStatus)
	r.Patch("/kot/tickets/{id}/assign", h.AssignTicket)
	r.Post("/notifications", h.PostNotification)
	r.Get("/notifications", h.ListNotifications)
	r.Post("/demo/orders", h.PlaceOrder)
}

func (h *Handler) RestaurantOrders(w http.ResponseWriter, r *http.Request) {
	aqm.Respond(w, http.StatusOK, h.store.RestaurantOrders(), nil)
}

func (h *Handler) RoomServiceOrders(w http.ResponseWriter, r *http.Request) {
	aqm.Respond(w, http.StatusOK, h.store.RoomServiceOrders(), nil)
}

func (h *Handler) MenuItems(w http.ResponseWriter, r *http.Request) {
	aqm.Respond(w, http.StatusOK, h.store.MenuItems(), nil)
}

func (h *Handler) Staff(w http.ResponseWriter, r *http.Request) {
	aqm.Respond(w, http.StatusOK, h.store.Staff(), nil)
}

func (h *Handler) Tables(w http.ResponseWriter, r *http.Request) {
	aqm.Respond(w, http.StatusOK, h.store.Tables(), nil)
}

func (h *Handler) UpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Status == "" {
		aqm.RespondError(w, http.StatusBadRequest, "status is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.store.UpdateTicketStatus(r.Context(), id, payload.Status); err != nil {
		aqm.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	aqm.Respond(w, http.StatusOK, map[string]interface{}{"updated": true}, nil)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Status == "" {
		aqm.RespondError(w, http.StatusBadRequest, "status is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.store.UpdateOrderStatus(r.Context(), id, payload.Status); err != nil {
		aqm.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	aqm.Respond(w, http.StatusOK, map[string]interface{}{"updated": true}, nil)
}

func (h *Handler) AssignTicket(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		StaffID string `json:"staff_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.StaffID == "" {
		aqm.RespondError(w, http.StatusBadRequest, "staff_id is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.store.AssignTicket(r.Context(), id, payload.StaffID); err != nil {
		aqm.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	aqm.Respond(w, http.StatusOK, map[string]interface{}{"assigned": true}, nil)
}

func (h *Handler) PostNotification(w http.ResponseWriter, r *http.Request) {
	var notice kot.AssignmentNotice
	if err := json.NewDecoder(r.Body).Decode(&notice); err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "invalid notification payload")
		return
	}
	h.store.RecordNotification(notice)
	aqm.Respond(w, http.StatusCreated, map[string]interface{}{"recorded": true}, nil)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	aqm.Respond(w, http.StatusOK, h.store.Notifications(), nil)
}

// PlaceOrder lets a demo driver push a fresh order onto the board.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	order := h.store.PlaceOrder(r.Context())
	h.logger.Infof("demo order %s placed", order.ID)
	aqm.Respond(w, http.StatusCreated, order, nil)
}
