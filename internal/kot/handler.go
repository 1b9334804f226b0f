package kot

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/hotelworks/kotboard/internal/auth"
	"github.com/hotelworks/kotboard/pkg/enums/kotstatus"
)

const MaxBodyBytes = 1 << 20

const defaultPageSize = 50

// Kicker requests an out-of-band refresh from the poll scheduler.
type Kicker interface {
	Kick()
}

type Handler struct {
	board    *Board
	syncer   *StatusSyncer
	verifier *auth.Verifier
	kicker   Kicker
	logger   aqm.Logger
	tlm      *telemetry.HTTP
}

func NewHandler(board *Board, syncer *StatusSyncer, verifier *auth.Verifier, kicker Kicker, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		board:    board,
		syncer:   syncer,
		verifier: verifier,
		kicker:   kicker,
		logger:   logger,
		tlm:      telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/kot", func(r chi.Router) {
		r.Get("/board", h.BoardView)
		r.Get("/notification", h.CurrentNotification)
		r.Delete("/notification", h.DismissNotification)
		r.Post("/refresh", h.ManualRefresh)
		r.Get("/capabilities", h.Capabilities)
		r.Patch("/tickets/{id}/ready", h.MarkReady)
		r.Patch("/tickets/{id}/served", h.MarkServed)
		r.Patch("/tickets/{id}/assign", h.AssignTicket)
	})
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

// BoardView returns the displayed subset of the consolidated board. Tab,
// query and origin parameters update the store's filter state, so the same
// query keeps applying across refreshes and tab switches until changed.
func (h *Handler) BoardView(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BoardView")
	defer finish()

	store := h.board.Store()
	params := r.URL.Query()
	if params.Has("tab") {
		store.SetTab(params.Get("tab"))
	}
	if params.Has("q") {
		store.SetQuery(params.Get("q"))
	}
	if params.Has("origin") {
		store.SetOrigin(params.Get("origin"))
	}

	visible := store.Visible()
	page, perPage := pagination(params.Get("page"), params.Get("per_page"))
	start := (page - 1) * perPage
	if start > len(visible) {
		start = len(visible)
	}
	end := start + perPage
	if end > len(visible) {
		end = len(visible)
	}

	activeCount, historyCount := store.Counts()
	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"tickets":       visible[start:end],
		"total":         len(visible),
		"page":          page,
		"per_page":      perPage,
		"tab":           store.Tab(),
		"query":         store.Query(),
		"active_count":  activeCount,
		"history_count": historyCount,
	}, nil)
}

func pagination(pageStr, perPageStr string) (page, perPage int) {
	page, _ = strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(perPageStr)
	if perPage < 1 || perPage > 200 {
		perPage = defaultPageSize
	}
	return page, perPage
}

func (h *Handler) CurrentNotification(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CurrentNotification")
	defer finish()

	n := h.board.Notification()
	if n == nil {
		aqm.Respond(w, http.StatusOK, map[string]interface{}{"notification": nil}, nil)
		return
	}
	aqm.Respond(w, http.StatusOK, map[string]interface{}{"notification": n}, nil)
}

func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DismissNotification")
	defer finish()

	h.board.DismissNotification()
	aqm.Respond(w, http.StatusOK, map[string]interface{}{"dismissed": true}, nil)
}

// ManualRefresh runs a synchronous consolidation pass. This is the only
// retry mechanism the board offers; nothing retries automatically during an
// outage.
func (h *Handler) ManualRefresh(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ManualRefresh")
	defer finish()
	log := h.log(r)

	if err := h.board.Refresh(r.Context()); err != nil {
		log.Errorf("manual refresh incomplete: %v", err)
		aqm.RespondError(w, http.StatusBadGateway, "Refresh incomplete, showing last known data")
		return
	}
	aqm.Respond(w, http.StatusOK, map[string]interface{}{"refreshed": true}, nil)
}

// Capabilities tells the UI which gated controls to enable for the caller.
// A disallowed action ships with its reason so the control can be disabled
// with an explanation instead of hidden.
func (h *Handler) Capabilities(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Capabilities")
	defer finish()

	claims, err := h.claims(r)
	if err != nil {
		aqm.RespondError(w, http.StatusUnauthorized, "Invalid or missing bearer token")
		return
	}

	allowed, reason := auth.CanMarkAsServed(*claims)
	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"can_mark_as_served": allowed,
		"reason":             reason,
	}, nil)
}

func (h *Handler) MarkReady(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "MarkReady", kotstatus.Statuses.Ready.Name)
}

func (h *Handler) MarkServed(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "MarkServed", kotstatus.Statuses.Served.Name)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, name, next string) {
	w, r, finish := h.tlm.Start(w, r, "Handler."+name)
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	claims, err := h.claims(r)
	if err != nil {
		aqm.RespondError(w, http.StatusUnauthorized, "Invalid or missing bearer token")
		return
	}

	id := chi.URLParam(r, "id")
	ticket, err := h.syncer.Transition(ctx, id, next, *claims)
	switch {
	case err == nil:
		aqm.Respond(w, http.StatusOK, ticket, nil)
	case errors.Is(err, ErrOrderSyncFailed):
		// Ticket committed, order didn't. Surface the inconsistency and
		// force a refetch so the board converges on the external store.
		log.Errorf("partial status update for ticket %s: %v", id, err)
		h.forceRefresh()
		aqm.Respond(w, http.StatusConflict, map[string]interface{}{
			"error":  "order_sync_failed",
			"detail": "Ticket status updated but the parent order was not; the board has been refreshed from the order service.",
			"ticket": ticket,
		}, nil)
	case errors.Is(err, ErrTicketNotFound):
		aqm.RespondError(w, http.StatusNotFound, "Ticket not found")
	case errors.Is(err, ErrInvalidTransition):
		aqm.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotAuthorized):
		aqm.RespondError(w, http.StatusForbidden, err.Error())
	default:
		log.Errorf("cannot update ticket %s: %v", id, err)
		aqm.RespondError(w, http.StatusBadGateway, "Could not update ticket status")
	}
}

func (h *Handler) AssignTicket(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AssignTicket")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	if _, err := h.claims(r); err != nil {
		aqm.RespondError(w, http.StatusUnauthorized, "Invalid or missing bearer token")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var payload struct {
		StaffID   string `json:"staff_id"`
		StaffName string `json:"staff_name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if payload.StaffID == "" {
		aqm.RespondError(w, http.StatusBadRequest, "staff_id is required")
		return
	}

	id := chi.URLParam(r, "id")
	ticket, err := h.syncer.AssignPreparer(ctx, id, payload.StaffID, payload.StaffName)
	switch {
	case err == nil:
		aqm.Respond(w, http.StatusOK, ticket, nil)
	case errors.Is(err, ErrTicketNotFound):
		aqm.RespondError(w, http.StatusNotFound, "Ticket not found")
	default:
		log.Errorf("cannot assign ticket %s: %v", id, err)
		aqm.RespondError(w, http.StatusBadGateway, "Could not assign ticket")
	}
}

func (h *Handler) claims(r *http.Request) (*auth.Claims, error) {
	token, err := auth.FromRequest(r)
	if err != nil {
		return nil, err
	}
	return h.verifier.Parse(token)
}

func (h *Handler) forceRefresh() {
	if h.kicker != nil {
		h.kicker.Kick()
	}
}
