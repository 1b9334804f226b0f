package hotelapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aquamarinepk/aqm"

	"github.com/hotelworks/kotboard/internal/kot"
)

// Options are the upstream locations and the bearer token. Reference-data
// URLs fall back to the order service URL, which is how single-backend
// deployments run.
type Options struct {
	OrdersURL string
	MenuURL   string
	StaffURL  string
	TablesURL string
	Token     string
}

// API implements kot.DataSource and kot.TicketWriter against the hotel
// backend services.
type API struct {
	orders *Client
	menu   *Client
	staff  *Client
	tables *Client
	logger aqm.Logger
}

func New(opts Options, logger aqm.Logger) (*API, error) {
	if opts.OrdersURL == "" {
		return nil, fmt.Errorf("order service URL is required")
	}
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	menuURL := opts.MenuURL
	if menuURL == "" {
		menuURL = opts.OrdersURL
	}
	staffURL := opts.StaffURL
	if staffURL == "" {
		staffURL = opts.OrdersURL
	}
	tablesURL := opts.TablesURL
	if tablesURL == "" {
		tablesURL = opts.OrdersURL
	}

	return &API{
		orders: NewClient(opts.OrdersURL, opts.Token),
		menu:   NewClient(menuURL, opts.Token),
		staff:  NewClient(staffURL, opts.Token),
		tables: NewClient(tablesURL, opts.Token),
		logger: logger,
	}, nil
}

func (a *API) RestaurantOrders(ctx context.Context) ([]kot.RawOrder, error) {
	var orders []kot.RawOrder
	if err := a.orders.Get(ctx, "/restaurant/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (a *API) RoomServiceOrders(ctx context.Context) ([]kot.RawOrder, error) {
	var orders []kot.RawOrder
	if err := a.orders.Get(ctx, "/room-service/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (a *API) MenuItems(ctx context.Context) ([]kot.CatalogItem, error) {
	var items []kot.CatalogItem
	if err := a.menu.Get(ctx, "/menu/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (a *API) StaffRoster(ctx context.Context) ([]kot.StaffMember, error) {
	var staff []kot.StaffMember
	if err := a.staff.Get(ctx, "/staff?role=chef", &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (a *API) Tables(ctx context.Context) ([]kot.Table, error) {
	var tables []kot.Table
	if err := a.tables.Get(ctx, "/tables", &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

type statusPayload struct {
	Status string `json:"status"`
}

func (a *API) UpdateTicketStatus(ctx context.Context, ticketID, status string) error {
	path := fmt.Sprintf("/kot/tickets/%s/status", ticketID)
	return a.orders.Send(ctx, http.MethodPatch, path, statusPayload{Status: status})
}

func (a *API) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	path := fmt.Sprintf("/orders/%s/status", orderID)
	return a.orders.Send(ctx, http.MethodPut, path, statusPayload{Status: status})
}

func (a *API) AssignTicket(ctx context.Context, ticketID, staffID string) error {
	path := fmt.Sprintf("/kot/tickets/%s/assign", ticketID)
	payload := struct {
		StaffID string `json:"staff_id"`
	}{StaffID: staffID}
	return a.orders.Send(ctx, http.MethodPatch, path, payload)
}

func (a *API) SendAssignmentNotice(ctx context.Context, notice kot.AssignmentNotice) error {
	return a.orders.Send(ctx, http.MethodPost, "/notifications", notice)
}
