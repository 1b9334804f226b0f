package kot

import (
	"context"
	"sync"
)

// MockDataSource is a test double for DataSource.
type MockDataSource struct {
	Restaurant  []RawOrder
	RoomSvc     []RawOrder
	Catalog     []CatalogItem
	Roster      []StaffMember
	TableList   []Table
	Restaurants int

	RestaurantOrdersFunc  func(ctx context.Context) ([]RawOrder, error)
	RoomServiceOrdersFunc func(ctx context.Context) ([]RawOrder, error)
	MenuItemsFunc         func(ctx context.Context) ([]CatalogItem, error)
	StaffRosterFunc       func(ctx context.Context) ([]StaffMember, error)
	TablesFunc            func(ctx context.Context) ([]Table, error)
}

func NewMockDataSource() *MockDataSource {
	return &MockDataSource{}
}

func (m *MockDataSource) RestaurantOrders(ctx context.Context) ([]RawOrder, error) {
	m.Restaurants++
	if m.RestaurantOrdersFunc != nil {
		return m.RestaurantOrdersFunc(ctx)
	}
	return m.Restaurant, nil
}

func (m *MockDataSource) RoomServiceOrders(ctx context.Context) ([]RawOrder, error) {
	if m.RoomServiceOrdersFunc != nil {
		return m.RoomServiceOrdersFunc(ctx)
	}
	return m.RoomSvc, nil
}

func (m *MockDataSource) MenuItems(ctx context.Context) ([]CatalogItem, error) {
	if m.MenuItemsFunc != nil {
		return m.MenuItemsFunc(ctx)
	}
	return m.Catalog, nil
}

func (m *MockDataSource) StaffRoster(ctx context.Context) ([]StaffMember, error) {
	if m.StaffRosterFunc != nil {
		return m.StaffRosterFunc(ctx)
	}
	return m.Roster, nil
}

func (m *MockDataSource) Tables(ctx context.Context) ([]Table, error) {
	if m.TablesFunc != nil {
		return m.TablesFunc(ctx)
	}
	return m.TableList, nil
}

// MockTicketWriter is a test double for TicketWriter. It records every call
// so tests can assert what committed and what never ran.
type MockTicketWriter struct {
	mu sync.Mutex

	TicketUpdates []StatusCall
	OrderUpdates  []StatusCall
	Assignments   []AssignCall
	Notices       []AssignmentNotice

	UpdateTicketStatusFunc   func(ctx context.Context, ticketID, status string) error
	UpdateOrderStatusFunc    func(ctx context.Context, orderID, status string) error
	AssignTicketFunc         func(ctx context.Context, ticketID, staffID string) error
	SendAssignmentNoticeFunc func(ctx context.Context, notice AssignmentNotice) error
}

type StatusCall struct {
	ID     string
	Status string
}

type AssignCall struct {
	TicketID string
	StaffID  string
}

func NewMockTicketWriter() *MockTicketWriter {
	return &MockTicketWriter{}
}

func (m *MockTicketWriter) UpdateTicketStatus(ctx context.Context, ticketID, status string) error {
	if m.UpdateTicketStatusFunc != nil {
		if err := m.UpdateTicketStatusFunc(ctx, ticketID, status); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TicketUpdates = append(m.TicketUpdates, StatusCall{ID: ticketID, Status: status})
	return nil
}

func (m *MockTicketWriter) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	if m.UpdateOrderStatusFunc != nil {
		if err := m.UpdateOrderStatusFunc(ctx, orderID, status); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderUpdates = append(m.OrderUpdates, StatusCall{ID: orderID, Status: status})
	return nil
}

func (m *MockTicketWriter) AssignTicket(ctx context.Context, ticketID, staffID string) error {
	if m.AssignTicketFunc != nil {
		if err := m.AssignTicketFunc(ctx, ticketID, staffID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Assignments = append(m.Assignments, AssignCall{TicketID: ticketID, StaffID: staffID})
	return nil
}

func (m *MockTicketWriter) SendAssignmentNotice(ctx context.Context, notice AssignmentNotice) error {
	if m.SendAssignmentNoticeFunc != nil {
		if err := m.SendAssignmentNoticeFunc(ctx, notice); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notices = append(m.Notices, notice)
	return nil
}

// MockKicker records refresh kicks.
type MockKicker struct {
	mu    sync.Mutex
	Kicks int
}

func (m *MockKicker) Kick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Kicks++
}

func (m *MockKicker) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Kicks
}
