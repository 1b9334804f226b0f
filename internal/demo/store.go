package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"

	"github.com/hotelworks/kotboard/internal/kot"
	"github.com/hotelworks/kotboard/pkg/event"
)

// Store is the in-memory backend behind the demo hotel API. It holds the
// sample orders plus reference data and mirrors the real backend's behavior:
// mutations succeed in place and a push event goes out for each one when a
// publisher is configured.
type Store struct {
	mu            sync.Mutex
	restaurant    []kot.RawOrder
	roomService   []kot.RawOrder
	menu          []kot.CatalogItem
	staff         []kot.StaffMember
	tables        []kot.Table
	notifications []kot.AssignmentNotice

	publisher events.Publisher
	logger    aqm.Logger
	now       func() time.Time
}

func NewStore(publisher events.Publisher, logger aqm.Logger) *Store {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	s := &Store{
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	s.seed()
	return s
}

// seed loads the sample dataset: a small menu, a chef roster, a handful of
// tables and a few orders in different stages so the board has something on
// both tabs right away.
func (s *Store) seed() {
	s.menu = []kot.CatalogItem{
		{ID: "m-001", Name: "Masala Dosa"},
		{ID: "m-002", Name: "Paneer Tikka"},
		{ID: "m-003", Name: "Hyderabadi Biryani"},
		{ID: "m-004", Name: "Club Sandwich"},
		{ID: "m-005", Name: "Tomato Soup"},
		{ID: "m-006", Name: "Masala Chai"},
	}
	s.staff = []kot.StaffMember{
		{ID: "chef-01", Name: "Arjun Nair", Role: "chef"},
		{ID: "chef-02", Name: "Meera Pillai", Role: "chef"},
		{ID: "chef-03", Name: "Ravi Shetty", Role: "chef"},
	}
	s.tables = []kot.Table{
		{ID: "tbl-01", Number: "T1"},
		{ID: "tbl-02", Number: "T4"},
		{ID: "tbl-03", Number: "T12"},
	}

	base := s.now().Add(-30 * time.Minute)
	s.restaurant = []kot.RawOrder{
		{
			ID:          "ord-1001",
			TableNumber: "tbl-02",
			Status:      "preparing",
			KOTCount:    2,
			PreparerRef: "chef-01",
			Items: []kot.RawItem{
				{Ref: kot.ItemRef{ID: "m-001"}, Quantity: 2, KOTNumber: 1},
				{Ref: kot.ItemRef{ID: "m-006"}, Quantity: 2, KOTNumber: 2},
			},
			CreatedAt: base,
		},
		{
			ID:          "ord-1002",
			TableNumber: "tbl-03",
			Status:      "pending",
			Items: []kot.RawItem{
				{Ref: kot.ItemRef{ID: "m-003"}, Quantity: 1},
			},
			CreatedAt: base.Add(10 * time.Minute),
		},
		{
			ID:          "ord-1000",
			TableNumber: "tbl-01",
			Status:      "served",
			Items: []kot.RawItem{
				{Ref: kot.ItemRef{ID: "m-002"}, Quantity: 1},
			},
			CreatedAt: base.Add(-20 * time.Minute),
		},
	}
	s.roomService = []kot.RawOrder{
		{
			ID:         "ord-2001",
			RoomNumber: "204",
			Status:     "pending",
			Items: []kot.RawItem{
				{Ref: kot.ItemRef{ID: "m-004"}, Quantity: 1},
				{Ref: kot.ItemRef{ID: "m-005"}, Quantity: 1},
			},
			CreatedAt: base.Add(15 * time.Minute),
		},
	}
}

func (s *Store) RestaurantOrders() []kot.RawOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]kot.RawOrder, len(s.restaurant))
	copy(out, s.restaurant)
	return out
}

func (s *Store) RoomServiceOrders() []kot.RawOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]kot.RawOrder, len(s.roomService))
	copy(out, s.roomService)
	return out
}

func (s *Store) MenuItems() []kot.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]kot.CatalogItem, len(s.menu))
	copy(out, s.menu)
	return out
}

func (s *Store) Staff() []kot.StaffMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]kot.StaffMember, len(s.staff))
	copy(out, s.staff)
	return out
}

func (s *Store) Tables() []kot.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]kot.Table, len(s.tables))
	copy(out, s.tables)
	return out
}

func (s *Store) findLocked(id string) *kot.RawOrder {
	for i := range s.restaurant {
		if s.restaurant[i].ID == id {
			return &s.restaurant[i]
		}
	}
	for i := range s.roomService {
		if s.roomService[i].ID == id {
			return &s.roomService[i]
		}
	}
	return nil
}

// UpdateTicketStatus sets the KOT status on an order.
func (s *Store) UpdateTicketStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	order := s.findLocked(id)
	if order == nil {
		s.mu.Unlock()
		return fmt.Errorf("order %s not found", id)
	}
	order.Status = status
	s.mu.Unlock()

	s.publish(ctx, event.OrderEvent{
		EventType:  event.EventKOTStatusUpdated,
		OccurredAt: s.now(),
		OrderID:    id,
		TicketID:   id,
		Status:     status,
	})
	return nil
}

// UpdateOrderStatus mirrors the order-service endpoint. Orders and tickets
// share storage here, so this only emits the order-side event.
func (s *Store) UpdateOrderStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	order := s.findLocked(id)
	if order == nil {
		s.mu.Unlock()
		return fmt.Errorf("order %s not found", id)
	}
	order.Status = status
	s.mu.Unlock()

	s.publish(ctx, event.OrderEvent{
		EventType:  event.EventOrderStatusUpdated,
		OccurredAt: s.now(),
		OrderID:    id,
		Status:     status,
	})
	return nil
}

// AssignTicket records the assigned preparer on an order.
func (s *Store) AssignTicket(ctx context.Context, id, staffID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.findLocked(id)
	if order == nil {
		return fmt.Errorf("order %s not found", id)
	}
	order.PreparerRef = staffID
	return nil
}

// RecordNotification keeps posted notices so a developer can inspect them.
func (s *Store) RecordNotification(notice kot.AssignmentNotice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, notice)
}

func (s *Store) Notifications() []kot.AssignmentNotice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]kot.AssignmentNotice, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// PlaceOrder appends a fresh restaurant order and announces it. Used by the
// churn loop to keep the board moving during a demo.
func (s *Store) PlaceOrder(ctx context.Context) kot.RawOrder {
	s.mu.Lock()
	order := kot.RawOrder{
		ID:          "ord-" + uuid.NewString()[:8],
		TableNumber: s.tables[len(s.restaurant)%len(s.tables)].ID,
		Status:      "pending",
		Items: []kot.RawItem{
			{Ref: kot.ItemRef{ID: s.menu[len(s.restaurant)%len(s.menu)].ID}, Quantity: 1},
		},
		CreatedAt: s.now(),
	}
	s.restaurant = append(s.restaurant, order)
	s.mu.Unlock()

	s.publish(ctx, event.OrderEvent{
		EventType:  event.EventNewOrder,
		OccurredAt: s.now(),
		OrderID:    order.ID,
		Origin:     kot.OriginRestaurant,
	})
	return order
}

func (s *Store) publish(ctx context.Context, evt event.OrderEvent) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Errorf("cannot encode %s event: %v", evt.EventType, err)
		return
	}
	if err := s.publisher.Publish(ctx, event.HotelOrdersTopic, payload); err != nil {
		s.logger.Errorf("cannot publish %s event: %v", evt.EventType, err)
	}
}
