package event

import "time"

const (
	HotelOrdersTopic = "hotel.orders"

	EventNewOrder           = "new-order"
	EventNewKOT             = "new-kot"
	EventKOTStatusUpdated   = "kot-status-updated"
	EventOrderStatusUpdated = "order-status-updated"
)

// OrderEvent is the payload carried on the hotel.orders topic. The push
// channel is a refresh hint only: consumers must stay correct when none of
// these ever arrive.
type OrderEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	OrderID    string    `json:"order_id,omitempty"`
	TicketID   string    `json:"ticket_id,omitempty"`
	Origin     string    `json:"origin,omitempty"`
	Status     string    `json:"status,omitempty"`
}
