package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"

	"github.com/hotelworks/kotboard/pkg/event"
)

// Refresher is satisfied by the poll scheduler.
type Refresher interface {
	Kick()
}

// OrderEventSubscriber listens for push events on the hotel.orders topic and
// turns every recognized one into an immediate refresh. The push channel is
// strictly an optimization over the poll loop: correctness never depends on
// an event arriving, so every handler path is allowed to do nothing.
type OrderEventSubscriber struct {
	subscriber events.Subscriber
	refresher  Refresher
	logger     aqm.Logger
}

func NewOrderEventSubscriber(subscriber events.Subscriber, refresher Refresher, logger aqm.Logger) *OrderEventSubscriber {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &OrderEventSubscriber{
		subscriber: subscriber,
		refresher:  refresher,
		logger:     logger,
	}
}

func (s *OrderEventSubscriber) Start(ctx context.Context) error {
	if s.subscriber == nil {
		s.logger.Info("push channel not configured, polling alone drives the board")
		return nil
	}

	s.logger.Infof("subscribing to %s topic", event.HotelOrdersTopic)
	if err := s.subscriber.Subscribe(ctx, event.HotelOrdersTopic, s.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", event.HotelOrdersTopic, err)
	}
	return nil
}

// Stop is a no-op for lifecycle compatibility.
func (s *OrderEventSubscriber) Stop(ctx context.Context) error {
	return nil
}

func (s *OrderEventSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.OrderEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Error("failed to unmarshal push event", "error", err)
		return nil
	}

	switch evt.EventType {
	case event.EventNewOrder, event.EventNewKOT, event.EventKOTStatusUpdated, event.EventOrderStatusUpdated:
		s.logger.Debug("push event received, refreshing now", "event_type", evt.EventType, "order_id", evt.OrderID)
		s.refresher.Kick()
	default:
		// Unknown event types are ignored (forward compatibility).
	}
	return nil
}
