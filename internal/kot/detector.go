package kot

import (
	"time"

	"github.com/google/uuid"
)

// NotificationTTL is how long a new-arrival notification stays visible
// before it auto-dismisses.
const NotificationTTL = 10 * time.Second

// Notification announces one newly arrived order. At most one exists at a
// time; a newer one replaces the prior.
type Notification struct {
	ID        uuid.UUID      `json:"id"`
	OrderID   string         `json:"order_id"`
	Table     string         `json:"table"`
	ItemCount int            `json:"item_count"`
	Items     []ResolvedItem `json:"items"`
	ShowUntil time.Time      `json:"show_until"`
}

// ChangeDetector decides, from poll to poll, whether a new order arrived.
// It compares the consolidated order count (plus the newest order's
// identifier, to avoid re-announcing across overlapping responses) against
// the last observed snapshot.
//
// Count-delta detection only ever reports the single newest order even when
// several arrive between two polls.
//
// Not safe for concurrent use; the board serializes observations.
type ChangeDetector struct {
	count    int
	latestID string
	seeded   bool

	now func() time.Time
}

func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{now: time.Now}
}

// Observe compares the freshly normalized ticket list against the snapshot
// and returns a notification for the newest arrival, or nil. The snapshot is
// unconditionally advanced. The first observation only seeds the baseline so
// a board coming up over a busy kitchen does not announce stale orders.
func (d *ChangeDetector) Observe(tickets []Ticket) *Notification {
	newest := newestTicket(tickets)

	defer func() {
		d.count = len(tickets)
		if newest != nil {
			d.latestID = newest.ID
		}
		d.seeded = true
	}()

	if !d.seeded {
		return nil
	}
	if len(tickets) <= d.count || newest == nil {
		return nil
	}
	if newest.ID == d.latestID {
		return nil
	}

	return &Notification{
		ID:        uuid.New(),
		OrderID:   newest.ID,
		Table:     newest.Table,
		ItemCount: len(newest.Items),
		Items:     newest.Items,
		ShowUntil: d.now().Add(NotificationTTL),
	}
}

func newestTicket(tickets []Ticket) *Ticket {
	var newest *Ticket
	for i := range tickets {
		if newest == nil || tickets[i].CreatedAt.After(newest.CreatedAt) {
			newest = &tickets[i]
		}
	}
	return newest
}
