package kot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
)

// DataSource is the read half of the external hotel API: both order origins
// plus the reference data the normalizer needs.
type DataSource interface {
	RestaurantOrders(ctx context.Context) ([]RawOrder, error)
	RoomServiceOrders(ctx context.Context) ([]RawOrder, error)
	MenuItems(ctx context.Context) ([]CatalogItem, error)
	StaffRoster(ctx context.Context) ([]StaffMember, error)
	Tables(ctx context.Context) ([]Table, error)
}

// Board owns the per-tick consolidation pipeline: fetch both order sources
// and the reference data, normalize, run change detection, update the store.
// Refreshes are serialized; overlapping in-flight requests across ticks are
// tolerated because the last completed refresh wins wholesale.
type Board struct {
	mu       sync.Mutex
	source   DataSource
	store    *TicketStore
	detector *ChangeDetector
	logger   aqm.Logger

	// Last successful raw fetches. A failed source keeps its previous list
	// so a transient outage never blanks the board.
	restaurant  []RawOrder
	roomService []RawOrder
	reference   ReferenceData

	notification *Notification
	now          func() time.Time
}

func NewBoard(source DataSource, store *TicketStore, logger aqm.Logger) *Board {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if store == nil {
		store = NewTicketStore(logger)
	}
	return &Board{
		source:   source,
		store:    store,
		detector: NewChangeDetector(),
		logger:   logger,
		now:      time.Now,
	}
}

func (b *Board) Store() *TicketStore {
	return b.store
}

// Refresh runs one consolidation pass. Reference data is fetched before the
// order lists so a catalog that arrives late still shapes this very pass; on
// the first pass an empty catalog simply yields placeholder names that the
// next pass repairs, because normalization is always wholesale.
//
// Fetch failures downgrade to "no data this tick": the previous snapshot of
// the failed resource is reused and the error is reported once all work that
// can proceed has proceeded. Nothing is retried here; retries are
// user-initiated.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error

	if items, err := b.source.MenuItems(ctx); err != nil {
		b.logger.Errorf("catalog fetch failed, keeping previous snapshot: %v", err)
		errs = append(errs, err)
	} else {
		b.reference.Catalog = NewCatalog(items)
	}

	if roster, err := b.source.StaffRoster(ctx); err != nil {
		b.logger.Errorf("staff roster fetch failed, keeping previous snapshot: %v", err)
		errs = append(errs, err)
	} else {
		b.reference.Roster = roster
	}

	if tables, err := b.source.Tables(ctx); err != nil {
		b.logger.Errorf("table list fetch failed, keeping previous snapshot: %v", err)
		errs = append(errs, err)
	} else {
		b.reference.Tables = tables
	}

	if orders, err := b.source.RestaurantOrders(ctx); err != nil {
		b.logger.Errorf("restaurant orders fetch failed, keeping previous list: %v", err)
		errs = append(errs, err)
	} else {
		b.restaurant = orders
	}

	if orders, err := b.source.RoomServiceOrders(ctx); err != nil {
		b.logger.Errorf("room service orders fetch failed, keeping previous list: %v", err)
		errs = append(errs, err)
	} else {
		b.roomService = orders
	}

	// A refresh resolving after teardown must not touch the store.
	if err := ctx.Err(); err != nil {
		return err
	}

	tickets := NormalizeOrders(b.restaurant, b.roomService, b.reference)
	if n := b.detector.Observe(tickets); n != nil {
		b.notification = n
		b.logger.Infof("new order %s for %s (%d items)", n.OrderID, n.Table, n.ItemCount)
	}
	b.store.Update(tickets)

	return errors.Join(errs...)
}

// Notification returns the current new-arrival notification, or nil once it
// expired or was dismissed.
func (b *Board) Notification() *Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.notification == nil {
		return nil
	}
	if b.now().After(b.notification.ShowUntil) {
		b.notification = nil
		return nil
	}
	n := *b.notification
	return &n
}

// DismissNotification drops the current notification, if any.
func (b *Board) DismissNotification() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notification = nil
}
