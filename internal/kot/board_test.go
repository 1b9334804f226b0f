package kot

import (
	"context"
	"errors"
	"testing"
	"time"
)

func rawOrderFixture(id, table, status string, created time.Time) RawOrder {
	return RawOrder{
		ID:          id,
		TableNumber: table,
		Status:      status,
		Items: []RawItem{
			{Name: "Paneer Tikka", Quantity: 1},
		},
		CreatedAt: created,
	}
}

func TestBoardRefreshConsolidates(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source := NewMockDataSource()
	source.Restaurant = []RawOrder{rawOrderFixture("r1", "t1", "pending", base)}
	source.RoomSvc = []RawOrder{
		{ID: "m1", RoomNumber: "204", Status: "preparing", Items: []RawItem{{Name: "Club Sandwich"}}, CreatedAt: base.Add(time.Minute)},
	}
	source.TableList = []Table{{ID: "t1", Number: "T4"}}

	board := NewBoard(source, nil, nil)
	if err := board.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	active := board.Store().Active()
	if len(active) != 2 {
		t.Fatalf("len(active) = %d, want 2", len(active))
	}
	// Newest first.
	if active[0].ID != "m1" || active[0].Origin != OriginInRoom || active[0].Table != "204" {
		t.Errorf("active[0] = %+v, want room service order m1", active[0])
	}
	if active[1].ID != "r1" || active[1].Origin != OriginRestaurant || active[1].Table != "T4" {
		t.Errorf("active[1] = %+v, want restaurant order r1 at T4", active[1])
	}
}

func TestBoardRefreshKeepsPreviousSnapshotOnFetchFailure(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source := NewMockDataSource()
	source.Restaurant = []RawOrder{rawOrderFixture("r1", "T4", "pending", base)}

	board := NewBoard(source, nil, nil)
	if err := board.Refresh(context.Background()); err != nil {
		t.Fatalf("first Refresh: %v", err)
	}

	source.RestaurantOrdersFunc = func(context.Context) ([]RawOrder, error) {
		return nil, errors.New("upstream 503")
	}
	if err := board.Refresh(context.Background()); err == nil {
		t.Fatal("expected error from failed fetch")
	}

	// The board still shows the last good list.
	if active := board.Store().Active(); len(active) != 1 || active[0].ID != "r1" {
		t.Fatalf("active = %+v, want previous snapshot retained", active)
	}

	// Recovery resumes normal replacement.
	source.RestaurantOrdersFunc = nil
	source.Restaurant = []RawOrder{rawOrderFixture("r2", "T5", "pending", base.Add(time.Minute))}
	if err := board.Refresh(context.Background()); err != nil {
		t.Fatalf("third Refresh: %v", err)
	}
	if active := board.Store().Active(); len(active) != 1 || active[0].ID != "r2" {
		t.Fatalf("active = %+v, want the recovered list", active)
	}
}

func TestBoardRefreshPartialFailureStillConsolidates(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source := NewMockDataSource()
	source.Restaurant = []RawOrder{rawOrderFixture("r1", "T4", "pending", base)}
	source.RoomServiceOrdersFunc = func(context.Context) ([]RawOrder, error) {
		return nil, errors.New("room service API down")
	}

	board := NewBoard(source, nil, nil)
	if err := board.Refresh(context.Background()); err == nil {
		t.Fatal("expected joined error")
	}

	// The healthy source still landed.
	if active := board.Store().Active(); len(active) != 1 || active[0].ID != "r1" {
		t.Fatalf("active = %+v, want restaurant orders despite room service outage", active)
	}
}

func TestBoardRefreshCancelledContextLeavesStoreUntouched(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source := NewMockDataSource()
	source.Restaurant = []RawOrder{rawOrderFixture("r1", "T4", "pending", base)}

	board := NewBoard(source, nil, nil)
	if err := board.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	source.Restaurant = []RawOrder{rawOrderFixture("r2", "T5", "pending", base.Add(time.Minute))}

	if err := board.Refresh(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if active := board.Store().Active(); len(active) != 1 || active[0].ID != "r1" {
		t.Fatalf("active = %+v, store changed after teardown", active)
	}
}

func TestBoardLateCatalogRepairsNames(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source := NewMockDataSource()
	source.Restaurant = []RawOrder{
		{ID: "r1", TableNumber: "T4", Status: "pending", Items: []RawItem{{Ref: ItemRef{ID: "i1"}}}, CreatedAt: base},
	}
	source.MenuItemsFunc = func(context.Context) ([]CatalogItem, error) {
		return nil, errors.New("menu service warming up")
	}

	board := NewBoard(source, nil, nil)
	_ = board.Refresh(context.Background())

	active := board.Store().Active()
	if len(active) != 1 || active[0].Items[0].Name != UnknownItemName {
		t.Fatalf("active = %+v, want placeholder name before catalog loads", active)
	}

	// Catalog comes up; the next wholesale pass renames everything.
	source.MenuItemsFunc = nil
	source.Catalog = []CatalogItem{{ID: "i1", Name: "Masala Dosa"}}
	if err := board.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	active = board.Store().Active()
	if len(active) != 1 || active[0].Items[0].Name != "Masala Dosa" {
		t.Fatalf("active = %+v, want resolved name after catalog load", active)
	}
}

func TestBoardNotificationLifecycle(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source := NewMockDataSource()
	source.Restaurant = []RawOrder{rawOrderFixture("r1", "T4", "pending", base)}

	board := NewBoard(source, nil, nil)
	now := base
	board.now = func() time.Time { return now }
	board.detector.now = func() time.Time { return now }

	// First pass seeds the detector without announcing.
	if err := board.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if n := board.Notification(); n != nil {
		t.Fatalf("notification = %+v after seed pass, want nil", n)
	}

	// A new order arrives.
	source.Restaurant = append(source.Restaurant, rawOrderFixture("r2", "T7", "pending", base.Add(time.Minute)))
	if err := board.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	n := board.Notification()
	if n == nil {
		t.Fatal("expected a new-order notification")
	}
	if n.OrderID != "r2" || n.Table != "T7" || n.ItemCount != 1 {
		t.Errorf("notification = %+v", n)
	}

	// Unchanged data on the next tick must not re-announce.
	if err := board.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := board.Notification(); got == nil || got.ID != n.ID {
		t.Errorf("notification = %+v, want the original announcement to persist", got)
	}

	// It disappears on its own after the display window.
	now = now.Add(NotificationTTL + time.Second)
	if got := board.Notification(); got != nil {
		t.Errorf("notification = %+v after expiry, want nil", got)
	}
}

func TestBoardDismissNotification(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source := NewMockDataSource()
	source.Restaurant = []RawOrder{rawOrderFixture("r1", "T4", "pending", base)}

	board := NewBoard(source, nil, nil)
	_ = board.Refresh(context.Background())
	source.Restaurant = append(source.Restaurant, rawOrderFixture("r2", "T7", "pending", base.Add(time.Minute)))
	_ = board.Refresh(context.Background())

	if board.Notification() == nil {
		t.Fatal("expected a notification to dismiss")
	}
	board.DismissNotification()
	if n := board.Notification(); n != nil {
		t.Errorf("notification = %+v after dismiss, want nil", n)
	}
}
