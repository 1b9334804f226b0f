package kot

import (
	"encoding/json"
	"time"
)

// Origin tags mark which upstream collection supplied an order.
const (
	OriginRestaurant = "restaurant"
	OriginInRoom     = "in-room"
)

// RawOrder mirrors an order record as returned by either upstream order
// source. The record is owned by the external order service; the board never
// mutates it directly, only through the status update calls.
type RawOrder struct {
	ID          string    `json:"id"`
	TableNumber string    `json:"table_number,omitempty"`
	RoomNumber  string    `json:"room_number,omitempty"`
	Items       []RawItem `json:"items"`
	Status      string    `json:"status"`
	KOTCount    int       `json:"kot_count,omitempty"`
	PreparerRef string    `json:"assigned_to,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableRef returns whichever table or room reference the record carries.
func (o RawOrder) TableRef() string {
	if o.TableNumber != "" {
		return o.TableNumber
	}
	return o.RoomNumber
}

// RawItem is one entry of an order's item list. The two upstream producers
// disagree on shape: an entry may be a bare string, an object with a literal
// name, or an object whose itemId is either a catalog identifier or a full
// embedded catalog record. UnmarshalJSON absorbs all of them.
type RawItem struct {
	Name      string
	ItemName  string
	Ref       ItemRef
	ID        string
	Quantity  int
	KOTNumber int
	Note      string
}

func (it *RawItem) UnmarshalJSON(data []byte) error {
	var literal string
	if err := json.Unmarshal(data, &literal); err == nil {
		*it = RawItem{Name: literal}
		return nil
	}

	var raw struct {
		Name      string          `json:"name"`
		ItemName  string          `json:"itemName"`
		ItemID    json.RawMessage `json:"itemId"`
		ID        string          `json:"id"`
		Quantity  int             `json:"quantity"`
		KOTNumber int             `json:"kotNumber"`
		Note      string          `json:"note"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		// Malformed entries still occupy a slot so quantity accounting is
		// preserved; the resolver renders them as the unknown placeholder.
		*it = RawItem{}
		return nil
	}

	*it = RawItem{
		Name:      raw.Name,
		ItemName:  raw.ItemName,
		ID:        raw.ID,
		Quantity:  raw.Quantity,
		KOTNumber: raw.KOTNumber,
		Note:      raw.Note,
	}
	if len(raw.ItemID) > 0 {
		_ = json.Unmarshal(raw.ItemID, &it.Ref)
	}
	return nil
}

// ItemRef is the itemId field of a raw item: either a bare catalog
// identifier or an embedded catalog record.
type ItemRef struct {
	ID     string
	Name   string
	Inline bool
}

func (r *ItemRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = ItemRef{ID: id}
		return nil
	}

	var obj struct {
		ID    string `json:"id"`
		AltID string `json:"_id"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		*r = ItemRef{}
		return nil
	}
	*r = ItemRef{ID: obj.ID, Name: obj.Name, Inline: true}
	if r.ID == "" {
		r.ID = obj.AltID
	}
	return nil
}

// CatalogItem is one entry of the item/menu catalog.
type CatalogItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Catalog is a read-only snapshot of the item catalog, refreshed wholesale
// each poll tick.
type Catalog struct {
	items []CatalogItem
	byID  map[string]CatalogItem
}

func NewCatalog(items []CatalogItem) Catalog {
	byID := make(map[string]CatalogItem, len(items))
	for _, item := range items {
		if item.ID != "" {
			byID[item.ID] = item
		}
	}
	return Catalog{items: items, byID: byID}
}

func (c Catalog) ByID(id string) (CatalogItem, bool) {
	if id == "" {
		return CatalogItem{}, false
	}
	item, ok := c.byID[id]
	return item, ok
}

func (c Catalog) Items() []CatalogItem {
	return c.items
}

func (c Catalog) Len() int {
	return len(c.items)
}

// StaffMember is one entry of the preparer roster.
type StaffMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Table is one entry of the table/room reference list.
type Table struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

// ResolvedItem is a display-ready order item, recomputed on every
// normalization pass.
type ResolvedItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	KOTNumber int    `json:"kotNumber"`
	Note      string `json:"note,omitempty"`
}

// Ticket is the consolidated kitchen view of one order. It is rebuilt from
// the raw order on every normalization pass and never hand-edited; its ID is
// the source order's identifier.
type Ticket struct {
	ID        string         `json:"id"`
	Origin    string         `json:"origin"`
	Table     string         `json:"table"`
	Items     []ResolvedItem `json:"items"`
	KOTCount  int            `json:"kot_count"`
	Priority  string         `json:"priority"`
	Status    string         `json:"status"`
	Preparer  string         `json:"preparer,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
