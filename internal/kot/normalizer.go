package kot

import (
	"sort"

	"github.com/hotelworks/kotboard/pkg/enums/kotstatus"
)

// PriorityNormal is assumed when the upstream record carries no priority.
const PriorityNormal = "normal"

// ReferenceData bundles the read-only snapshots a normalization pass needs.
// All three are refreshed wholesale each poll tick and never mutated
// field-by-field.
type ReferenceData struct {
	Catalog Catalog
	Roster  []StaffMember
	Tables  []Table
}

// PreparerName resolves an assigned-preparer reference to a display name,
// falling back to the raw reference when the roster has no match.
func (r ReferenceData) PreparerName(ref string) string {
	if ref == "" {
		return ""
	}
	for _, member := range r.Roster {
		if member.ID == ref {
			return member.Name
		}
	}
	return ref
}

// TableLabel resolves a table/room reference through the reference list,
// falling back to the raw reference.
func (r ReferenceData) TableLabel(ref string) string {
	if ref == "" {
		return ""
	}
	for _, table := range r.Tables {
		if table.ID == ref && table.Number != "" {
			return table.Number
		}
	}
	return ref
}

// NormalizeOrder converts one raw order into its consolidated ticket. Every
// raw item maps through ResolveItem, so a malformed entry becomes the unknown
// placeholder instead of disappearing and the ticket always has exactly as
// many items as the order. Total and side-effect-free.
func NormalizeOrder(raw RawOrder, origin string, ref ReferenceData) Ticket {
	items := make([]ResolvedItem, 0, len(raw.Items))
	for _, item := range raw.Items {
		items = append(items, ResolveItem(item, ref.Catalog))
	}

	kotCount := raw.KOTCount
	if kotCount < 1 {
		kotCount = 1
	}

	priority := raw.Priority
	if priority == "" {
		priority = PriorityNormal
	}

	status := raw.Status
	if !kotstatus.IsValid(status) {
		status = kotstatus.Statuses.Pending.Name
	}

	return Ticket{
		ID:        raw.ID,
		Origin:    origin,
		Table:     ref.TableLabel(raw.TableRef()),
		Items:     items,
		KOTCount:  kotCount,
		Priority:  priority,
		Status:    status,
		Preparer:  ref.PreparerName(raw.PreparerRef),
		CreatedAt: raw.CreatedAt,
	}
}

// NormalizeOrders consolidates both order sources into one ticket list,
// newest first.
func NormalizeOrders(restaurant, roomService []RawOrder, ref ReferenceData) []Ticket {
	tickets := make([]Ticket, 0, len(restaurant)+len(roomService))
	for _, raw := range restaurant {
		tickets = append(tickets, NormalizeOrder(raw, OriginRestaurant, ref))
	}
	for _, raw := range roomService {
		tickets = append(tickets, NormalizeOrder(raw, OriginInRoom, ref))
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
	return tickets
}
