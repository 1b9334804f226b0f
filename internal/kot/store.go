package kot

import (
	"strings"
	"sync"

	"github.com/aquamarinepk/aqm"

	"github.com/hotelworks/kotboard/pkg/enums/kotstatus"
)

// Board tabs.
const (
	TabActive  = "active"
	TabHistory = "history"
)

// TicketStore holds the consolidated ticket lists: Active (non-terminal),
// History (terminal), and the currently displayed subset after the search
// query and origin filter. The partition is rebuilt wholesale on every
// update, never patched incrementally, so the two lists cannot drift.
type TicketStore struct {
	mu      sync.RWMutex
	active  []Ticket
	history []Ticket
	visible []Ticket

	tab    string
	query  string
	origin string

	logger aqm.Logger
}

func NewTicketStore(logger aqm.Logger) *TicketStore {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &TicketStore{
		tab:    TabActive,
		logger: logger,
	}
}

// Update replaces the store contents with a freshly normalized ticket list.
// Terminal tickets go to History, the rest to Active, and the displayed
// subset is recomputed so a live search query survives the refresh. Callers
// skip Update on fetch failure, which is what keeps the previous contents on
// screen through a transient outage.
func (s *TicketStore) Update(tickets []Ticket) {
	active := make([]Ticket, 0, len(tickets))
	history := make([]Ticket, 0)
	for _, t := range tickets {
		if kotstatus.IsTerminal(t.Status) {
			history = append(history, t)
		} else {
			active = append(active, t)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
	s.history = history
	s.refreshVisibleLocked()
}

// SetTab switches between the active and history boards. Unknown values fall
// back to the active tab. The current query is re-applied against the new tab.
func (s *TicketStore) SetTab(tab string) {
	if tab != TabHistory {
		tab = TabActive
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = tab
	s.refreshVisibleLocked()
}

// SetQuery installs a case-insensitive substring search over order ID,
// ticket ID and table label. An empty query clears the filter.
func (s *TicketStore) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = strings.TrimSpace(query)
	s.refreshVisibleLocked()
}

// SetOrigin restricts the displayed subset to one origin tag. An empty value
// shows both origins.
func (s *TicketStore) SetOrigin(origin string) {
	if origin != OriginRestaurant && origin != OriginInRoom {
		origin = ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = origin
	s.refreshVisibleLocked()
}

func (s *TicketStore) refreshVisibleLocked() {
	source := s.active
	if s.tab == TabHistory {
		source = s.history
	}

	visible := make([]Ticket, 0, len(source))
	for _, t := range source {
		if s.origin != "" && t.Origin != s.origin {
			continue
		}
		if s.query != "" && !matchesQuery(t, s.query) {
			continue
		}
		visible = append(visible, t)
	}
	s.visible = visible
}

func matchesQuery(t Ticket, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.ID), q) ||
		strings.Contains(strings.ToLower(t.Table), q)
}

// Visible returns a copy of the currently displayed subset.
func (s *TicketStore) Visible() []Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Ticket, len(s.visible))
	copy(out, s.visible)
	return out
}

// Active returns a copy of the non-terminal ticket list, unfiltered.
func (s *TicketStore) Active() []Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Ticket, len(s.active))
	copy(out, s.active)
	return out
}

// History returns a copy of the terminal ticket list, unfiltered.
func (s *TicketStore) History() []Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Ticket, len(s.history))
	copy(out, s.history)
	return out
}

// Get finds a ticket by ID on either board.
func (s *TicketStore) Get(id string) *Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.active {
		if s.active[i].ID == id {
			t := s.active[i]
			return &t
		}
	}
	for i := range s.history {
		if s.history[i].ID == id {
			t := s.history[i]
			return &t
		}
	}
	return nil
}

// Tab returns the currently selected tab.
func (s *TicketStore) Tab() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tab
}

// Query returns the active search query.
func (s *TicketStore) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Counts returns the sizes of the active and history boards.
func (s *TicketStore) Counts() (active, history int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active), len(s.history)
}
