package kotstatus

import (
	"strings"
)

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	parts := strings.Split(s.Name, "-")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

type Enum struct {
	Pending   Status
	Preparing Status
	Ready     Status
	Served    Status
	Completed Status
	Paid      Status
	Cancelled Status
}

var Statuses = Enum{
	Pending:   Status{Name: "pending"},
	Preparing: Status{Name: "preparing"},
	Ready:     Status{Name: "ready"},
	Served:    Status{Name: "served"},
	Completed: Status{Name: "completed"},
	Paid:      Status{Name: "paid"},
	Cancelled: Status{Name: "cancelled"},
}

var All = []Status{
	Statuses.Pending,
	Statuses.Preparing,
	Statuses.Ready,
	Statuses.Served,
	Statuses.Completed,
	Statuses.Paid,
	Statuses.Cancelled,
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}

// IsValid reports whether name belongs to the status vocabulary.
func IsValid(name string) bool {
	return ByName(name) != nil
}

// IsTerminal reports whether a ticket in this status is done from the
// kitchen's point of view. Terminal tickets live on the history board and
// are offered no further transition controls.
func IsTerminal(name string) bool {
	switch name {
	case Statuses.Served.Name, Statuses.Completed.Name, Statuses.Paid.Name, Statuses.Cancelled.Name:
		return true
	}
	return false
}

// transitions holds the permitted forward moves. The terminal statuses
// completed, paid and cancelled are reachable from any non-terminal status;
// they are not listed per-row.
var transitions = map[string][]string{
	Statuses.Pending.Name:   {Statuses.Preparing.Name},
	Statuses.Preparing.Name: {Statuses.Ready.Name},
	Statuses.Ready.Name:     {Statuses.Served.Name},
}

// CanTransition reports whether a ticket may move from one status to another.
func CanTransition(from, to string) bool {
	if IsTerminal(from) {
		return false
	}
	switch to {
	case Statuses.Completed.Name, Statuses.Paid.Name, Statuses.Cancelled.Name:
		return IsValid(from)
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderProjection maps a ticket status onto the parent order's status.
// Only the four shared preparation stages project; every other ticket
// status leaves the order untouched.
func OrderProjection(ticketStatus string) (string, bool) {
	switch ticketStatus {
	case Statuses.Pending.Name, Statuses.Preparing.Name, Statuses.Ready.Name, Statuses.Served.Name:
		return ticketStatus, true
	}
	return "", false
}
