package kot

import (
	"context"
	"errors"
	"fmt"

	"github.com/aquamarinepk/aqm"

	"github.com/hotelworks/kotboard/internal/auth"
	"github.com/hotelworks/kotboard/pkg/enums/kotstatus"
)

var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrInvalidTransition = errors.New("transition not permitted")
	ErrNotAuthorized     = errors.New("caller not authorized for this transition")

	// ErrOrderSyncFailed marks the known inconsistency window: the ticket
	// status committed at the external store but the parent order's status
	// update was rejected. There is no rollback; callers must surface the
	// notice and force a full refetch to reconcile with ground truth.
	ErrOrderSyncFailed = errors.New("order status sync failed after ticket commit")
)

// AssignmentNotice is the best-effort notification record posted when a
// ticket's preparer changes.
type AssignmentNotice struct {
	TicketID  string `json:"ticket_id"`
	OrderID   string `json:"order_id"`
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name,omitempty"`
	Message   string `json:"message"`
}

// TicketWriter is the mutating half of the external hotel API.
type TicketWriter interface {
	UpdateTicketStatus(ctx context.Context, ticketID, status string) error
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	AssignTicket(ctx context.Context, ticketID, staffID string) error
	SendAssignmentNotice(ctx context.Context, notice AssignmentNotice) error
}

// StatusSyncer executes the two-step status protocol: ticket first, then the
// parent order via the fixed projection. The two writes are not a
// transaction; the partial-failure path is explicit rather than hidden.
type StatusSyncer struct {
	writer TicketWriter
	store  *TicketStore
	logger aqm.Logger
}

func NewStatusSyncer(writer TicketWriter, store *TicketStore, logger aqm.Logger) *StatusSyncer {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &StatusSyncer{
		writer: writer,
		store:  store,
		logger: logger,
	}
}

// Transition moves a ticket to the next status. Both gates run before any
// I/O: the state machine, then the capability check for service completion.
// An unauthorized or impossible transition changes nothing anywhere.
//
// On success the returned ticket carries the new status. A nil ticket with a
// non-nil error means nothing committed; a non-nil ticket with
// ErrOrderSyncFailed means the ticket write committed and a full refetch is
// required.
func (s *StatusSyncer) Transition(ctx context.Context, ticketID, next string, claims auth.Claims) (*Ticket, error) {
	ticket := s.store.Get(ticketID)
	if ticket == nil {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}

	if !kotstatus.CanTransition(ticket.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, ticket.Status, next)
	}

	if next == kotstatus.Statuses.Served.Name {
		if allowed, reason := auth.CanMarkAsServed(claims); !allowed {
			return nil, fmt.Errorf("%w: %s", ErrNotAuthorized, reason)
		}
	}

	if err := s.writer.UpdateTicketStatus(ctx, ticket.ID, next); err != nil {
		return nil, fmt.Errorf("update ticket %s: %w", ticket.ID, err)
	}

	previous := ticket.Status
	ticket.Status = next
	s.logger.Infof("ticket %s moved %s -> %s", ticket.ID, previous, next)

	orderStatus, ok := kotstatus.OrderProjection(next)
	if !ok {
		return ticket, nil
	}

	// The ticket ID is the source order's identifier, so the same key
	// addresses both records.
	if err := s.writer.UpdateOrderStatus(ctx, ticket.ID, orderStatus); err != nil {
		s.logger.Errorf("order %s status sync failed after ticket commit: %v", ticket.ID, err)
		return ticket, fmt.Errorf("%w: order %s: %v", ErrOrderSyncFailed, ticket.ID, err)
	}

	return ticket, nil
}

// AssignPreparer sets a ticket's assigned preparer and posts the assignment
// notification. The notification is best-effort: a failure is logged, never
// surfaced.
func (s *StatusSyncer) AssignPreparer(ctx context.Context, ticketID, staffID, staffName string) (*Ticket, error) {
	ticket := s.store.Get(ticketID)
	if ticket == nil {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}

	if err := s.writer.AssignTicket(ctx, ticket.ID, staffID); err != nil {
		return nil, fmt.Errorf("assign ticket %s: %w", ticket.ID, err)
	}

	name := staffName
	if name == "" {
		name = staffID
	}
	ticket.Preparer = name

	notice := AssignmentNotice{
		TicketID:  ticket.ID,
		OrderID:   ticket.ID,
		StaffID:   staffID,
		StaffName: staffName,
		Message:   fmt.Sprintf("KOT for %s assigned to %s", ticket.Table, name),
	}
	if err := s.writer.SendAssignmentNotice(ctx, notice); err != nil {
		s.logger.Errorf("assignment notice for ticket %s not delivered: %v", ticket.ID, err)
	}

	return ticket, nil
}
