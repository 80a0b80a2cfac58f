// Package ledger owns the booking lifecycle: intake validation, the
// status state machine, payment application and cancellation fee
// computation.  It is pure domain logic; persistence and notification
// are wired around it by the handler layer.
package ledger

import (
    "fmt"

    "github.com/ignux/fireworks-booking-api/internal/model"
)

// ValidationError reports malformed or out-of-range input.  It is
// always client-fault; handlers translate it into an HTTP 400 with
// the field and reason in the body.
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
    return &ValidationError{Field: field, Reason: reason}
}

// InvalidTransitionError reports a status change that the transition
// table does not permit.  It carries both statuses so handlers can
// show the client what was attempted.
type InvalidTransitionError struct {
    From model.BookingStatus
    To   model.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
    return fmt.Sprintf("cannot change booking status from %s to %s", e.From, e.To)
}
