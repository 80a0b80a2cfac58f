// Package queue defines message payloads exchanged over the message broker.
package queue

// Notification kinds carried on the booking.notifications queue.
const (
	KindBookingCreated   = "booking.created"
	KindStatusChanged    = "booking.status_changed"
	KindPaymentRecorded  = "booking.payment_recorded"
	KindBookingCancelled = "booking.cancelled"
	KindContactReceived  = "contact.received"
)

// NotificationEvent is published whenever something happens that the
// client (or staff) should hear about by email. It carries enough
// information for the consumer to render and send the message without
// querying the primary database. Fields that do not apply to a given
// kind are left at their zero value.
type NotificationEvent struct {
	Kind        string `json:"kind"`
	BookingID   uint64 `json:"booking_id,omitempty"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	EventType   string `json:"event_type,omitempty"`
	EventName   string `json:"event_name,omitempty"`
	EventDate   string `json:"event_date,omitempty"`

	// Status transition details.
	OldStatus string `json:"old_status,omitempty"`
	NewStatus string `json:"new_status,omitempty"`

	// Money fields, integer cents.
	TotalPriceCents      int64 `json:"total_price_cents,omitempty"`
	AmountCents          int64 `json:"amount_cents,omitempty"`
	BalanceDueCents      int64 `json:"balance_due_cents"`
	CancellationFeeCents int64 `json:"cancellation_fee_cents,omitempty"`

	// Contact inquiry details (kind contact.received).
	Message string `json:"message,omitempty"`

	OccurredAt string `json:"occurred_at"`
}
