package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  The
// values are stored as strings in the bookings.booking_status column.
// Transitions between states are governed by the ledger package; no
// other code should assign these values directly.
type BookingStatus string

const (
    BookingPending    BookingStatus = "PENDING"
    BookingConfirmed  BookingStatus = "CONFIRMED"
    BookingInProgress BookingStatus = "IN_PROGRESS"
    BookingCompleted  BookingStatus = "COMPLETED"
    BookingCancelled  BookingStatus = "CANCELLED"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
    switch s {
    case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
        return true
    }
    return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s BookingStatus) Terminal() bool {
    return s == BookingCompleted || s == BookingCancelled
}

// PaymentStatus enumerates payment states.  PENDING, PARTIAL and PAID
// are derived from deposit_paid_cents vs total_price_cents; REFUNDED
// is only ever set by an explicit administrative action, never by the
// payment math.
type PaymentStatus string

const (
    PaymentPending  PaymentStatus = "PENDING"
    PaymentPartial  PaymentStatus = "PARTIAL"
    PaymentPaid     PaymentStatus = "PAID"
    PaymentRefunded PaymentStatus = "REFUNDED"
)

// VenueType classifies the event venue.
type VenueType string

const (
    VenueIndoor  VenueType = "indoor"
    VenueOutdoor VenueType = "outdoor"
    VenueMixed   VenueType = "mixed"
)

// Valid reports whether v is a known venue type.
func (v VenueType) Valid() bool {
    return v == VenueIndoor || v == VenueOutdoor || v == VenueMixed
}

// DisplayType classifies the fireworks display.
type DisplayType string

const (
    DisplayGround DisplayType = "ground"
    DisplayAerial DisplayType = "aerial"
    DisplayMixed  DisplayType = "mixed"
)

// Valid reports whether d is a known display type.
func (d DisplayType) Valid() bool {
    return d == DisplayGround || d == DisplayAerial || d == DisplayMixed
}

// Booking is the main business entity: a client's reserved fireworks
// or stage-FX engagement with full pricing and lifecycle state.  All
// monetary fields are integer cents.  event_date is a calendar date
// stored at UTC midnight; the remaining timestamps are full UTC
// date-times.
//
// Invariants maintained by the ledger package:
//  BalanceDueCents    == max(0, TotalPriceCents - DepositPaidCents)
//                        (at creation the discount nets against the
//                        initial balance instead, see ledger.NewBooking)
//  PaymentStatus      is a pure function of deposit vs total.
//  ConfirmedAt        set exactly once, on PENDING -> CONFIRMED.
//  CompletedAt        set exactly once, on entering COMPLETED.
type Booking struct {
    ID uint64 // bookings.id

    // Client information
    ClientName    string // bookings.client_name
    ClientEmail   string // bookings.client_email
    ClientPhone   string // bookings.client_phone
    ClientAddress string // bookings.client_address (optional)

    // Event details
    EventType      string    // bookings.event_type
    EventName      string    // bookings.event_name
    EventDate      time.Time // bookings.event_date (date only, UTC)
    EventTime      string    // bookings.event_time (free text, e.g. "19:30")
    EventLocation  string    // bookings.event_location
    VenueType      VenueType // bookings.venue_type
    ExpectedGuests *int      // bookings.expected_guests (nullable)

    // Service details
    ServiceType        string // bookings.service_type
    ServicePackage     string // bookings.service_package
    AdditionalServices string // bookings.additional_services (JSON array of slugs)

    // Display details
    DisplayDuration string      // bookings.display_duration
    DisplayType     DisplayType // bookings.display_type
    ColorsRequested string      // bookings.colors_requested
    MusicSync       bool        // bookings.music_sync
    SpecialEffects  string      // bookings.special_effects

    // Pricing (cents)
    BasePriceCents         int64 // bookings.base_price_cents
    AdditionalChargesCents int64 // bookings.additional_charges_cents
    DiscountCents          int64 // bookings.discount_cents
    TotalPriceCents        int64 // bookings.total_price_cents
    DepositPaidCents       int64 // bookings.deposit_paid_cents (running total)
    BalanceDueCents        int64 // bookings.balance_due_cents (derived)

    // Status
    BookingStatus BookingStatus // bookings.booking_status
    PaymentStatus PaymentStatus // bookings.payment_status

    // Lifecycle timestamps
    CreatedAt   time.Time  // bookings.created_at
    ConfirmedAt *time.Time // bookings.confirmed_at (nullable)
    CompletedAt *time.Time // bookings.completed_at (nullable)
    UpdatedAt   time.Time  // bookings.updated_at

    // Additional information
    SpecialInstructions string // bookings.special_instructions
    EmergencyContact    string // bookings.emergency_contact
    InsuranceRequired   bool   // bookings.insurance_required
    PermitRequired      bool   // bookings.permit_required (always true at creation)
    PermitObtained      bool   // bookings.permit_obtained

    // Staff assignment
    AssignedTeamLeader string // bookings.assigned_team_leader (optional)
    TeamSize           int    // bookings.team_size (default 3)

    // Cancellation audit, populated only when cancelled
    CancellationReason   string // bookings.cancellation_reason
    CancellationFeeCents int64  // bookings.cancellation_fee_cents (informational)

    // Audit
    CreatedBy string // bookings.created_by (optional)
    UpdatedBy string // bookings.updated_by (optional)
}
