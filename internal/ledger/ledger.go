package ledger

import (
    "strconv"
    "strings"
    "time"

    "github.com/ignux/fireworks-booking-api/internal/model"
)

// Clock supplies the ledger's notion of "now".  It is injected so
// date-based rules (lead time, cancellation fee tiers) are testable.
type Clock func() time.Time

// Config carries the business rule knobs for the ledger.
type Config struct {
    // MinLeadDays is the minimum number of whole days between booking
    // creation and the event date.  Defaults to DefaultMinLeadDays.
    MinLeadDays int
}

const (
    // DefaultMinLeadDays is the advance-booking window enforced when
    // Config.MinLeadDays is zero.
    DefaultMinLeadDays = 7

    // DefaultTeamSize is assigned when the intake request does not
    // specify a crew size.
    DefaultTeamSize = 3

    minPhoneDigits = 7
    maxPhoneLen    = 20
)

// Ledger applies booking lifecycle rules.  All methods mutate the
// passed booking in memory only; callers persist the result inside a
// transaction.
type Ledger struct {
    cfg   Config
    clock Clock
}

// New returns a Ledger with the given config.  A nil clock defaults
// to UTC wall time; a zero MinLeadDays defaults to DefaultMinLeadDays.
func New(cfg Config, clock Clock) *Ledger {
    if clock == nil {
        clock = func() time.Time { return time.Now().UTC() }
    }
    if cfg.MinLeadDays <= 0 {
        cfg.MinLeadDays = DefaultMinLeadDays
    }
    return &Ledger{cfg: cfg, clock: clock}
}

// CreateRequest holds the caller-supplied attributes of a new
// booking.  ID, statuses, timestamps and derived pricing fields are
// never accepted from the caller.
type CreateRequest struct {
    ClientName    string
    ClientEmail   string
    ClientPhone   string
    ClientAddress string

    EventType      string
    EventName      string
    EventDate      time.Time
    EventTime      string
    EventLocation  string
    VenueType      model.VenueType
    ExpectedGuests *int

    ServiceType        string
    ServicePackage     string
    AdditionalServices string

    DisplayDuration string
    DisplayType     model.DisplayType
    ColorsRequested string
    MusicSync       bool
    SpecialEffects  string

    BasePriceCents         int64
    AdditionalChargesCents int64
    DiscountCents          int64
    TotalPriceCents        int64

    SpecialInstructions string
    EmergencyContact    string
    InsuranceRequired   bool
    TeamSize            int
    CreatedBy           string
}

// transitions is the directed edge set of the booking state machine.
// COMPLETED and CANCELLED are terminal and have no entry.
var transitions = map[model.BookingStatus][]model.BookingStatus{
    model.BookingPending:    {model.BookingConfirmed, model.BookingCancelled},
    model.BookingConfirmed:  {model.BookingInProgress, model.BookingCancelled},
    model.BookingInProgress: {model.BookingCompleted, model.BookingCancelled},
}

// NewBooking validates an intake request and returns a Booking ready
// for insertion.  Derived fields follow the ledger conventions: the
// discount nets against the initial balance (not against total_price),
// deposit starts at zero, statuses start PENDING, permits are always
// required for fireworks work.
func (l *Ledger) NewBooking(req CreateRequest) (*model.Booking, error) {
    now := l.clock()
    if err := l.validate(req, now); err != nil {
        return nil, err
    }

    teamSize := req.TeamSize
    if teamSize == 0 {
        teamSize = DefaultTeamSize
    }

    b := &model.Booking{
        ClientName:    strings.TrimSpace(req.ClientName),
        ClientEmail:   strings.ToLower(strings.TrimSpace(req.ClientEmail)),
        ClientPhone:   strings.TrimSpace(req.ClientPhone),
        ClientAddress: strings.TrimSpace(req.ClientAddress),

        EventType:      req.EventType,
        EventName:      req.EventName,
        EventDate:      dateOnly(req.EventDate),
        EventTime:      req.EventTime,
        EventLocation:  req.EventLocation,
        VenueType:      req.VenueType,
        ExpectedGuests: req.ExpectedGuests,

        ServiceType:        req.ServiceType,
        ServicePackage:     req.ServicePackage,
        AdditionalServices: req.AdditionalServices,

        DisplayDuration: req.DisplayDuration,
        DisplayType:     req.DisplayType,
        ColorsRequested: req.ColorsRequested,
        MusicSync:       req.MusicSync,
        SpecialEffects:  req.SpecialEffects,

        BasePriceCents:         req.BasePriceCents,
        AdditionalChargesCents: req.AdditionalChargesCents,
        DiscountCents:          req.DiscountCents,
        TotalPriceCents:        req.TotalPriceCents,
        DepositPaidCents:       0,
        BalanceDueCents:        req.TotalPriceCents - req.DiscountCents,

        BookingStatus: model.BookingPending,
        PaymentStatus: model.PaymentPending,

        CreatedAt: now,

        SpecialInstructions: req.SpecialInstructions,
        EmergencyContact:    req.EmergencyContact,
        InsuranceRequired:   req.InsuranceRequired,
        PermitRequired:      true,
        PermitObtained:      false,

        TeamSize:  teamSize,
        CreatedBy: req.CreatedBy,
    }
    return b, nil
}

// validate enforces the intake constraints from the business rules.
func (l *Ledger) validate(req CreateRequest, now time.Time) error {
    if strings.TrimSpace(req.ClientName) == "" {
        return invalid("client_name", "required")
    }
    email := strings.TrimSpace(req.ClientEmail)
    if email == "" || !strings.Contains(email, "@") {
        return invalid("client_email", "must be a valid email address")
    }
    phone := strings.TrimSpace(req.ClientPhone)
    if digits := countDigits(phone); digits < minPhoneDigits || len(phone) > maxPhoneLen {
        return invalid("client_phone", "must contain 7-20 digits")
    }
    if strings.TrimSpace(req.EventName) == "" {
        return invalid("event_name", "required")
    }
    if strings.TrimSpace(req.EventLocation) == "" {
        return invalid("event_location", "required")
    }
    if !req.VenueType.Valid() {
        return invalid("venue_type", "must be one of indoor, outdoor, mixed")
    }
    if !req.DisplayType.Valid() {
        return invalid("display_type", "must be one of ground, aerial, mixed")
    }
    if req.ExpectedGuests != nil && *req.ExpectedGuests <= 0 {
        return invalid("expected_guests", "must be positive")
    }
    if req.BasePriceCents <= 0 {
        return invalid("base_price", "must be positive")
    }
    if req.TotalPriceCents <= 0 {
        return invalid("total_price", "must be positive")
    }
    if req.AdditionalChargesCents < 0 {
        return invalid("additional_charges", "must not be negative")
    }
    if req.DiscountCents < 0 {
        return invalid("discount", "must not be negative")
    }
    if req.TeamSize < 0 {
        return invalid("team_size", "must be positive")
    }

    // Lead time: the event date must be strictly later than
    // now + MinLeadDays, compared on whole calendar days.
    earliest := dateOnly(now).AddDate(0, 0, l.cfg.MinLeadDays)
    if !dateOnly(req.EventDate).After(earliest) {
        return invalid("event_date", "event must be booked at least "+strconv.Itoa(l.cfg.MinLeadDays)+" days in advance")
    }
    return nil
}

// Transition moves the booking to target per the state machine.  On
// success the lifecycle timestamps are stamped: confirmed_at on the
// first (and only) entry into CONFIRMED, completed_at on entry into
// COMPLETED.  Any pair not in the table fails with
// *InvalidTransitionError and leaves the booking untouched.
func (l *Ledger) Transition(b *model.Booking, target model.BookingStatus) error {
    if !target.Valid() {
        return invalid("status", "unknown booking status "+string(target))
    }
    allowed := false
    for _, next := range transitions[b.BookingStatus] {
        if next == target {
            allowed = true
            break
        }
    }
    if !allowed {
        return &InvalidTransitionError{From: b.BookingStatus, To: target}
    }

    now := l.clock()
    b.BookingStatus = target
    switch target {
    case model.BookingConfirmed:
        if b.ConfirmedAt == nil {
            t := now
            b.ConfirmedAt = &t
        }
    case model.BookingCompleted:
        if b.CompletedAt == nil {
            t := now
            b.CompletedAt = &t
        }
    }
    return nil
}

// ApplyPayment adds amountCents to the booking's deposit and rederives
// balance and payment status.  Cumulative overpayment is accepted; the
// balance floors at zero.  A non-positive amount is rejected.
func (l *Ledger) ApplyPayment(b *model.Booking, amountCents int64) error {
    if amountCents <= 0 {
        return invalid("amount", "payment amount must be positive")
    }
    b.DepositPaidCents += amountCents
    b.BalanceDueCents = b.TotalPriceCents - b.DepositPaidCents
    if b.BalanceDueCents < 0 {
        b.BalanceDueCents = 0
    }
    b.PaymentStatus = derivePaymentStatus(b.DepositPaidCents, b.TotalPriceCents)
    return nil
}

// Cancel moves the booking to CANCELLED and computes the cancellation
// fee from the days remaining before the event.  The fee is recorded
// for reconciliation only; it is never subtracted from deposit_paid.
// Completed and already-cancelled bookings cannot be cancelled.
func (l *Ledger) Cancel(b *model.Booking, reason string) (feeCents int64, err error) {
    if b.BookingStatus.Terminal() {
        return 0, &InvalidTransitionError{From: b.BookingStatus, To: model.BookingCancelled}
    }
    fee := CancellationFee(b.TotalPriceCents, DaysUntil(b.EventDate, l.clock()))
    b.BookingStatus = model.BookingCancelled
    b.CancellationReason = strings.TrimSpace(reason)
    b.CancellationFeeCents = fee
    return fee, nil
}

// CancellationFee returns the fee in cents for cancelling a booking
// whose event is daysUntil whole days away:
//
//	daysUntil < 7   -> 50% of the total price
//	daysUntil < 30  -> 20% of the total price
//	otherwise       -> no fee
func CancellationFee(totalPriceCents int64, daysUntil int) int64 {
    switch {
    case daysUntil < 7:
        return totalPriceCents * 50 / 100
    case daysUntil < 30:
        return totalPriceCents * 20 / 100
    default:
        return 0
    }
}

// DaysUntil returns the whole calendar days from now to eventDate.
// Same-day events yield zero; past dates are negative.
func DaysUntil(eventDate, now time.Time) int {
    return int(dateOnly(eventDate).Sub(dateOnly(now)).Hours() / 24)
}

// derivePaymentStatus is the pure mapping from (deposit, total) to a
// payment status.  REFUNDED is never produced here.
func derivePaymentStatus(depositCents, totalCents int64) model.PaymentStatus {
    switch {
    case depositCents >= totalCents:
        return model.PaymentPaid
    case depositCents > 0:
        return model.PaymentPartial
    default:
        return model.PaymentPending
    }
}

// dateOnly truncates t to UTC midnight.
func dateOnly(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func countDigits(s string) int {
    n := 0
    for _, r := range s {
        if r >= '0' && r <= '9' {
            n++
        }
    }
    return n
}
