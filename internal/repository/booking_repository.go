package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/ignux/fireworks-booking-api/internal/model"
)

// ErrBookingNotFound is returned when a booking id does not exist.
// Handlers translate it into an HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides persistence for bookings.  All timestamp
// columns are stored in UTC.  Mutations of an existing booking go
// through the ...Tx variants so the handler can hold a row lock for
// the read-validate-write cycle (two concurrent payments on the same
// booking must serialize; a plain read-modify-write would lose one).
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = `id, client_name, client_email, client_phone, client_address,
    event_type, event_name, event_date, event_time, event_location, venue_type, expected_guests,
    service_type, service_package, additional_services,
    display_duration, display_type, colors_requested, music_sync, special_effects,
    base_price_cents, additional_charges_cents, discount_cents, total_price_cents, deposit_paid_cents, balance_due_cents,
    booking_status, payment_status,
    created_at, confirmed_at, completed_at, updated_at,
    special_instructions, emergency_contact, insurance_required, permit_required, permit_obtained,
    assigned_team_leader, team_size,
    cancellation_reason, cancellation_fee_cents,
    created_by, updated_by`

// rowScanner abstracts *sql.Row and *sql.Rows for scanBooking.
type rowScanner interface {
    Scan(dest ...any) error
}

func scanBooking(s rowScanner) (*model.Booking, error) {
    var (
        b           model.Booking
        guests      sql.NullInt64
        confirmedAt sql.NullTime
        completedAt sql.NullTime
    )
    err := s.Scan(
        &b.ID, &b.ClientName, &b.ClientEmail, &b.ClientPhone, &b.ClientAddress,
        &b.EventType, &b.EventName, &b.EventDate, &b.EventTime, &b.EventLocation, &b.VenueType, &guests,
        &b.ServiceType, &b.ServicePackage, &b.AdditionalServices,
        &b.DisplayDuration, &b.DisplayType, &b.ColorsRequested, &b.MusicSync, &b.SpecialEffects,
        &b.BasePriceCents, &b.AdditionalChargesCents, &b.DiscountCents, &b.TotalPriceCents, &b.DepositPaidCents, &b.BalanceDueCents,
        &b.BookingStatus, &b.PaymentStatus,
        &b.CreatedAt, &confirmedAt, &completedAt, &b.UpdatedAt,
        &b.SpecialInstructions, &b.EmergencyContact, &b.InsuranceRequired, &b.PermitRequired, &b.PermitObtained,
        &b.AssignedTeamLeader, &b.TeamSize,
        &b.CancellationReason, &b.CancellationFeeCents,
        &b.CreatedBy, &b.UpdatedBy,
    )
    if err != nil {
        return nil, err
    }
    if guests.Valid {
        g := int(guests.Int64)
        b.ExpectedGuests = &g
    }
    if confirmedAt.Valid {
        t := confirmedAt.Time.UTC()
        b.ConfirmedAt = &t
    }
    if completedAt.Valid {
        t := completedAt.Time.UTC()
        b.CompletedAt = &t
    }
    return &b, nil
}

// Create inserts a new booking and populates its generated ID and the
// database-assigned timestamps on the passed struct.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings (
        client_name, client_email, client_phone, client_address,
        event_type, event_name, event_date, event_time, event_location, venue_type, expected_guests,
        service_type, service_package, additional_services,
        display_duration, display_type, colors_requested, music_sync, special_effects,
        base_price_cents, additional_charges_cents, discount_cents, total_price_cents, deposit_paid_cents, balance_due_cents,
        booking_status, payment_status,
        special_instructions, emergency_contact, insurance_required, permit_required, permit_obtained,
        assigned_team_leader, team_size, cancellation_reason, cancellation_fee_cents,
        created_by, updated_by
    ) VALUES (?,?,?,?, ?,?,?,?,?,?,?, ?,?,?, ?,?,?,?,?, ?,?,?,?,?,?, ?,?, ?,?,?,?,?, ?,?,?,?, ?,?)`

    var guests any
    if b.ExpectedGuests != nil {
        guests = *b.ExpectedGuests
    }
    res, err := r.db.ExecContext(ctx, q,
        b.ClientName, b.ClientEmail, b.ClientPhone, b.ClientAddress,
        b.EventType, b.EventName, b.EventDate, b.EventTime, b.EventLocation, string(b.VenueType), guests,
        b.ServiceType, b.ServicePackage, b.AdditionalServices,
        b.DisplayDuration, string(b.DisplayType), b.ColorsRequested, b.MusicSync, b.SpecialEffects,
        b.BasePriceCents, b.AdditionalChargesCents, b.DiscountCents, b.TotalPriceCents, b.DepositPaidCents, b.BalanceDueCents,
        string(b.BookingStatus), string(b.PaymentStatus),
        b.SpecialInstructions, b.EmergencyContact, b.InsuranceRequired, b.PermitRequired, b.PermitObtained,
        b.AssignedTeamLeader, b.TeamSize, b.CancellationReason, b.CancellationFeeCents,
        b.CreatedBy, b.UpdatedBy,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)

    // Read the row back to pick up created_at/updated_at defaults.
    fresh, err := r.GetByID(ctx, b.ID)
    if err != nil {
        return err
    }
    b.CreatedAt = fresh.CreatedAt
    b.UpdatedAt = fresh.UpdatedAt
    return nil
}

// GetByID fetches a single booking.  ErrBookingNotFound is returned
// when no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
    b, err := scanBooking(r.db.QueryRowContext(ctx,
        `SELECT `+bookingCols+` FROM bookings WHERE id = ?`, id))
    if err == sql.ErrNoRows {
        return nil, ErrBookingNotFound
    }
    return b, err
}

// GetByIDForUpdateTx fetches a booking inside tx with a row lock so
// the caller can mutate and write it back without losing concurrent
// updates.
func (r *BookingRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
    b, err := scanBooking(tx.QueryRowContext(ctx,
        `SELECT `+bookingCols+` FROM bookings WHERE id = ? FOR UPDATE`, id))
    if err == sql.ErrNoRows {
        return nil, ErrBookingNotFound
    }
    return b, err
}

// UpdateTx writes back the mutable lifecycle fields of a booking
// within the caller's transaction.  Intake fields (client, event,
// service descriptors) are immutable through this path.
func (r *BookingRepo) UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `UPDATE bookings SET
        deposit_paid_cents = ?, balance_due_cents = ?,
        booking_status = ?, payment_status = ?,
        confirmed_at = ?, completed_at = ?,
        permit_obtained = ?, assigned_team_leader = ?, team_size = ?,
        cancellation_reason = ?, cancellation_fee_cents = ?,
        updated_by = ?
    WHERE id = ?`
    var confirmedAt, completedAt any
    if b.ConfirmedAt != nil {
        confirmedAt = b.ConfirmedAt.UTC()
    }
    if b.CompletedAt != nil {
        completedAt = b.CompletedAt.UTC()
    }
    res, err := tx.ExecContext(ctx, q,
        b.DepositPaidCents, b.BalanceDueCents,
        string(b.BookingStatus), string(b.PaymentStatus),
        confirmedAt, completedAt,
        b.PermitObtained, b.AssignedTeamLeader, b.TeamSize,
        b.CancellationReason, b.CancellationFeeCents,
        b.UpdatedBy,
        b.ID,
    )
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        return ErrBookingNotFound
    }
    return nil
}

// BookingFilter narrows List results.  Zero values mean "no filter".
type BookingFilter struct {
    Status      model.BookingStatus
    DateFrom    time.Time
    DateTo      time.Time
    ClientEmail string
    ServiceType string
    Limit       int
    Offset      int
}

// List returns bookings matching the filter, ordered by event date
// ascending.  Limit defaults to 100 and is capped at 1000.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]*model.Booking, error) {
    q := `SELECT ` + bookingCols + ` FROM bookings`
    var conds []string
    var args []any
    if f.Status != "" {
        conds = append(conds, "booking_status = ?")
        args = append(args, string(f.Status))
    }
    if !f.DateFrom.IsZero() {
        conds = append(conds, "event_date >= ?")
        args = append(args, f.DateFrom)
    }
    if !f.DateTo.IsZero() {
        conds = append(conds, "event_date <= ?")
        args = append(args, f.DateTo)
    }
    if f.ClientEmail != "" {
        conds = append(conds, "client_email = ?")
        args = append(args, strings.ToLower(strings.TrimSpace(f.ClientEmail)))
    }
    if f.ServiceType != "" {
        conds = append(conds, "service_type = ?")
        args = append(args, f.ServiceType)
    }
    if len(conds) > 0 {
        q += " WHERE " + strings.Join(conds, " AND ")
    }
    limit := f.Limit
    if limit <= 0 {
        limit = 100
    }
    if limit > 1000 {
        limit = 1000
    }
    q += " ORDER BY event_date ASC LIMIT ? OFFSET ?"
    args = append(args, limit, f.Offset)

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]*model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// ListUpcoming returns non-terminal bookings whose event date falls
// within [today, today+days].  When clientEmail is non-empty only that
// client's bookings are returned.
func (r *BookingRepo) ListUpcoming(ctx context.Context, today time.Time, days int, clientEmail string) ([]*model.Booking, error) {
    q := `SELECT ` + bookingCols + ` FROM bookings
        WHERE event_date >= ? AND event_date <= ?
          AND booking_status NOT IN ('COMPLETED','CANCELLED')`
    args := []any{today, today.AddDate(0, 0, days)}
    if clientEmail != "" {
        q += " AND client_email = ?"
        args = append(args, strings.ToLower(strings.TrimSpace(clientEmail)))
    }
    q += " ORDER BY event_date ASC"

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]*model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// BookedDates returns the distinct event dates of CONFIRMED bookings
// in [from, to], used by the availability calendar; only confirmed
// bookings block a date.
func (r *BookingRepo) BookedDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
    const q = `SELECT DISTINCT event_date FROM bookings
        WHERE booking_status = 'CONFIRMED' AND event_date >= ? AND event_date <= ?
        ORDER BY event_date ASC`
    rows, err := r.db.QueryContext(ctx, q, from, to)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var dates []time.Time
    for rows.Next() {
        var d time.Time
        if err := rows.Scan(&d); err != nil {
            return nil, err
        }
        dates = append(dates, d.UTC())
    }
    return dates, rows.Err()
}

// BookingStats aggregates booking counters for the admin dashboard.
type BookingStats struct {
    Total             int64 `json:"total_bookings"`
    Pending           int64 `json:"pending_bookings"`
    Completed         int64 `json:"completed_events"`
    RevenueCents      int64 `json:"total_revenue_cents"`
    OutstandingCents  int64 `json:"outstanding_balance_cents"`
}

// Stats computes booking counts plus revenue over completed events
// and the outstanding balance across open bookings.
func (r *BookingRepo) Stats(ctx context.Context) (BookingStats, error) {
    const q = `SELECT
        COUNT(*),
        COALESCE(SUM(booking_status = 'PENDING'), 0),
        COALESCE(SUM(booking_status = 'COMPLETED'), 0),
        COALESCE(SUM(CASE WHEN booking_status = 'COMPLETED' THEN total_price_cents ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN booking_status NOT IN ('COMPLETED','CANCELLED') THEN balance_due_cents ELSE 0 END), 0)
    FROM bookings`
    var s BookingStats
    err := r.db.QueryRowContext(ctx, q).Scan(&s.Total, &s.Pending, &s.Completed, &s.RevenueCents, &s.OutstandingCents)
    return s, err
}
