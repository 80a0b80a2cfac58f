package ledger

import (
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/ignux/fireworks-booking-api/internal/model"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func testLedger() *Ledger {
    return New(Config{MinLeadDays: 7}, func() time.Time { return testNow })
}

func validRequest() CreateRequest {
    guests := 150
    return CreateRequest{
        ClientName:      "Amina Odhiambo",
        ClientEmail:     "Amina@Example.com",
        ClientPhone:     "+254 750 077 424",
        EventType:       "wedding",
        EventName:       "Odhiambo Wedding",
        EventDate:       testNow.AddDate(0, 0, 30),
        EventTime:       "19:30",
        EventLocation:   "Karen Country Club, Nairobi",
        VenueType:       model.VenueOutdoor,
        ExpectedGuests:  &guests,
        ServiceType:     "fireworks",
        ServicePackage:  "premium",
        DisplayDuration: "15 minutes",
        DisplayType:     model.DisplayAerial,
        BasePriceCents:  60000,
        TotalPriceCents: 75000,
        DiscountCents:   5000,
    }
}

func TestNewBookingDerivedFields(t *testing.T) {
    l := testLedger()

    b, err := l.NewBooking(validRequest())
    require.NoError(t, err)

    // Scenario A: total 75000, discount 5000 -> initial balance 70000.
    assert.Equal(t, int64(70000), b.BalanceDueCents)
    assert.Equal(t, int64(0), b.DepositPaidCents)
    assert.Equal(t, model.BookingPending, b.BookingStatus)
    assert.Equal(t, model.PaymentPending, b.PaymentStatus)
    assert.True(t, b.PermitRequired)
    assert.False(t, b.PermitObtained)
    assert.Equal(t, DefaultTeamSize, b.TeamSize)
    assert.Equal(t, testNow, b.CreatedAt)
    assert.Nil(t, b.ConfirmedAt)
    assert.Nil(t, b.CompletedAt)
    assert.Equal(t, "amina@example.com", b.ClientEmail)
}

func TestNewBookingValidation(t *testing.T) {
    l := testLedger()

    cases := []struct {
        name   string
        mutate func(*CreateRequest)
        field  string
    }{
        {"missing name", func(r *CreateRequest) { r.ClientName = " " }, "client_name"},
        {"bad email", func(r *CreateRequest) { r.ClientEmail = "not-an-email" }, "client_email"},
        {"short phone", func(r *CreateRequest) { r.ClientPhone = "12345" }, "client_phone"},
        {"long phone", func(r *CreateRequest) { r.ClientPhone = "+0123456789012345678901234" }, "client_phone"},
        {"bad venue", func(r *CreateRequest) { r.VenueType = "underwater" }, "venue_type"},
        {"bad display", func(r *CreateRequest) { r.DisplayType = "orbital" }, "display_type"},
        {"zero total", func(r *CreateRequest) { r.TotalPriceCents = 0 }, "total_price"},
        {"negative base", func(r *CreateRequest) { r.BasePriceCents = -100 }, "base_price"},
        {"negative discount", func(r *CreateRequest) { r.DiscountCents = -1 }, "discount"},
        {"negative charges", func(r *CreateRequest) { r.AdditionalChargesCents = -1 }, "additional_charges"},
        {"zero guests", func(r *CreateRequest) { g := 0; r.ExpectedGuests = &g }, "expected_guests"},
        {"missing location", func(r *CreateRequest) { r.EventLocation = "" }, "event_location"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            req := validRequest()
            tc.mutate(&req)
            _, err := l.NewBooking(req)
            var verr *ValidationError
            require.ErrorAs(t, err, &verr)
            assert.Equal(t, tc.field, verr.Field)
        })
    }
}

func TestNewBookingLeadTime(t *testing.T) {
    l := testLedger()

    // Exactly now+7 days is still too soon; the event date must be
    // strictly later than the earliest allowed day.
    req := validRequest()
    req.EventDate = testNow.AddDate(0, 0, 7)
    _, err := l.NewBooking(req)
    var verr *ValidationError
    require.ErrorAs(t, err, &verr)
    assert.Equal(t, "event_date", verr.Field)

    req.EventDate = testNow.AddDate(0, 0, 8)
    _, err = l.NewBooking(req)
    assert.NoError(t, err)
}

func TestTransitionTable(t *testing.T) {
    all := []model.BookingStatus{
        model.BookingPending, model.BookingConfirmed, model.BookingInProgress,
        model.BookingCompleted, model.BookingCancelled,
    }
    allowed := map[model.BookingStatus]map[model.BookingStatus]bool{
        model.BookingPending:    {model.BookingConfirmed: true, model.BookingCancelled: true},
        model.BookingConfirmed:  {model.BookingInProgress: true, model.BookingCancelled: true},
        model.BookingInProgress: {model.BookingCompleted: true, model.BookingCancelled: true},
    }

    l := testLedger()
    for _, from := range all {
        for _, to := range all {
            b := &model.Booking{BookingStatus: from, TotalPriceCents: 75000}
            err := l.Transition(b, to)
            if allowed[from][to] {
                assert.NoError(t, err, "%s -> %s should be allowed", from, to)
                assert.Equal(t, to, b.BookingStatus)
            } else {
                var terr *InvalidTransitionError
                require.ErrorAs(t, err, &terr, "%s -> %s should be rejected", from, to)
                assert.Equal(t, from, terr.From)
                assert.Equal(t, to, terr.To)
                // The booking must be left unmodified.
                assert.Equal(t, from, b.BookingStatus)
            }
        }
    }
}

func TestTransitionTimestamps(t *testing.T) {
    l := testLedger()

    // Scenario D: PENDING -> CONFIRMED stamps confirmed_at once.
    b := &model.Booking{BookingStatus: model.BookingPending}
    require.NoError(t, l.Transition(b, model.BookingConfirmed))
    require.NotNil(t, b.ConfirmedAt)
    assert.Equal(t, testNow, *b.ConfirmedAt)
    assert.Nil(t, b.CompletedAt)

    // Subsequent operations never alter confirmed_at.
    confirmed := *b.ConfirmedAt
    require.NoError(t, l.Transition(b, model.BookingInProgress))
    require.NoError(t, l.Transition(b, model.BookingCompleted))
    assert.Equal(t, confirmed, *b.ConfirmedAt)
    require.NotNil(t, b.CompletedAt)

    // A PENDING booking cannot jump straight to COMPLETED.
    b2 := &model.Booking{BookingStatus: model.BookingPending}
    err := l.Transition(b2, model.BookingCompleted)
    var terr *InvalidTransitionError
    require.ErrorAs(t, err, &terr)
    assert.Nil(t, b2.CompletedAt)
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
    l := testLedger()
    b := &model.Booking{BookingStatus: model.BookingPending}
    err := l.Transition(b, "LAUNCHED")
    var verr *ValidationError
    assert.ErrorAs(t, err, &verr)
}

func TestCancelledIsAbsorbing(t *testing.T) {
    // Scenario F: no transition out of CANCELLED is ever accepted.
    l := testLedger()
    targets := []model.BookingStatus{
        model.BookingPending, model.BookingConfirmed, model.BookingInProgress,
        model.BookingCompleted, model.BookingCancelled,
    }
    for _, to := range targets {
        b := &model.Booking{BookingStatus: model.BookingCancelled}
        err := l.Transition(b, to)
        var terr *InvalidTransitionError
        var verr *ValidationError
        assert.True(t, errors.As(err, &terr) || errors.As(err, &verr), "CANCELLED -> %s must fail", to)
        assert.Equal(t, model.BookingCancelled, b.BookingStatus)
    }
}

func TestApplyPayment(t *testing.T) {
    l := testLedger()

    b := &model.Booking{
        BookingStatus:   model.BookingConfirmed,
        TotalPriceCents: 75000,
        BalanceDueCents: 75000,
        PaymentStatus:   model.PaymentPending,
    }

    // Scenario B: partial payment.
    require.NoError(t, l.ApplyPayment(b, 25000))
    assert.Equal(t, int64(25000), b.DepositPaidCents)
    assert.Equal(t, int64(50000), b.BalanceDueCents)
    assert.Equal(t, model.PaymentPartial, b.PaymentStatus)

    // Scenario C: cumulative payments reach the total.
    require.NoError(t, l.ApplyPayment(b, 50000))
    assert.Equal(t, int64(75000), b.DepositPaidCents)
    assert.Equal(t, int64(0), b.BalanceDueCents)
    assert.Equal(t, model.PaymentPaid, b.PaymentStatus)

    // Overpayment is accepted and the balance floors at zero.
    require.NoError(t, l.ApplyPayment(b, 10000))
    assert.Equal(t, int64(85000), b.DepositPaidCents)
    assert.Equal(t, int64(0), b.BalanceDueCents)
    assert.Equal(t, model.PaymentPaid, b.PaymentStatus)
}

func TestApplyPaymentRejectsNonPositive(t *testing.T) {
    l := testLedger()
    b := &model.Booking{TotalPriceCents: 75000, BalanceDueCents: 75000}
    for _, amount := range []int64{0, -1, -75000} {
        err := l.ApplyPayment(b, amount)
        var verr *ValidationError
        require.ErrorAs(t, err, &verr)
        assert.Equal(t, int64(0), b.DepositPaidCents)
    }
}

func TestBalanceInvariant(t *testing.T) {
    // balance_due == max(0, total - deposit) after any sequence of
    // payments.
    l := testLedger()
    b := &model.Booking{TotalPriceCents: 75000, BalanceDueCents: 75000}
    for _, amount := range []int64{100, 5000, 30000, 40000, 12345} {
        require.NoError(t, l.ApplyPayment(b, amount))
        want := b.TotalPriceCents - b.DepositPaidCents
        if want < 0 {
            want = 0
        }
        assert.Equal(t, want, b.BalanceDueCents)
    }
}

func TestCancellationFeeSchedule(t *testing.T) {
    cases := []struct {
        daysUntil int
        total     int64
        fee       int64
    }{
        {-1, 100000, 50000}, // past event, still the late tier
        {0, 100000, 50000},
        {3, 100000, 50000}, // Scenario E, late cancellation
        {6, 100000, 50000},
        {7, 100000, 20000},
        {29, 100000, 20000},
        {30, 100000, 0},
        {40, 100000, 0}, // Scenario E, early cancellation
    }
    for _, tc := range cases {
        assert.Equal(t, tc.fee, CancellationFee(tc.total, tc.daysUntil), "daysUntil=%d", tc.daysUntil)
    }

    // Fee is a non-increasing step function of daysUntil.
    prev := CancellationFee(100000, -5)
    for d := -4; d <= 60; d++ {
        fee := CancellationFee(100000, d)
        assert.LessOrEqual(t, fee, prev, "fee must not increase at daysUntil=%d", d)
        prev = fee
    }
}

func TestCancel(t *testing.T) {
    l := testLedger()

    b := &model.Booking{
        BookingStatus:    model.BookingConfirmed,
        TotalPriceCents:  100000,
        EventDate:        testNow.AddDate(0, 0, 3),
        DepositPaidCents: 30000,
    }
    fee, err := l.Cancel(b, "venue flooded")
    require.NoError(t, err)
    assert.Equal(t, int64(50000), fee)
    assert.Equal(t, model.BookingCancelled, b.BookingStatus)
    assert.Equal(t, "venue flooded", b.CancellationReason)
    assert.Equal(t, int64(50000), b.CancellationFeeCents)
    // The fee is informational; the deposit is untouched.
    assert.Equal(t, int64(30000), b.DepositPaidCents)

    far := &model.Booking{
        BookingStatus:   model.BookingPending,
        TotalPriceCents: 100000,
        EventDate:       testNow.AddDate(0, 0, 40),
    }
    fee, err = l.Cancel(far, "")
    require.NoError(t, err)
    assert.Equal(t, int64(0), fee)
}

func TestCancelTerminalStates(t *testing.T) {
    l := testLedger()
    for _, status := range []model.BookingStatus{model.BookingCompleted, model.BookingCancelled} {
        b := &model.Booking{BookingStatus: status, TotalPriceCents: 100000, EventDate: testNow}
        _, err := l.Cancel(b, "too late")
        var terr *InvalidTransitionError
        require.ErrorAs(t, err, &terr)
        assert.Equal(t, status, b.BookingStatus)
    }
}

func TestDaysUntil(t *testing.T) {
    assert.Equal(t, 0, DaysUntil(testNow, testNow))
    assert.Equal(t, 1, DaysUntil(testNow.Add(13*time.Hour), testNow)) // crosses midnight
    assert.Equal(t, 30, DaysUntil(testNow.AddDate(0, 0, 30), testNow))
    assert.Equal(t, -2, DaysUntil(testNow.AddDate(0, 0, -2), testNow))
}

func TestDerivePaymentStatus(t *testing.T) {
    assert.Equal(t, model.PaymentPending, derivePaymentStatus(0, 75000))
    assert.Equal(t, model.PaymentPartial, derivePaymentStatus(1, 75000))
    assert.Equal(t, model.PaymentPartial, derivePaymentStatus(74999, 75000))
    assert.Equal(t, model.PaymentPaid, derivePaymentStatus(75000, 75000))
    assert.Equal(t, model.PaymentPaid, derivePaymentStatus(80000, 75000))
}
