package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ignux/fireworks-booking-api/internal/ledger"
	"github.com/ignux/fireworks-booking-api/internal/model"
	"github.com/ignux/fireworks-booking-api/internal/queue"
	"github.com/ignux/fireworks-booking-api/internal/repository"
	queue_publisher "github.com/ignux/fireworks-booking-api/internal/service"
)

// BookingHandler serves the booking lifecycle endpoints. Lifecycle
// mutations (status, payments, cancellation) run the read-validate-
// write cycle inside a transaction holding a row lock, so two
// concurrent mutations of the same booking serialize instead of
// overwriting each other. Notification events are published
// fire-and-forget: a broker outage never fails the request.
type BookingHandler struct {
	Ledger   *ledger.Ledger
	Bookings *repository.BookingRepo
}

func NewBookingHandler(l *ledger.Ledger, bookings *repository.BookingRepo) *BookingHandler {
	if l == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Ledger: l, Bookings: bookings}
}

// ----- DTOs -----

type createBookingReq struct {
	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientPhone   string `json:"client_phone"`
	ClientAddress string `json:"client_address"`

	EventType      string `json:"event_type"`
	EventName      string `json:"event_name"`
	EventDate      string `json:"event_date"` // YYYY-MM-DD
	EventTime      string `json:"event_time"`
	EventLocation  string `json:"event_location"`
	VenueType      string `json:"venue_type"`
	ExpectedGuests *int   `json:"expected_guests"`

	ServiceType        string `json:"service_type"`
	ServicePackage     string `json:"service_package"`
	AdditionalServices string `json:"additional_services"`

	DisplayDuration string `json:"display_duration"`
	DisplayType     string `json:"display_type"`
	ColorsRequested string `json:"colors_requested"`
	MusicSync       bool   `json:"music_sync"`
	SpecialEffects  string `json:"special_effects"`

	BasePriceCents         int64 `json:"base_price_cents"`
	AdditionalChargesCents int64 `json:"additional_charges_cents"`
	DiscountCents          int64 `json:"discount_cents"`
	TotalPriceCents        int64 `json:"total_price_cents"`

	SpecialInstructions string `json:"special_instructions"`
	EmergencyContact    string `json:"emergency_contact"`
	InsuranceRequired   bool   `json:"insurance_required"`
	TeamSize            int    `json:"team_size"`
}

type bookingResp struct {
	ID            uint64 `json:"id"`
	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientPhone   string `json:"client_phone"`
	ClientAddress string `json:"client_address,omitempty"`

	EventType      string `json:"event_type"`
	EventName      string `json:"event_name"`
	EventDate      string `json:"event_date"`
	EventTime      string `json:"event_time"`
	EventLocation  string `json:"event_location"`
	VenueType      string `json:"venue_type"`
	ExpectedGuests *int   `json:"expected_guests,omitempty"`

	ServiceType        string `json:"service_type"`
	ServicePackage     string `json:"service_package,omitempty"`
	AdditionalServices string `json:"additional_services,omitempty"`

	DisplayDuration string `json:"display_duration,omitempty"`
	DisplayType     string `json:"display_type"`
	ColorsRequested string `json:"colors_requested,omitempty"`
	MusicSync       bool   `json:"music_sync"`
	SpecialEffects  string `json:"special_effects,omitempty"`

	BasePriceCents         int64 `json:"base_price_cents"`
	AdditionalChargesCents int64 `json:"additional_charges_cents"`
	DiscountCents          int64 `json:"discount_cents"`
	TotalPriceCents        int64 `json:"total_price_cents"`
	DepositPaidCents       int64 `json:"deposit_paid_cents"`
	BalanceDueCents        int64 `json:"balance_due_cents"`

	BookingStatus string `json:"booking_status"`
	PaymentStatus string `json:"payment_status"`

	CreatedAt   string  `json:"created_at"`
	ConfirmedAt *string `json:"confirmed_at,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
	UpdatedAt   string  `json:"updated_at"`

	SpecialInstructions string `json:"special_instructions,omitempty"`
	EmergencyContact    string `json:"emergency_contact,omitempty"`
	InsuranceRequired   bool   `json:"insurance_required"`
	PermitRequired      bool   `json:"permit_required"`
	PermitObtained      bool   `json:"permit_obtained"`

	AssignedTeamLeader string `json:"assigned_team_leader,omitempty"`
	TeamSize           int    `json:"team_size"`

	CancellationReason   string `json:"cancellation_reason,omitempty"`
	CancellationFeeCents int64  `json:"cancellation_fee_cents,omitempty"`
}

func toBookingResp(b *model.Booking) bookingResp {
	r := bookingResp{
		ID:            b.ID,
		ClientName:    b.ClientName,
		ClientEmail:   b.ClientEmail,
		ClientPhone:   b.ClientPhone,
		ClientAddress: b.ClientAddress,

		EventType:      b.EventType,
		EventName:      b.EventName,
		EventDate:      b.EventDate.Format("2006-01-02"),
		EventTime:      b.EventTime,
		EventLocation:  b.EventLocation,
		VenueType:      string(b.VenueType),
		ExpectedGuests: b.ExpectedGuests,

		ServiceType:        b.ServiceType,
		ServicePackage:     b.ServicePackage,
		AdditionalServices: b.AdditionalServices,

		DisplayDuration: b.DisplayDuration,
		DisplayType:     string(b.DisplayType),
		ColorsRequested: b.ColorsRequested,
		MusicSync:       b.MusicSync,
		SpecialEffects:  b.SpecialEffects,

		BasePriceCents:         b.BasePriceCents,
		AdditionalChargesCents: b.AdditionalChargesCents,
		DiscountCents:          b.DiscountCents,
		TotalPriceCents:        b.TotalPriceCents,
		DepositPaidCents:       b.DepositPaidCents,
		BalanceDueCents:        b.BalanceDueCents,

		BookingStatus: string(b.BookingStatus),
		PaymentStatus: string(b.PaymentStatus),

		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),

		SpecialInstructions: b.SpecialInstructions,
		EmergencyContact:    b.EmergencyContact,
		InsuranceRequired:   b.InsuranceRequired,
		PermitRequired:      b.PermitRequired,
		PermitObtained:      b.PermitObtained,

		AssignedTeamLeader: b.AssignedTeamLeader,
		TeamSize:           b.TeamSize,

		CancellationReason:   b.CancellationReason,
		CancellationFeeCents: b.CancellationFeeCents,
	}
	if b.ConfirmedAt != nil {
		s := b.ConfirmedAt.UTC().Format(time.RFC3339)
		r.ConfirmedAt = &s
	}
	if b.CompletedAt != nil {
		s := b.CompletedAt.UTC().Format(time.RFC3339)
		r.CompletedAt = &s
	}
	return r
}

// Create handles POST /v1/bookings. The endpoint is public: intake
// comes from the website booking form. When the caller is
// authenticated their email is recorded as the creator.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	eventDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.EventDate))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_date: expected YYYY-MM-DD"})
	}

	b, err := h.Ledger.NewBooking(ledger.CreateRequest{
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientPhone:   req.ClientPhone,
		ClientAddress: req.ClientAddress,

		EventType:      req.EventType,
		EventName:      req.EventName,
		EventDate:      eventDate.UTC(),
		EventTime:      req.EventTime,
		EventLocation:  req.EventLocation,
		VenueType:      model.VenueType(strings.ToLower(strings.TrimSpace(req.VenueType))),
		ExpectedGuests: req.ExpectedGuests,

		ServiceType:        req.ServiceType,
		ServicePackage:     req.ServicePackage,
		AdditionalServices: req.AdditionalServices,

		DisplayDuration: req.DisplayDuration,
		DisplayType:     model.DisplayType(strings.ToLower(strings.TrimSpace(req.DisplayType))),
		ColorsRequested: req.ColorsRequested,
		MusicSync:       req.MusicSync,
		SpecialEffects:  req.SpecialEffects,

		BasePriceCents:         req.BasePriceCents,
		AdditionalChargesCents: req.AdditionalChargesCents,
		DiscountCents:          req.DiscountCents,
		TotalPriceCents:        req.TotalPriceCents,

		SpecialInstructions: req.SpecialInstructions,
		EmergencyContact:    req.EmergencyContact,
		InsuranceRequired:   req.InsuranceRequired,
		TeamSize:            req.TeamSize,
		CreatedBy:           currentEmail(c),
	})
	if err != nil {
		return ledgerError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.Create(ctx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	go func() {
		_ = queue_publisher.PublishNotification(context.Background(), queue.NotificationEvent{
			Kind:            queue.KindBookingCreated,
			BookingID:       b.ID,
			ClientName:      b.ClientName,
			ClientEmail:     b.ClientEmail,
			EventType:       b.EventType,
			EventName:       b.EventName,
			EventDate:       b.EventDate.Format("2006-01-02"),
			TotalPriceCents: b.TotalPriceCents,
			BalanceDueCents: b.BalanceDueCents,
			OccurredAt:      time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// Get handles GET /v1/bookings/:id. CLIENT callers may only read
// bookings carrying their own email.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if currentRole(c) == repository.RoleClient && b.ClientEmail != currentEmail(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// List handles GET /v1/bookings. ADMIN callers see everything and may
// filter by status, date range, client email and service type; CLIENT
// callers are pinned to their own email regardless of filters.
func (h *BookingHandler) List(c echo.Context) error {
	f := repository.BookingFilter{
		ClientEmail: strings.TrimSpace(c.QueryParam("client_email")),
		ServiceType: strings.TrimSpace(c.QueryParam("service_type")),
	}
	if s := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); s != "" {
		st := model.BookingStatus(s)
		if !st.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
		}
		f.Status = st
	}
	var err error
	if f.DateFrom, err = parseDateParam(c, "date_from"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if f.DateTo, err = parseDateParam(c, "date_to"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			f.Offset = n
		}
	}

	if currentRole(c) == repository.RoleClient {
		f.ClientEmail = currentEmail(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]bookingResp, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out, "count": len(out)})
}

// Upcoming handles GET /v1/bookings/upcoming?days=N (default 30).
// CLIENT callers only see their own events.
func (h *BookingHandler) Upcoming(c echo.Context) error {
	days := 30
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be 1..365"})
		}
		days = n
	}
	email := ""
	if currentRole(c) == repository.RoleClient {
		email = currentEmail(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	list, err := h.Bookings.ListUpcoming(ctx, today, days, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]bookingResp, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out, "count": len(out)})
}

// UpdateStatus handles PATCH /v1/bookings/:id/status. The target
// status must be a legal transition from the booking's current state.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}
	target := model.BookingStatus(strings.ToUpper(strings.TrimSpace(body.Status)))

	b, status, errMsg := h.mutate(c, id, func(b *model.Booking) error {
		return h.Ledger.Transition(b, target)
	})
	if errMsg != "" {
		return c.JSON(status, echo.Map{"error": errMsg})
	}

	go func(old string) {
		_ = queue_publisher.PublishNotification(context.Background(), queue.NotificationEvent{
			Kind:            queue.KindStatusChanged,
			BookingID:       b.ID,
			ClientName:      b.ClientName,
			ClientEmail:     b.ClientEmail,
			EventDate:       b.EventDate.Format("2006-01-02"),
			OldStatus:       old,
			NewStatus:       string(b.BookingStatus),
			BalanceDueCents: b.BalanceDueCents,
			OccurredAt:      time.Now().UTC().Format(time.RFC3339),
		})
	}(c.Get("old_status").(string))

	return c.JSON(http.StatusOK, toBookingResp(b))
}

// RecordPayment handles POST /v1/bookings/:id/payments.
// Deposits accumulate; the balance floors at zero and the payment
// status is re-derived from the new deposit total.
func (h *BookingHandler) RecordPayment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		AmountCents int64 `json:"amount_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	b, status, errMsg := h.mutate(c, id, func(b *model.Booking) error {
		return h.Ledger.ApplyPayment(b, body.AmountCents)
	})
	if errMsg != "" {
		return c.JSON(status, echo.Map{"error": errMsg})
	}

	go func() {
		_ = queue_publisher.PublishNotification(context.Background(), queue.NotificationEvent{
			Kind:            queue.KindPaymentRecorded,
			BookingID:       b.ID,
			ClientName:      b.ClientName,
			ClientEmail:     b.ClientEmail,
			AmountCents:     body.AmountCents,
			BalanceDueCents: b.BalanceDueCents,
			OccurredAt:      time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Cancel handles POST /v1/bookings/:id/cancel. ADMIN may cancel any
// booking; CLIENT only their own. The cancellation fee is computed
// from the days remaining until the event and recorded on the row.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&body)

	role := currentRole(c)
	email := currentEmail(c)

	var fee int64
	b, status, errMsg := h.mutate(c, id, func(b *model.Booking) error {
		if role == repository.RoleClient && b.ClientEmail != email {
			return repository.ErrForbidden
		}
		fee, err = h.Ledger.Cancel(b, body.Reason)
		return err
	})
	if errMsg != "" {
		return c.JSON(status, echo.Map{"error": errMsg})
	}

	go func() {
		_ = queue_publisher.PublishNotification(context.Background(), queue.NotificationEvent{
			Kind:                 queue.KindBookingCancelled,
			BookingID:            b.ID,
			ClientName:           b.ClientName,
			ClientEmail:          b.ClientEmail,
			CancellationFeeCents: fee,
			BalanceDueCents:      b.BalanceDueCents,
			OccurredAt:           time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"booking":                toBookingResp(b),
		"cancellation_fee_cents": fee,
	})
}

// mutate runs fn against the locked booking row inside a transaction
// and persists the result. It returns the updated booking, or an
// HTTP status and error message on failure.
func (h *BookingHandler) mutate(c echo.Context, id uint64, fn func(*model.Booking) error) (*model.Booking, int, string) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, http.StatusInternalServerError, "failed to start transaction"
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.Bookings.GetByIDForUpdateTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return nil, http.StatusNotFound, "booking not found"
		}
		return nil, http.StatusInternalServerError, "database error"
	}
	c.Set("old_status", string(b.BookingStatus))

	if err := fn(b); err != nil {
		status, msg := ledgerStatus(err)
		return nil, status, msg
	}
	b.UpdatedBy = currentEmail(c)

	if err := h.Bookings.UpdateTx(ctx, tx, b); err != nil {
		return nil, http.StatusInternalServerError, "update booking failed"
	}
	if err := tx.Commit(); err != nil {
		return nil, http.StatusInternalServerError, "failed to commit transaction"
	}
	committed = true
	return b, 0, ""
}

// ledgerError maps a ledger validation failure to an HTTP response.
func ledgerError(c echo.Context, err error) error {
	status, msg := ledgerStatus(err)
	return c.JSON(status, echo.Map{"error": msg})
}

func ledgerStatus(err error) (int, string) {
	switch e := err.(type) {
	case *ledger.ValidationError:
		return http.StatusBadRequest, e.Error()
	case *ledger.InvalidTransitionError:
		return http.StatusBadRequest, e.Error()
	}
	if err == repository.ErrForbidden {
		return http.StatusForbidden, "forbidden"
	}
	return http.StatusInternalServerError, "internal error"
}
