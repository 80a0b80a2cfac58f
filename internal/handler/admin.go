package handler

import (
	"context"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ignux/fireworks-booking-api/internal/model"
	"github.com/ignux/fireworks-booking-api/internal/repository"
)

// AdminHandler serves the staff-only surface: dashboard aggregates,
// CSV export, catalog management and testimonial moderation. All
// routes sit behind JWTAuth + RequireRole(ADMIN).
type AdminHandler struct {
	Bookings     *repository.BookingRepo
	Contacts     *repository.ContactRepo
	Newsletter   *repository.NewsletterRepo
	Services     *repository.ServiceRepo
	Testimonials *repository.TestimonialRepo
}

func NewAdminHandler(b *repository.BookingRepo, c *repository.ContactRepo, n *repository.NewsletterRepo, s *repository.ServiceRepo, t *repository.TestimonialRepo) *AdminHandler {
	if b == nil || c == nil || n == nil || s == nil || t == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Bookings: b, Contacts: c, Newsletter: n, Services: s, Testimonials: t}
}

// DashboardStats handles GET /v1/admin/dashboard/stats.
func (h *AdminHandler) DashboardStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Bookings.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	unread, err := h.Contacts.UnreadCount(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	subscribers, err := h.Newsletter.ActiveCount(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	activeServices, err := h.Services.ActiveCount(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	approved, pending, err := h.Testimonials.Counts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"bookings":              stats,
		"unread_messages":       unread,
		"newsletter_sub_count":  subscribers,
		"active_services":       activeServices,
		"approved_testimonials": approved,
		"pending_testimonials":  pending,
	})
}

// ExportBookings handles GET /v1/admin/bookings/export. It streams
// the bookings matching the optional date range as CSV.
func (h *AdminHandler) ExportBookings(c echo.Context) error {
	f := repository.BookingFilter{Limit: 1000}
	var err error
	if f.DateFrom, err = parseDateParam(c, "date_from"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if f.DateTo, err = parseDateParam(c, "date_to"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="bookings.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{
		"id", "client_name", "client_email", "client_phone",
		"event_name", "event_type", "event_date", "event_location",
		"service_type", "booking_status", "payment_status",
		"total_price_cents", "deposit_paid_cents", "balance_due_cents",
		"created_at",
	}); err != nil {
		return err
	}

	// Page through the table so exports of any size stay bounded in
	// memory.
	for {
		batch, err := h.Bookings.List(ctx, f)
		if err != nil {
			return err
		}
		for _, b := range batch {
			if err := w.Write([]string{
				strconv.FormatUint(b.ID, 10),
				b.ClientName,
				b.ClientEmail,
				b.ClientPhone,
				b.EventName,
				b.EventType,
				b.EventDate.Format("2006-01-02"),
				b.EventLocation,
				b.ServiceType,
				string(b.BookingStatus),
				string(b.PaymentStatus),
				strconv.FormatInt(b.TotalPriceCents, 10),
				strconv.FormatInt(b.DepositPaidCents, 10),
				strconv.FormatInt(b.BalanceDueCents, 10),
				b.CreatedAt.UTC().Format(time.RFC3339),
			}); err != nil {
				return err
			}
		}
		if len(batch) < f.Limit {
			break
		}
		f.Offset += f.Limit
	}
	w.Flush()
	return w.Error()
}

// ----- catalog management -----

type serviceReq struct {
	Name               string `json:"name"`
	Slug               string `json:"slug"`
	Category           string `json:"category"`
	Description        string `json:"description"`
	Features           string `json:"features"`
	BasePriceCents     int64  `json:"base_price_cents"`
	PriceRangeMinCents int64  `json:"price_range_min_cents"`
	PriceRangeMaxCents int64  `json:"price_range_max_cents"`
	Duration           string `json:"duration"`
	IsPopular          bool   `json:"is_popular"`
	IsActive           *bool  `json:"is_active"`
	DisplayOrder       int    `json:"display_order"`
	MinGuests          *int   `json:"min_guests"`
	MaxGuests          *int   `json:"max_guests"`
}

func (r serviceReq) validate() string {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Slug) == "" {
		return "name and slug are required"
	}
	if r.BasePriceCents <= 0 {
		return "base_price_cents must be positive"
	}
	if r.PriceRangeMinCents < 0 || r.PriceRangeMaxCents < r.PriceRangeMinCents {
		return "invalid price range"
	}
	return ""
}

func (r serviceReq) toModel() *model.Service {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &model.Service{
		Name:               strings.TrimSpace(r.Name),
		Slug:               strings.ToLower(strings.TrimSpace(r.Slug)),
		Category:           strings.TrimSpace(r.Category),
		Description:        r.Description,
		Features:           r.Features,
		BasePriceCents:     r.BasePriceCents,
		PriceRangeMinCents: r.PriceRangeMinCents,
		PriceRangeMaxCents: r.PriceRangeMaxCents,
		Duration:           r.Duration,
		IsPopular:          r.IsPopular,
		IsActive:           active,
		DisplayOrder:       r.DisplayOrder,
		MinGuests:          r.MinGuests,
		MaxGuests:          r.MaxGuests,
	}
}

// CreateService handles POST /v1/admin/services.
func (h *AdminHandler) CreateService(c echo.Context) error {
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	svc := req.toModel()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Services.Create(ctx, svc); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create service failed"})
	}
	return c.JSON(http.StatusCreated, toServiceResp(svc))
}

// UpdateService handles PUT /v1/admin/services/:id.
func (h *AdminHandler) UpdateService(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	svc := req.toModel()
	svc.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Services.Update(ctx, svc); err != nil {
		switch err {
		case repository.ErrServiceNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update service failed"})
	}
	return c.JSON(http.StatusOK, toServiceResp(svc))
}

// DeactivateService handles DELETE /v1/admin/services/:id. Soft
// delete: the row stays so existing bookings keep their reference.
func (h *AdminHandler) DeactivateService(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Services.Deactivate(ctx, id); err != nil {
		if err == repository.ErrServiceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAllServices handles GET /v1/admin/services, including inactive
// entries.
func (h *AdminHandler) ListAllServices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Services.List(ctx, strings.TrimSpace(c.QueryParam("category")), false, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(list))
	for _, s := range list {
		out = append(out, echo.Map{"service": toServiceResp(s), "is_active": s.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"services": out, "count": len(out)})
}

// ----- testimonial moderation -----

// ListAllTestimonials handles GET /v1/admin/testimonials.
func (h *AdminHandler) ListAllTestimonials(c echo.Context) error {
	limit, offset := 0, 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Testimonials.ListAll(ctx, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(list))
	for _, t := range list {
		out = append(out, echo.Map{"testimonial": toTestimonialResp(t), "is_approved": t.IsApproved})
	}
	return c.JSON(http.StatusOK, echo.Map{"testimonials": out, "count": len(out)})
}

// ModerateTestimonial handles POST /v1/admin/testimonials/:id/approve.
func (h *AdminHandler) ModerateTestimonial(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid testimonial id"})
	}
	var body struct {
		Approved bool `json:"approved"`
		Featured bool `json:"featured"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Testimonials.SetApproval(ctx, id, body.Approved, body.Featured); err != nil {
		if err == repository.ErrTestimonialNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "testimonial not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteTestimonial handles DELETE /v1/admin/testimonials/:id.
func (h *AdminHandler) DeleteTestimonial(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid testimonial id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Testimonials.Delete(ctx, id); err != nil {
		if err == repository.ErrTestimonialNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "testimonial not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSubscribers handles GET /v1/admin/newsletter.
func (h *AdminHandler) ListSubscribers(c echo.Context) error {
	limit, offset := 0, 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Newsletter.ListActive(ctx, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(list))
	for _, s := range list {
		out = append(out, echo.Map{
			"email":         s.Email,
			"name":          s.Name,
			"source":        s.Source,
			"subscribed_at": s.SubscribedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"subscribers": out, "count": len(out)})
}
