package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ignux/fireworks-booking-api/internal/model"
	"github.com/ignux/fireworks-booking-api/internal/repository"
)

// CatalogHandler serves the public marketing surface: the service
// catalog, approved testimonials, newsletter subscription and the
// availability calendar. Everything here is unauthenticated and the
// GET endpoints sit behind the response cache.
type CatalogHandler struct {
	Services     *repository.ServiceRepo
	Testimonials *repository.TestimonialRepo
	Newsletter   *repository.NewsletterRepo
	Bookings     *repository.BookingRepo
}

func NewCatalogHandler(s *repository.ServiceRepo, t *repository.TestimonialRepo, n *repository.NewsletterRepo, b *repository.BookingRepo) *CatalogHandler {
	if s == nil || t == nil || n == nil || b == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Services: s, Testimonials: t, Newsletter: n, Bookings: b}
}

// ----- DTOs -----

type serviceResp struct {
	ID                 uint64 `json:"id"`
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
	DisplayOrder       int    `json:"display_order"`
	MinGuests          *int   `json:"min_guests,omitempty"`
	MaxGuests          *int   `json:"max_guests,omitempty"`
}

func toServiceResp(s *model.Service) serviceResp {
	return serviceResp{
		ID:                 s.ID,
		Name:               s.Name,
		Slug:               s.Slug,
		Category:           s.Category,
		Description:        s.Description,
		Features:           s.Features,
		BasePriceCents:     s.BasePriceCents,
		PriceRangeMinCents: s.PriceRangeMinCents,
		PriceRangeMaxCents: s.PriceRangeMaxCents,
		Duration:           s.Duration,
		IsPopular:          s.IsPopular,
		DisplayOrder:       s.DisplayOrder,
		MinGuests:          s.MinGuests,
		MaxGuests:          s.MaxGuests,
	}
}

type testimonialResp struct {
	ID         uint64 `json:"id"`
	ClientName string `json:"client_name"`
	EventType  string `json:"event_type"`
	EventDate  string `json:"event_date,omitempty"`
	Rating     int    `json:"rating"`
	Text       string `json:"testimonial"`
	IsFeatured bool   `json:"is_featured"`
}

func toTestimonialResp(t *model.Testimonial) testimonialResp {
	r := testimonialResp{
		ID:         t.ID,
		ClientName: t.ClientName,
		EventType:  t.EventType,
		Rating:     t.Rating,
		Text:       t.Testimonial,
		IsFeatured: t.IsFeatured,
	}
	if t.EventDate != nil {
		r.EventDate = t.EventDate.Format("2006-01-02")
	}
	return r
}

// ListServices handles GET /v1/services. Optional filters: category,
// popular=true.
func (h *CatalogHandler) ListServices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Services.List(ctx,
		strings.TrimSpace(c.QueryParam("category")),
		c.QueryParam("popular") == "true",
		false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]serviceResp, 0, len(list))
	for _, s := range list {
		out = append(out, toServiceResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"services": out, "count": len(out)})
}

// GetService handles GET /v1/services/:id.
func (h *CatalogHandler) GetService(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	svc, err := h.Services.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrServiceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !svc.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	}
	return c.JSON(http.StatusOK, toServiceResp(svc))
}

// GetServiceBySlug handles GET /v1/services/slug/:slug.
func (h *CatalogHandler) GetServiceBySlug(c echo.Context) error {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slug"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	svc, err := h.Services.GetBySlug(ctx, slug)
	if err != nil {
		if err == repository.ErrServiceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toServiceResp(svc))
}

// FeaturedServices handles GET /v1/services/featured, the landing
// page picks.
func (h *CatalogHandler) FeaturedServices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Services.List(ctx, "", true, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]serviceResp, 0, len(list))
	for _, s := range list {
		out = append(out, toServiceResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"services": out, "count": len(out)})
}

// ListTestimonials handles GET /v1/testimonials. Only approved
// reviews are visible; featured=true narrows to landing-page picks.
func (h *CatalogHandler) ListTestimonials(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Testimonials.ListApproved(ctx, c.QueryParam("featured") == "true", limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]testimonialResp, 0, len(list))
	for _, t := range list {
		out = append(out, toTestimonialResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"testimonials": out, "count": len(out)})
}

// CreateTestimonial handles POST /v1/testimonials. The review enters
// the moderation queue unapproved.
func (h *CatalogHandler) CreateTestimonial(c echo.Context) error {
	var body struct {
		ClientName  string `json:"client_name"`
		EventType   string `json:"event_type"`
		EventDate   string `json:"event_date"`
		Rating      int    `json:"rating"`
		Testimonial string `json:"testimonial"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.ClientName) == "" || strings.TrimSpace(body.Testimonial) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_name and testimonial are required"})
	}
	if body.Rating < 1 || body.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1..5"})
	}
	t := &model.Testimonial{
		ClientName:  strings.TrimSpace(body.ClientName),
		EventType:   strings.TrimSpace(body.EventType),
		Rating:      body.Rating,
		Testimonial: strings.TrimSpace(body.Testimonial),
	}
	if v := strings.TrimSpace(body.EventDate); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_date: expected YYYY-MM-DD"})
		}
		du := d.UTC()
		t.EventDate = &du
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Testimonials.Create(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create testimonial failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":      t.ID,
		"message": "thank you! your review will appear after moderation",
	})
}

// Subscribe handles POST /v1/newsletter/subscribe.
func (h *CatalogHandler) Subscribe(c echo.Context) error {
	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	already, err := h.Newsletter.Subscribe(ctx, email, strings.TrimSpace(body.Name), "website")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "subscribe failed"})
	}
	if already {
		return c.JSON(http.StatusOK, echo.Map{"message": "already subscribed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "subscribed"})
}

// Unsubscribe handles POST /v1/newsletter/unsubscribe.
func (h *CatalogHandler) Unsubscribe(c echo.Context) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Newsletter.Unsubscribe(ctx, body.Email); err != nil {
		if err == repository.ErrNotSubscribed {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "email not subscribed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unsubscribe failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "unsubscribed"})
}

// Availability handles GET /v1/availability?from=&to=. It returns
// the dates in the range already blocked by a confirmed booking.
// The range defaults to the next 90 days and is capped at one year.
func (h *CatalogHandler) Availability(c echo.Context) error {
	from, err := parseDateParam(c, "from")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	to, err := parseDateParam(c, "to")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if from.IsZero() {
		from = today
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, 90)
	}
	if to.Before(from) || to.After(from.AddDate(1, 0, 0)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid range: to must be within one year after from"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	dates, err := h.Bookings.BookedDates(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	booked := make([]string, 0, len(dates))
	for _, d := range dates {
		booked = append(booked, d.Format("2006-01-02"))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"from":         from.Format("2006-01-02"),
		"to":           to.Format("2006-01-02"),
		"booked_dates": booked,
	})
}
