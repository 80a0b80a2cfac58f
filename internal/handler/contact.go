package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ignux/fireworks-booking-api/internal/model"
	"github.com/ignux/fireworks-booking-api/internal/queue"
	"github.com/ignux/fireworks-booking-api/internal/repository"
	queue_publisher "github.com/ignux/fireworks-booking-api/internal/service"
)

// ContactHandler serves the contact-form intake and the admin inbox.
type ContactHandler struct {
	Contacts *repository.ContactRepo
}

func NewContactHandler(contacts *repository.ContactRepo) *ContactHandler {
	if contacts == nil {
		panic("nil repository passed to NewContactHandler")
	}
	return &ContactHandler{Contacts: contacts}
}

type contactResp struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	EventType string `json:"event_type,omitempty"`
	EventDate string `json:"event_date,omitempty"`
	Budget    string `json:"budget,omitempty"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	Responded bool   `json:"responded"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toContactResp(m *model.ContactMessage) contactResp {
	r := contactResp{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		EventType: m.EventType,
		Budget:    m.Budget,
		Message:   m.Message,
		IsRead:    m.IsRead,
		Responded: m.Responded,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if m.EventDate != nil {
		r.EventDate = m.EventDate.Format("2006-01-02")
	}
	return r
}

// Create handles POST /v1/contacts. Public, rate-limited at the
// router. A staff notification is published fire-and-forget.
func (h *ContactHandler) Create(c echo.Context) error {
	var body struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		EventType string `json:"event_type"`
		EventDate string `json:"event_date"`
		Budget    string `json:"budget"`
		Message   string `json:"message"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and message are required"})
	}
	if email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email is required"})
	}

	m := &model.ContactMessage{
		Name:      strings.TrimSpace(body.Name),
		Email:     email,
		Phone:     strings.TrimSpace(body.Phone),
		EventType: strings.TrimSpace(body.EventType),
		Budget:    strings.TrimSpace(body.Budget),
		Message:   strings.TrimSpace(body.Message),
	}
	if v := strings.TrimSpace(body.EventDate); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_date: expected YYYY-MM-DD"})
		}
		du := d.UTC()
		m.EventDate = &du
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Contacts.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create message failed"})
	}

	go func() {
		_ = queue_publisher.PublishNotification(context.Background(), queue.NotificationEvent{
			Kind:        queue.KindContactReceived,
			ClientName:  m.Name,
			ClientEmail: m.Email,
			EventType:   m.EventType,
			Message:     m.Message,
			OccurredAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      m.ID,
		"message": "thanks for reaching out, we will get back to you shortly",
	})
}

// Get handles GET /v1/admin/contacts/:id.
func (h *ContactHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Contacts.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrContactNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toContactResp(m))
}

// List handles GET /v1/admin/contacts?unread=true.
func (h *ContactHandler) List(c echo.Context) error {
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

	list, err := h.Contacts.List(ctx, c.QueryParam("unread") == "true", limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]contactResp, 0, len(list))
	for _, m := range list {
		out = append(out, toContactResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": out, "count": len(out)})
}

// MarkRead handles POST /v1/admin/contacts/:id/read.
func (h *ContactHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Contacts.MarkRead(ctx, id); err != nil {
		if err == repository.ErrContactNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkResponded handles POST /v1/admin/contacts/:id/respond with
// optional follow-up notes.
func (h *ContactHandler) MarkResponded(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}
	var body struct {
		Notes string `json:"notes"`
	}
	_ = c.Bind(&body)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Contacts.MarkResponded(ctx, id, strings.TrimSpace(body.Notes)); err != nil {
		if err == repository.ErrContactNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
