package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ignux/fireworks-booking-api/internal/model"
)

// ErrContactNotFound is returned when a contact message id does not exist.
var ErrContactNotFound = errors.New("contact message not found")

// ContactRepo persists inbound contact-form messages.
type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

const contactCols = `id, name, email, phone, event_type, event_date, budget, message, is_read, responded, notes, created_at`

func scanContact(s rowScanner) (*model.ContactMessage, error) {
	var (
		m         model.ContactMessage
		eventDate sql.NullTime
	)
	err := s.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.EventType, &eventDate,
		&m.Budget, &m.Message, &m.IsRead, &m.Responded, &m.Notes, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if eventDate.Valid {
		t := eventDate.Time.UTC()
		m.EventDate = &t
	}
	return &m, nil
}

// Create inserts a contact message and populates its generated ID.
func (r *ContactRepo) Create(ctx context.Context, m *model.ContactMessage) error {
	var eventDate any
	if m.EventDate != nil {
		eventDate = m.EventDate.UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (name, email, phone, event_type, event_date, budget, message)
		 VALUES (?,?,?,?,?,?,?)`,
		m.Name, strings.ToLower(strings.TrimSpace(m.Email)), m.Phone, m.EventType, eventDate, m.Budget, m.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches a single message.
func (r *ContactRepo) GetByID(ctx context.Context, id uint64) (*model.ContactMessage, error) {
	m, err := scanContact(r.db.QueryRowContext(ctx,
		`SELECT `+contactCols+` FROM contact_messages WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrContactNotFound
	}
	return m, err
}

// List returns messages newest first. When unreadOnly is set only
// messages not yet marked read are returned.
func (r *ContactRepo) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]*model.ContactMessage, error) {
	q := `SELECT ` + contactCols + ` FROM contact_messages`
	if unreadOnly {
		q += ` WHERE is_read = FALSE`
	}
	if limit <= 0 {
		limit = 100
	}
	q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.ContactMessage, 0)
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkRead flags a message as read; repeated calls are harmless.
func (r *ContactRepo) MarkRead(ctx context.Context, id uint64) error {
	return r.touch(ctx, id, `UPDATE contact_messages SET is_read = TRUE WHERE id = ?`)
}

// MarkResponded flags a message as responded (and read) and stores
// the staff follow-up notes.
func (r *ContactRepo) MarkResponded(ctx context.Context, id uint64, notes string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET responded = TRUE, is_read = TRUE, notes = ? WHERE id = ?`,
		notes, id)
	if err != nil {
		return err
	}
	return r.checkTouched(ctx, id, res)
}

func (r *ContactRepo) touch(ctx context.Context, id uint64, q string) error {
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return r.checkTouched(ctx, id, res)
}

// checkTouched distinguishes "row absent" from "row unchanged" after
// an idempotent UPDATE reported zero affected rows.
func (r *ContactRepo) checkTouched(ctx context.Context, id uint64, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil || n > 0 {
		return err
	}
	var exists int
	if err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM contact_messages WHERE id = ?`, id).Scan(&exists); err == sql.ErrNoRows {
		return ErrContactNotFound
	} else if err != nil {
		return err
	}
	return nil
}

// UnreadCount returns the number of unread messages, shown on the
// admin dashboard.
func (r *ContactRepo) UnreadCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_messages WHERE is_read = FALSE`).Scan(&n)
	return n, err
}
