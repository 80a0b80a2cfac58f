package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ignux/fireworks-booking-api/internal/model"
)

// ErrNotSubscribed is returned when unsubscribing an email that is
// not on the list (or is already inactive).
var ErrNotSubscribed = errors.New("email not subscribed")

// NewsletterRepo persists mailing-list subscriptions. Emails are
// unique; unsubscribe flips is_active so a later resubscribe
// reactivates the original row.
type NewsletterRepo struct {
	db *sql.DB
}

func NewNewsletterRepo(db *sql.DB) *NewsletterRepo { return &NewsletterRepo{db: db} }

// Subscribe adds an email to the list, or reactivates it if it was
// previously unsubscribed. The returned flag is true when the email
// was already actively subscribed.
func (r *NewsletterRepo) Subscribe(ctx context.Context, email, name, source string) (already bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		id     uint64
		active bool
	)
	err = r.db.QueryRowContext(ctx,
		`SELECT id, is_active FROM newsletter_subscribers WHERE email = ?`, email).
		Scan(&id, &active)
	switch {
	case err == sql.ErrNoRows:
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO newsletter_subscribers (email, name, source, is_active, subscribed_at)
			 VALUES (?,?,?,TRUE,?)`,
			email, name, source, time.Now().UTC())
		return false, err
	case err != nil:
		return false, err
	case active:
		return true, nil
	default:
		_, err = r.db.ExecContext(ctx,
			`UPDATE newsletter_subscribers
			 SET is_active = TRUE, subscribed_at = ?, unsubscribed_at = NULL, name = ?, source = ?
			 WHERE id = ?`,
			time.Now().UTC(), name, source, id)
		return false, err
	}
}

// Unsubscribe deactivates a subscription.
func (r *NewsletterRepo) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.db.ExecContext(ctx,
		`UPDATE newsletter_subscribers SET is_active = FALSE, unsubscribed_at = ?
		 WHERE email = ? AND is_active = TRUE`,
		time.Now().UTC(), email)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// ListActive returns active subscribers oldest first, for campaign
// exports.
func (r *NewsletterRepo) ListActive(ctx context.Context, limit, offset int) ([]*model.NewsletterSubscriber, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, name, source, is_active, subscribed_at, unsubscribed_at
		 FROM newsletter_subscribers WHERE is_active = TRUE
		 ORDER BY subscribed_at ASC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.NewsletterSubscriber, 0)
	for rows.Next() {
		var (
			sub     model.NewsletterSubscriber
			unsubAt sql.NullTime
		)
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Name, &sub.Source,
			&sub.IsActive, &sub.SubscribedAt, &unsubAt); err != nil {
			return nil, err
		}
		if unsubAt.Valid {
			t := unsubAt.Time.UTC()
			sub.UnsubscribedAt = &t
		}
		out = append(out, &sub)
	}
	return out, rows.Err()
}

// ActiveCount returns the number of active subscribers, used by the
// admin dashboard.
func (r *NewsletterRepo) ActiveCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM newsletter_subscribers WHERE is_active = TRUE`).Scan(&n)
	return n, err
}
