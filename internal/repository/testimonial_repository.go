package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ignux/fireworks-booking-api/internal/model"
)

// ErrTestimonialNotFound is returned when a testimonial id does not exist.
var ErrTestimonialNotFound = errors.New("testimonial not found")

// TestimonialRepo persists client reviews.
type TestimonialRepo struct {
	db *sql.DB
}

func NewTestimonialRepo(db *sql.DB) *TestimonialRepo { return &TestimonialRepo{db: db} }

const testimonialCols = `id, client_name, event_type, event_date, rating, testimonial, is_approved, is_featured, created_at`

func scanTestimonial(s rowScanner) (*model.Testimonial, error) {
	var (
		t         model.Testimonial
		eventDate sql.NullTime
	)
	err := s.Scan(&t.ID, &t.ClientName, &t.EventType, &eventDate, &t.Rating,
		&t.Testimonial, &t.IsApproved, &t.IsFeatured, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if eventDate.Valid {
		d := eventDate.Time.UTC()
		t.EventDate = &d
	}
	return &t, nil
}

// Create inserts a testimonial. Intake always stores is_approved=FALSE
// regardless of what the submitter sent.
func (r *TestimonialRepo) Create(ctx context.Context, t *model.Testimonial) error {
	var eventDate any
	if t.EventDate != nil {
		eventDate = t.EventDate.UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO testimonials (client_name, event_type, event_date, rating, testimonial, is_approved, is_featured)
		 VALUES (?,?,?,?,?,FALSE,FALSE)`,
		t.ClientName, t.EventType, eventDate, t.Rating, t.Testimonial)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	t.IsApproved = false
	t.IsFeatured = false
	return nil
}

// ListApproved returns approved testimonials newest first, the public
// view. featuredOnly narrows to landing-page picks.
func (r *TestimonialRepo) ListApproved(ctx context.Context, featuredOnly bool, limit int) ([]*model.Testimonial, error) {
	q := `SELECT ` + testimonialCols + ` FROM testimonials WHERE is_approved = TRUE`
	if featuredOnly {
		q += ` AND is_featured = TRUE`
	}
	if limit <= 0 {
		limit = 50
	}
	q += ` ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Testimonial, 0)
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListAll returns every testimonial including unapproved ones, for
// the admin moderation queue.
func (r *TestimonialRepo) ListAll(ctx context.Context, limit, offset int) ([]*model.Testimonial, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+testimonialCols+` FROM testimonials ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Testimonial, 0)
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetApproval updates the moderation flags of a testimonial.
func (r *TestimonialRepo) SetApproval(ctx context.Context, id uint64, approved, featured bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE testimonials SET is_approved = ?, is_featured = ? WHERE id = ?`,
		approved, featured, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM testimonials WHERE id = ?`, id).Scan(&exists); err == sql.ErrNoRows {
			return ErrTestimonialNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// Counts returns approved and pending testimonial totals for the
// admin dashboard.
func (r *TestimonialRepo) Counts(ctx context.Context) (approved, pending int64, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(is_approved = TRUE), 0),
			COALESCE(SUM(is_approved = FALSE), 0)
		FROM testimonials`).Scan(&approved, &pending)
	return approved, pending, err
}

// Delete removes a testimonial outright.
func (r *TestimonialRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTestimonialNotFound
	}
	return nil
}
