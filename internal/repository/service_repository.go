package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ignux/fireworks-booking-api/internal/model"
)

// ErrServiceNotFound is returned when a service id or slug does not exist.
var ErrServiceNotFound = errors.New("service not found")

// ServiceRepo persists the fireworks display catalog.
type ServiceRepo struct {
	db *sql.DB
}

func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

const serviceCols = `id, name, slug, category, description, features,
	base_price_cents, price_range_min_cents, price_range_max_cents, duration,
	is_popular, is_active, display_order, min_guests, max_guests, created_at, updated_at`

func scanService(s rowScanner) (*model.Service, error) {
	var (
		svc       model.Service
		minGuests sql.NullInt64
		maxGuests sql.NullInt64
	)
	err := s.Scan(&svc.ID, &svc.Name, &svc.Slug, &svc.Category, &svc.Description, &svc.Features,
		&svc.BasePriceCents, &svc.PriceRangeMinCents, &svc.PriceRangeMaxCents, &svc.Duration,
		&svc.IsPopular, &svc.IsActive, &svc.DisplayOrder, &minGuests, &maxGuests,
		&svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if minGuests.Valid {
		g := int(minGuests.Int64)
		svc.MinGuests = &g
	}
	if maxGuests.Valid {
		g := int(maxGuests.Int64)
		svc.MaxGuests = &g
	}
	return &svc, nil
}

// Create inserts a catalog entry. Duplicate slugs map to ErrConflict.
func (r *ServiceRepo) Create(ctx context.Context, svc *model.Service) error {
	var minGuests, maxGuests any
	if svc.MinGuests != nil {
		minGuests = *svc.MinGuests
	}
	if svc.MaxGuests != nil {
		maxGuests = *svc.MaxGuests
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO services (name, slug, category, description, features,
			base_price_cents, price_range_min_cents, price_range_max_cents, duration,
			is_popular, is_active, display_order, min_guests, max_guests)
		 VALUES (?,?,?,?,?, ?,?,?,?, ?,?,?,?,?)`,
		svc.Name, svc.Slug, svc.Category, svc.Description, svc.Features,
		svc.BasePriceCents, svc.PriceRangeMinCents, svc.PriceRangeMaxCents, svc.Duration,
		svc.IsPopular, svc.IsActive, svc.DisplayOrder, minGuests, maxGuests)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	svc.ID = uint64(id)
	return nil
}

// GetByID fetches a service regardless of its active flag.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (*model.Service, error) {
	svc, err := scanService(r.db.QueryRowContext(ctx,
		`SELECT `+serviceCols+` FROM services WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	return svc, err
}

// GetBySlug fetches an active service by its URL slug.
func (r *ServiceRepo) GetBySlug(ctx context.Context, slug string) (*model.Service, error) {
	svc, err := scanService(r.db.QueryRowContext(ctx,
		`SELECT `+serviceCols+` FROM services WHERE slug = ? AND is_active = TRUE`, slug))
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	return svc, err
}

// List returns catalog entries ordered for display. Category narrows
// the listing when non-empty; includeInactive is only used by the
// admin surface.
func (r *ServiceRepo) List(ctx context.Context, category string, popularOnly, includeInactive bool) ([]*model.Service, error) {
	q := `SELECT ` + serviceCols + ` FROM services`
	var conds []string
	var args []any
	if !includeInactive {
		conds = append(conds, "is_active = TRUE")
	}
	if category != "" {
		conds = append(conds, "category = ?")
		args = append(args, category)
	}
	if popularOnly {
		conds = append(conds, "is_popular = TRUE")
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY display_order ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

// Update rewrites all editable fields of a catalog entry.
func (r *ServiceRepo) Update(ctx context.Context, svc *model.Service) error {
	var minGuests, maxGuests any
	if svc.MinGuests != nil {
		minGuests = *svc.MinGuests
	}
	if svc.MaxGuests != nil {
		maxGuests = *svc.MaxGuests
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE services SET name=?, slug=?, category=?, description=?, features=?,
			base_price_cents=?, price_range_min_cents=?, price_range_max_cents=?, duration=?,
			is_popular=?, is_active=?, display_order=?, min_guests=?, max_guests=?
		 WHERE id=?`,
		svc.Name, svc.Slug, svc.Category, svc.Description, svc.Features,
		svc.BasePriceCents, svc.PriceRangeMinCents, svc.PriceRangeMaxCents, svc.Duration,
		svc.IsPopular, svc.IsActive, svc.DisplayOrder, minGuests, maxGuests,
		svc.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM services WHERE id = ?`, svc.ID).Scan(&exists); err == sql.ErrNoRows {
			return ErrServiceNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// ActiveCount returns the number of services currently offered.
func (r *ServiceRepo) ActiveCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM services WHERE is_active = TRUE`).Scan(&n)
	return n, err
}

// Deactivate soft-deletes a service so existing bookings keep their
// service reference while the catalog stops offering it.
func (r *ServiceRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE services SET is_active = FALSE WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM services WHERE id = ?`, id).Scan(&exists); err == sql.ErrNoRows {
			return ErrServiceNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}
