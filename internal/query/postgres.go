// internal/query/postgres.go
package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	commonerrors "marketplace-admin/internal/common/errors"
	"marketplace-admin/internal/common/logger"
	"marketplace-admin/internal/common/metrics"
	"marketplace-admin/internal/filter"
	"marketplace-admin/internal/models"
)

const listingColumns = `id, advisor_id, type, status, plan, name, description, industry,
	country, state, city, price, is_featured, is_verified,
	contact_email, contact_phone, created_at, updated_at`

// groupColumns whitelists the columns fetchCounts may group by. Column
// names cannot be bound as query parameters, so anything else is refused.
var groupColumns = map[string]string{
	"status": "status",
	"type":   "type",
	"plan":   "plan",
}

// Store is the Postgres listing backend.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, logger: log.WithFields(map[string]interface{}{"backend": "postgres"})}
}

// argList collects positional query arguments and hands out placeholders.
type argList []interface{}

func (a *argList) add(v interface{}) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// buildListingWhere translates the filter into WHERE conditions. One
// condition per active field; inactive fields contribute nothing.
func buildListingWhere(f filter.ListingFilter, cur *Cursor, args *argList) []string {
	var conds []string

	if f.Search != "" {
		like := args.add("%" + f.Search + "%")
		exact := args.add(f.Search)
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s OR id = %s)", like, like, exact))
	}

	if len(f.Types) > 0 {
		conds = append(conds, fmt.Sprintf("type = ANY(%s)", args.add(pq.Array(f.Types))))
	}
	if len(f.Statuses) > 0 {
		conds = append(conds, fmt.Sprintf("status = ANY(%s)", args.add(pq.Array(f.Statuses))))
	}
	if len(f.Industries) > 0 {
		conds = append(conds, fmt.Sprintf("industry = ANY(%s)", args.add(pq.Array(f.Industries))))
	}
	if len(f.Plans) > 0 {
		conds = append(conds, fmt.Sprintf("plan = ANY(%s)", args.add(pq.Array(f.Plans))))
	}

	if c := triStateCond("is_featured", f.IsFeatured); c != "" {
		conds = append(conds, c)
	}
	if c := triStateCond("is_verified", f.IsVerified); c != "" {
		conds = append(conds, c)
	}

	if f.Location.Country != "" {
		conds = append(conds, fmt.Sprintf("country = %s", args.add(f.Location.Country)))
	}
	if f.Location.State != "" {
		conds = append(conds, fmt.Sprintf("state = %s", args.add(f.Location.State)))
	}
	if f.Location.City != "" {
		conds = append(conds, fmt.Sprintf("city = %s", args.add(f.Location.City)))
	}

	if f.Price.Min != nil {
		conds = append(conds, fmt.Sprintf("price >= %s", args.add(*f.Price.Min)))
	}
	if f.Price.Max != nil {
		conds = append(conds, fmt.Sprintf("price <= %s", args.add(*f.Price.Max)))
	}

	if f.Dates.From != nil {
		conds = append(conds, fmt.Sprintf("created_at >= %s", args.add(*f.Dates.From)))
	}
	if f.Dates.To != nil {
		conds = append(conds, fmt.Sprintf("created_at <= %s", args.add(*f.Dates.To)))
	}

	if cur != nil {
		conds = append(conds, fmt.Sprintf("(created_at, id) < (%s, %s)",
			args.add(cur.CreatedAt), args.add(cur.ID)))
	}

	return conds
}

func triStateCond(column string, t filter.TriState) string {
	switch t {
	case filter.Include:
		return column + " = TRUE"
	case filter.Exclude:
		return column + " = FALSE"
	}
	return ""
}

// FetchPage returns one page of listings matching f, newest first, plus
// the cursor for the next page. The query asks for one row beyond the
// page size to decide whether a next page exists.
func (s *Store) FetchPage(ctx context.Context, f filter.ListingFilter, pageSize int, cursor string) (*Page, error) {
	if pageSize <= 0 {
		return nil, &commonerrors.StandardError{
			Code:      commonerrors.ErrCodeInvalidPageSize,
			Message:   fmt.Sprintf("page size must be positive, got %d", pageSize),
			Timestamp: time.Now().UTC(),
		}
	}

	cur, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	args := argList{}
	conds := buildListingWhere(f, cur, &args)

	q := "SELECT " + listingColumns + " FROM listings"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"
	q += " LIMIT " + args.add(pageSize+1)

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, args...)
	metrics.QueryDuration.WithLabelValues("postgres").Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.WithError(err).Error("listing page query failed", map[string]interface{}{
			"activeFilters": filter.ActiveCount(f),
		})
		return nil, commonerrors.NewQueryError(err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(
			&l.ID, &l.AdvisorID, &l.Type, &l.Status, &l.Plan, &l.Name, &l.Description,
			&l.Industry, &l.Country, &l.State, &l.City, &l.Price,
			&l.IsFeatured, &l.IsVerified, &l.ContactEmail, &l.ContactPhone,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, commonerrors.NewQueryError(err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewQueryError(err)
	}

	page := &Page{}
	if len(listings) > pageSize {
		listings = listings[:pageSize]
		last := listings[len(listings)-1]
		page.NextCursor = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	page.Listings = listings

	return page, nil
}

// FetchCounts groups listings by a whitelisted column and returns a
// category-to-count mapping for the console's tab badges.
func (s *Store) FetchCounts(ctx context.Context, groupBy string) (map[string]int, error) {
	column, ok := groupColumns[groupBy]
	if !ok {
		return nil, commonerrors.NewInvalidFilterError(fmt.Sprintf("cannot group by %q", groupBy))
	}

	q := fmt.Sprintf("SELECT %s, COUNT(*) FROM listings GROUP BY %s", column, column)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, commonerrors.NewCountsError(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, commonerrors.NewCountsError(err)
		}
		counts[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewCountsError(err)
	}

	return counts, nil
}

// GetListing loads a single listing by id.
func (s *Store) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	var l models.Listing
	err := s.db.QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE id = $1", id,
	).Scan(
		&l.ID, &l.AdvisorID, &l.Type, &l.Status, &l.Plan, &l.Name, &l.Description,
		&l.Industry, &l.Country, &l.State, &l.City, &l.Price,
		&l.IsFeatured, &l.IsVerified, &l.ContactEmail, &l.ContactPhone,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commonerrors.NewListingNotFoundError(id)
		}
		return nil, commonerrors.NewQueryError(err)
	}
	return &l, nil
}

// UpdateStatus moves a listing to a new status, guarded by the status it
// is expected to currently hold. A concurrent change loses the race and
// surfaces as a conflict instead of silently overwriting.
func (s *Store) UpdateStatus(ctx context.Context, id string, from, to models.ListingStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE listings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3",
		to, id, from,
	)
	if err != nil {
		return commonerrors.NewQueryError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return commonerrors.NewQueryError(err)
	}
	if affected == 0 {
		return commonerrors.NewStatusConflictError(id, string(from))
	}
	return nil
}

// ListDocuments returns the documents attached to a listing.
func (s *Store) ListDocuments(ctx context.Context, listingID string) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, listing_id, name, kind, url, size_bytes, uploaded_at
		 FROM documents WHERE listing_id = $1 ORDER BY uploaded_at DESC`, listingID)
	if err != nil {
		return nil, commonerrors.NewQueryError(err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.ListingID, &d.Name, &d.Kind, &d.URL, &d.SizeBytes, &d.UploadedAt); err != nil {
			return nil, commonerrors.NewQueryError(err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// FetchAdvisors pages through advisors matching the (smaller) advisor
// filter, with the same cursor scheme as listings.
func (s *Store) FetchAdvisors(ctx context.Context, f filter.AdvisorFilter, pageSize int, cursor string) (*AdvisorPage, error) {
	if pageSize <= 0 {
		return nil, &commonerrors.StandardError{
			Code:      commonerrors.ErrCodeInvalidPageSize,
			Message:   fmt.Sprintf("page size must be positive, got %d", pageSize),
			Timestamp: time.Now().UTC(),
		}
	}

	cur, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	args := argList{}
	var conds []string

	if f.Search != "" {
		like := args.add("%" + f.Search + "%")
		exact := args.add(f.Search)
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR email ILIKE %s OR id = %s)", like, like, exact))
	}
	if len(f.Statuses) > 0 {
		conds = append(conds, fmt.Sprintf("status = ANY(%s)", args.add(pq.Array(f.Statuses))))
	}
	if c := triStateCond("is_verified", f.IsVerified); c != "" {
		conds = append(conds, c)
	}
	if f.Country != "" {
		conds = append(conds, fmt.Sprintf("country = %s", args.add(f.Country)))
	}
	if cur != nil {
		conds = append(conds, fmt.Sprintf("(created_at, id) < (%s, %s)",
			args.add(cur.CreatedAt), args.add(cur.ID)))
	}

	q := `SELECT a.id, a.name, a.email, a.phone, a.status, a.country, a.is_verified,
		(SELECT COUNT(*) FROM listings l WHERE l.advisor_id = a.id), a.created_at
		FROM advisors a`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"
	q += " LIMIT " + args.add(pageSize+1)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, commonerrors.NewQueryError(err)
	}
	defer rows.Close()

	var advisors []models.Advisor
	for rows.Next() {
		var a models.Advisor
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Status, &a.Country,
			&a.IsVerified, &a.ListingCount, &a.CreatedAt); err != nil {
			return nil, commonerrors.NewQueryError(err)
		}
		advisors = append(advisors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewQueryError(err)
	}

	page := &AdvisorPage{}
	if len(advisors) > pageSize {
		advisors = advisors[:pageSize]
		last := advisors[len(advisors)-1]
		page.NextCursor = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	page.Advisors = advisors

	return page, nil
}
