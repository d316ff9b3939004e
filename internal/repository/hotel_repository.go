package repository

// hotel_repository.go implements hotel (lead) persistence: creation, partial
// update, role-scoped listing with search and pagination, soft delete and
// restore. Every mutation is a single guarded statement so the existence
// check and the write cannot race between two concurrent requests on the
// same id.

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"hotel-lead-crm/internal/model"
)

// hotelCols is the aliased column list used by joined SELECTs; hotelRet is
// the same list without the alias, for RETURNING clauses.
const hotelCols = `h.id, h.name, h.address, h.latitude, h.longitude, h.location_fetched_at,
	h.category, h.hotel_email, h.gst_number, h.state, h.city, h.pincode,
	h.owner_name, h.owner_phone, h.owner_alt_phone,
	h.contact_person_name, h.contact_person_phone, h.contact_person_alt_phone,
	h.created_by, h.is_deleted, h.deleted_at, h.created_at, h.updated_at`

var hotelRet = strings.ReplaceAll(hotelCols, "h.", "")

// hotelSearchCols are the designated free-text search columns.
var hotelSearchCols = []string{"h.name", "h.address", "h.owner_name"}

// hotelSortColumns is the sort allow-list. total_visits maps to the computed
// aggregate expression, not a column reference, so sorting by it works on
// the grouped query.
var hotelSortColumns = map[string]string{
	"created_at":   "h.created_at",
	"updated_at":   "h.updated_at",
	"name":         "h.name",
	"address":      "h.address",
	"total_visits": "COUNT(v.id)",
}

type HotelRepo struct{ DB *sql.DB }

func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{DB: db} }

// CreateHotelParams carries the validated fields for a new lead. Name,
// coordinates and category are mandatory; the rest are nil when omitted.
type CreateHotelParams struct {
	Name                  string
	Address               *string
	Latitude              float64
	Longitude             float64
	Category              string
	HotelEmail            *string
	GSTNumber             *string
	State                 *string
	City                  *string
	Pincode               *string
	OwnerName             *string
	OwnerPhone            *string
	OwnerAltPhone         *string
	ContactPersonName     *string
	ContactPersonPhone    *string
	ContactPersonAltPhone *string
}

// UpdateHotelParams is the partial-update allow-list. nil means "leave
// unchanged"; Latitude and Longitude must be supplied together.
type UpdateHotelParams struct {
	Name                  *string
	Address               *string
	Latitude              *float64
	Longitude             *float64
	Category              *string
	HotelEmail            *string
	GSTNumber             *string
	State                 *string
	City                  *string
	Pincode               *string
	OwnerName             *string
	OwnerPhone            *string
	OwnerAltPhone         *string
	ContactPersonName     *string
	ContactPersonPhone    *string
	ContactPersonAltPhone *string
}

type rowScanner interface{ Scan(dest ...any) error }

func scanHotel(rs rowScanner) (model.Hotel, error) {
	var h model.Hotel
	err := rs.Scan(&h.ID, &h.Name, &h.Address, &h.Latitude, &h.Longitude, &h.LocationFetchedAt,
		&h.Category, &h.HotelEmail, &h.GSTNumber, &h.State, &h.City, &h.Pincode,
		&h.OwnerName, &h.OwnerPhone, &h.OwnerAltPhone,
		&h.ContactPersonName, &h.ContactPersonPhone, &h.ContactPersonAltPhone,
		&h.CreatedBy, &h.IsDeleted, &h.DeletedAt, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func scanHotelRow(rs rowScanner) (model.HotelRow, error) {
	var h model.HotelRow
	err := rs.Scan(&h.ID, &h.Name, &h.Address, &h.Latitude, &h.Longitude, &h.LocationFetchedAt,
		&h.Category, &h.HotelEmail, &h.GSTNumber, &h.State, &h.City, &h.Pincode,
		&h.OwnerName, &h.OwnerPhone, &h.OwnerAltPhone,
		&h.ContactPersonName, &h.ContactPersonPhone, &h.ContactPersonAltPhone,
		&h.CreatedBy, &h.IsDeleted, &h.DeletedAt, &h.CreatedAt, &h.UpdatedAt,
		&h.CreatedByName, &h.CreatedByEmail, &h.TotalVisits, &h.LastVisitDate)
	return h, err
}

// Create inserts a new active hotel stamped with the acting user as creator.
// location_fetched_at uses the database clock since coordinates are present
// on every insert.
func (r *HotelRepo) Create(ctx context.Context, p CreateHotelParams, actorID int64) (model.Hotel, error) {
	return scanHotel(r.DB.QueryRowContext(ctx,
		`INSERT INTO hotels (
			name, address, latitude, longitude, location_fetched_at,
			category, hotel_email, gst_number, state, city, pincode,
			owner_name, owner_phone, owner_alt_phone,
			contact_person_name, contact_person_phone, contact_person_alt_phone,
			created_by
		) VALUES ($1, $2, $3, $4, now(), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+hotelRet,
		p.Name, p.Address, p.Latitude, p.Longitude,
		p.Category, p.HotelEmail, p.GSTNumber, p.State, p.City, p.Pincode,
		p.OwnerName, p.OwnerPhone, p.OwnerAltPhone,
		p.ContactPersonName, p.ContactPersonPhone, p.ContactPersonAltPhone,
		actorID))
}

// Update applies a partial update to an active hotel. Zero recognized fields
// is a rejected request. updated_at and, when coordinates change,
// location_fetched_at are set by the statement itself with the database
// clock; handlers never write them. Non-admin actors can only reach their
// own rows; a foreign id reports not-found rather than forbidden.
func (r *HotelRepo) Update(ctx context.Context, id int64, p UpdateHotelParams, actor Actor) (model.Hotel, error) {
	var set setClause
	for _, f := range []struct {
		col string
		val *string
	}{
		{"name", p.Name},
		{"address", p.Address},
		{"category", p.Category},
		{"hotel_email", p.HotelEmail},
		{"gst_number", p.GSTNumber},
		{"state", p.State},
		{"city", p.City},
		{"pincode", p.Pincode},
		{"owner_name", p.OwnerName},
		{"owner_phone", p.OwnerPhone},
		{"owner_alt_phone", p.OwnerAltPhone},
		{"contact_person_name", p.ContactPersonName},
		{"contact_person_phone", p.ContactPersonPhone},
		{"contact_person_alt_phone", p.ContactPersonAltPhone},
	} {
		if f.val != nil {
			set.set(f.col, *f.val)
		}
	}
	if p.Latitude != nil && p.Longitude != nil {
		set.set("latitude", *p.Latitude)
		set.set("longitude", *p.Longitude)
		set.raw("location_fetched_at = now()")
	}
	if set.empty() {
		return model.Hotel{}, ErrNoFields
	}
	set.raw("updated_at = now()")

	sqlText := "UPDATE hotels SET " + set.list() +
		" WHERE id = " + set.next(id) + " AND is_deleted = false"
	if !actor.IsAdmin() {
		sqlText += " AND created_by = " + set.next(actor.ID)
	}
	sqlText += " RETURNING " + hotelRet

	h, err := scanHotel(r.DB.QueryRowContext(ctx, sqlText, set.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Hotel{}, ErrNotFound
	}
	return h, err
}

// GetByID fetches one active hotel with creator info and visit aggregates.
// Soft-deleted rows and, for non-admin actors, other users' rows are
// indistinguishable from absent ones.
func (r *HotelRepo) GetByID(ctx context.Context, id int64, actor Actor) (model.HotelRow, error) {
	p := &predicate{}
	p.add("h.id = ?", id)
	p.add("h.is_deleted = false")
	if !actor.IsAdmin() {
		p.add("h.created_by = ?", actor.ID)
	}

	h, err := scanHotelRow(r.DB.QueryRowContext(ctx,
		`SELECT `+hotelCols+`,
			u.full_name AS created_by_name,
			u.email AS created_by_email,
			COUNT(v.id) AS total_visits,
			MAX(v.visit_date) AS last_visit_date
		FROM hotels h
		LEFT JOIN users u ON h.created_by = u.id
		LEFT JOIN visits v ON v.hotel_id = h.id
		`+p.clause()+`
		GROUP BY h.id, u.full_name, u.email
		LIMIT 1`, p.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.HotelRow{}, ErrNotFound
	}
	return h, err
}

// List returns one page of hotels plus the total count over the same filter
// predicate. The count runs as a separate COUNT(DISTINCT h.id) query so the
// pagination metadata is immune to join fan-out from the visits aggregation.
func (r *HotelRepo) List(ctx context.Context, q ListQuery, actor Actor) ([]model.HotelRow, int64, error) {
	q = q.Normalize(hotelSortColumns)
	p := buildListPredicate(q, actor, "h", hotelSearchCols)

	var total int64
	countSQL := `SELECT COUNT(DISTINCT h.id)
		FROM hotels h
		LEFT JOIN users u ON h.created_by = u.id
		` + p.clause()
	if err := r.DB.QueryRowContext(ctx, countSQL, p.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Ties on the requested sort key fall back to insertion recency, with id
	// as a final key so the order is stable across requests.
	orderBy := hotelSortColumns[q.SortBy] + " " + q.SortOrder + ", h.created_at DESC, h.id DESC"

	dataSQL := `SELECT ` + hotelCols + `,
			u.full_name AS created_by_name,
			u.email AS created_by_email,
			COUNT(v.id) AS total_visits,
			MAX(v.visit_date) AS last_visit_date
		FROM hotels h
		LEFT JOIN users u ON h.created_by = u.id
		LEFT JOIN visits v ON v.hotel_id = h.id
		` + p.clause() + `
		GROUP BY h.id, u.full_name, u.email
		ORDER BY ` + orderBy + `
		LIMIT ` + p.next(q.Limit) + ` OFFSET ` + p.next(q.Offset())

	rows, err := r.DB.QueryContext(ctx, dataSQL, p.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.HotelRow, 0, q.Limit)
	for rows.Next() {
		h, err := scanHotelRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// SoftDelete marks a hotel deleted in one guarded statement. There is no
// self-protection rule for hotels; a creator may delete their own records.
func (r *HotelRepo) SoftDelete(ctx context.Context, id int64, actor Actor) (model.Hotel, error) {
	sqlText := `UPDATE hotels SET is_deleted = true, deleted_at = now(), updated_at = now()
		WHERE id = $1 AND is_deleted = false`
	args := []any{id}
	if !actor.IsAdmin() {
		sqlText += " AND created_by = $2"
		args = append(args, actor.ID)
	}
	sqlText += " RETURNING " + hotelRet

	h, err := scanHotel(r.DB.QueryRowContext(ctx, sqlText, args...))
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Hotel{}, err
	}
	return model.Hotel{}, r.deleteState(ctx, id, actor, true)
}

// Restore clears the soft-delete pair on a deleted hotel.
func (r *HotelRepo) Restore(ctx context.Context, id int64, actor Actor) (model.Hotel, error) {
	sqlText := `UPDATE hotels SET is_deleted = false, deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND is_deleted = true`
	args := []any{id}
	if !actor.IsAdmin() {
		sqlText += " AND created_by = $2"
		args = append(args, actor.ID)
	}
	sqlText += " RETURNING " + hotelRet

	h, err := scanHotel(r.DB.QueryRowContext(ctx, sqlText, args...))
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Hotel{}, err
	}
	return model.Hotel{}, r.deleteState(ctx, id, actor, false)
}

// deleteState resolves why a guarded delete/restore matched nothing. Rows
// owned by someone else are reported as not found so their existence never
// leaks to other tenants.
func (r *HotelRepo) deleteState(ctx context.Context, id int64, actor Actor, wantActive bool) error {
	var deleted bool
	var createdBy *int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT is_deleted, created_by FROM hotels WHERE id = $1 LIMIT 1", id).
		Scan(&deleted, &createdBy)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && (createdBy == nil || *createdBy != actor.ID) {
		return ErrNotFound
	}
	if wantActive && deleted {
		return ErrAlreadyDeleted
	}
	if !wantActive && !deleted {
		return ErrNotDeleted
	}
	return ErrNotFound
}

// Export returns the full active-hotel dump, newest first, for offline
// spreadsheet generation. No pagination; this is an admin-only bulk read.
func (r *HotelRepo) Export(ctx context.Context) ([]model.Hotel, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+hotelCols+" FROM hotels h WHERE h.is_deleted = false ORDER BY h.created_at DESC, h.id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
