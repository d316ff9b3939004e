package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var hotelColList = []string{
	"id", "name", "address", "latitude", "longitude", "location_fetched_at",
	"category", "hotel_email", "gst_number", "state", "city", "pincode",
	"owner_name", "owner_phone", "owner_alt_phone",
	"contact_person_name", "contact_person_phone", "contact_person_alt_phone",
	"created_by", "is_deleted", "deleted_at", "created_at", "updated_at",
}

func hotelRow(id int64, name string, createdBy int64, deleted bool) *sqlmock.Rows {
	var deletedAt any
	if deleted {
		deletedAt = time.Now()
	}
	now := time.Now()
	return sqlmock.NewRows(hotelColList).AddRow(
		id, name, nil, 12.97, 77.59, now,
		"hotel", nil, nil, nil, nil, nil,
		nil, "9876543210", nil,
		nil, nil, nil,
		createdBy, deleted, deletedAt, now, now,
	)
}

func hotelRowJoined(id int64, name string, createdBy int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(append(append([]string{}, hotelColList...),
		"created_by_name", "created_by_email", "total_visits", "last_visit_date")).AddRow(
		id, name, nil, 12.97, 77.59, now,
		"hotel", nil, nil, nil, nil, nil,
		nil, "9876543210", nil,
		nil, nil, nil,
		createdBy, false, nil, now, now,
		"Creator", "creator@x.com", int64(4), now,
	)
}

func newHotelRepo(t *testing.T) (*HotelRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewHotelRepo(db), mock
}

func TestHotelUpdateNoFields(t *testing.T) {
	repo, mock := newHotelRepo(t)

	_, err := repo.Update(context.Background(), 1, UpdateHotelParams{}, Actor{ID: 1, Role: "admin"})
	if !errors.Is(err, ErrNoFields) {
		t.Fatalf("err = %v, want ErrNoFields", err)
	}
	// The empty update must be rejected before any SQL runs.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHotelUpdateScopesNonAdmin(t *testing.T) {
	repo, mock := newHotelRepo(t)

	name := "Renamed"
	mock.ExpectQuery(`UPDATE hotels SET name = \$1, updated_at = now\(\) WHERE id = \$2 AND is_deleted = false AND created_by = \$3 RETURNING`).
		WithArgs("Renamed", int64(4), int64(7)).
		WillReturnRows(hotelRow(4, "Renamed", 7, false))

	h, err := repo.Update(context.Background(), 4, UpdateHotelParams{Name: &name}, Actor{ID: 7, Role: "user"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if h.Name != "Renamed" {
		t.Errorf("name = %q", h.Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHotelUpdateCoordinatesTouchLocationFetchedAt(t *testing.T) {
	repo, mock := newHotelRepo(t)

	lat, lng := 13.08, 80.27
	mock.ExpectQuery(`UPDATE hotels SET latitude = \$1, longitude = \$2, location_fetched_at = now\(\), updated_at = now\(\) WHERE id = \$3 AND is_deleted = false RETURNING`).
		WithArgs(lat, lng, int64(4)).
		WillReturnRows(hotelRow(4, "Taj", 7, false))

	_, err := repo.Update(context.Background(), 4, UpdateHotelParams{Latitude: &lat, Longitude: &lng}, Actor{ID: 1, Role: "admin"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHotelGetByIDNonAdminForeignRow(t *testing.T) {
	repo, mock := newHotelRepo(t)

	// The creator filter sits in the WHERE clause, so a foreign row simply
	// matches nothing.
	mock.ExpectQuery(`FROM hotels h`).
		WithArgs(int64(3), int64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 3, Actor{ID: 7, Role: "user"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestHotelGetByIDAdmin(t *testing.T) {
	repo, mock := newHotelRepo(t)

	mock.ExpectQuery(`FROM hotels h`).
		WithArgs(int64(3)).
		WillReturnRows(hotelRowJoined(3, "Taj", 7))

	row, err := repo.GetByID(context.Background(), 3, Actor{ID: 1, Role: "admin"})
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if row.TotalVisits != 4 {
		t.Errorf("total_visits = %d, want 4", row.TotalVisits)
	}
	if row.CreatedByName == nil || *row.CreatedByName != "Creator" {
		t.Errorf("created_by_name = %v", row.CreatedByName)
	}
}

func TestHotelListPinsNonAdminCreator(t *testing.T) {
	repo, mock := newHotelRepo(t)

	// The caller asks for another creator's rows; the count and data
	// queries still carry the actor's own id.
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT h\.id\)`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY h\.created_at DESC, h\.created_at DESC, h\.id DESC`).
		WithArgs(int64(7), 10, 0).
		WillReturnRows(hotelRowJoined(3, "Taj", 7))

	rows, total, err := repo.List(context.Background(), ListQuery{CreatedBy: 99}, Actor{ID: 7, Role: "user"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Errorf("total = %d, rows = %d", total, len(rows))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHotelListSortByVisits(t *testing.T) {
	repo, mock := newHotelRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT h\.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`ORDER BY COUNT\(v\.id\) DESC, h\.created_at DESC, h\.id DESC`).
		WithArgs(10, 0).
		WillReturnRows(hotelRowJoined(3, "Taj", 7))

	_, _, err := repo.List(context.Background(),
		ListQuery{SortBy: "total_visits"}, Actor{ID: 1, Role: "admin"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHotelSoftDeleteForeignRowHidden(t *testing.T) {
	repo, mock := newHotelRepo(t)

	mock.ExpectQuery(`UPDATE hotels SET is_deleted = true`).
		WithArgs(int64(3), int64(7)).
		WillReturnError(sql.ErrNoRows)
	// The probe sees the row belongs to user 9; the caller is told it does
	// not exist rather than that it is forbidden.
	mock.ExpectQuery(`SELECT is_deleted, created_by FROM hotels WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"is_deleted", "created_by"}).AddRow(false, int64(9)))

	_, err := repo.SoftDelete(context.Background(), 3, Actor{ID: 7, Role: "user"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestHotelSoftDeleteTwice(t *testing.T) {
	repo, mock := newHotelRepo(t)

	mock.ExpectQuery(`UPDATE hotels SET is_deleted = true`).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT is_deleted, created_by FROM hotels WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"is_deleted", "created_by"}).AddRow(true, int64(7)))

	_, err := repo.SoftDelete(context.Background(), 3, Actor{ID: 1, Role: "admin"})
	if !errors.Is(err, ErrAlreadyDeleted) {
		t.Fatalf("err = %v, want ErrAlreadyDeleted", err)
	}
}

func TestHotelRestoreActiveRow(t *testing.T) {
	repo, mock := newHotelRepo(t)

	mock.ExpectQuery(`UPDATE hotels SET is_deleted = false`).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT is_deleted, created_by FROM hotels WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"is_deleted", "created_by"}).AddRow(false, int64(7)))

	_, err := repo.Restore(context.Background(), 3, Actor{ID: 1, Role: "admin"})
	if !errors.Is(err, ErrNotDeleted) {
		t.Fatalf("err = %v, want ErrNotDeleted", err)
	}
}
