package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var userColList = []string{"id", "full_name", "email", "phone", "role", "is_deleted", "deleted_at", "created_at"}

func userRow(id int64, name, email, role string, deleted bool) *sqlmock.Rows {
	var deletedAt any
	if deleted {
		deletedAt = time.Now()
	}
	return sqlmock.NewRows(userColList).
		AddRow(id, name, email, nil, role, deleted, deletedAt, time.Now())
}

func newUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func TestUserCreateEmailTaken(t *testing.T) {
	repo, mock := newUserRepo(t)

	// Pre-check finds an active row with the same email.
	mock.ExpectQuery(`SELECT id FROM users WHERE lower\(email\) = \$1 AND is_deleted = false`).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	_, err := repo.Create(context.Background(), CreateUserParams{
		FullName: "A", Email: "A@B.com", Password: "secret1", Role: "user",
	}, 4)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUserCreateReusesDeletedEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	// Only active rows count for uniqueness; a deleted holder of the same
	// email does not block the insert.
	mock.ExpectQuery(`SELECT id FROM users WHERE lower\(email\) = \$1 AND is_deleted = false`).
		WithArgs("a@b.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("A", "a@b.com", sqlmock.AnyArg(), nil, "user").
		WillReturnRows(userRow(5, "A", "a@b.com", "user", false))

	u, err := repo.Create(context.Background(), CreateUserParams{
		FullName: " A ", Email: " A@B.com ", Password: "secret1", Role: "user",
	}, 4)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID != 5 || u.Email != "a@b.com" {
		t.Errorf("got %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUserSoftDeleteSelf(t *testing.T) {
	repo, mock := newUserRepo(t)

	_, err := repo.SoftDelete(context.Background(), 7, Actor{ID: 7, Role: "admin"})
	if !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("err = %v, want ErrSelfDelete", err)
	}
	// No SQL may run for a self-delete.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUserSoftDeleteGuarded(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`UPDATE users SET is_deleted = true, deleted_at = now\(\)\s+WHERE id = \$1 AND is_deleted = false`).
		WithArgs(int64(9)).
		WillReturnRows(userRow(9, "B", "b@c.com", "user", true))

	u, err := repo.SoftDelete(context.Background(), 9, Actor{ID: 1, Role: "admin"})
	if err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if !u.IsDeleted {
		t.Error("row should come back deleted")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUserSoftDeleteAlreadyDeleted(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`UPDATE users SET is_deleted = true`).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT is_deleted FROM users WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"is_deleted"}).AddRow(true))

	_, err := repo.SoftDelete(context.Background(), 9, Actor{ID: 1, Role: "admin"})
	if !errors.Is(err, ErrAlreadyDeleted) {
		t.Fatalf("err = %v, want ErrAlreadyDeleted", err)
	}
}

func TestUserSoftDeleteNotFound(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`UPDATE users SET is_deleted = true`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT is_deleted FROM users WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.SoftDelete(context.Background(), 404, Actor{ID: 1, Role: "admin"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUserRecoverNotDeleted(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`UPDATE users SET is_deleted = false, deleted_at = NULL`).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT is_deleted FROM users WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"is_deleted"}).AddRow(false))

	_, err := repo.Recover(context.Background(), 9)
	if !errors.Is(err, ErrNotDeleted) {
		t.Fatalf("err = %v, want ErrNotDeleted", err)
	}
}

func TestUserUpdateEmailConflict(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`SELECT email FROM users WHERE id = \$1 AND is_deleted = false`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("old@b.com"))
	mock.ExpectQuery(`SELECT id FROM users WHERE lower\(email\) = \$1 AND id <> \$2 AND is_deleted = false`).
		WithArgs("new@b.com", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))

	_, err := repo.Update(context.Background(), 2, UpdateUserParams{
		FullName: "X", Email: "new@b.com",
	}, 4)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
}

func TestUserUpdateDeletedRow(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`SELECT email FROM users WHERE id = \$1 AND is_deleted = false`).
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 2, UpdateUserParams{
		FullName: "X", Email: "x@b.com",
	}, 4)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUserListNonAdminExcludesAdmins(t *testing.T) {
	repo, mock := newUserRepo(t)

	rows := sqlmock.NewRows(userColList).
		AddRow(int64(2), "B", "b@c.com", nil, "user", false, nil, time.Now()).
		AddRow(int64(3), "C", "c@c.com", nil, "user", true, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT .+ FROM users WHERE role <> 'admin' ORDER BY created_at DESC, id DESC`).
		WillReturnRows(rows)

	out, err := repo.ListNonAdmin(context.Background())
	if err != nil {
		t.Fatalf("ListNonAdmin: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	// Deleted users stay visible in the admin listing.
	if !out[1].IsDeleted {
		t.Error("deleted user missing the flag")
	}
}
