package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"hotel-lead-crm/internal/model"
	"hotel-lead-crm/internal/utils"
)

// userCols is the SELECT/RETURNING list for user rows. password_hash is
// fetched only by the credential lookup used for login.
const userCols = "id, full_name, email, phone, role, is_deleted, deleted_at, created_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// CreateUserParams carries the validated fields for a new user. Role must
// already be one of the enumerated values; Phone is nil when omitted.
type CreateUserParams struct {
	FullName string
	Email    string
	Password string
	Phone    *string
	Role     string
}

// UpdateUserParams carries the validated fields for a user update. FullName
// and Email are always required; nil pointers mean "leave unchanged".
type UpdateUserParams struct {
	FullName string
	Email    string
	Phone    *string
	PhoneSet bool // distinguishes "phone": null (clear) from phone omitted
	Role     *string
	Password *string
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Phone, &u.Role,
		&u.IsDeleted, &u.DeletedAt, &u.CreatedAt)
	return u, err
}

// isUniqueViolation reports whether err is the Postgres unique-constraint
// error (code 23505). The partial unique index on active emails surfaces
// through this when two creates race past the pre-check.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a new active user. Email uniqueness is checked against the
// active subset only, so a deleted user's email may be reused.
func (r *UserRepo) Create(ctx context.Context, p CreateUserParams, cost int) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))

	var exists int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE lower(email) = $1 AND is_deleted = false LIMIT 1",
		email).Scan(&exists)
	if err == nil {
		return model.User{}, ErrEmailExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, err
	}

	hash, err := utils.HashPassword(p.Password, cost)
	if err != nil {
		return model.User{}, err
	}

	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`INSERT INTO users (full_name, email, password_hash, phone, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userCols,
		strings.TrimSpace(p.FullName), email, hash, p.Phone, p.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return u, nil
}

// GetByID fetches a user by id, deleted or not. This is the admin surface;
// the deletion state is part of what the admin needs to see.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id = $1 LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByEmailActive fetches an active user by normalized email, including the
// password hash. Used only for credential verification; deleted users can
// no longer log in.
func (r *UserRepo) GetByEmailActive(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, full_name, email, password_hash, phone, role, is_deleted, deleted_at, created_at
		 FROM users WHERE lower(email) = $1 AND is_deleted = false LIMIT 1`,
		email).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Phone,
		&u.Role, &u.IsDeleted, &u.DeletedAt, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// ListNonAdmin returns every user-role account, soft-deleted ones included,
// newest first. Admin accounts are not managed through this surface.
func (r *UserRepo) ListNonAdmin(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE role <> 'admin' ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.Phone, &u.Role,
			&u.IsDeleted, &u.DeletedAt, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update applies a partial update to an active user. Full name and email are
// always written; phone/role/password only when supplied. A supplied
// password is re-hashed before storage.
func (r *UserRepo) Update(ctx context.Context, id int64, p UpdateUserParams, cost int) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))

	var currentEmail string
	err := r.DB.QueryRowContext(ctx,
		"SELECT email FROM users WHERE id = $1 AND is_deleted = false LIMIT 1",
		id).Scan(&currentEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}

	// Re-check uniqueness only when the email actually changes, and only
	// against other active users.
	if email != currentEmail {
		var other int64
		err := r.DB.QueryRowContext(ctx,
			"SELECT id FROM users WHERE lower(email) = $1 AND id <> $2 AND is_deleted = false LIMIT 1",
			email, id).Scan(&other)
		if err == nil {
			return model.User{}, ErrEmailExists
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return model.User{}, err
		}
	}

	var set setClause
	set.set("full_name", strings.TrimSpace(p.FullName))
	set.set("email", email)
	if p.PhoneSet {
		set.set("phone", p.Phone)
	}
	if p.Role != nil {
		set.set("role", *p.Role)
	}
	if p.Password != nil {
		hash, err := utils.HashPassword(*p.Password, cost)
		if err != nil {
			return model.User{}, err
		}
		set.set("password_hash", hash)
	}

	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"UPDATE users SET "+set.list()+
			" WHERE id = "+set.next(id)+" AND is_deleted = false RETURNING "+userCols,
		set.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil && isUniqueViolation(err) {
		return model.User{}, ErrEmailExists
	}
	return u, err
}

// SoftDelete marks a user deleted. The existence check and the mutation are
// one guarded statement, so two concurrent deletes cannot both succeed. An
// actor may never delete their own account.
func (r *UserRepo) SoftDelete(ctx context.Context, id int64, actor Actor) (model.User, error) {
	if actor.ID == id {
		return model.User{}, ErrSelfDelete
	}

	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`UPDATE users SET is_deleted = true, deleted_at = now()
		 WHERE id = $1 AND is_deleted = false
		 RETURNING `+userCols, id))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, err
	}
	// Zero rows: either the id does not exist or it is already deleted.
	return model.User{}, r.deleteState(ctx, id, true)
}

// Recover clears the soft-delete pair on a deleted user.
func (r *UserRepo) Recover(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`UPDATE users SET is_deleted = false, deleted_at = NULL
		 WHERE id = $1 AND is_deleted = true
		 RETURNING `+userCols, id))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, err
	}
	return model.User{}, r.deleteState(ctx, id, false)
}

// deleteState resolves why a guarded delete/recover matched nothing.
// wantActive is true when the statement required is_deleted = false.
func (r *UserRepo) deleteState(ctx context.Context, id int64, wantActive bool) error {
	var deleted bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT is_deleted FROM users WHERE id = $1 LIMIT 1", id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if wantActive && deleted {
		return ErrAlreadyDeleted
	}
	if !wantActive && !deleted {
		return ErrNotDeleted
	}
	return ErrNotFound
}
