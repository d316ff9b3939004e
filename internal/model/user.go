package model

import "time"

// Roles accepted in the users.role column and in JWT claims.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User mirrors the 'users' table.  PasswordHash is never serialized.
type User struct {
	ID           int64      `json:"id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Phone        *string    `json:"phone"`
	Role         string     `json:"role"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ValidRole reports whether r is one of the two enumerated roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleUser
}
