// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting database driver errors. For example, ErrAlreadyDeleted
// signals that a soft delete was attempted on a record whose
// is_deleted flag is already set, while ErrSelfDelete marks the
// rejected attempt of an actor to soft-delete their own user account.
package repository

import "errors"

// ErrNotFound is returned when no record matches the requested id, or when
// the record exists but is not visible to the acting user under role scope.
// Handlers should translate this into an HTTP 404 response; hiding the
// existence of other tenants' records behind 404 is deliberate.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyDeleted is returned when a soft delete targets a record whose
// is_deleted flag is already true. Handlers translate this into a 400.
var ErrAlreadyDeleted = errors.New("record is already deleted")

// ErrNotDeleted is returned when a recover targets a record that is not
// deleted. Handlers translate this into a 400.
var ErrNotDeleted = errors.New("record is not deleted")

// ErrEmailExists is returned when a user create or update would collide with
// the email of another active (non-deleted) user. Deleted users do not
// count: their emails may be reused. Handlers translate this into a 409.
var ErrEmailExists = errors.New("email already exists")

// ErrSelfDelete is returned when an actor attempts to soft-delete their own
// user account. The rule is disclosed to the caller as a 400.
var ErrSelfDelete = errors.New("cannot delete own account")

// ErrNoFields is returned by partial updates when the request supplied no
// recognized fields. An empty update is a rejected request, not a no-op.
var ErrNoFields = errors.New("no fields to update")
