// Package storage defines the error vocabulary shared between domain
// services and the durable store. The store serializes conflicting writes
// and enforces the uniqueness constraints; domain packages translate these
// sentinels into their own error types. Repository interfaces live with the
// domains that consume them; the pgx implementations are in
// storage/postgres.
package storage

import "errors"

var (
	// ErrNoRows is returned by lookups that match nothing.
	ErrNoRows = errors.New("no rows in result set")

	// ErrUniqueUsername is returned when an insert violates the username
	// uniqueness constraint.
	ErrUniqueUsername = errors.New("username uniqueness violated")

	// ErrUniqueEmail is returned when an insert violates the email
	// uniqueness constraint.
	ErrUniqueEmail = errors.New("email uniqueness violated")
)
