package core

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indicates the requested slug has no record.
	ErrNotFound = errors.New("certificate not found")
	// ErrDuplicateSlug indicates the store rejected a slug that is already taken.
	ErrDuplicateSlug = errors.New("duplicate slug")
	// ErrInvalidInput indicates a request that cannot produce a certificate.
	ErrInvalidInput = errors.New("invalid input")
)

// isUniqueViolation reports whether err is a postgres unique-constraint
// rejection (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
