package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgconn"
)

// Sentinel errors shared across the service and route layers. Handlers
// translate these to HTTP statuses; nothing below the route layer knows
// about HTTP.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("not found")
	ErrNotYours           = errors.New("entry belongs to another user")

	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")

	ErrUnknownPlatform  = errors.New("unknown platform")
	ErrPlatformNotOwned = errors.New("platform not in your collection")
	ErrAlreadyOwned     = errors.New("platform already in your collection")
	ErrDuplicateEntry   = errors.New("game already on this list")

	ErrCatalogUnavailable = errors.New("game catalog unavailable")
)

// IsUniqueViolation reports whether err is a unique-constraint violation
// from the database. Postgres surfaces these as SQLSTATE 23505; the sqlite
// driver used in tests only exposes the message text.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
