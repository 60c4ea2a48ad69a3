package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgErrorCodeUniqueViolation is the SQLSTATE for unique_violation
const PgErrorCodeUniqueViolation = "23505"

// isUniqueViolation reports whether err carries a unique-index violation,
// however deeply wrapped
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation
}

// rowQuerier is the slice of pgx shared by *pgxpool.Pool and pgx.Tx that the
// scan/insert helpers need
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// effectiveEnergyExpr yields the current energy after the lazy daily reset:
// when the stored reset day precedes the current UTC day the character is
// treated as fully rested. Used consistently by reads and deductions so the
// reset never needs a scheduler.
const effectiveEnergyExpr = `CASE
	WHEN (energy_last_reset AT TIME ZONE 'utc')::date < (NOW() AT TIME ZONE 'utc')::date THEN 100
	ELSE energy
END`
