package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique violation. When a
// constraint name is given, the violation must reference that constraint.
func IsUniqueViolation(err error, constraint ...string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolationCode {
			return false
		}
		if len(constraint) == 0 || constraint[0] == "" {
			return true
		}
		return pgErr.ConstraintName == constraint[0]
	}

	// sqlite and wrapped driver errors only expose the message text
	msg := err.Error()
	if len(constraint) > 0 && constraint[0] != "" {
		return strings.Contains(msg, constraint[0])
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
