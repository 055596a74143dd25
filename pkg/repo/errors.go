package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

func pgCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", ""
	}
	return pgErr.Code, pgErr.ConstraintName
}

// IsForeignKeyViolation reports a 23503 error. With constraints given, the
// violated constraint must be one of them.
func IsForeignKeyViolation(err error, constraints ...string) bool {
	return matches(err, codeForeignKeyViolation, constraints)
}

func IsUniqueViolation(err error, constraints ...string) bool {
	return matches(err, codeUniqueViolation, constraints)
}

func IsCheckViolation(err error, constraints ...string) bool {
	return matches(err, codeCheckViolation, constraints)
}

func matches(err error, want string, constraints []string) bool {
	code, constraint := pgCode(err)
	if code != want {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, c := range constraints {
		if c == constraint {
			return true
		}
	}
	return false
}
