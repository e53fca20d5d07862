package db

import (
	"errors"
	"strings"

	e "github.com/gartstein/catalog/internal/catalog/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes reported by postgres.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgNumericOutOfRange   = "22003"
)

// translateError maps store errors onto the catalog error taxonomy.
// Errors it does not recognise are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return e.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return e.ErrConstraintViolation
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return e.ErrDuplicateName
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return e.ErrConstraintViolation
		case pgUniqueViolation:
			return e.ErrDuplicateName
		case pgNumericOutOfRange:
			v := &e.ValidationError{}
			v.Add("price", "is out of range")
			return v
		}
	}

	// sqlite drivers without error translation support
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return e.ErrConstraintViolation
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return e.ErrDuplicateName
	}
	return err
}
