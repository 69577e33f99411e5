package service

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDestinationNotFound = errors.New("destination not found")
	ErrValidation          = errors.New("validation failed")
	ErrStorage             = errors.New("image upload failed")
)

// ValidationError reports which fields were rejected and why. It
// matches ErrValidation under errors.Is so handlers can branch on the
// class while still returning field detail.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isForeignKeyViolation catches a review insert racing a destination
// delete; the append is reported as NotFound in that case.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
