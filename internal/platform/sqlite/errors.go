package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/mindflow-api/internal/store"
)

// SQLite extended result codes for constraint failures.
const (
	constraintCheck      = 275
	constraintForeignKey = 787
	constraintNotNull    = 1299
	constraintPrimaryKey = 1555
	constraintUnique     = 2067
)

// sqliteCode extracts the result code from a driver error.
func sqliteCode(err error) (int, bool) {
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		return coder.Code(), true
	}
	return 0, false
}

// IsUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY failure.
func IsUniqueViolation(err error) bool {
	if code, ok := sqliteCode(err); ok && (code == constraintUnique || code == constraintPrimaryKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err is a FOREIGN KEY failure.
func IsForeignKeyViolation(err error) bool {
	if code, ok := sqliteCode(err); ok && code == constraintForeignKey {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// MapError maps a driver error to the matching store sentinel, keeping the
// original reachable through errors.As.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
	}
	if IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %w", store.ErrForeignKey, err)
	}
	if code, ok := sqliteCode(err); ok && (code == constraintCheck || code == constraintNotNull) {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	return err
}
