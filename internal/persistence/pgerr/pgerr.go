// Package pgerr maps storage errors onto the core taxonomy.
package pgerr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"feedline/internal/core"
)

const uniqueViolation = "23505"

// Translate maps storage errors onto the core taxonomy. A unique-pair
// violation means a concurrent writer inserted the same edge first.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", core.ErrConflict, pgErr.ConstraintName)
	}

	return err
}
