package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

type scanner interface{ Scan(...any) error }

// constraintErr maps SQLite constraint failures onto model sentinels so
// callers can tell bad input from a broken database.
func constraintErr(op string, err error, conflictMsg string) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %s", model.ErrConflict, conflictMsg)
	case strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%w: %s rejected by database", model.ErrValidation, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// now is the store clock. SQLite compares DATETIME values as text, so every
// stored time is UTC with whole seconds.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
