package services

import (
	"errors"
	"fmt"

	"github.com/energyrank/energyrank-backend/internal/store"
)

// Error taxonomy exposed by the engine. Handlers map these onto HTTP status
// codes; nothing storage-specific crosses this boundary.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid input")
)

// fromStore translates storage sentinels into the service taxonomy. Unknown
// errors pass through wrapped so callers can still log the cause.
func fromStore(err error, context string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, context)
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, context)
	}
	return fmt.Errorf("%s: %w", context, err)
}
