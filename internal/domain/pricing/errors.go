package pricing

import (
	"errors"
	"fmt"
)

// ErrPreconditionViolation marks cart data that must never reach the engine.
// It signals a caller bug; the engine does not repair the input.
var ErrPreconditionViolation = errors.New("pricing: precondition violation")

func violation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPreconditionViolation, fmt.Sprintf(format, args...))
}
