package lifecycle

import (
	"errors"
	"fmt"
)

var ErrValidationRejected = errors.New("validation rejected")

// ValidationError is returned when a trigger's guard condition does not hold. The
// backend is never contacted in that case.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Op, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationRejected
}
