package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidState indicates NaN or Inf crept into particle state.
// Step drivers abort the run with it.
var ErrInvalidState = errors.New("gosph: invalid particle state (NaN or Inf detected)")

// StepError wraps a failure with the step and physical time it happened
// at.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
