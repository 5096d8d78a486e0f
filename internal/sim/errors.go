package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidState indicates the state diverged to NaN or Inf.
	ErrInvalidState = errors.New("sim: state diverged (NaN or Inf detected)")

	// ErrUnknownIntegrator indicates an unrecognized integrator name.
	ErrUnknownIntegrator = errors.New("sim: unknown integrator")

	// ErrStepStalled indicates the adaptive controller kept rejecting
	// without making progress.
	ErrStepStalled = errors.New("sim: adaptive step stalled (too many consecutive rejections)")
)

// StepError wraps an error with the step index and simulation time at
// which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
