package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when an operation receives inputs that violate
// the model contract: mismatched series lengths, non-positive rate constants,
// negative pools or fluxes.
var ErrInvalidInput = errors.New("invalid input")

// ErrNumericAnomaly is returned when integration produces a negative or
// non-finite quantity. Anomalies abort the run; values are never clamped.
var ErrNumericAnomaly = errors.New("numeric anomaly")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// TrialError reports which ensemble member failed. It wraps the underlying
// cause so errors.Is still matches the sentinels above.
type TrialError struct {
	Trial int
	Err   error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("trial %d: %v", e.Trial, e.Err)
}

func (e *TrialError) Unwrap() error { return e.Err }
