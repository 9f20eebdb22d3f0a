package pipeline

import (
	"errors"
	"fmt"
)

// ErrRunInFlight is returned when Run is invoked while another run is
// active. Runs are never queued; the caller retries after the current run
// settles.
var ErrRunInFlight = errors.New("a pipeline run is already in flight")

// ValidationError reports a missing required input, caught before any
// remote call is issued.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// GenerationError reports a generation call that succeeded transport-wise
// but came back with a non-success status. Terminal for the run; no history
// record is written.
type GenerationError struct {
	Message string
}

func (e *GenerationError) Error() string {
	if e.Message == "" {
		return "content generation failed"
	}
	return fmt.Sprintf("content generation failed: %s", e.Message)
}

// UnexpectedError reports a transport or parse failure on a remote call.
type UnexpectedError struct {
	Stage string
	Err   error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected %s failure: %v", e.Stage, e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}
