package preload

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline stages.
// All use prefix "preload:" for identification. Callers should use errors.Is/errors.As.
var (
	// ErrConfig indicates a malformed location or configuration value.
	ErrConfig = errors.New("preload: invalid configuration")
	// ErrFetch indicates a retriever could not obtain the script text.
	ErrFetch = errors.New("preload: fetch failed")
	// ErrRender indicates the script text failed to parse or execute as a template.
	ErrRender = errors.New("preload: template rendering failed")
)

// Stage names the pipeline step that produced a LocationError.
type Stage string

// Pipeline stages.
const (
	StageResolve  Stage = "resolve"
	StageValidate Stage = "validate"
	StageFetch    Stage = "fetch"
	StageRender   Stage = "render"
)

// LocationError wraps a stage error with the offending location.
// Use errors.Is(err, ErrFetch) and errors.As(err, &locErr) to inspect.
type LocationError struct {
	Location string
	Stage    Stage
	Err      error
}

// Error implements error.
func (e *LocationError) Error() string {
	return fmt.Sprintf("preload: %s %q: %v", e.Stage, e.Location, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/errors.As.
func (e *LocationError) Unwrap() error { return e.Err }

// Compile-time check that LocationError implements error.
var _ error = (*LocationError)(nil)

// stageSentinel maps a stage to the sentinel its errors must carry.
func stageSentinel(s Stage) error {
	switch s {
	case StageResolve, StageValidate:
		return ErrConfig
	case StageRender:
		return ErrRender
	default:
		return ErrFetch
	}
}

// newLocationError wraps err for location and stage, adding the stage sentinel
// unless err already carries one of the pipeline sentinels.
func newLocationError(location string, stage Stage, err error) *LocationError {
	if !errors.Is(err, ErrConfig) && !errors.Is(err, ErrFetch) && !errors.Is(err, ErrRender) {
		err = fmt.Errorf("%w: %w", stageSentinel(stage), err)
	}
	return &LocationError{Location: location, Stage: stage, Err: err}
}
