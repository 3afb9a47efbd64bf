package operations

import (
	"fmt"
)

// Pipeline stage names, used in errors, spans, logs and metrics
const (
	StageExtract      = "extract"
	StageTransform    = "transform"
	StageValidate     = "validate"
	StageFeatures     = "compute_features"
	StageLoadClean    = "load_clean"
	StageLoadFeatures = "load_features"
)

// StageError names the pipeline stage that failed. The underlying error stays
// reachable through errors.As and errors.Is.
type StageError struct {
	Stage string
	Err   error
}

// Error implements the error interface
func (e *StageError) Error() string {
	if e == nil {
		return "unknown stage error"
	}
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
