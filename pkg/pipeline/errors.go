package pipeline

import "fmt"

// Stage identifies a step of the residue pipeline. A run walks the
// stages in order and stops at the first failure.
type Stage string

const (
	StageDiscovering Stage = "discovering"
	StageLoading     Stage = "loading"
	StageValidating  Stage = "validating"
	StageComputing   Stage = "computing"
	StagePersisting  Stage = "persisting"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// DiscoveryError reports an input folder that does not contain exactly
// two DICOM files, or one that cannot be listed at all.
type DiscoveryError struct {
	// Dir is the input folder
	Dir string

	// Found is the number of DICOM files discovered, meaningful only
	// when Err is nil
	Found int

	// Err is set when the folder itself could not be read
	Err error
}

func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("discovering DICOM files in %s: %v", e.Dir, e.Err)
	}
	return fmt.Sprintf("expected exactly 2 DICOM files in %s, found %d", e.Dir, e.Found)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// StageError wraps a component error with the pipeline stage it aborted,
// so callers can report the failing step rather than a generic failure.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed while %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
