package dcmio

import "fmt"

// UnreadableFileError reports a file that exists but cannot be used as a
// DICOM image: the stream does not parse, required tags are missing, or
// the pixel data cannot be decoded.
type UnreadableFileError struct {
	// Path is the offending file
	Path string

	// Reason is a short human-readable description of what failed
	Reason string

	// Err is the underlying error, if any
	Err error
}

func (e *UnreadableFileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unreadable DICOM file %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("unreadable DICOM file %s: %s", e.Path, e.Reason)
}

func (e *UnreadableFileError) Unwrap() error {
	return e.Err
}

// WriteError reports a failure to produce the residue output file,
// either because the destination is not writable or because the volume
// fails its pre-write consistency checks.
type WriteError struct {
	// Path is the intended output file, if known
	Path string

	// Reason describes the failing step
	Reason string

	// Err is the underlying error, if any
	Err error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("writing residue %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("writing residue %s: %s", e.Path, e.Reason)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
