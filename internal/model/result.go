package model

import "errors"

// Status summarizes how a single file was handled.
type Status string

const (
	StatusProcessed   Status = "processed"
	StatusUnsupported Status = "unsupported"
	StatusWriteFailed Status = "write_failed"
	StatusFailed      Status = "failed"
)

// Result is the outcome of processing one ImageTask.
// Err is nil on success, in which case Output holds the written path.
type Result struct {
	Task   ImageTask
	Output string
	Err    error
}

// OK reports whether the file was watermarked and written.
func (r Result) OK() bool { return r.Err == nil }

// Status maps the result error onto a skip reason.
func (r Result) Status() Status {
	if r.Err == nil {
		return StatusProcessed
	}

	var unsupported *UnsupportedFormatError
	if errors.As(r.Err, &unsupported) {
		return StatusUnsupported
	}

	var writeErr *WriteError
	if errors.As(r.Err, &writeErr) {
		return StatusWriteFailed
	}

	return StatusFailed
}
