package scanutil

import (
	"github.com/Cyclone1070/rofs/internal/tool/errutil"
)

// Status summarises how much of a traversal's result can be trusted.
type Status string

const (
	StatusComplete  Status = "complete"
	StatusTruncated Status = "truncated"
	StatusPartial   Status = "partial"
	StatusCancelled Status = "cancelled"
)

// Warning records an entry that was skipped during a traversal.
type Warning struct {
	Path    string       `json:"path"`
	Kind    errutil.Kind `json:"kind"`
	Message string       `json:"message"`
}

// Report accumulates the outcome of a single traversal.
// It is owned by one call and must not be shared between calls.
type Report struct {
	Warnings  []Warning
	Truncated bool
	Cancelled bool
}

// Warn records a skipped entry.
func (r *Report) Warn(path string, kind errutil.Kind, message string) {
	r.Warnings = append(r.Warnings, Warning{Path: path, Kind: kind, Message: message})
}

// WarnErr records a skipped entry, classifying err.
func (r *Report) WarnErr(path string, err error) {
	r.Warn(path, errutil.EntryKind(err), err.Error())
}

// Skipped returns the warnings of the given kind.
func (r *Report) Skipped(kind errutil.Kind) []Warning {
	var out []Warning
	for _, w := range r.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// Errored reports whether any entry was left unread because of a recoverable error.
func (r *Report) Errored() bool {
	for _, w := range r.Warnings {
		if w.Kind.Recoverable() {
			return true
		}
	}
	return false
}

// Status returns the most severe condition, in order cancelled, partial, truncated.
func (r *Report) Status() Status {
	switch {
	case r.Cancelled:
		return StatusCancelled
	case r.Errored():
		return StatusPartial
	case r.Truncated:
		return StatusTruncated
	default:
		return StatusComplete
	}
}

// Complete reports whether the result covers everything that was asked for.
func (r *Report) Complete() bool {
	return r.Status() == StatusComplete
}
