package errutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
)

// Kind classifies an error for callers that cannot inspect Go types.
type Kind string

const (
	// Structural kinds abort the whole call.
	KindOutOfScope      Kind = "out_of_scope"
	KindNotFound        Kind = "not_found"
	KindInvalidPattern  Kind = "invalid_pattern"
	KindInvalidArgument Kind = "invalid_argument"
	KindCancelled       Kind = "cancelled"
	KindInternal        Kind = "internal"

	// Per-entry kinds are recorded as warnings and never abort a traversal.
	KindPermission Kind = "permission"
	KindVanished   Kind = "vanished"
	KindIO         Kind = "io_error"
	KindBinary     Kind = "binary"
	KindTooLarge   Kind = "too_large"
	KindCycle      Kind = "cycle"
)

// Recoverable reports whether the kind describes an environmental failure that
// left part of the result unread.
func (k Kind) Recoverable() bool {
	switch k {
	case KindPermission, KindVanished, KindIO, KindOutOfScope:
		return true
	}
	return false
}

// -- Structural errors --

// OutOfScopeError is returned when a path resolves outside the scope root.
type OutOfScopeError struct {
	Path  string
	Cause error
}

func (e *OutOfScopeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("path is outside the permitted root: %s: %v", e.Path, e.Cause)
	}
	return "path is outside the permitted root: " + e.Path
}

func (e *OutOfScopeError) Unwrap() error { return e.Cause }

// OutOfScope implements the behavioral interface for cross-package error checking.
func (e *OutOfScopeError) OutOfScope() bool { return true }

// NotFoundError is returned when a required path does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "path does not exist: " + e.Path
}

func (e *NotFoundError) NotFound() bool { return true }

// InvalidPatternError is returned for malformed glob or regex syntax.
type InvalidPatternError struct {
	Pattern string
	Cause   error
}

func (e *InvalidPatternError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Cause)
	}
	return fmt.Sprintf("invalid pattern %q", e.Pattern)
}

func (e *InvalidPatternError) Unwrap() error { return e.Cause }

func (e *InvalidPatternError) InvalidPattern() bool { return true }

// InvalidArgumentError is returned when a request field fails validation.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidArgumentError) InvalidInput() bool { return true }

// KindOf maps an error returned by any tool package onto a Kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var oos interface{ OutOfScope() bool }
	if errors.As(err, &oos) && oos.OutOfScope() {
		return KindOutOfScope
	}
	var nf interface{ NotFound() bool }
	if errors.As(err, &nf) && nf.NotFound() {
		return KindNotFound
	}
	var ip interface{ InvalidPattern() bool }
	if errors.As(err, &ip) && ip.InvalidPattern() {
		return KindInvalidPattern
	}
	var ii interface{ InvalidInput() bool }
	if errors.As(err, &ii) && ii.InvalidInput() {
		return KindInvalidArgument
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCancelled
	}
	return KindInternal
}

// EntryKind classifies an error hit while visiting a single entry.
func EntryKind(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, os.ErrPermission):
		return KindPermission
	case errors.Is(err, os.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return KindVanished
	}
	var oos interface{ OutOfScope() bool }
	if errors.As(err, &oos) && oos.OutOfScope() {
		return KindOutOfScope
	}
	return KindIO
}
