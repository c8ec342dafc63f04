package path

import (
	"fmt"
)

// -- Error Types --

// RootError is returned when the scope root cannot be canonicalised.
type RootError struct {
	Root  string
	Cause error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("invalid scope root %s: %v", e.Root, e.Cause)
}
func (e *RootError) Unwrap() error { return e.Cause }

// SymlinkLoopError is returned when a symlink chain does not terminate.
type SymlinkLoopError struct {
	Path    string
	MaxHops int
}

func (e *SymlinkLoopError) Error() string {
	return fmt.Sprintf("too many symlink hops resolving %s (max %d)", e.Path, e.MaxHops)
}

// LstatError is returned when lstat fails for a reason other than absence.
type LstatError struct {
	Path  string
	Cause error
}

func (e *LstatError) Error() string {
	return fmt.Sprintf("failed to lstat path %s: %v", e.Path, e.Cause)
}
func (e *LstatError) Unwrap() error { return e.Cause }

// ReadlinkError is returned when readlink fails.
type ReadlinkError struct {
	Path  string
	Cause error
}

func (e *ReadlinkError) Error() string {
	return fmt.Sprintf("failed to read symlink %s: %v", e.Path, e.Cause)
}
func (e *ReadlinkError) Unwrap() error { return e.Cause }

// BlockedError is returned when a path is denied by a blocked pattern.
type BlockedError struct {
	Path string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("path is blocked: %s", e.Path)
}
