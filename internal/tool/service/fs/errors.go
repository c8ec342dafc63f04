package fs

import "fmt"

// EntryInfoError is returned when a directory entry cannot be stat'ed.
type EntryInfoError struct {
	Path  string
	Name  string
	Cause error
}

func (e *EntryInfoError) Error() string {
	return fmt.Sprintf("failed to stat entry %s in %s: %v", e.Name, e.Path, e.Cause)
}
func (e *EntryInfoError) Unwrap() error { return e.Cause }
