package file

import "fmt"

// BinaryFileError is returned when the viewed file looks binary.
type BinaryFileError struct {
	Path string
}

func (e *BinaryFileError) Error() string {
	return "file is binary: " + e.Path
}

func (e *BinaryFileError) InvalidInput() bool { return true }

// NotRegularError is returned for directories, devices, sockets and pipes.
type NotRegularError struct {
	Path string
	Kind string
}

func (e *NotRegularError) Error() string {
	return fmt.Sprintf("not a regular file: %s (%s)", e.Path, e.Kind)
}

func (e *NotRegularError) InvalidInput() bool { return true }

// HiddenPathError is the cause attached when hidden paths are not allowed.
type HiddenPathError struct {
	Path string
}

func (e *HiddenPathError) Error() string {
	return "hidden path: " + e.Path
}
