// Package scanutil holds the value types shared by every traversal: the entries
// they yield and the report describing how complete the traversal was.
package scanutil

import "os"

// Kind is the type of a filesystem entry.
type Kind string

const (
	KindFile    Kind = "file"
	KindDir     Kind = "dir"
	KindSymlink Kind = "symlink"
	KindOther   Kind = "other"
)

// KindOf classifies a FileInfo. Pass an Lstat result to see symlinks.
func KindOf(info os.FileInfo) Kind {
	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// PathEntry is a resolved filesystem path produced by a traversal.
type PathEntry struct {
	Path    string // Slash-separated, relative to the scope root
	AbsPath string
	Kind    Kind
	Size    int64
}
