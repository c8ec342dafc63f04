package git

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/rofs/internal/tool/errutil"
	"github.com/Cyclone1070/rofs/internal/tool/helper/content"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ignoreFile is the per-directory ignore file name.
const ignoreFile = ".gitignore"

// maxIgnoreFileSize bounds how much of a single .gitignore is read.
const maxIgnoreFileSize = 1 << 20

// GitignoreReadError is returned when .gitignore cannot be read.
type GitignoreReadError struct {
	Path  string
	Cause error
}

func (e *GitignoreReadError) Error() string {
	return fmt.Sprintf("failed to read .gitignore at %s: %v", e.Path, e.Cause)
}
func (e *GitignoreReadError) Unwrap() error { return e.Cause }

// NotRegularError is returned when an ignore file is a FIFO, device or other
// non-regular file. Such files are never opened.
type NotRegularError struct {
	Path string
	Mode os.FileMode
}

func (e *NotRegularError) Error() string {
	return fmt.Sprintf("not a regular file: %s (%s)", e.Path, e.Mode.Type())
}

// fileSystem defines the minimal filesystem interface needed for gitignore loading.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// resolver maps a symlinked ignore file to a target inside the scope.
type resolver interface {
	Resolve(candidate string) (string, error)
}

// Matcher decides whether a scope-relative path is ignored.
type Matcher interface {
	// Load reads the .gitignore in the directory at relDir, if any.
	Load(relDir string) error
	// ShouldIgnore reports whether the slash-relative path is ignored.
	ShouldIgnore(relPath string, isDir bool) bool
}

// IgnoreMatcher implements gitignore pattern matching using go-git's gitignore matcher.
// Patterns from nested .gitignore files are scoped to their directory.
// An IgnoreMatcher accumulates state during a traversal and must not be shared
// between concurrent scans.
type IgnoreMatcher struct {
	root     string
	fs       fileSystem
	resolver resolver
	patterns []gitignore.Pattern
	matcher  gitignore.Matcher
	loaded   map[string]bool
}

// NewIgnoreMatcher creates a matcher rooted at root. Nothing is read until Load.
// Symlinked ignore files are read only when res maps them to a target it
// accepts; with a nil res they are refused.
func NewIgnoreMatcher(root string, fs fileSystem, res resolver) *IgnoreMatcher {
	if root == "" {
		panic("root is required")
	}
	if fs == nil {
		panic("fs is required")
	}

	return &IgnoreMatcher{
		root:     root,
		fs:       fs,
		resolver: res,
		loaded:   make(map[string]bool),
	}
}

// Load reads the .gitignore in relDir and scopes its patterns to that directory.
// A missing file is not an error. Directories are loaded at most once, failed
// attempts included.
func (m *IgnoreMatcher) Load(relDir string) error {
	relDir = path.Clean("/" + filepath.ToSlash(relDir))[1:]
	if m.loaded[relDir] {
		return nil
	}
	m.loaded[relDir] = true

	ignorePath := filepath.Join(m.root, filepath.FromSlash(relDir), ignoreFile)
	target, info, err := m.open(ignorePath)
	if err != nil || info == nil {
		return err
	}
	if info.Size() > maxIgnoreFileSize {
		return &GitignoreReadError{Path: ignorePath, Cause: fmt.Errorf("file exceeds %d bytes", maxIgnoreFileSize)}
	}

	data, err := m.fs.ReadFile(target)
	if err != nil {
		return &GitignoreReadError{Path: ignorePath, Cause: err}
	}

	domain := splitPath(relDir)
	added := false
	for _, line := range content.SplitLines(string(data)) {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.patterns = append(m.patterns, gitignore.ParsePattern(line, domain))
		added = true
	}
	if added {
		m.matcher = gitignore.NewMatcher(m.patterns)
	}
	return nil
}

// open locates the regular file to read for ignorePath without following
// symlinks on its own. A nil info with a nil error means there is nothing to load.
func (m *IgnoreMatcher) open(ignorePath string) (string, os.FileInfo, error) {
	info, err := m.fs.Lstat(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, nil
		}
		return "", nil, &GitignoreReadError{Path: ignorePath, Cause: err}
	}

	target := ignorePath
	if info.Mode()&os.ModeSymlink != 0 {
		if m.resolver == nil {
			return "", nil, &GitignoreReadError{Path: ignorePath, Cause: errors.New("symlinked ignore files are not followed")}
		}
		target, err = m.resolver.Resolve(ignorePath)
		if err != nil {
			if errutil.KindOf(err) == errutil.KindNotFound {
				return "", nil, nil
			}
			return "", nil, &GitignoreReadError{Path: ignorePath, Cause: err}
		}
		if info, err = m.fs.Stat(target); err != nil {
			return "", nil, &GitignoreReadError{Path: ignorePath, Cause: err}
		}
	}

	if info.IsDir() {
		return "", nil, nil
	}
	if !info.Mode().IsRegular() {
		return "", nil, &GitignoreReadError{Path: ignorePath, Cause: &NotRegularError{Path: ignorePath, Mode: info.Mode()}}
	}
	return target, info, nil
}

// ShouldIgnore checks if a relative path matches any loaded gitignore patterns.
func (m *IgnoreMatcher) ShouldIgnore(relPath string, isDir bool) bool {
	if m.matcher == nil {
		return false
	}
	segments := splitPath(relPath)
	if len(segments) == 0 {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

// splitPath splits a path into segments for gitignore matching.
// It normalizes path separators and filters out empty and "." segments.
func splitPath(p string) []string {
	if p == "" {
		return nil
	}

	parts := strings.Split(filepath.ToSlash(p), "/")
	var segments []string
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}

// NoOpMatcher is a gitignore matcher that never ignores any files.
// It is used when gitignore handling is disabled or fails to initialize.
type NoOpMatcher struct{}

// Load does nothing.
func (NoOpMatcher) Load(string) error { return nil }

// ShouldIgnore always returns false for NoOpMatcher.
func (NoOpMatcher) ShouldIgnore(string, bool) bool { return false }
