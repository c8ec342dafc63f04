package path

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Cyclone1070/rofs/internal/tool/errutil"
	"github.com/Cyclone1070/rofs/internal/tool/service/fs"
)

// maxHops bounds the number of symlinks followed while resolving one path.
const maxHops = 64

// fileSystem defines the filesystem operations needed for path resolution.
type fileSystem interface {
	Lstat(path string) (os.FileInfo, error)
	Readlink(path string) (string, error)
}

// Scope resolves candidate paths and guarantees they stay within a fixed root.
// A Scope is immutable and safe for concurrent use.
type Scope struct {
	root     string
	fs       fileSystem
	foldCase bool
	blocked  []string
}

type scopeOptions struct {
	allowedBase string
	fs          fileSystem
	blocked     []string
}

// Option configures NewScope.
type Option func(*scopeOptions)

// WithAllowedBase requires the root to lie within base.
func WithAllowedBase(base string) Option {
	return func(o *scopeOptions) {
		o.allowedBase = base
	}
}

// WithFileSystem overrides the filesystem used for symlink resolution.
func WithFileSystem(fs fileSystem) Option {
	return func(o *scopeOptions) {
		o.fs = fs
	}
}

// WithBlocked denies access to paths matching any of patterns, and to everything
// beneath them. Patterns are glob patterns relative to the root; absolute paths
// are accepted and made relative.
func WithBlocked(patterns ...string) Option {
	return func(o *scopeOptions) {
		o.blocked = append(o.blocked, patterns...)
	}
}

// NewScope canonicalises root and builds a Scope around it.
// It fails with NotFoundError if root does not exist, InvalidArgumentError if it is
// not a directory, and OutOfScopeError if it lies outside a configured allowed base.
func NewScope(root string, opts ...Option) (*Scope, error) {
	o := scopeOptions{fs: fs.NewOSFileSystem()}
	for _, opt := range opts {
		opt(&o)
	}

	canonical, err := CanonicaliseRoot(root)
	if err != nil {
		return nil, err
	}

	s := NewScopeWithFS(canonical, o.fs)
	if err := s.block(o.blocked); err != nil {
		return nil, err
	}

	if o.allowedBase != "" {
		base, err := CanonicaliseRoot(o.allowedBase)
		if err != nil {
			return nil, err
		}
		if !NewScopeWithFS(base, o.fs).Contains(canonical) {
			return nil, &errutil.OutOfScopeError{Path: root}
		}
	}

	return s, nil
}

// NewScopeWithFS builds a Scope around a root that is already canonical.
func NewScopeWithFS(root string, fs fileSystem) *Scope {
	return &Scope{
		root:     filepath.Clean(root),
		fs:       fs,
		foldCase: runtime.GOOS == "darwin" || runtime.GOOS == "windows",
	}
}

// CanonicaliseRoot makes root absolute and resolves its symlinks.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &RootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &errutil.NotFoundError{Path: root}
		}
		return "", &RootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &RootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &errutil.InvalidArgumentError{Field: "root", Reason: "not a directory: " + root}
	}
	return resolved, nil
}

// Root returns the canonical root directory.
func (s *Scope) Root() string {
	return s.root
}

// Resolve maps a candidate path (relative to the root, or absolute) to its canonical
// absolute path. Symlinks are resolved one component at a time and every hop must
// stay inside the root. The path must exist.
func (s *Scope) Resolve(candidate string) (string, error) {
	if candidate == "" {
		candidate = "."
	}

	var abs string
	if filepath.IsAbs(candidate) {
		abs = filepath.Clean(candidate)
	} else {
		abs = filepath.Join(s.root, candidate)
	}

	rel, ok := s.relative(abs)
	if !ok {
		return "", &errutil.OutOfScopeError{Path: candidate}
	}

	resolved, err := s.walk(rel)
	if err == nil && (s.Blocked(abs) || s.Blocked(resolved)) {
		err = &errutil.OutOfScopeError{Cause: &BlockedError{Path: s.Rel(resolved)}}
	}
	if err != nil {
		switch e := err.(type) {
		case *errutil.OutOfScopeError:
			e.Path = candidate
		case *errutil.NotFoundError:
			e.Path = candidate
		}
		return "", err
	}
	return resolved, nil
}

func (s *Scope) block(patterns []string) error {
	for _, p := range patterns {
		if filepath.IsAbs(p) {
			rel, ok := s.relative(filepath.Clean(p))
			if !ok {
				continue
			}
			p = rel
		}
		p = strings.Trim(filepath.ToSlash(filepath.Clean(p)), "/")
		if p == "" || p == "." {
			return &errutil.InvalidArgumentError{Field: "blocked_files", Reason: "cannot block the root"}
		}
		if !doublestar.ValidatePattern(p) {
			return &errutil.InvalidPatternError{Pattern: p, Cause: doublestar.ErrBadPattern}
		}
		s.blocked = append(s.blocked, p)
	}
	return nil
}

// Blocked reports whether abs, or any directory between the root and abs,
// matches a blocked pattern.
func (s *Scope) Blocked(abs string) bool {
	if len(s.blocked) == 0 {
		return false
	}
	rel := s.Rel(abs)
	if rel == "" {
		return false
	}
	prefix := ""
	for _, seg := range strings.Split(rel, "/") {
		if prefix == "" {
			prefix = seg
		} else {
			prefix += "/" + seg
		}
		for _, p := range s.blocked {
			if ok, _ := doublestar.Match(p, prefix); ok {
				return true
			}
		}
	}
	return false
}

// walk resolves rel component by component starting at the root.
func (s *Scope) walk(rel string) (string, error) {
	pending := splitComponents(rel)
	current := s.root
	hops := 0

	for len(pending) > 0 {
		part := pending[0]
		pending = pending[1:]

		switch part {
		case "", ".":
			continue
		case "..":
			if current == s.root {
				return "", &errutil.OutOfScopeError{}
			}
			current = filepath.Dir(current)
			continue
		}

		next := filepath.Join(current, part)
		info, err := s.fs.Lstat(next)
		if err != nil {
			if os.IsNotExist(err) {
				return "", &errutil.NotFoundError{}
			}
			return "", &LstatError{Path: next, Cause: err}
		}

		if info.Mode()&os.ModeSymlink == 0 {
			current = next
			continue
		}

		hops++
		if hops > maxHops {
			return "", &errutil.OutOfScopeError{Cause: &SymlinkLoopError{Path: next, MaxHops: maxHops}}
		}

		target, err := s.fs.Readlink(next)
		if err != nil {
			return "", &ReadlinkError{Path: next, Cause: err}
		}

		if filepath.IsAbs(target) {
			targetRel, ok := s.relative(filepath.Clean(target))
			if !ok {
				return "", &errutil.OutOfScopeError{}
			}
			current = s.root
			pending = append(splitComponents(targetRel), pending...)
		} else {
			// Relative targets resolve against the directory holding the link.
			pending = append(splitComponents(target), pending...)
		}
	}

	return current, nil
}

// Contains reports whether abs is the root or lies beneath it.
// This is the only place that accounts for case-insensitive filesystems.
func (s *Scope) Contains(abs string) bool {
	_, ok := s.relative(filepath.Clean(abs))
	return ok
}

// Rel renders a contained absolute path as a slash-separated path relative to the
// root. The root itself renders as "".
func (s *Scope) Rel(abs string) string {
	rel, ok := s.relative(filepath.Clean(abs))
	if !ok || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// relative returns abs relative to the root, or false when abs is outside it.
func (s *Scope) relative(abs string) (string, bool) {
	if s.equal(abs, s.root) {
		return ".", true
	}

	prefix := s.root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if len(abs) <= len(prefix) || !s.equal(abs[:len(prefix)], prefix) {
		return "", false
	}
	return abs[len(prefix):], true
}

func (s *Scope) equal(a, b string) bool {
	if s.foldCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// splitComponents splits a path on either separator.
func splitComponents(p string) []string {
	return strings.Split(filepath.ToSlash(p), "/")
}
