// Package glob expands shell-style patterns into a lazy, deterministic sequence of
// entries beneath a scope root.
package glob

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Cyclone1070/rofs/internal/tool/errutil"
	"github.com/Cyclone1070/rofs/internal/tool/scanutil"
	"github.com/Cyclone1070/rofs/internal/tool/service/git"
	"github.com/Cyclone1070/rofs/internal/tool/service/path"
)

// fileSystem defines the filesystem operations needed for globbing.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ListDir(path string) ([]os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// Options controls a single Match call.
type Options struct {
	CaseSensitive    bool
	IncludeHidden    bool
	MaxDepth         int // Negative means unbounded; direct children are depth 1
	FollowSymlinks   bool
	RespectGitignore bool
	FilesOnly        bool
}

// DefaultOptions returns case-sensitive, unbounded options.
func DefaultOptions() Options {
	return Options{CaseSensitive: true, MaxDepth: -1}
}

// Matcher expands glob patterns within a Scope.
type Matcher struct {
	scope *path.Scope
	fs    fileSystem
}

// NewMatcher creates a Matcher with injected dependencies.
func NewMatcher(scope *path.Scope, fs fileSystem) *Matcher {
	if scope == nil {
		panic("scope is required")
	}
	if fs == nil {
		panic("fs is required")
	}
	return &Matcher{scope: scope, fs: fs}
}

// Scan is a single-pass traversal produced by Match.
type Scan struct {
	ctx         context.Context
	patterns    []string
	maxSegments int
	root        string
	opts        Options
	lister      *scanutil.Lister
	report      *scanutil.Report
	done        bool
}

// Match validates pattern and root and prepares a traversal. No directory is
// listed until Entries is ranged over.
//
// The pattern is matched against entry paths relative to root. Structural
// failures are returned here: InvalidPatternError, OutOfScopeError, NotFoundError
// or InvalidArgumentError when root is not a directory.
func (m *Matcher) Match(ctx context.Context, pattern, root string, opts Options) (*Scan, error) {
	return m.MatchAny(ctx, []string{pattern}, root, opts)
}

// MatchAny is Match for several patterns at once. An entry is yielded once, in
// traversal order, when any pattern matches it.
func (m *Matcher) MatchAny(ctx context.Context, patterns []string, root string, opts Options) (*Scan, error) {
	if len(patterns) == 0 {
		return nil, &errutil.InvalidPatternError{Cause: errors.New("no patterns given")}
	}
	var unique []string
	for _, p := range patterns {
		if err := ValidatePattern(p); err != nil {
			return nil, err
		}
		if !opts.CaseSensitive {
			p = foldCase(p)
		}
		if !slices.Contains(unique, p) {
			unique = append(unique, p)
		}
	}

	rootAbs, err := m.scope.Resolve(root)
	if err != nil {
		return nil, err
	}
	info, err := m.fs.Stat(rootAbs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &errutil.InvalidArgumentError{Field: "path", Reason: "not a directory: " + root}
	}

	s := &Scan{
		ctx:         ctx,
		patterns:    unique,
		maxSegments: segmentLimit(unique),
		root:        rootAbs,
		opts:        opts,
		report:      &scanutil.Report{},
	}

	s.lister = &scanutil.Lister{
		Scope:          m.scope,
		FS:             m.fs,
		Ignore:         git.NoOpMatcher{},
		IncludeHidden:  opts.IncludeHidden,
		FollowSymlinks: opts.FollowSymlinks,
		Report:         s.report,
	}
	if opts.RespectGitignore {
		s.lister.Ignore = scanutil.LoadIgnore(m.scope, m.fs, rootAbs, s.report)
	}
	return s, nil
}

// ValidatePattern rejects malformed patterns and patterns that could name paths
// outside the search root.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return &errutil.InvalidPatternError{Pattern: pattern, Cause: errors.New("pattern is empty")}
	}
	if strings.HasPrefix(pattern, "/") || filepath.IsAbs(pattern) {
		return &errutil.OutOfScopeError{Path: pattern, Cause: errors.New("absolute patterns are not allowed")}
	}
	for _, seg := range strings.Split(pattern, "/") {
		if seg == ".." {
			return &errutil.OutOfScopeError{Path: pattern, Cause: errors.New("patterns may not contain '..'")}
		}
	}
	if !doublestar.ValidatePattern(pattern) {
		return &errutil.InvalidPatternError{Pattern: pattern, Cause: doublestar.ErrBadPattern}
	}
	return nil
}

// segmentLimit returns how many path segments the patterns can match, or -1
// when one of them can match at any depth.
func segmentLimit(patterns []string) int {
	limit := 0
	for _, p := range patterns {
		if strings.Contains(p, "**") || strings.ContainsAny(p, "{}") {
			return -1
		}
		limit = max(limit, strings.Count(p, "/")+1)
	}
	return limit
}

// Report returns the traversal report. It is complete once Entries has finished.
func (s *Scan) Report() *scanutil.Report {
	return s.report
}

// Entries returns the lazy sequence of matching entries in depth-first order:
// within each directory, sub-directories (each followed by its subtree) come
// before files, both alphabetical. The sequence can be ranged over once.
func (s *Scan) Entries() iter.Seq[scanutil.PathEntry] {
	return func(yield func(scanutil.PathEntry) bool) {
		if s.done {
			return
		}
		s.done = true
		ancestors := map[string]bool{s.root: true}
		s.walk(s.root, s.root, "", 0, ancestors, yield)
	}
}

// walk visits dir and returns false when the traversal must stop.
func (s *Scan) walk(dir, canonical, rel string, depth int, ancestors map[string]bool, yield func(scanutil.PathEntry) bool) bool {
	if s.cancelled() {
		return false
	}
	if s.opts.MaxDepth >= 0 && depth >= s.opts.MaxDepth {
		return true
	}

	children, err := s.lister.List(dir, canonical)
	if err != nil {
		s.report.WarnErr(s.lister.Scope.Rel(dir), err)
		return true
	}

	for _, c := range children {
		if s.cancelled() {
			return false
		}
		childRel := joinRel(rel, c.Name)

		if !c.IsDir {
			if s.opts.FilesOnly && c.Entry.Kind != scanutil.KindFile {
				continue
			}
			if s.matches(childRel) && !yield(c.Entry) {
				return false
			}
			continue
		}

		if !s.opts.FilesOnly && s.matches(childRel) && !yield(c.Entry) {
			return false
		}
		if s.maxSegments >= 0 && depth+1 >= s.maxSegments {
			continue
		}
		if ancestors[c.Canonical] {
			s.report.Warn(c.Entry.Path, errutil.KindCycle, "directory already being visited: "+c.Canonical)
			continue
		}

		ancestors[c.Canonical] = true
		ok := s.walk(c.Entry.AbsPath, c.Canonical, childRel, depth+1, ancestors, yield)
		delete(ancestors, c.Canonical)
		if !ok {
			return false
		}
	}
	return true
}

func (s *Scan) matches(rel string) bool {
	if !s.opts.CaseSensitive {
		rel = foldCase(rel)
	}
	for _, p := range s.patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// foldCase maps every rune to the smallest rune of its simple case-folding
// orbit. Rune counts are preserved, so ? and character classes keep their
// meaning once pattern and path are both folded.
func foldCase(s string) string {
	return strings.Map(func(r rune) rune {
		lowest := r
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			lowest = min(lowest, f)
		}
		return lowest
	}, s)
}

func (s *Scan) cancelled() bool {
	if s.ctx.Err() != nil {
		s.report.Cancelled = true
		return true
	}
	return false
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
