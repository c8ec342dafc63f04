// Package search streams file contents selected by a glob filter and yields the
// lines matching a regular expression.
package search

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"regexp"
	"slices"

	"github.com/Cyclone1070/rofs/internal/tool/errutil"
	"github.com/Cyclone1070/rofs/internal/tool/glob"
	"github.com/Cyclone1070/rofs/internal/tool/helper/content"
	"github.com/Cyclone1070/rofs/internal/tool/scanutil"
)

// readBufferSize must exceed content.SampleSize so the binary check fits in one Peek.
const readBufferSize = 64 * 1024

// cancelCheckInterval is how many lines are read between cancellation checks.
const cancelCheckInterval = 1024

// fileSystem defines the filesystem operations needed for content search.
type fileSystem interface {
	Open(path string) (io.ReadCloser, error)
}

// Searcher runs regular expression searches over files chosen by a glob filter.
type Searcher struct {
	glob *glob.Matcher
	fs   fileSystem
}

// NewSearcher creates a Searcher with injected dependencies.
func NewSearcher(matcher *glob.Matcher, fs fileSystem) *Searcher {
	if matcher == nil {
		panic("matcher is required")
	}
	if fs == nil {
		panic("fs is required")
	}
	return &Searcher{glob: matcher, fs: fs}
}

// Scan is a single-pass search produced by Search.
type Scan struct {
	ctx   context.Context
	re    *regexp.Regexp
	fs    fileSystem
	files *glob.Scan
	opts  Options
	done  bool
}

// Search compiles pattern and selects candidate files under root with globFilter
// (every file when empty). Nothing is read until Matches is ranged over.
func (s *Searcher) Search(ctx context.Context, pattern, root, globFilter string, opts Options) (*Scan, error) {
	var filters []string
	if globFilter != "" {
		filters = []string{globFilter}
	}
	return s.SearchAny(ctx, pattern, root, filters, opts)
}

// SearchAny is Search with a file filter of several glob patterns. A file is
// searched once when any of them selects it.
func (s *Searcher) SearchAny(ctx context.Context, pattern, root string, globFilters []string, opts Options) (*Scan, error) {
	if pattern == "" {
		return nil, &errutil.InvalidPatternError{Pattern: pattern, Cause: errors.New("pattern is empty")}
	}
	if opts.ContextLines < 0 {
		return nil, &errutil.InvalidArgumentError{Field: "context_lines", Reason: "cannot be negative"}
	}

	expr := pattern
	if !opts.CaseSensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &errutil.InvalidPatternError{Pattern: pattern, Cause: err}
	}

	globFilters = slices.DeleteFunc(slices.Clone(globFilters), func(p string) bool { return p == "" })
	if len(globFilters) == 0 {
		globFilters = []string{"**"}
	}
	files, err := s.glob.MatchAny(ctx, globFilters, root, glob.Options{
		CaseSensitive:    true,
		IncludeHidden:    opts.IncludeHidden,
		MaxDepth:         -1,
		FollowSymlinks:   opts.FollowSymlinks,
		RespectGitignore: opts.RespectGitignore,
		FilesOnly:        true,
	})
	if err != nil {
		return nil, err
	}

	return &Scan{ctx: ctx, re: re, fs: s.fs, files: files, opts: opts}, nil
}

// Report returns the scan report, shared with the underlying file selection.
// It is complete once Matches has finished.
func (sc *Scan) Report() *scanutil.Report {
	return sc.files.Report()
}

// Matches returns the lazy sequence of matches: files in glob order, lines in
// ascending order, one Match per matching line. Stopping early closes the
// current file. The sequence can be ranged over once.
func (sc *Scan) Matches() iter.Seq[Match] {
	return func(yield func(Match) bool) {
		if sc.done {
			return
		}
		sc.done = true
		for entry := range sc.files.Entries() {
			if !sc.searchFile(entry, yield) {
				return
			}
		}
	}
}

type pendingMatch struct {
	match Match
	need  int
}

// searchFile yields the matches in one file and returns false when the
// traversal must stop.
func (sc *Scan) searchFile(entry scanutil.PathEntry, yield func(Match) bool) bool {
	report := sc.Report()
	if sc.ctx.Err() != nil {
		report.Cancelled = true
		return false
	}

	if sc.opts.MaxFileSizeBytes > 0 && entry.Size > sc.opts.MaxFileSizeBytes {
		report.Warn(entry.Path, errutil.KindTooLarge,
			fmt.Sprintf("file size %d exceeds limit %d", entry.Size, sc.opts.MaxFileSizeBytes))
		report.Truncated = true
		return true
	}

	f, err := sc.fs.Open(entry.AbsPath)
	if err != nil {
		report.WarnErr(entry.Path, err)
		return true
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, readBufferSize)
	head, err := r.Peek(content.SampleSize)
	if err != nil && !errors.Is(err, io.EOF) {
		report.WarnErr(entry.Path, err)
		return true
	}
	if content.IsBinaryContent(head) {
		report.Warn(entry.Path, errutil.KindBinary, "binary file skipped")
		return true
	}
	if text, ok := content.NewTextReader(r, head); ok {
		r = bufio.NewReaderSize(text, readBufferSize)
	}

	var (
		lineNo  int
		offset  int64
		found   int
		before  []string
		pending []pendingMatch
	)
	limited := func() bool {
		return sc.opts.MaxMatchesPerFile > 0 && found >= sc.opts.MaxMatchesPerFile
	}
	flush := func(all bool) bool {
		for len(pending) > 0 && (all || pending[0].need == 0) {
			if !yield(pending[0].match) {
				return false
			}
			pending = pending[1:]
		}
		return true
	}

	for {
		raw, readErr := r.ReadBytes('\n')
		if len(raw) > 0 {
			lineNo++
			line := string(content.TrimLineEnding(raw))
			shown, truncated := content.TruncateLine(line, sc.opts.MaxLineLength)

			for i := range pending {
				if pending[i].need > 0 {
					pending[i].match.After = append(pending[i].match.After, shown)
					pending[i].need--
				}
			}
			if !flush(false) {
				return false
			}

			if sc.re.MatchString(line) {
				if limited() {
					report.Truncated = true
					if len(pending) == 0 {
						break
					}
				} else {
					found++
					m := Match{
						PathEntry: entry,
						Line:      lineNo,
						Offset:    offset,
						Text:      shown,
						Truncated: truncated,
						Before:    slices.Clone(before),
					}
					if sc.opts.ContextLines > 0 {
						pending = append(pending, pendingMatch{match: m, need: sc.opts.ContextLines})
					} else if !yield(m) {
						return false
					}
				}
			}

			if sc.opts.ContextLines > 0 {
				before = append(before, shown)
				if len(before) > sc.opts.ContextLines {
					before = before[1:]
				}
			}
			offset += int64(len(raw))
		}

		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				report.WarnErr(entry.Path, readErr)
			}
			break
		}
		if lineNo%cancelCheckInterval == 0 && sc.ctx.Err() != nil {
			report.Cancelled = true
			return false
		}
	}

	return flush(true)
}
