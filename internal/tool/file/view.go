// Package file reads bounded line windows from text files inside a Scope.
package file

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/rofs/internal/tool/errutil"
	"github.com/Cyclone1070/rofs/internal/tool/helper/content"
	"github.com/Cyclone1070/rofs/internal/tool/scanutil"
	"github.com/Cyclone1070/rofs/internal/tool/service/path"
)

const (
	readBufferSize      = 64 * 1024
	cancelCheckInterval = 1024
)

// fileSystem defines the filesystem operations needed for viewing files.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
}

// Viewer reads line windows from files within a Scope.
type Viewer struct {
	scope *path.Scope
	fs    fileSystem
}

// NewViewer creates a Viewer with injected dependencies.
func NewViewer(scope *path.Scope, fs fileSystem) *Viewer {
	if scope == nil {
		panic("scope is required")
	}
	if fs == nil {
		panic("fs is required")
	}
	return &Viewer{scope: scope, fs: fs}
}

// View returns lines [LineOffset, LineOffset+LineCount) of the file at p. The
// file is streamed and reading stops one line past the window. An offset past
// the end of the file yields an empty window, not an error.
func (v *Viewer) View(ctx context.Context, p string, opts Options) (*Result, error) {
	if opts.LineOffset < 0 {
		return nil, &errutil.InvalidArgumentError{Field: "line_offset", Reason: "cannot be negative"}
	}
	if opts.LineCount <= 0 {
		return nil, &errutil.InvalidArgumentError{Field: "line_count", Reason: "must be positive"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := v.scope.Resolve(p)
	if err != nil {
		return nil, err
	}
	rel := v.scope.Rel(abs)
	if !opts.IncludeHidden && (isHidden(filepath.ToSlash(filepath.Clean(p))) || isHidden(rel)) {
		return nil, &errutil.OutOfScopeError{Path: p, Cause: &HiddenPathError{Path: rel}}
	}

	info, err := v.fs.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, &NotRegularError{Path: rel, Kind: string(scanutil.KindOf(info))}
	}

	f, err := v.fs.Open(abs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, readBufferSize)
	head, err := r.Peek(content.SampleSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if content.IsBinaryContent(head) {
		return nil, &BinaryFileError{Path: rel}
	}
	if text, ok := content.NewTextReader(r, head); ok {
		r = bufio.NewReaderSize(text, readBufferSize)
	}

	res := &Result{Path: rel, AbsPath: abs, Size: info.Size(), LineOffset: opts.LineOffset}
	end := opts.LineOffset + opts.LineCount
	for lineNo := 0; ; {
		raw, readErr := r.ReadBytes('\n')
		if len(raw) > 0 {
			if lineNo >= end {
				res.More = true
				break
			}
			if lineNo >= opts.LineOffset {
				line, truncated := content.TruncateLine(string(content.TrimLineEnding(raw)), opts.MaxLineLength)
				res.Lines = append(res.Lines, line)
				res.Truncated = res.Truncated || truncated
			}
			lineNo++
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				return nil, readErr
			}
			break
		}
		if lineNo%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func isHidden(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}
