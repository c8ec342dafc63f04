package search

import (
	"github.com/Cyclone1070/rofs/internal/tool/scanutil"
)

// DefaultMaxFileSize is the size above which files are skipped unless configured.
const DefaultMaxFileSize = 5 * 1024 * 1024

// Options controls a single Search call.
type Options struct {
	CaseSensitive     bool
	MaxMatchesPerFile int   // <= 0 means unbounded
	MaxFileSizeBytes  int64 // <= 0 means unbounded
	ContextLines      int
	MaxLineLength     int // <= 0 disables truncation

	// File selection, passed through to the glob filter.
	IncludeHidden    bool
	FollowSymlinks   bool
	RespectGitignore bool
}

// DefaultOptions returns case-sensitive options with the default size limit.
func DefaultOptions() Options {
	return Options{
		CaseSensitive:    true,
		MaxFileSizeBytes: DefaultMaxFileSize,
	}
}

// Match is a single matching line.
type Match struct {
	scanutil.PathEntry
	Line      int   // 1-based
	Offset    int64 // Byte offset of the start of the line, in UTF-8 after BOM decoding
	Text      string
	Truncated bool
	Before    []string
	After     []string
}
