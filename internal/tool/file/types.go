package file

// DefaultLineCount is the window size used when a caller does not pick one.
const DefaultLineCount = 100

// Options controls a single View call.
type Options struct {
	LineOffset    int // 0-based index of the first line returned
	LineCount     int // Must be positive
	MaxLineLength int // Longer lines are truncated; <= 0 disables truncation
	IncludeHidden bool
}

// DefaultOptions returns the first DefaultLineCount lines without truncation.
func DefaultOptions() Options {
	return Options{LineCount: DefaultLineCount}
}

// Result is one window of a text file.
type Result struct {
	Path       string
	AbsPath    string
	Size       int64
	LineOffset int
	Lines      []string
	More       bool // At least one line follows the window
	Truncated  bool // One or more lines were shortened to MaxLineLength
}

// FirstLine returns the 1-based number of the first line in the window, or 0
// when the window is empty.
func (r *Result) FirstLine() int {
	if len(r.Lines) == 0 {
		return 0
	}
	return r.LineOffset + 1
}

// LastLine returns the 1-based number of the last line in the window.
func (r *Result) LastLine() int {
	return r.LineOffset + len(r.Lines)
}
