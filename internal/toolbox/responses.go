package toolbox

import (
	"github.com/Cyclone1070/rofs/internal/tool/glance"
	"github.com/Cyclone1070/rofs/internal/tool/scanutil"
)

// Summary reports how complete a result is.
type Summary struct {
	Status    scanutil.Status    `json:"status"`
	Complete  bool               `json:"complete"`
	Truncated bool               `json:"truncated"`
	Warnings  []scanutil.Warning `json:"warnings,omitempty"`
}

func summarize(report *scanutil.Report, pageTruncated bool) Summary {
	report.Truncated = report.Truncated || pageTruncated
	return Summary{
		Status:    report.Status(),
		Complete:  report.Complete(),
		Truncated: report.Truncated,
		Warnings:  report.Warnings,
	}
}

// GlobResponse contains the result of a glob operation.
type GlobResponse struct {
	Paths  []string `json:"paths"`
	Offset int      `json:"offset"`
	Limit  int      `json:"limit"`
	Summary
}

// GrepMatch is one matching line.
type GrepMatch struct {
	Path      string   `json:"path"`
	Line      int      `json:"line"`
	Offset    int64    `json:"offset"`
	Text      string   `json:"text"`
	Truncated bool     `json:"truncated,omitempty"`
	Before    []string `json:"before,omitempty"`
	After     []string `json:"after,omitempty"`
}

// GrepResponse contains the result of a grep operation.
type GrepResponse struct {
	Matches []GrepMatch `json:"matches"`
	Offset  int         `json:"offset"`
	Limit   int         `json:"limit"`
	Summary
}

// ViewResponse contains one window of a file. Lines are numbered from
// FirstLine; both line numbers are 0 when the window is empty.
type ViewResponse struct {
	Path           string   `json:"path"`
	LineOffset     int      `json:"line_offset"`
	FirstLine      int      `json:"first_line"`
	LastLine       int      `json:"last_line"`
	Lines          []string `json:"lines"`
	LinesTruncated bool     `json:"lines_truncated,omitempty"`
	Summary
}

// GlanceResponse contains the result of a glance operation.
type GlanceResponse struct {
	Tree  *glance.Node `json:"tree"`
	Text  string       `json:"text"`
	Stats glance.Stats `json:"stats"`
	Summary
}
