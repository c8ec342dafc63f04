// Package toolbox exposes glob, grep, glance and view as independent read-only
// operations over a single root directory.
package toolbox

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Cyclone1070/rofs/internal/config"
	"github.com/Cyclone1070/rofs/internal/tool/errutil"
	"github.com/Cyclone1070/rofs/internal/tool/file"
	"github.com/Cyclone1070/rofs/internal/tool/glance"
	"github.com/Cyclone1070/rofs/internal/tool/glob"
	"github.com/Cyclone1070/rofs/internal/tool/paginationutil"
	"github.com/Cyclone1070/rofs/internal/tool/scanutil"
	"github.com/Cyclone1070/rofs/internal/tool/search"
	"github.com/Cyclone1070/rofs/internal/tool/service/fs"
	"github.com/Cyclone1070/rofs/internal/tool/service/path"
)

// Toolbox is the entry surface for all four operations. The root is fixed at
// construction and every operation is confined to it. A Toolbox holds no
// per-call state and is safe for concurrent use.
type Toolbox struct {
	cfg     *config.Config
	logger  *zap.Logger
	scope   *path.Scope
	glob    *glob.Matcher
	search  *search.Searcher
	glancer *glance.Glancer
	viewer  *file.Viewer
}

// New canonicalises root and wires the tools around it. A nil cfg uses
// defaults and a nil logger discards output.
func New(root string, cfg *config.Config, logger *zap.Logger) (*Toolbox, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	osFS := fs.NewOSFileSystem()
	var opts []path.Option
	if cfg.Scope.AllowedBase != "" {
		opts = append(opts, path.WithAllowedBase(cfg.Scope.AllowedBase))
	}
	if len(cfg.Scope.BlockedFiles) > 0 {
		opts = append(opts, path.WithBlocked(cfg.Scope.BlockedFiles...))
	}
	scope, err := path.NewScope(root, opts...)
	if err != nil {
		return nil, err
	}

	matcher := glob.NewMatcher(scope, osFS)
	return &Toolbox{
		cfg:     cfg,
		logger:  logger,
		scope:   scope,
		glob:    matcher,
		search:  search.NewSearcher(matcher, osFS),
		glancer: glance.NewGlancer(scope, osFS),
		viewer:  file.NewViewer(scope, osFS),
	}, nil
}

// Root returns the canonical root directory.
func (t *Toolbox) Root() string {
	return t.scope.Root()
}

// Glob lists entries matching any of the glob patterns, one page at a time.
func (t *Toolbox) Glob(ctx context.Context, req GlobRequest) (resp *GlobResponse, err error) {
	c := t.begin("glob", zap.String("pattern", req.Pattern), zap.Strings("patterns", req.Patterns), zap.String("path", req.Path))
	var report *scanutil.Report
	defer func() { c.end(report, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(t.cfg); err != nil {
		return nil, err
	}

	opts := glob.Options{
		CaseSensitive:    !req.IgnoreCase,
		IncludeHidden:    req.IncludeHidden,
		MaxDepth:         -1,
		FollowSymlinks:   boolOr(req.FollowSymlinks, t.cfg.Tools.FollowSymlinks),
		RespectGitignore: boolOr(req.RespectGitignore, t.cfg.Tools.RespectGitignore),
	}
	if req.MaxDepth != nil {
		opts.MaxDepth = *req.MaxDepth
	}

	scan, err := t.glob.MatchAny(ctx, req.Patterns, req.Path, opts)
	if err != nil {
		return nil, err
	}
	entries, page := paginationutil.PageWithin(scan.Entries(), req.Offset, req.Limit, t.budget(),
		func(e scanutil.PathEntry) int { return len(e.Path) + 1 })
	report = scan.Report()

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	return &GlobResponse{
		Paths:   paths,
		Offset:  req.Offset,
		Limit:   req.Limit,
		Summary: summarize(report, page.Truncated),
	}, nil
}

// Grep searches file contents for a regular expression, one page at a time.
func (t *Toolbox) Grep(ctx context.Context, req GrepRequest) (resp *GrepResponse, err error) {
	c := t.begin("grep", zap.String("pattern", req.Pattern), zap.String("path", req.Path), zap.String("glob", req.Glob), zap.Strings("globs", req.Globs))
	var report *scanutil.Report
	defer func() { c.end(report, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(t.cfg); err != nil {
		return nil, err
	}

	scan, err := t.search.SearchAny(ctx, req.Pattern, req.Path, req.Globs, search.Options{
		CaseSensitive:     !req.IgnoreCase,
		MaxMatchesPerFile: *req.MaxMatchesPerFile,
		MaxFileSizeBytes:  t.cfg.Tools.MaxFileSize,
		ContextLines:      req.ContextLines,
		MaxLineLength:     t.cfg.Tools.MaxLineLength,
		IncludeHidden:     req.IncludeHidden,
		FollowSymlinks:    boolOr(req.FollowSymlinks, t.cfg.Tools.FollowSymlinks),
		RespectGitignore:  boolOr(req.RespectGitignore, t.cfg.Tools.RespectGitignore),
	})
	if err != nil {
		return nil, err
	}
	matches, page := paginationutil.PageWithin(scan.Matches(), req.Offset, req.Limit, t.budget(), matchCost)
	report = scan.Report()

	out := make([]GrepMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, GrepMatch{
			Path:      m.Path,
			Line:      m.Line,
			Offset:    m.Offset,
			Text:      m.Text,
			Truncated: m.Truncated,
			Before:    m.Before,
			After:     m.After,
		})
	}
	return &GrepResponse{
		Matches: out,
		Offset:  req.Offset,
		Limit:   req.Limit,
		Summary: summarize(report, page.Truncated),
	}, nil
}

// Glance builds a condensed tree of a directory.
func (t *Toolbox) Glance(ctx context.Context, req GlanceRequest) (resp *GlanceResponse, err error) {
	c := t.begin("glance", zap.String("path", req.Path))
	var report *scanutil.Report
	defer func() { c.end(report, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(t.cfg); err != nil {
		return nil, err
	}

	res, err := t.glancer.Glance(ctx, req.Path, glance.Options{
		MaxDepth:         *req.MaxDepth,
		IncludeHidden:    req.IncludeHidden,
		MaxEntriesPerDir: *req.MaxEntriesPerDir,
		FollowSymlinks:   boolOr(req.FollowSymlinks, t.cfg.Tools.FollowSymlinks),
		RespectGitignore: boolOr(req.RespectGitignore, t.cfg.Tools.RespectGitignore),
	})
	if err != nil {
		return nil, err
	}
	report = res.Report

	return &GlanceResponse{
		Tree:    res.Root,
		Text:    res.Text(),
		Stats:   res.Stats,
		Summary: summarize(report, false),
	}, nil
}

// View returns a window of lines from one text file.
func (t *Toolbox) View(ctx context.Context, req ViewRequest) (resp *ViewResponse, err error) {
	c := t.begin("view", zap.String("path", req.Path), zap.Int("line_offset", req.LineOffset), zap.Int("line_count", req.LineCount))
	var report *scanutil.Report
	defer func() { c.end(report, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(t.cfg); err != nil {
		return nil, err
	}

	res, err := t.viewer.View(ctx, req.Path, file.Options{
		LineOffset:    req.LineOffset,
		LineCount:     req.LineCount,
		MaxLineLength: t.cfg.Tools.MaxLineLength,
		IncludeHidden: t.cfg.Scope.AllowHidden,
	})
	if err != nil {
		return nil, err
	}
	report = &scanutil.Report{}

	lines, page := paginationutil.PageWithin(slices.Values(res.Lines), 0, 0, t.budget(),
		func(l string) int { return len(l) + 1 })
	resp = &ViewResponse{
		Path:           res.Path,
		LineOffset:     res.LineOffset,
		Lines:          lines,
		LinesTruncated: res.Truncated,
		Summary:        summarize(report, res.More || page.Truncated),
	}
	if len(lines) > 0 {
		resp.FirstLine = res.LineOffset + 1
		resp.LastLine = res.LineOffset + len(lines)
	}
	return resp, nil
}

// budget returns a fresh output budget for one response.
func (t *Toolbox) budget() *paginationutil.Budget {
	return &paginationutil.Budget{Limit: t.cfg.Tools.OutputLimit}
}

func matchCost(m search.Match) int {
	n := len(m.Path) + len(m.Text) + 1
	for _, l := range m.Before {
		n += len(l) + 1
	}
	for _, l := range m.After {
		n += len(l) + 1
	}
	return n
}

type call struct {
	logger *zap.Logger
	start  time.Time
}

func (t *Toolbox) begin(name string, fields ...zap.Field) *call {
	logger := t.logger.With(zap.String("tool", name), zap.String("call_id", uuid.NewString()))
	logger.Debug("tool call started", fields...)
	return &call{logger: logger, start: time.Now()}
}

func (c *call) end(report *scanutil.Report, err error) {
	elapsed := zap.Duration("duration", time.Since(c.start))
	if err != nil {
		c.logger.Debug("tool call failed", elapsed, zap.String("kind", string(errutil.KindOf(err))), zap.Error(err))
		return
	}

	for _, w := range report.Warnings {
		fields := []zap.Field{zap.String("path", w.Path), zap.String("kind", string(w.Kind)), zap.String("reason", w.Message)}
		if w.Kind.Recoverable() {
			c.logger.Warn("entry skipped", fields...)
		} else {
			c.logger.Debug("entry skipped", fields...)
		}
	}
	c.logger.Debug("tool call finished", elapsed,
		zap.String("status", string(report.Status())),
		zap.Int("warnings", len(report.Warnings)))
}
