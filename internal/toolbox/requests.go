package toolbox

import (
	"slices"

	"github.com/Cyclone1070/rofs/internal/config"
	"github.com/Cyclone1070/rofs/internal/tool/errutil"
)

// GlobRequest represents the parameters for a glob operation.
type GlobRequest struct {
	Pattern          string   `mapstructure:"pattern" json:"pattern,omitempty"`
	Patterns         []string `mapstructure:"patterns" json:"patterns,omitempty"`
	Path             string   `mapstructure:"path" json:"path,omitempty"`
	IgnoreCase       bool     `mapstructure:"ignore_case" json:"ignore_case,omitempty"`
	IncludeHidden    bool     `mapstructure:"include_hidden" json:"include_hidden,omitempty"`
	MaxDepth         *int     `mapstructure:"max_depth" json:"max_depth,omitempty"`
	FollowSymlinks   *bool    `mapstructure:"follow_symlinks" json:"follow_symlinks,omitempty"`
	RespectGitignore *bool    `mapstructure:"respect_gitignore" json:"respect_gitignore,omitempty"`
	Offset           int      `mapstructure:"offset" json:"offset,omitempty"`
	Limit            int      `mapstructure:"limit" json:"limit,omitempty"`
}

// Validate merges Pattern into Patterns, checks required fields and clamps
// the page to configured bounds.
func (r *GlobRequest) Validate(cfg *config.Config) error {
	r.Patterns = mergePatterns(r.Pattern, r.Patterns)
	if len(r.Patterns) == 0 {
		return &errutil.InvalidArgumentError{Field: "pattern", Reason: "is required"}
	}
	if err := checkHidden(r.IncludeHidden, cfg); err != nil {
		return err
	}
	return validatePage(&r.Offset, &r.Limit, cfg.Tools.DefaultGlobLimit, cfg.Tools.MaxGlobLimit)
}

// GrepRequest represents the parameters for a grep operation.
type GrepRequest struct {
	Pattern           string   `mapstructure:"pattern" json:"pattern"`
	Path              string   `mapstructure:"path" json:"path,omitempty"`
	Glob              string   `mapstructure:"glob" json:"glob,omitempty"`
	Globs             []string `mapstructure:"globs" json:"globs,omitempty"`
	IgnoreCase        bool     `mapstructure:"ignore_case" json:"ignore_case,omitempty"`
	MaxMatchesPerFile *int     `mapstructure:"max_matches_per_file" json:"max_matches_per_file,omitempty"`
	ContextLines      int      `mapstructure:"context_lines" json:"context_lines,omitempty"`
	IncludeHidden     bool     `mapstructure:"include_hidden" json:"include_hidden,omitempty"`
	FollowSymlinks    *bool    `mapstructure:"follow_symlinks" json:"follow_symlinks,omitempty"`
	RespectGitignore  *bool    `mapstructure:"respect_gitignore" json:"respect_gitignore,omitempty"`
	Offset            int      `mapstructure:"offset" json:"offset,omitempty"`
	Limit             int      `mapstructure:"limit" json:"limit,omitempty"`
}

// Validate checks required fields and clamps limits to configured bounds.
func (r *GrepRequest) Validate(cfg *config.Config) error {
	if r.Pattern == "" {
		return &errutil.InvalidArgumentError{Field: "pattern", Reason: "is required"}
	}
	if r.ContextLines < 0 {
		return &errutil.InvalidArgumentError{Field: "context_lines", Reason: "cannot be negative"}
	}
	if err := checkHidden(r.IncludeHidden, cfg); err != nil {
		return err
	}
	r.Globs = mergePatterns(r.Glob, r.Globs)
	r.ContextLines = min(r.ContextLines, cfg.Tools.MaxContextLines)
	if r.MaxMatchesPerFile == nil {
		n := cfg.Tools.DefaultMaxMatchesPerFile
		r.MaxMatchesPerFile = &n
	}
	return validatePage(&r.Offset, &r.Limit, cfg.Tools.DefaultGrepLimit, cfg.Tools.MaxGrepLimit)
}

// GlanceRequest represents the parameters for a glance operation.
type GlanceRequest struct {
	Path             string `mapstructure:"path" json:"path,omitempty"`
	MaxDepth         *int   `mapstructure:"max_depth" json:"max_depth,omitempty"`
	MaxEntriesPerDir *int   `mapstructure:"max_entries_per_dir" json:"max_entries_per_dir,omitempty"`
	IncludeHidden    bool   `mapstructure:"include_hidden" json:"include_hidden,omitempty"`
	FollowSymlinks   *bool  `mapstructure:"follow_symlinks" json:"follow_symlinks,omitempty"`
	RespectGitignore *bool  `mapstructure:"respect_gitignore" json:"respect_gitignore,omitempty"`
}

// Validate fills defaults and caps the depth at the configured maximum.
// A negative depth asks for the deepest tree allowed: unbounded when the
// configured maximum is -1, the maximum otherwise.
func (r *GlanceRequest) Validate(cfg *config.Config) error {
	depth := cfg.Tools.DefaultGlanceDepth
	if r.MaxDepth != nil {
		depth = *r.MaxDepth
	}
	if limit := cfg.Tools.MaxGlanceDepth; limit >= 0 && (depth < 0 || depth > limit) {
		depth = limit
	} else if depth < 0 {
		depth = -1
	}
	r.MaxDepth = &depth
	if err := checkHidden(r.IncludeHidden, cfg); err != nil {
		return err
	}

	if r.MaxEntriesPerDir == nil {
		n := cfg.Tools.DefaultMaxEntriesPerDir
		r.MaxEntriesPerDir = &n
	}
	if *r.MaxEntriesPerDir < 0 {
		return &errutil.InvalidArgumentError{Field: "max_entries_per_dir", Reason: "cannot be negative"}
	}
	return nil
}

// ViewRequest represents the parameters for a view operation.
type ViewRequest struct {
	Path       string `mapstructure:"path" json:"path"`
	LineOffset int    `mapstructure:"line_offset" json:"line_offset,omitempty"`
	LineCount  int    `mapstructure:"line_count" json:"line_count,omitempty"`
}

// Validate checks required fields and clamps the window to configured bounds.
func (r *ViewRequest) Validate(cfg *config.Config) error {
	if r.Path == "" {
		return &errutil.InvalidArgumentError{Field: "path", Reason: "is required"}
	}
	if r.LineOffset < 0 {
		return &errutil.InvalidArgumentError{Field: "line_offset", Reason: "cannot be negative"}
	}
	if r.LineCount <= 0 {
		r.LineCount = cfg.Tools.DefaultViewLines
	}
	r.LineCount = min(r.LineCount, cfg.Tools.MaxViewLines)
	return nil
}

// mergePatterns puts single ahead of many and drops empty and repeated entries.
func mergePatterns(single string, many []string) []string {
	var out []string
	for _, p := range append([]string{single}, many...) {
		if p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func checkHidden(include bool, cfg *config.Config) error {
	if include && !cfg.Scope.AllowHidden {
		return &errutil.InvalidArgumentError{Field: "include_hidden", Reason: "hidden files are not allowed under this root"}
	}
	return nil
}

func validatePage(offset, limit *int, defaultLimit, maxLimit int) error {
	if *offset < 0 {
		return &errutil.InvalidArgumentError{Field: "offset", Reason: "cannot be negative"}
	}
	if *limit <= 0 {
		*limit = defaultLimit
	}
	*limit = min(*limit, maxLimit)
	return nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
