package config

import (
	"fmt"
	"path/filepath"
)

// Validate checks config values for correctness.
// Returns an error listing every invalid value.
func (c *Config) Validate() error {
	var errs []string

	// Content
	if c.Tools.MaxFileSize < 1 {
		errs = append(errs, "tools.max_file_size must be >= 1")
	}
	if c.Tools.MaxLineLength < 1 {
		errs = append(errs, "tools.max_line_length must be >= 1")
	}
	if c.Tools.OutputLimit < 0 {
		errs = append(errs, "tools.output_limit must be >= 0")
	}

	// Limits
	if c.Tools.DefaultGlobLimit < 1 {
		errs = append(errs, "tools.default_glob_limit must be >= 1")
	}
	if c.Tools.MaxGlobLimit < 1 {
		errs = append(errs, "tools.max_glob_limit must be >= 1")
	}
	if c.Tools.DefaultGrepLimit < 1 {
		errs = append(errs, "tools.default_grep_limit must be >= 1")
	}
	if c.Tools.MaxGrepLimit < 1 {
		errs = append(errs, "tools.max_grep_limit must be >= 1")
	}
	if c.Tools.DefaultMaxMatchesPerFile < 0 {
		errs = append(errs, "tools.default_max_matches_per_file must be >= 0")
	}
	if c.Tools.MaxContextLines < 0 {
		errs = append(errs, "tools.max_context_lines must be >= 0")
	}
	if c.Tools.DefaultGlanceDepth < 0 {
		errs = append(errs, "tools.default_glance_depth must be >= 0")
	}
	if c.Tools.MaxGlanceDepth < -1 {
		errs = append(errs, "tools.max_glance_depth must be >= -1")
	}
	if c.Tools.DefaultMaxEntriesPerDir < 0 {
		errs = append(errs, "tools.default_max_entries_per_dir must be >= 0")
	}
	if c.Tools.DefaultViewLines < 1 {
		errs = append(errs, "tools.default_view_lines must be >= 1")
	}
	if c.Tools.MaxViewLines < 1 {
		errs = append(errs, "tools.max_view_lines must be >= 1")
	}

	// Semantic validation: Default <= Max constraints
	if c.Tools.DefaultGlobLimit > c.Tools.MaxGlobLimit {
		errs = append(errs, "tools.default_glob_limit must be <= tools.max_glob_limit")
	}
	if c.Tools.DefaultGrepLimit > c.Tools.MaxGrepLimit {
		errs = append(errs, "tools.default_grep_limit must be <= tools.max_grep_limit")
	}
	if c.Tools.MaxGlanceDepth >= 0 && c.Tools.DefaultGlanceDepth > c.Tools.MaxGlanceDepth {
		errs = append(errs, "tools.default_glance_depth must be <= tools.max_glance_depth")
	}
	if c.Tools.DefaultViewLines > c.Tools.MaxViewLines {
		errs = append(errs, "tools.default_view_lines must be <= tools.max_view_lines")
	}

	// Scope
	if c.Scope.AllowedBase != "" && !filepath.IsAbs(c.Scope.AllowedBase) {
		errs = append(errs, "scope.allowed_base must be an absolute path")
	}
	for _, p := range c.Scope.BlockedFiles {
		if p == "" {
			errs = append(errs, "scope.blocked_files must not contain empty patterns")
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
