package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Tools ToolsConfig `yaml:"tools"`
	Scope ScopeConfig `yaml:"scope"`
}

type ToolsConfig struct {
	// Content
	MaxFileSize   int64 `yaml:"max_file_size"`   // Default: 5 * 1024 * 1024 (5MB)
	MaxLineLength int   `yaml:"max_line_length"` // Default: 2000
	OutputLimit   int   `yaml:"output_limit"`    // Default: 10000 characters per response; 0 disables

	// Glob
	DefaultGlobLimit int `yaml:"default_glob_limit"` // Default: 200
	MaxGlobLimit     int `yaml:"max_glob_limit"`     // Default: 2000

	// Grep
	DefaultGrepLimit         int `yaml:"default_grep_limit"`           // Default: 100
	MaxGrepLimit             int `yaml:"max_grep_limit"`               // Default: 1000
	DefaultMaxMatchesPerFile int `yaml:"default_max_matches_per_file"` // Default: 0 (unbounded)
	MaxContextLines          int `yaml:"max_context_lines"`            // Default: 10

	// Glance
	DefaultGlanceDepth      int `yaml:"default_glance_depth"`        // Default: 3
	MaxGlanceDepth          int `yaml:"max_glance_depth"`            // Default: 20; -1 allows unbounded requests
	DefaultMaxEntriesPerDir int `yaml:"default_max_entries_per_dir"` // Default: 50

	// View
	DefaultViewLines int `yaml:"default_view_lines"` // Default: 100
	MaxViewLines     int `yaml:"max_view_lines"`     // Default: 2000

	// Traversal
	FollowSymlinks   bool `yaml:"follow_symlinks"`   // Default: false
	RespectGitignore bool `yaml:"respect_gitignore"` // Default: true
}

type ScopeConfig struct {
	// AllowedBase, when set, is the directory every root must lie within.
	AllowedBase string `yaml:"allowed_base"`

	// BlockedFiles are doublestar patterns, relative to the root, for paths
	// that no tool may list, search or read.
	BlockedFiles []string `yaml:"blocked_files"`

	// AllowHidden permits include_hidden and viewing dot-files. Default: true.
	AllowHidden bool `yaml:"allow_hidden"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			MaxFileSize:             5 * 1024 * 1024,
			MaxLineLength:           2000,
			OutputLimit:             10000,
			DefaultGlobLimit:        200,
			MaxGlobLimit:            2000,
			DefaultGrepLimit:        100,
			MaxGrepLimit:            1000,
			MaxContextLines:         10,
			DefaultGlanceDepth:      3,
			MaxGlanceDepth:          20,
			DefaultMaxEntriesPerDir: 50,
			DefaultViewLines:        100,
			MaxViewLines:            2000,
			RespectGitignore:        true,
		},
		Scope: ScopeConfig{
			AllowHidden: true,
		},
	}
}
