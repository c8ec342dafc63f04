package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Cyclone1070/rofs/internal/toolbox"
)

// traversalFlags are shared by every subcommand that walks directories.
type traversalFlags struct {
	path          string
	includeHidden bool
	follow        bool
	noGitignore   bool
}

func (f *traversalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "path", "p", "", "Directory inside the root to start from")
	cmd.Flags().BoolVarP(&f.includeHidden, "hidden", "H", false, "Include dot files and directories")
	cmd.Flags().BoolVarP(&f.follow, "follow", "L", false, "Follow symlinks that stay inside the root")
	cmd.Flags().BoolVar(&f.noGitignore, "no-gitignore", false, "Do not skip paths excluded by .gitignore")
}

// followOverride returns nil unless --follow was given, leaving the configured default.
func (f *traversalFlags) followOverride(cmd *cobra.Command) *bool {
	if !cmd.Flags().Changed("follow") {
		return nil
	}
	return &f.follow
}

func (f *traversalFlags) gitignoreOverride(cmd *cobra.Command) *bool {
	if !cmd.Flags().Changed("no-gitignore") {
		return nil
	}
	respect := !f.noGitignore
	return &respect
}

func (a *App) newGlobCmd() *cobra.Command {
	var (
		tf         traversalFlags
		ignoreCase bool
		maxDepth   int
		offset     int
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "glob PATTERN...",
		Short: "List paths matching any of the glob patterns",
		Example: `  rofs glob '**/*.go'
  rofs glob '**/*.md' 'docs/*'
  rofs --root ~/src/app glob 'cmd/*' --limit 20`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := toolbox.GlobRequest{
				Patterns:         args,
				Path:             tf.path,
				IgnoreCase:       ignoreCase,
				IncludeHidden:    tf.includeHidden,
				FollowSymlinks:   tf.followOverride(cmd),
				RespectGitignore: tf.gitignoreOverride(cmd),
				Offset:           offset,
				Limit:            limit,
			}
			if cmd.Flags().Changed("max-depth") {
				req.MaxDepth = &maxDepth
			}
			resp, err := a.tools.Glob(cmd.Context(), req)
			if err != nil {
				return a.fail(err)
			}
			return a.printJSON(resp)
		},
	}

	tf.register(cmd)
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Match case-insensitively")
	cmd.Flags().IntVarP(&maxDepth, "max-depth", "d", -1, "Maximum depth; direct children are depth 1")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of results to skip")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum results (default from config)")
	return cmd
}

func (a *App) newGrepCmd() *cobra.Command {
	var (
		tf           traversalFlags
		globFilters  []string
		ignoreCase   bool
		maxPerFile   int
		contextLines int
		offset       int
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "grep REGEX",
		Short: "Search file contents with a regular expression",
		Example: `  rofs grep 'func \w+Handler' --glob '**/*.go'
  rofs grep -i todo -C 2 -g '*.md' -g '*.txt'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := toolbox.GrepRequest{
				Pattern:          args[0],
				Path:             tf.path,
				Globs:            globFilters,
				IgnoreCase:       ignoreCase,
				ContextLines:     contextLines,
				IncludeHidden:    tf.includeHidden,
				FollowSymlinks:   tf.followOverride(cmd),
				RespectGitignore: tf.gitignoreOverride(cmd),
				Offset:           offset,
				Limit:            limit,
			}
			if cmd.Flags().Changed("max-per-file") {
				req.MaxMatchesPerFile = &maxPerFile
			}
			resp, err := a.tools.Grep(cmd.Context(), req)
			if err != nil {
				return a.fail(err)
			}
			return a.printJSON(resp)
		},
	}

	tf.register(cmd)
	cmd.Flags().StringArrayVarP(&globFilters, "glob", "g", nil, "Only search files matching this glob (repeatable)")
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Match case-insensitively")
	cmd.Flags().IntVarP(&maxPerFile, "max-per-file", "m", 0, "Stop after this many matches per file (0 = unbounded)")
	cmd.Flags().IntVarP(&contextLines, "context", "C", 0, "Lines of context around each match")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of results to skip")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum results (default from config)")
	return cmd
}

func (a *App) newGlanceCmd() *cobra.Command {
	var (
		tf         traversalFlags
		depth      int
		maxEntries int
		text       bool
	)

	cmd := &cobra.Command{
		Use:   "glance",
		Short: "Show a condensed directory tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := toolbox.GlanceRequest{
				Path:             tf.path,
				IncludeHidden:    tf.includeHidden,
				FollowSymlinks:   tf.followOverride(cmd),
				RespectGitignore: tf.gitignoreOverride(cmd),
			}
			if cmd.Flags().Changed("depth") {
				req.MaxDepth = &depth
			}
			if cmd.Flags().Changed("max-entries") {
				req.MaxEntriesPerDir = &maxEntries
			}
			resp, err := a.tools.Glance(cmd.Context(), req)
			if err != nil {
				return a.fail(err)
			}
			if text {
				_, err := fmt.Fprintln(a.stdout, resp.Text)
				return err
			}
			return a.printJSON(resp)
		},
	}

	tf.register(cmd)
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "Tree depth (default from config, 0 = root only)")
	cmd.Flags().IntVar(&maxEntries, "max-entries", 0, "Maximum children per directory (0 = unbounded)")
	cmd.Flags().BoolVar(&text, "text", false, "Print the tree as text instead of JSON")
	return cmd
}

func (a *App) newViewCmd() *cobra.Command {
	var (
		offset int
		lines  int
	)

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Print a window of lines from a text file",
		Example: `  rofs view go.mod
  rofs view internal/app.go --offset 100 --lines 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.tools.View(cmd.Context(), toolbox.ViewRequest{
				Path:       args[0],
				LineOffset: offset,
				LineCount:  lines,
			})
			if err != nil {
				return a.fail(err)
			}
			return a.printJSON(resp)
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Number of lines to skip (0-based)")
	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Number of lines to print (default from config)")
	return cmd
}

func (a *App) newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool declarations as JSON schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printJSON(a.registry.Declarations())
		},
	}
}

func (a *App) newInvokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invoke TOOL [ARGS_JSON]",
		Short: "Run a tool the way a host would, with JSON arguments",
		Long: `Run a registered tool with a JSON object of arguments, read from the
second argument or from stdin when it is omitted. Failures are printed as
{"kind": ..., "message": ...}.`,
		Example: `  rofs invoke grep '{"pattern": "TODO", "glob": "**/*.go"}'
  echo '{"max_depth": 1}' | rofs invoke glance`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			if len(args) == 2 {
				raw = []byte(args[1])
			} else {
				var err error
				raw, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read arguments: %w", err)
				}
			}

			toolArgs := map[string]any{}
			if strings.TrimSpace(string(raw)) != "" {
				if err := json.Unmarshal(raw, &toolArgs); err != nil {
					return fmt.Errorf("arguments must be a JSON object: %w", err)
				}
			}

			resp, err := a.registry.Invoke(cmd.Context(), args[0], toolArgs)
			if err != nil {
				return a.fail(err)
			}
			return a.printJSON(resp)
		},
	}
}

// errReported marks a failure that has already been printed.
var errReported = errors.New("tool call failed")

// fail prints err as a structured failure and returns errReported.
func (a *App) fail(err error) error {
	if perr := a.printJSON(toolbox.NewFailure(err)); perr != nil {
		return perr
	}
	return errReported
}
