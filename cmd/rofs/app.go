package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Cyclone1070/rofs/internal/config"
	"github.com/Cyclone1070/rofs/internal/toolbox"
)

// App is the rofs command-line application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer

	rootDir    string
	configPath string
	verbose    bool

	logger   *zap.Logger
	tools    *toolbox.Toolbox
	registry *toolbox.Registry
}

// NewApp creates the CLI with all subcommands attached.
func NewApp() *App {
	a := &App{stdout: os.Stdout, stderr: os.Stderr}

	a.root = &cobra.Command{
		Use:   "rofs",
		Short: "Read-only filesystem inspection tools",
		Long: `rofs exposes glob, grep, glance and view over a single root directory.
No operation can write, and no path can leave the root.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := a.root.PersistentFlags()
	flags.StringVarP(&a.rootDir, "root", "r", ".", "Root directory all operations are confined to")
	flags.StringVarP(&a.configPath, "config", "c", "", "Configuration file (default ~/.config/rofs/config.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log every call to stderr")

	a.root.AddCommand(
		a.newGlobCmd(),
		a.newGrepCmd(),
		a.newGlanceCmd(),
		a.newViewCmd(),
		a.newToolsCmd(),
		a.newInvokeCmd(),
	)
	return a
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the running scan.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) setup() error {
	loader := config.NewLoader()
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = loader.LoadFile(a.configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a.logger, err = newLogger(a.stderr, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.tools, err = toolbox.New(a.rootDir, cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to open root %s: %w", a.rootDir, err)
	}
	a.registry = toolbox.NewRegistry(a.tools)
	return nil
}

// newLogger writes JSON logs to w: warnings only, or everything when verbose.
func newLogger(w io.Writer, verbose bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(w), level)
	return zap.New(core), nil
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
