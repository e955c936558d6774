// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/quantfeed/edgesync/internal/config"
	"github.com/quantfeed/edgesync/internal/meta"
	"github.com/quantfeed/edgesync/internal/pipeline"
	"github.com/quantfeed/edgesync/internal/publisher"
	"github.com/quantfeed/edgesync/internal/ui"
	"github.com/quantfeed/edgesync/internal/version"
)

// Dependencies holds all injected dependencies required for CLI command
// execution. Constructors are swappable so tests can run the sync
// command against fakes.
type Dependencies struct {
	Out    io.Writer
	ErrOut io.Writer
	Sync   SyncDeps
}

// SyncDeps wires the sync command to its collaborators.
type SyncDeps struct {
	LoadConfig   func(path, env string) (config.Config, error)
	NewFetcher   func(cfg config.Config, console *ui.Console) pipeline.Fetcher
	NewPublisher func(cfg config.Config, console *ui.Console) pipeline.Publisher
	NewMirror    func(ctx context.Context, cfg config.Config) (publisher.S3API, error)
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Config  string     `short:"c" help:"Path to config file (default: edgesync.yaml)"`
	EnvFlag string     `short:"e" name:"env" default:"development" help:"Target environment (development/production)"`
	EnvFile string     `name:"env-file" help:"Path to .env file"`
	Sync    SyncCmd    `cmd:"" help:"Fetch configured endpoints and publish generated modules"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

type (
	// SyncCmd defines the sync command flags.
	SyncCmd struct {
		Output   string `short:"o" help:"Output directory for generated modules"`
		Force    bool   `help:"Skip pre-flight configuration validation"`
		NoVerify bool   `name:"no-verify" help:"Skip public readability checks after publish"`
		NoRetry  bool   `name:"no-retry" help:"Fail immediately on transient errors"`
	}

	VersionCmd struct{}
)

// Run is the main entry point for CLI command execution. It parses the
// arguments and dispatches to the requested command handler. Returns 0
// on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	console := ui.New(out)

	if len(args) == 0 {
		return runNoArgs(out)
	}

	cli := CLI{}
	parser, err := kong.New(&cli)
	if err != nil {
		return exitWithError(out, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return exitWithError(out, err)
	}

	// Load environment file if provided, or .env from the working
	// directory when present.
	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			console.Warn(fmt.Sprintf("failed to load env file %s: %v", cli.EnvFile, err))
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			console.Warn(fmt.Sprintf("failed to load .env: %v", err))
		}
	}

	switch ctx.Command() {
	case "sync":
		return runSync(cli, deps, out)
	case "version":
		return runVersion(out)
	}

	console.Warn("unknown command")
	return 1
}

// runVersion prints the version information of the CLI.
func runVersion(out io.Writer) int {
	ui.New(out).Info(version.GetVersion())
	return 0
}

// runNoArgs handles invocation without arguments: print usage.
func runNoArgs(out io.Writer) int {
	console := ui.New(out)
	console.Info("Usage:")
	console.Info(fmt.Sprintf("  %s sync --env <development|production> [flags]", meta.AppName))
	console.Info("")
	console.Info(fmt.Sprintf("Try: %s sync --help", meta.AppName))
	return 0
}
