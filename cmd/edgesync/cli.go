// Where: cmd/edgesync/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"os"

	"github.com/quantfeed/edgesync/internal/command"
)

// buildDependencies constructs the runtime dependencies required by the
// CLI. The sync constructors are left nil so the command falls back to
// the production fetcher, publisher, and mirror factories.
func buildDependencies() command.Dependencies {
	return command.Dependencies{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}
