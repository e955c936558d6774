// Where: cmd/edgesync/main.go
// What: CLI entrypoint.
// Why: Execute sync commands with configured dependencies.
package main

import (
	"os"

	"github.com/quantfeed/edgesync/internal/command"
)

func main() {
	os.Exit(command.Run(os.Args[1:], buildDependencies()))
}
