// Where: internal/command/error_helpers.go
// What: Shared CLI error output.
// Why: Keep error formatting consistent across commands.
package command

import (
	"fmt"
	"io"

	"github.com/quantfeed/edgesync/internal/ui"
)

// exitWithError prints an error message to the output writer and returns
// exit code 1 for CLI error handling.
func exitWithError(out io.Writer, err error) int {
	ui.New(out).Warn(fmt.Sprintf("✗ %v", err))
	return 1
}
