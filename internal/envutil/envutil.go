// Package envutil provides helper functions for environment variable handling.
package envutil

import (
	"os"
	"strings"

	"github.com/quantfeed/edgesync/internal/meta"
)

// HostEnvKey constructs a host-level environment variable name
// by combining the brand prefix with the given suffix.
// Example: HostEnvKey("API_TOKEN") returns "EDGESYNC_API_TOKEN"
func HostEnvKey(suffix string) string {
	prefix := strings.TrimSpace(os.Getenv("ENV_PREFIX"))
	if prefix == "" {
		prefix = meta.EnvPrefix
	}
	return prefix + "_" + suffix
}

// GetHostEnv retrieves a host-level environment variable.
// Example: GetHostEnv("API_TOKEN") returns the value of EDGESYNC_API_TOKEN
func GetHostEnv(suffix string) string {
	return os.Getenv(HostEnvKey(suffix))
}

// SetHostEnv sets a host-level environment variable.
func SetHostEnv(suffix, value string) {
	_ = os.Setenv(HostEnvKey(suffix), value)
}
