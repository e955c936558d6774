// Where: internal/constants/env.go
// What: Environment variable naming constants.
// Why: Centralize environment variable names to avoid typos and inconsistencies.
package constants

const (
	// Host env suffixes resolved through envutil (EDGESYNC_ prefix).
	HostSuffixEnv        = "ENV"
	HostSuffixConfigPath = "CONFIG_PATH"
	HostSuffixAPIToken   = "API_TOKEN"
	HostSuffixAPIBaseURL = "API_BASE_URL"

	// CDN target coordinates.
	HostSuffixCDNToken     = "CDN_API_TOKEN"
	HostSuffixCDNAccount   = "CDN_ACCOUNT_ID"
	HostSuffixCDNNamespace = "CDN_NAMESPACE_ID"
	HostSuffixCDNDomain    = "CDN_PUBLIC_DOMAIN"
	HostSuffixCDNEndpoint  = "CDN_API_ENDPOINT"

	// Optional S3 archive mirror.
	HostSuffixMirrorBucket   = "MIRROR_BUCKET"
	HostSuffixMirrorEndpoint = "MIRROR_ENDPOINT"

	// Mirror credentials (raw names, matching the AWS SDK convention).
	EnvMirrorAccessKey = "MIRROR_ACCESS_KEY"
	EnvMirrorSecretKey = "MIRROR_SECRET_KEY"
)
