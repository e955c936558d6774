// Where: internal/config/config.go
// What: Sync configuration load and resolution.
// Why: Resolve all settings once at startup into one immutable value.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/quantfeed/edgesync/internal/constants"
	"github.com/quantfeed/edgesync/internal/envutil"
	"github.com/quantfeed/edgesync/internal/errs"
	"github.com/quantfeed/edgesync/internal/meta"
	"gopkg.in/yaml.v3"
)

// EndpointSpec names one upstream resource to sync. Read-only at run
// time; Name doubles as the module identifier source.
type EndpointSpec struct {
	Name       string `yaml:"name"`
	SourcePath string `yaml:"source_path"`
	OutputFile string `yaml:"output_file,omitempty"`
}

// APIConfig holds upstream API coordinates. The token never comes from
// the file; it is injected from the environment during resolution.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"-"`
}

// CDNConfig holds the CDN write target. Token is environment-only.
type CDNConfig struct {
	AccountID    string `yaml:"account_id"`
	NamespaceID  string `yaml:"namespace_id"`
	PublicDomain string `yaml:"public_domain"`
	APIEndpoint  string `yaml:"api_endpoint,omitempty"`
	Token        string `yaml:"-"`
}

// MirrorConfig holds the optional S3 archive target. An empty bucket
// disables mirroring.
type MirrorConfig struct {
	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Config is the fully resolved sync configuration.
type Config struct {
	Version   int            `yaml:"version"`
	Env       string         `yaml:"-"`
	API       APIConfig      `yaml:"api"`
	CDN       CDNConfig      `yaml:"cdn"`
	Mirror    MirrorConfig   `yaml:"mirror,omitempty"`
	OutputDir string         `yaml:"output_dir,omitempty"`
	Endpoints []EndpointSpec `yaml:"endpoints"`
}

// ConfigPath returns the sync config file path. Respects the
// EDGESYNC_CONFIG_PATH override and falls back to edgesync.yaml in the
// working directory.
func ConfigPath() string {
	if override := strings.TrimSpace(envutil.GetHostEnv(constants.HostSuffixConfigPath)); override != "" {
		if !filepath.IsAbs(override) {
			if abs, err := filepath.Abs(override); err == nil {
				return abs
			}
		}
		return override
	}
	return meta.Slug + ".yaml"
}

// Load reads and resolves the configuration at path. Secrets and
// per-environment overrides come from prefixed host env variables, so
// components never read ambient environment state themselves.
func Load(path, env string) (Config, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errs.Wrap(errs.KindConfiguration, err, "read config file %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return Config{}, errs.Wrap(errs.KindConfiguration, err, "parse config file %s", path)
	}

	cfg.Env = env
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.API.Token = envutil.GetHostEnv(constants.HostSuffixAPIToken)
	cfg.CDN.Token = envutil.GetHostEnv(constants.HostSuffixCDNToken)

	setIfPresent(&cfg.API.BaseURL, constants.HostSuffixAPIBaseURL)
	setIfPresent(&cfg.CDN.AccountID, constants.HostSuffixCDNAccount)
	setIfPresent(&cfg.CDN.NamespaceID, constants.HostSuffixCDNNamespace)
	setIfPresent(&cfg.CDN.PublicDomain, constants.HostSuffixCDNDomain)
	setIfPresent(&cfg.CDN.APIEndpoint, constants.HostSuffixCDNEndpoint)
	setIfPresent(&cfg.Mirror.Bucket, constants.HostSuffixMirrorBucket)
	setIfPresent(&cfg.Mirror.Endpoint, constants.HostSuffixMirrorEndpoint)
}

func setIfPresent(field *string, suffix string) {
	if value := strings.TrimSpace(envutil.GetHostEnv(suffix)); value != "" {
		*field = value
	}
}

func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = meta.OutputDir
	}
	for i := range cfg.Endpoints {
		if cfg.Endpoints[i].OutputFile == "" {
			cfg.Endpoints[i].OutputFile = cfg.Endpoints[i].Name + ".js"
		}
	}
}

// Validate checks that everything a full run needs is present. It fails
// before any network I/O so a bad environment never produces a partial
// deploy.
func (c Config) Validate() error {
	switch {
	case c.API.BaseURL == "":
		return errs.New(errs.KindConfiguration, "api.base_url is not set")
	case c.API.Token == "":
		return errs.New(errs.KindConfiguration, "%s is not set", envutil.HostEnvKey(constants.HostSuffixAPIToken))
	case c.CDN.Token == "":
		return errs.New(errs.KindConfiguration, "%s is not set", envutil.HostEnvKey(constants.HostSuffixCDNToken))
	case c.CDN.AccountID == "":
		return errs.New(errs.KindConfiguration, "cdn.account_id is not set")
	case c.CDN.NamespaceID == "":
		return errs.New(errs.KindConfiguration, "cdn.namespace_id is not set")
	case c.CDN.PublicDomain == "":
		return errs.New(errs.KindConfiguration, "cdn.public_domain is not set")
	case len(c.Endpoints) == 0:
		return errs.New(errs.KindConfiguration, "no endpoints configured")
	}
	for _, endpoint := range c.Endpoints {
		if endpoint.Name == "" {
			return errs.New(errs.KindConfiguration, "endpoint with empty name")
		}
		if endpoint.SourcePath == "" {
			return errs.New(errs.KindConfiguration, "endpoint %s has no source_path", endpoint.Name)
		}
	}
	return nil
}
