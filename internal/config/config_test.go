// Where: internal/config/config_test.go
// What: Tests for config loading and validation.
// Why: A bad environment must fail before any network I/O.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quantfeed/edgesync/internal/errs"
)

const sampleConfig = `version: 1
api:
  base_url: https://api.example.com
cdn:
  account_id: acc1
  namespace_id: ns1
  public_domain: cdn.example.com
endpoints:
  - name: trading-instruments
    source_path: /v1/instruments
  - name: account-specs
    source_path: /v1/accounts
    output_file: accounts.js
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edgesync.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadResolvesSecretsAndDefaults(t *testing.T) {
	t.Setenv("EDGESYNC_API_TOKEN", "api-secret")
	t.Setenv("EDGESYNC_CDN_API_TOKEN", "cdn-secret")

	cfg, err := Load(writeConfig(t, sampleConfig), "production")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.API.Token != "api-secret" {
		t.Fatalf("API token not resolved from environment")
	}
	if cfg.CDN.Token != "cdn-secret" {
		t.Fatalf("CDN token not resolved from environment")
	}
	if cfg.Env != "production" {
		t.Fatalf("environment not recorded: %q", cfg.Env)
	}
	if cfg.OutputDir != "generated" {
		t.Fatalf("default output dir not applied: %q", cfg.OutputDir)
	}
	if cfg.Endpoints[0].OutputFile != "trading-instruments.js" {
		t.Fatalf("default output file not derived: %q", cfg.Endpoints[0].OutputFile)
	}
	if cfg.Endpoints[1].OutputFile != "accounts.js" {
		t.Fatalf("explicit output file overridden: %q", cfg.Endpoints[1].OutputFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadEnvOverridesWinOverFile(t *testing.T) {
	t.Setenv("EDGESYNC_API_TOKEN", "x")
	t.Setenv("EDGESYNC_CDN_API_TOKEN", "x")
	t.Setenv("EDGESYNC_CDN_NAMESPACE_ID", "ns-override")

	cfg, err := Load(writeConfig(t, sampleConfig), "development")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CDN.NamespaceID != "ns-override" {
		t.Fatalf("env override lost: %q", cfg.CDN.NamespaceID)
	}
}

func TestValidateRequiresTokens(t *testing.T) {
	t.Setenv("EDGESYNC_API_TOKEN", "")
	t.Setenv("EDGESYNC_CDN_API_TOKEN", "")

	cfg, err := Load(writeConfig(t, sampleConfig), "development")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	err = cfg.Validate()
	if !errs.IsKind(err, errs.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestConfigPathHonorsOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "custom", "edgesync.yaml")
	t.Setenv("EDGESYNC_CONFIG_PATH", override)

	if got := ConfigPath(); got != override {
		t.Fatalf("unexpected config path: %s", got)
	}
}

func TestValidateDocumentAcceptsSample(t *testing.T) {
	if err := ValidateDocument([]byte(sampleConfig)); err != nil {
		t.Fatalf("sample config rejected: %v", err)
	}
}

func TestValidateDocumentRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no endpoints", "version: 1\napi:\n  base_url: https://api.example.com\nendpoints: []\n"},
		{"bad endpoint name", "version: 1\napi:\n  base_url: https://api.example.com\nendpoints:\n  - name: \"bad name!\"\n    source_path: /x\n"},
		{"relative source path", "version: 1\napi:\n  base_url: https://api.example.com\nendpoints:\n  - name: ok\n    source_path: no-slash\n"},
		{"missing api", "version: 1\nendpoints:\n  - name: ok\n    source_path: /x\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDocument([]byte(tc.content))
			if !errs.IsKind(err, errs.KindConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}
