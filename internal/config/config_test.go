// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// chdir switches into dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "sdk", cfg.Output)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Empty(t, cfg.SDK.PackageName)
	assert.Equal(t, "1.0.0", cfg.SDK.Version)
	assert.Equal(t, "MIT", cfg.SDK.License)
	assert.True(t, cfg.SDK.EnableRetryLogic)
	assert.False(t, cfg.SDK.IncludeTests)
	assert.Equal(t, BackendHTTP, cfg.Gateway.Backend)
	assert.Equal(t, DefaultAPIKeyEnv, cfg.Gateway.APIKeyEnv)
	assert.Equal(t, 3, cfg.Gateway.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Gateway.BaseDelay)
	assert.Equal(t, 10*time.Second, cfg.Gateway.MaxDelay)
	assert.InDelta(t, 2.0, cfg.Gateway.CostMultiplier, 1e-9)
	assert.True(t, cfg.Generation.UsageExamples)
	assert.Contains(t, cfg.Source.Include, "**/*.md")
	assert.Equal(t, 500, cfg.Watch.Debounce)
}

func TestLoad_NoConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
output: out/sdk
format: json
sdk:
  packageName: "@acme/users"
  version: "2.0.0"
  license: Apache-2.0
  includeTests: true
  retry:
    maxRetries: 5
    retryableStatusCodes: [429, 503]
gateway:
  backend: offline
  timeout: 30s
  baseDelay: 500ms
  maxDelay: 4s
generation:
  concurrency: 4
  archive: true
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "docs2sdk.yaml"), []byte(configContent), 0644))
	chdir(t, tmpDir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "out/sdk", cfg.Output)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "@acme/users", cfg.SDK.PackageName)
	assert.Equal(t, "2.0.0", cfg.SDK.Version)
	assert.Equal(t, "Apache-2.0", cfg.SDK.License)
	assert.True(t, cfg.SDK.IncludeTests)
	assert.True(t, cfg.SDK.EnableRateLimiting, "unset keys keep their defaults")
	assert.Equal(t, 5, cfg.SDK.Retry.MaxRetries)
	assert.Equal(t, []int{429, 503}, cfg.SDK.Retry.RetryableStatusCodes)
	assert.Equal(t, BackendOffline, cfg.Gateway.Backend)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Gateway.BaseDelay)
	assert.Equal(t, 4*time.Second, cfg.Gateway.MaxDelay)
	assert.Equal(t, 3, cfg.Gateway.MaxAttempts)
	assert.Equal(t, 4, cfg.Generation.Concurrency)
	assert.True(t, cfg.Generation.Archive)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_JSONConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `{
  "output": "generated",
  "gateway": {"backend": "offline", "model": "local"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "docs2sdk.json"), []byte(configContent), 0644))
	chdir(t, tmpDir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "generated", cfg.Output)
	assert.Equal(t, "local", cfg.Gateway.Model)
	assert.Equal(t, "yaml", cfg.Format)
}

func TestLoad_DotPrefixedConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".docs2sdk.yaml"), []byte("output: hidden\n"), 0644))
	chdir(t, tmpDir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "hidden", cfg.Output)
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom-config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("output: custom\n"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Output)
}

func TestLoad_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("output: [\n"), 0644))

	_, err := Load(configPath)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_ConfigFilePriority(t *testing.T) {
	tmpDir := t.TempDir()

	// docs2sdk.yaml wins over .docs2sdk.yaml
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "docs2sdk.yaml"), []byte("output: first\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".docs2sdk.yaml"), []byte("output: second\n"), 0644))
	chdir(t, tmpDir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "first", cfg.Output)
	assert.Equal(t, "docs2sdk.yaml", ConfigFilePath())
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "docs2sdk.yaml"), []byte("output: from-dir\n"), 0644))

	cfg, err := LoadFromPath(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "from-dir", cfg.Output)
}

func TestLoadFromPath_NoConfig(t *testing.T) {
	cfg, err := LoadFromPath(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_SingleField(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		field  string
	}{
		{"format", func(c *Config) { c.Format = "xml" }, "format"},
		{"backend", func(c *Config) { c.Gateway.Backend = "carrier-pigeon" }, "gateway.backend"},
		{"timeout", func(c *Config) { c.Gateway.Timeout = 0 }, "gateway.timeout"},
		{"attempts", func(c *Config) { c.Gateway.MaxAttempts = 0 }, "gateway.maxAttempts"},
		{"max delay", func(c *Config) { c.Gateway.MaxDelay = time.Second }, "gateway.maxDelay"},
		{"cost multiplier", func(c *Config) { c.Gateway.CostMultiplier = 0 }, "gateway.costMultiplier"},
		{"concurrency", func(c *Config) { c.Generation.Concurrency = -1 }, "generation.concurrency"},
		{"debounce", func(c *Config) { c.Watch.Debounce = -1 }, "watch.debounce"},
		{"license", func(c *Config) { c.SDK.License = "GPL" }, "sdk.license"},
		{"sdk retries", func(c *Config) { c.SDK.Retry.MaxRetries = 11 }, "sdk.retry_config.max_retries"},
		{"sdk rate", func(c *Config) { c.SDK.RateLimit.RequestsPerSecond = 0 }, "sdk.rate_limit_config.requests_per_second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()

			var valErrs ValidationErrors
			require.ErrorAs(t, err, &valErrs)
			require.Len(t, valErrs, 1)
			assert.Equal(t, tt.field, valErrs[0].Field)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Format = "xml"
	cfg.Gateway.Backend = ""
	cfg.Watch.Debounce = -1

	err := cfg.Validate()

	var valErrs ValidationErrors
	require.ErrorAs(t, err, &valErrs)
	assert.Len(t, valErrs, 3)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "format", Message: "bad"}
	assert.Equal(t, "config validation error: format: bad", err.Error())
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "format", Message: "bad"},
		{Field: "watch.debounce", Message: "negative"},
	}
	assert.Equal(t, "config validation errors:\n  - format: bad\n  - watch.debounce: negative\n", errs.Error())
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
	assert.Equal(t, "config validation error: format: bad", errs[:1].Error())
}

func TestConfig_SDKConfig(t *testing.T) {
	cfg := Default()

	sdk := cfg.SDKConfig("Users API")
	assert.Equal(t, "users-api-sdk", sdk.PackageName)
	assert.Equal(t, types.LicenseMIT, sdk.License)
	assert.Equal(t, types.DefaultSDKConfig(sdk.PackageName), sdk)

	cfg.SDK.PackageName = "@acme/users"
	assert.Equal(t, "@acme/users", cfg.SDKConfig("Users API").PackageName)
}

func TestConfig_RetryPolicy(t *testing.T) {
	cfg := Default()
	cfg.Gateway.MaxAttempts = 5

	policy := cfg.RetryPolicy()
	assert.Equal(t, 5, policy.MaxAttempts)
	assert.Equal(t, 2*time.Second, policy.BaseDelay)
	assert.Equal(t, 10*time.Second, policy.MaxDelay)
	assert.Nil(t, policy.Sleep)
}

func TestConfig_APIKey(t *testing.T) {
	cfg := Default()
	cfg.Gateway.APIKeyEnv = "DOCS2SDK_TEST_KEY"
	t.Setenv("DOCS2SDK_TEST_KEY", "  sk-test  ")

	assert.Equal(t, "sk-test", cfg.APIKey())
}
