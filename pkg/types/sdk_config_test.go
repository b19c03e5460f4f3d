// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSDKConfig(t *testing.T) {
	cfg := DefaultSDKConfig("example-sdk")

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, LicenseMIT, cfg.License)
	assert.True(t, cfg.EnableRetryLogic)
	assert.True(t, cfg.IncludeExamples)
	assert.False(t, cfg.IncludeTests)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, []int{408, 429, 500, 502, 503, 504}, cfg.Retry.RetryableStatusCodes)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, "token_bucket", cfg.RateLimit.Algorithm)
}

func TestDefaultSDKConfig_DoesNotShareStatusCodes(t *testing.T) {
	cfg := DefaultSDKConfig("a")
	cfg.Retry.RetryableStatusCodes[0] = 999

	assert.Equal(t, 408, DefaultRetryableStatusCodes[0])
}

func TestSDKConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *SDKConfig)
		field  string
	}{
		{"empty package", func(c *SDKConfig) { c.PackageName = "" }, "package_name"},
		{"unknown license", func(c *SDKConfig) { c.License = "GPL-3.0" }, "license"},
		{"too many retries", func(c *SDKConfig) { c.Retry.MaxRetries = 11 }, "retry_config.max_retries"},
		{"zero retries", func(c *SDKConfig) { c.Retry.MaxRetries = 0 }, "retry_config.max_retries"},
		{"base delay too small", func(c *SDKConfig) { c.Retry.BaseDelay = 0.1 }, "retry_config.base_delay"},
		{"max delay too large", func(c *SDKConfig) { c.Retry.MaxDelay = 61 }, "retry_config.max_delay"},
		{"bad status code", func(c *SDKConfig) { c.Retry.RetryableStatusCodes = []int{42} }, "retry_config.retryable_status_codes"},
		{"rate too high", func(c *SDKConfig) { c.RateLimit.RequestsPerSecond = 101 }, "rate_limit_config.requests_per_second"},
		{"burst too low", func(c *SDKConfig) { c.RateLimit.BurstAllowance = 0 }, "rate_limit_config.burst_allowance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSDKConfig("example-sdk")
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestSDKConfig_ValidateBoundaries(t *testing.T) {
	cfg := DefaultSDKConfig("example-sdk")
	cfg.Retry.MaxRetries = 10
	cfg.Retry.BaseDelay = 0.5
	cfg.Retry.MaxDelay = 60
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.BurstAllowance = 50

	assert.NoError(t, cfg.Validate())
}
