// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import "strings"

// License is an SPDX license identifier accepted for generated packages.
type License string

const (
	LicenseMIT        License = "MIT"
	LicenseApache2    License = "Apache-2.0"
	LicenseISC        License = "ISC"
	LicenseBSD3Clause License = "BSD-3-Clause"
)

// Licenses lists the accepted licenses.
var Licenses = []License{LicenseMIT, LicenseApache2, LicenseISC, LicenseBSD3Clause}

// Valid reports whether l is an accepted license.
func (l License) Valid() bool {
	for _, license := range Licenses {
		if l == license {
			return true
		}
	}
	return false
}

// Defaults used by DefaultSDKConfig.
const (
	DefaultVersion           = "1.0.0"
	DefaultMaxRetries        = 3
	DefaultBaseDelay         = 1.0
	DefaultMaxDelay          = 30.0
	DefaultRequestsPerSecond = 10
	DefaultBurstAllowance    = 5
	DefaultRateAlgorithm     = "token_bucket"
)

// DefaultRetryableStatusCodes are retried by generated clients unless configured otherwise.
var DefaultRetryableStatusCodes = []int{408, 429, 500, 502, 503, 504}

// RetryConfig controls the retry module of a generated client.
type RetryConfig struct {
	// MaxRetries is the number of retries, between 1 and 10
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// BaseDelay is the initial backoff in seconds, between 0.5 and 5
	BaseDelay float64 `json:"base_delay" yaml:"base_delay"`

	// MaxDelay is the backoff ceiling in seconds, between 5 and 60
	MaxDelay float64 `json:"max_delay" yaml:"max_delay"`

	// RetryableStatusCodes are the HTTP statuses that trigger a retry
	RetryableStatusCodes []int `json:"retryable_status_codes" yaml:"retryable_status_codes"`
}

// RateLimitConfig controls the client-side rate limiter of a generated client.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate, between 1 and 100
	RequestsPerSecond int `json:"requests_per_second" yaml:"requests_per_second"`

	// BurstAllowance is the bucket size, between 1 and 50
	BurstAllowance int `json:"burst_allowance" yaml:"burst_allowance"`

	// Algorithm names the limiting algorithm
	Algorithm string `json:"algorithm" yaml:"algorithm"`
}

// SDKConfig holds generation preferences. It is independent of the extracted API.
type SDKConfig struct {
	PackageName string  `json:"package_name" yaml:"package_name"`
	Version     string  `json:"version" yaml:"version"`
	Author      string  `json:"author,omitempty" yaml:"author,omitempty"`
	License     License `json:"license" yaml:"license"`

	EnableRetryLogic    bool `json:"enable_retry_logic" yaml:"enable_retry_logic"`
	EnableRateLimiting  bool `json:"enable_rate_limiting" yaml:"enable_rate_limiting"`
	EnableErrorHandling bool `json:"enable_error_handling" yaml:"enable_error_handling"`
	IncludeExamples     bool `json:"include_examples" yaml:"include_examples"`
	IncludeTests        bool `json:"include_tests" yaml:"include_tests"`

	Retry     RetryConfig     `json:"retry_config" yaml:"retry_config"`
	RateLimit RateLimitConfig `json:"rate_limit_config" yaml:"rate_limit_config"`
}

// DefaultSDKConfig returns the default preferences for packageName.
func DefaultSDKConfig(packageName string) SDKConfig {
	return SDKConfig{
		PackageName:         packageName,
		Version:             DefaultVersion,
		License:             LicenseMIT,
		EnableRetryLogic:    true,
		EnableRateLimiting:  true,
		EnableErrorHandling: true,
		IncludeExamples:     true,
		IncludeTests:        false,
		Retry: RetryConfig{
			MaxRetries:           DefaultMaxRetries,
			BaseDelay:            DefaultBaseDelay,
			MaxDelay:             DefaultMaxDelay,
			RetryableStatusCodes: append([]int(nil), DefaultRetryableStatusCodes...),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: DefaultRequestsPerSecond,
			BurstAllowance:    DefaultBurstAllowance,
			Algorithm:         DefaultRateAlgorithm,
		},
	}
}

// Validate checks every field range of the configuration.
func (c SDKConfig) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(c.PackageName) == "" {
		errs = append(errs, invalid("sdk config", "package_name", nil, "must not be empty"))
	}
	if strings.TrimSpace(c.Version) == "" {
		errs = append(errs, invalid("sdk config", "version", nil, "must not be empty"))
	}
	if !c.License.Valid() {
		errs = append(errs, invalid("sdk config", "license", string(c.License), "must be one of MIT, Apache-2.0, ISC, BSD-3-Clause"))
	}

	r := c.Retry
	if r.MaxRetries < 1 || r.MaxRetries > 10 {
		errs = append(errs, invalid("sdk config", "retry_config.max_retries", r.MaxRetries, "must be between 1 and 10"))
	}
	if r.BaseDelay < 0.5 || r.BaseDelay > 5 {
		errs = append(errs, invalid("sdk config", "retry_config.base_delay", r.BaseDelay, "must be between 0.5 and 5 seconds"))
	}
	if r.MaxDelay < 5 || r.MaxDelay > 60 {
		errs = append(errs, invalid("sdk config", "retry_config.max_delay", r.MaxDelay, "must be between 5 and 60 seconds"))
	}
	for _, code := range r.RetryableStatusCodes {
		if code < 100 || code > 599 {
			errs = append(errs, invalid("sdk config", "retry_config.retryable_status_codes", code, "must be an HTTP status code"))
		}
	}

	rl := c.RateLimit
	if rl.RequestsPerSecond < 1 || rl.RequestsPerSecond > 100 {
		errs = append(errs, invalid("sdk config", "rate_limit_config.requests_per_second", rl.RequestsPerSecond, "must be between 1 and 100"))
	}
	if rl.BurstAllowance < 1 || rl.BurstAllowance > 50 {
		errs = append(errs, invalid("sdk config", "rate_limit_config.burst_allowance", rl.BurstAllowance, "must be between 1 and 50"))
	}
	if strings.TrimSpace(rl.Algorithm) == "" {
		errs = append(errs, invalid("sdk config", "rate_limit_config.algorithm", nil, "must not be empty"))
	}

	return errs.orNil()
}
