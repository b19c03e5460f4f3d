// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for docs2sdk.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/api2spec/docs2sdk/internal/gateway"
	"github.com/api2spec/docs2sdk/internal/util"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// Backends selectable in the gateway section.
const (
	BackendHTTP    = "http"
	BackendOffline = "offline"
)

// DefaultAPIKeyEnv is the environment variable holding the HTTP backend's key.
const DefaultAPIKeyEnv = "OPENAI_API_KEY"

// Config represents the docs2sdk configuration.
type Config struct {
	// Output is the directory generated SDKs are written to
	Output string `mapstructure:"output" yaml:"output" json:"output"`

	// Format is the format of written specification files (yaml, json)
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// SDK contains the generation preferences of the SDK package
	SDK SDKSection `mapstructure:"sdk" yaml:"sdk" json:"sdk"`

	// Gateway selects and configures the extraction backend
	Gateway GatewayConfig `mapstructure:"gateway" yaml:"gateway" json:"gateway"`

	// Generation contains generation behavior configuration
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation" json:"generation"`

	// Source contains documentation scanning configuration
	Source SourceConfig `mapstructure:"source" yaml:"source" json:"source"`

	// Watch contains file watching configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// SDKSection maps onto types.SDKConfig.
type SDKSection struct {
	// PackageName is the npm package name; empty derives it from the API name
	PackageName string `mapstructure:"packageName" yaml:"packageName" json:"packageName"`

	// Version is the package version
	Version string `mapstructure:"version" yaml:"version" json:"version"`

	// Author is written to package.json
	Author string `mapstructure:"author" yaml:"author" json:"author"`

	// License is an SPDX identifier (MIT, Apache-2.0, ISC, BSD-3-Clause)
	License string `mapstructure:"license" yaml:"license" json:"license"`

	EnableRetryLogic    bool `mapstructure:"enableRetryLogic" yaml:"enableRetryLogic" json:"enableRetryLogic"`
	EnableRateLimiting  bool `mapstructure:"enableRateLimiting" yaml:"enableRateLimiting" json:"enableRateLimiting"`
	EnableErrorHandling bool `mapstructure:"enableErrorHandling" yaml:"enableErrorHandling" json:"enableErrorHandling"`
	IncludeExamples     bool `mapstructure:"includeExamples" yaml:"includeExamples" json:"includeExamples"`
	IncludeTests        bool `mapstructure:"includeTests" yaml:"includeTests" json:"includeTests"`

	// Retry configures the retry module of the generated client
	Retry RetrySection `mapstructure:"retry" yaml:"retry" json:"retry"`

	// RateLimit configures the rate limiter of the generated client
	RateLimit RateLimitSection `mapstructure:"rateLimit" yaml:"rateLimit" json:"rateLimit"`
}

// RetrySection configures the generated client's retries.
type RetrySection struct {
	MaxRetries           int     `mapstructure:"maxRetries" yaml:"maxRetries" json:"maxRetries"`
	BaseDelay            float64 `mapstructure:"baseDelay" yaml:"baseDelay" json:"baseDelay"`
	MaxDelay             float64 `mapstructure:"maxDelay" yaml:"maxDelay" json:"maxDelay"`
	RetryableStatusCodes []int   `mapstructure:"retryableStatusCodes" yaml:"retryableStatusCodes" json:"retryableStatusCodes"`
}

// RateLimitSection configures the generated client's rate limiter.
type RateLimitSection struct {
	RequestsPerSecond int    `mapstructure:"requestsPerSecond" yaml:"requestsPerSecond" json:"requestsPerSecond"`
	BurstAllowance    int    `mapstructure:"burstAllowance" yaml:"burstAllowance" json:"burstAllowance"`
	Algorithm         string `mapstructure:"algorithm" yaml:"algorithm" json:"algorithm"`
}

// GatewayConfig selects and configures the extraction backend.
type GatewayConfig struct {
	// Backend is http or offline
	Backend string `mapstructure:"backend" yaml:"backend" json:"backend"`

	// BaseURL is the OpenAI-compatible API root
	BaseURL string `mapstructure:"baseURL" yaml:"baseURL" json:"baseURL"`

	// Model is used for extraction and generation
	Model string `mapstructure:"model" yaml:"model" json:"model"`

	// AnalysisModel is used for documentation analysis
	AnalysisModel string `mapstructure:"analysisModel" yaml:"analysisModel" json:"analysisModel"`

	// APIKeyEnv names the environment variable holding the API key
	APIKeyEnv string `mapstructure:"apiKeyEnv" yaml:"apiKeyEnv" json:"apiKeyEnv"`

	// Timeout bounds each backend call
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	// MaxAttempts is the number of attempts per call, including the first
	MaxAttempts int `mapstructure:"maxAttempts" yaml:"maxAttempts" json:"maxAttempts"`

	// BaseDelay is the first retry wait
	BaseDelay time.Duration `mapstructure:"baseDelay" yaml:"baseDelay" json:"baseDelay"`

	// MaxDelay caps every retry wait
	MaxDelay time.Duration `mapstructure:"maxDelay" yaml:"maxDelay" json:"maxDelay"`

	// CostMultiplier scales the extraction estimate into a generation estimate
	CostMultiplier float64 `mapstructure:"costMultiplier" yaml:"costMultiplier" json:"costMultiplier"`

	// Trace logs every request and response with the key redacted
	Trace bool `mapstructure:"trace" yaml:"trace" json:"trace"`
}

// GenerationConfig contains generation behavior configuration.
type GenerationConfig struct {
	// Concurrency bounds parallel generation calls; 0 uses every CPU
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`

	// Archive also writes a zip bundle next to the SDK directory
	Archive bool `mapstructure:"archive" yaml:"archive" json:"archive"`

	// UsageExamples asks the backend for the README usage section
	UsageExamples bool `mapstructure:"usageExamples" yaml:"usageExamples" json:"usageExamples"`
}

// SourceConfig contains documentation scanning configuration.
type SourceConfig struct {
	// Paths is a list of paths to scan
	Paths []string `mapstructure:"paths" yaml:"paths" json:"paths"`

	// Include is a list of glob patterns to include
	Include []string `mapstructure:"include" yaml:"include" json:"include"`

	// Exclude is a list of glob patterns to exclude
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`

	// OnChange is the command to run after each regeneration
	OnChange string `mapstructure:"onChange" yaml:"onChange" json:"onChange"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"docs2sdk.yaml",
	"docs2sdk.json",
	".docs2sdk.yaml",
	".docs2sdk.json",
}

var supportedFormats = []string{"yaml", "json"}

var supportedBackends = []string{BackendHTTP, BackendOffline}

var defaultInclude = []string{"**/*.md", "**/*.txt", "**/*.html", "**/*.yaml", "**/*.yml", "**/*.json"}

var defaultExclude = []string{
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	"vendor/**",
	"**/package.json",
	"**/package-lock.json",
	"**/tsconfig.json",
	"docs2sdk.yaml",
	"docs2sdk.json",
	".docs2sdk.yaml",
	".docs2sdk.json",
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	sdk := types.DefaultSDKConfig("")
	return &Config{
		Output: "sdk",
		Format: "yaml",
		SDK: SDKSection{
			Version:             sdk.Version,
			License:             string(sdk.License),
			EnableRetryLogic:    sdk.EnableRetryLogic,
			EnableRateLimiting:  sdk.EnableRateLimiting,
			EnableErrorHandling: sdk.EnableErrorHandling,
			IncludeExamples:     sdk.IncludeExamples,
			IncludeTests:        sdk.IncludeTests,
			Retry: RetrySection{
				MaxRetries:           sdk.Retry.MaxRetries,
				BaseDelay:            sdk.Retry.BaseDelay,
				MaxDelay:             sdk.Retry.MaxDelay,
				RetryableStatusCodes: sdk.Retry.RetryableStatusCodes,
			},
			RateLimit: RateLimitSection{
				RequestsPerSecond: sdk.RateLimit.RequestsPerSecond,
				BurstAllowance:    sdk.RateLimit.BurstAllowance,
				Algorithm:         sdk.RateLimit.Algorithm,
			},
		},
		Gateway: GatewayConfig{
			Backend:        BackendHTTP,
			BaseURL:        gateway.DefaultBaseURL,
			Model:          gateway.DefaultModel,
			AnalysisModel:  gateway.DefaultAnalysisModel,
			APIKeyEnv:      DefaultAPIKeyEnv,
			Timeout:        gateway.DefaultTimeout,
			MaxAttempts:    gateway.DefaultRetryPolicy.MaxAttempts,
			BaseDelay:      gateway.DefaultRetryPolicy.BaseDelay,
			MaxDelay:       gateway.DefaultRetryPolicy.MaxDelay,
			CostMultiplier: gateway.DefaultCostMultiplier,
		},
		Generation: GenerationConfig{
			Concurrency:   0,
			Archive:       false,
			UsageExamples: true,
		},
		Source: SourceConfig{
			Paths:   []string{"."},
			Include: append([]string(nil), defaultInclude...),
			Exclude: append([]string(nil), defaultExclude...),
		},
		Watch: WatchConfig{
			Debounce: 500,
		},
	}
}

// Load loads the configuration from a file.
// It searches for config files in the following order:
// 1. docs2sdk.yaml
// 2. docs2sdk.json
// 3. .docs2sdk.yaml
// 4. .docs2sdk.json
//
// If configPath is provided, it will use that path instead.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		found := false
		for _, name := range configFileNames {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				found = true
				break
			}
		}
		if !found {
			return Default(), nil
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads the configuration from a specific directory.
func LoadFromPath(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// setDefaults mirrors Default for viper.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("output", d.Output)
	v.SetDefault("format", d.Format)

	v.SetDefault("sdk.packageName", d.SDK.PackageName)
	v.SetDefault("sdk.version", d.SDK.Version)
	v.SetDefault("sdk.author", d.SDK.Author)
	v.SetDefault("sdk.license", d.SDK.License)
	v.SetDefault("sdk.enableRetryLogic", d.SDK.EnableRetryLogic)
	v.SetDefault("sdk.enableRateLimiting", d.SDK.EnableRateLimiting)
	v.SetDefault("sdk.enableErrorHandling", d.SDK.EnableErrorHandling)
	v.SetDefault("sdk.includeExamples", d.SDK.IncludeExamples)
	v.SetDefault("sdk.includeTests", d.SDK.IncludeTests)
	v.SetDefault("sdk.retry.maxRetries", d.SDK.Retry.MaxRetries)
	v.SetDefault("sdk.retry.baseDelay", d.SDK.Retry.BaseDelay)
	v.SetDefault("sdk.retry.maxDelay", d.SDK.Retry.MaxDelay)
	v.SetDefault("sdk.retry.retryableStatusCodes", d.SDK.Retry.RetryableStatusCodes)
	v.SetDefault("sdk.rateLimit.requestsPerSecond", d.SDK.RateLimit.RequestsPerSecond)
	v.SetDefault("sdk.rateLimit.burstAllowance", d.SDK.RateLimit.BurstAllowance)
	v.SetDefault("sdk.rateLimit.algorithm", d.SDK.RateLimit.Algorithm)

	v.SetDefault("gateway.backend", d.Gateway.Backend)
	v.SetDefault("gateway.baseURL", d.Gateway.BaseURL)
	v.SetDefault("gateway.model", d.Gateway.Model)
	v.SetDefault("gateway.analysisModel", d.Gateway.AnalysisModel)
	v.SetDefault("gateway.apiKeyEnv", d.Gateway.APIKeyEnv)
	v.SetDefault("gateway.timeout", d.Gateway.Timeout)
	v.SetDefault("gateway.maxAttempts", d.Gateway.MaxAttempts)
	v.SetDefault("gateway.baseDelay", d.Gateway.BaseDelay)
	v.SetDefault("gateway.maxDelay", d.Gateway.MaxDelay)
	v.SetDefault("gateway.costMultiplier", d.Gateway.CostMultiplier)
	v.SetDefault("gateway.trace", d.Gateway.Trace)

	v.SetDefault("generation.concurrency", d.Generation.Concurrency)
	v.SetDefault("generation.archive", d.Generation.Archive)
	v.SetDefault("generation.usageExamples", d.Generation.UsageExamples)

	v.SetDefault("source.paths", d.Source.Paths)
	v.SetDefault("source.include", d.Source.Include)
	v.SetDefault("source.exclude", d.Source.Exclude)

	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Format != "" && !contains(supportedFormats, c.Format) {
		errs = append(errs, ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.Format, strings.Join(supportedFormats, ", ")),
		})
	}

	if !contains(supportedBackends, c.Gateway.Backend) {
		errs = append(errs, ValidationError{
			Field:   "gateway.backend",
			Message: fmt.Sprintf("unsupported backend %q, must be one of: %s", c.Gateway.Backend, strings.Join(supportedBackends, ", ")),
		})
	}
	if c.Gateway.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "gateway.timeout", Message: "timeout must be positive"})
	}
	if c.Gateway.MaxAttempts < 1 {
		errs = append(errs, ValidationError{Field: "gateway.maxAttempts", Message: "at least one attempt is required"})
	}
	if c.Gateway.BaseDelay < 0 {
		errs = append(errs, ValidationError{Field: "gateway.baseDelay", Message: "delay must be non-negative"})
	}
	if c.Gateway.MaxDelay < c.Gateway.BaseDelay {
		errs = append(errs, ValidationError{Field: "gateway.maxDelay", Message: "must not be less than baseDelay"})
	}
	if c.Gateway.CostMultiplier <= 0 {
		errs = append(errs, ValidationError{Field: "gateway.costMultiplier", Message: "multiplier must be positive"})
	}

	if c.Generation.Concurrency < 0 {
		errs = append(errs, ValidationError{Field: "generation.concurrency", Message: "concurrency must be non-negative"})
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	// the package name may still be derived from the API name
	if err := c.SDKConfig("api").Validate(); err != nil {
		var verrs types.ValidationErrors
		if errors.As(err, &verrs) {
			for _, v := range verrs {
				errs = append(errs, ValidationError{Field: "sdk." + v.Field, Message: v.Message})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SDKConfig returns the generation preferences for an API. An empty package name is
// derived from apiName.
func (c *Config) SDKConfig(apiName string) types.SDKConfig {
	name := c.SDK.PackageName
	if name == "" {
		name = util.PackageName(apiName)
	}
	return types.SDKConfig{
		PackageName:         name,
		Version:             c.SDK.Version,
		Author:              c.SDK.Author,
		License:             types.License(c.SDK.License),
		EnableRetryLogic:    c.SDK.EnableRetryLogic,
		EnableRateLimiting:  c.SDK.EnableRateLimiting,
		EnableErrorHandling: c.SDK.EnableErrorHandling,
		IncludeExamples:     c.SDK.IncludeExamples,
		IncludeTests:        c.SDK.IncludeTests,
		Retry: types.RetryConfig{
			MaxRetries:           c.SDK.Retry.MaxRetries,
			BaseDelay:            c.SDK.Retry.BaseDelay,
			MaxDelay:             c.SDK.Retry.MaxDelay,
			RetryableStatusCodes: append([]int(nil), c.SDK.Retry.RetryableStatusCodes...),
		},
		RateLimit: types.RateLimitConfig{
			RequestsPerSecond: c.SDK.RateLimit.RequestsPerSecond,
			BurstAllowance:    c.SDK.RateLimit.BurstAllowance,
			Algorithm:         c.SDK.RateLimit.Algorithm,
		},
	}
}

// RetryPolicy returns the retry policy for backend calls.
func (c *Config) RetryPolicy() gateway.RetryPolicy {
	return gateway.RetryPolicy{
		MaxAttempts: c.Gateway.MaxAttempts,
		BaseDelay:   c.Gateway.BaseDelay,
		MaxDelay:    c.Gateway.MaxDelay,
	}
}

// APIKey reads the backend key from the configured environment variable.
func (c *Config) APIKey() string {
	env := c.Gateway.APIKeyEnv
	if env == "" {
		env = DefaultAPIKeyEnv
	}
	return strings.TrimSpace(os.Getenv(env))
}

// ConfigFilePath returns the path of the loaded config file, if any.
func ConfigFilePath() string {
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
