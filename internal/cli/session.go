// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/internal/gateway"
	"github.com/api2spec/docs2sdk/internal/pipeline"
	"github.com/api2spec/docs2sdk/internal/scanner"
	"github.com/api2spec/docs2sdk/internal/specfile"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// errNoDocumentation is returned when the given paths hold no documentation files.
var errNoDocumentation = errors.New("no documentation files found")

// loadConfig loads the config file and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if format != "" {
		cfg.Format = format
	}
	if backend != "" {
		cfg.Gateway.Backend = backend
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger returns the diagnostic logger for library packages.
func newLogger() gateway.Logger {
	if verbose && !quiet {
		return log.New(rootCmd.ErrOrStderr(), "docs2sdk: ", log.LstdFlags)
	}
	return gateway.DiscardLogger
}

// newGateway builds the configured backend. Retries are owned by the pipeline
// session, so the HTTP backend makes a single attempt per call.
func newGateway(cfg *config.Config) (gateway.Gateway, error) {
	switch cfg.Gateway.Backend {
	case config.BackendOffline:
		return &gateway.Offline{CostMultiplier: cfg.Gateway.CostMultiplier}, nil
	case config.BackendHTTP:
		key := cfg.APIKey()
		if key == "" {
			env := cfg.Gateway.APIKeyEnv
			if env == "" {
				env = config.DefaultAPIKeyEnv
			}
			return nil, fmt.Errorf("no API key found in $%s (use --backend offline for structured documentation)", env)
		}
		opts := []gateway.Option{
			gateway.WithBaseURL(cfg.Gateway.BaseURL),
			gateway.WithModel(cfg.Gateway.Model),
			gateway.WithAnalysisModel(cfg.Gateway.AnalysisModel),
			gateway.WithTimeout(cfg.Gateway.Timeout),
			gateway.WithCostMultiplier(cfg.Gateway.CostMultiplier),
			gateway.WithRetryPolicy(gateway.RetryPolicy{MaxAttempts: 1}),
			gateway.WithLogger(newLogger()),
		}
		if cfg.Gateway.Trace {
			opts = append(opts, gateway.WithTrace())
		}
		return gateway.NewHTTPGateway(key, opts...), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Gateway.Backend)
	}
}

// sessionConfig maps the loaded configuration onto a pipeline configuration.
func sessionConfig(cfg *config.Config, sdk types.SDKConfig) pipeline.Config {
	return pipeline.Config{
		SDK:           sdk,
		Concurrency:   cfg.Generation.Concurrency,
		CallTimeout:   cfg.Gateway.Timeout,
		Retry:         cfg.RetryPolicy(),
		UsageExamples: cfg.Generation.UsageExamples,
	}
}

// newSession starts a pipeline session for an API.
func newSession(cfg *config.Config, apiName string) (*pipeline.Session, error) {
	gw, err := newGateway(cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.NewSession(gw, sessionConfig(cfg, cfg.SDKConfig(apiName)), pipeline.WithLogger(newLogger())), nil
}

// readDocumentation scans paths for documentation and joins it into one text.
func readDocumentation(cfg *config.Config, paths []string) (string, []scanner.Document, error) {
	if len(paths) == 0 {
		paths = cfg.Source.Paths
	}
	if err := scanner.ValidatePatterns(append(append([]string(nil), cfg.Source.Include...), cfg.Source.Exclude...)...); err != nil {
		return "", nil, err
	}

	s := scanner.New(scanner.Config{
		IncludePatterns: cfg.Source.Include,
		ExcludePatterns: cfg.Source.Exclude,
	})
	docs, err := s.ScanPaths(paths)
	if err != nil {
		return "", nil, fmt.Errorf("failed to scan documentation: %w", err)
	}
	if len(docs) == 0 {
		return "", nil, errNoDocumentation
	}

	for _, d := range docs {
		printVerbose("  %s (%s, %d bytes)", d.Path, d.Format, len(d.Content))
	}
	return scanner.Combine(docs, documentationBase(paths)), docs, nil
}

// documentationBase is the directory document headers are relative to.
func documentationBase(paths []string) string {
	if len(paths) == 1 {
		if info, err := os.Stat(paths[0]); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(paths[0]); err == nil {
				return abs
			}
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// specFormat picks the specification file format for path.
func specFormat(path, configured string) string {
	if format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return specfile.FormatFromPath(path)
	}
	return configured
}
