// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package pipeline coordinates one SDK generation session: extraction, normalization,
// scoring, the generation calls, assembly and validation.
//
// A Session holds everything a run needs. Nothing is shared between sessions, and the
// FileSet is only exposed once it is complete.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/api2spec/docs2sdk/internal/confidence"
	"github.com/api2spec/docs2sdk/internal/gateway"
	"github.com/api2spec/docs2sdk/internal/normalize"
	"github.com/api2spec/docs2sdk/internal/render"
	"github.com/api2spec/docs2sdk/pkg/types"
)

var (
	// ErrEmptyDocumentation is returned when there is nothing to extract from.
	ErrEmptyDocumentation = errors.New("documentation is empty")

	// ErrUnsupported is returned when the backend lacks an optional capability.
	ErrUnsupported = errors.New("not supported by this backend")
)

// Config controls a session.
type Config struct {
	// SDK holds the generation preferences
	SDK types.SDKConfig

	// Concurrency bounds the parallel generation calls; zero means runtime.NumCPU()
	Concurrency int

	// CallTimeout bounds every single gateway call, retries excluded
	CallTimeout time.Duration

	// Retry is applied around every gateway call
	Retry gateway.RetryPolicy

	// UsageExamples asks the backend for a README usage section when it can write one
	UsageExamples bool
}

// DefaultConfig returns the default session configuration for packageName.
func DefaultConfig(packageName string) Config {
	return Config{
		SDK:           types.DefaultSDKConfig(packageName),
		CallTimeout:   gateway.DefaultTimeout,
		Retry:         gateway.DefaultRetryPolicy,
		UsageExamples: true,
	}
}

func (c Config) concurrency() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return runtime.NumCPU()
}

// Session is one generation run.
type Session struct {
	ID       string
	Gateway  gateway.Gateway
	Renderer *render.Renderer
	Config   Config
	Logger   gateway.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger.
func WithLogger(l gateway.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.Logger = l
		}
	}
}

// WithRenderer replaces the default template renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Session) {
		if r != nil {
			s.Renderer = r
		}
	}
}

// NewSession starts a session against gw.
func NewSession(gw gateway.Gateway, cfg Config, opts ...Option) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		Gateway: gw,
		Config:  cfg,
		Logger:  gateway.DiscardLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Renderer == nil {
		s.Renderer = render.New()
	}
	return s
}

// call runs op with its own timeout, retrying transient failures.
func (s *Session) call(ctx context.Context, op func(ctx context.Context) error) error {
	return s.Config.Retry.Do(ctx, func(ctx context.Context) error {
		if s.Config.CallTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.Config.CallTimeout)
			defer cancel()
		}
		return op(ctx)
	})
}

// Extraction is the outcome of Extract.
type Extraction struct {
	Spec       *types.APISpecification
	Confidence confidence.Report
	Cost       gateway.Cost
}

// Extract turns documentation into a scored specification. Gateway failures are
// returned as they are; invalid payloads surface as types.ValidationErrors.
func (s *Session) Extract(ctx context.Context, documentation string) (*Extraction, error) {
	if strings.TrimSpace(documentation) == "" {
		return nil, ErrEmptyDocumentation
	}

	cost := s.Gateway.EstimateCost(documentation)
	s.Logger.Printf("[%s] extracting %d characters (estimated $%.4f)", s.ID, len(documentation), cost.Total())

	var raw map[string]any
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		raw, err = s.Gateway.Extract(ctx, documentation)
		return err
	})
	if err != nil {
		return nil, err
	}

	spec, err := types.DecodeSpecification(normalize.Normalize(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid specification: %w", err)
	}

	report := confidence.Apply(spec)
	s.Logger.Printf("[%s] extracted %d endpoints, confidence %.2f (%s)", s.ID, len(spec.Endpoints), report.Score, report.Level)

	return &Extraction{Spec: spec, Confidence: report, Cost: cost}, nil
}

// Analyze assesses documentation when the backend is a gateway.Analyzer.
func (s *Session) Analyze(ctx context.Context, documentation string) (*types.DocumentationAnalysis, error) {
	analyzer, ok := s.Gateway.(gateway.Analyzer)
	if !ok {
		return nil, fmt.Errorf("documentation analysis: %w", ErrUnsupported)
	}

	var analysis *types.DocumentationAnalysis
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		analysis, err = analyzer.AnalyzeDocumentation(ctx, documentation)
		return err
	})
	return analysis, err
}
