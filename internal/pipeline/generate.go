// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/api2spec/docs2sdk/internal/assemble"
	"github.com/api2spec/docs2sdk/internal/gateway"
	"github.com/api2spec/docs2sdk/internal/parser"
	"github.com/api2spec/docs2sdk/internal/render"
	"github.com/api2spec/docs2sdk/internal/validate"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// Stage names the generation step a Degradation happened in.
type Stage string

const (
	StageMethod    Stage = "method"
	StageTypes     Stage = "types"
	StageTypeNames Stage = "type names"
	StageUsage     Stage = "usage examples"
)

// Degradation is a non-fatal shortfall in the generated SDK.
type Degradation struct {
	Stage  Stage
	Target string
	Reason string
}

func (d Degradation) String() string {
	if d.Target == "" {
		return fmt.Sprintf("%s: %s", d.Stage, d.Reason)
	}
	return fmt.Sprintf("%s %s: %s", d.Stage, d.Target, d.Reason)
}

// Report is the outcome of Generate.
type Report struct {
	SessionID    string
	Files        assemble.FileSet
	Methods      int
	Degradations []Degradation
	Validation   []validate.Result
	Summary      validate.Summary
	Duration     time.Duration
}

// Degraded reports whether anything was omitted or replaced by a placeholder.
func (r *Report) Degraded() bool {
	return len(r.Degradations) > 0
}

// fragment is the result slot of one generation call.
type fragment struct {
	code string
	err  error
}

// Generate produces the SDK for spec. One call per endpoint plus one for the type
// definitions run on a bounded pool; failed calls degrade the output instead of
// aborting. Only cancellation of ctx and assembly failures return an error.
func (s *Session) Generate(ctx context.Context, spec *types.APISpecification) (*Report, error) {
	start := time.Now()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid specification: %w", err)
	}
	if err := s.Config.SDK.Validate(); err != nil {
		return nil, fmt.Errorf("invalid SDK configuration: %w", err)
	}

	methods := make([]fragment, len(spec.Endpoints))
	var typesOut, usageOut fragment
	usage, wantUsage := s.Gateway.(gateway.UsageWriter)
	wantUsage = wantUsage && s.Config.UsageExamples

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Config.concurrency())

	g.Go(func() error {
		typesOut.err = s.call(gctx, func(ctx context.Context) error {
			var err error
			typesOut.code, err = s.Gateway.GenerateTypeDefinitions(ctx, spec)
			return err
		})
		return gctx.Err()
	})

	for i := range spec.Endpoints {
		i := i
		endpoint := spec.Endpoints[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			methods[i].err = s.call(gctx, func(ctx context.Context) error {
				var err error
				methods[i].code, err = s.Gateway.GenerateEndpointMethod(ctx, endpoint, spec)
				return err
			})
			return gctx.Err()
		})
	}

	if wantUsage {
		g.Go(func() error {
			usageOut.err = s.call(gctx, func(ctx context.Context) error {
				var err error
				usageOut.code, err = usage.GenerateUsageExamples(ctx, spec, s.Config.SDK.PackageName)
				return err
			})
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{SessionID: s.ID}
	frags := assemble.Fragments{Methods: make([]string, 0, len(methods))}

	for i, m := range methods {
		target := spec.Endpoints[i].Key()
		if m.err != nil {
			report.Degradations = append(report.Degradations, Degradation{Stage: StageMethod, Target: target, Reason: m.err.Error()})
			s.Logger.Printf("[%s] skipping %s: %v", s.ID, target, m.err)
			continue
		}
		frags.Methods = append(frags.Methods, m.code)
	}
	report.Methods = len(frags.Methods)

	frags.Types, frags.TypesErr = typesOut.code, typesOut.err
	if typesOut.err != nil {
		report.Degradations = append(report.Degradations, Degradation{Stage: StageTypes, Target: render.PathTypes, Reason: typesOut.err.Error()})
		s.Logger.Printf("[%s] type definitions replaced by a placeholder: %v", s.ID, typesOut.err)
	} else if strings.TrimSpace(typesOut.code) == "" {
		report.Degradations = append(report.Degradations, Degradation{Stage: StageTypes, Target: render.PathTypes, Reason: "no type definitions were generated"})
	} else {
		names, err := parser.TypeNames(ctx, typesOut.code)
		if err != nil {
			report.Degradations = append(report.Degradations, Degradation{Stage: StageTypeNames, Target: render.PathTypes, Reason: err.Error()})
		}
		frags.TypeNames = names
	}

	if wantUsage {
		if usageOut.err != nil {
			report.Degradations = append(report.Degradations, Degradation{Stage: StageUsage, Target: render.PathReadme, Reason: usageOut.err.Error()})
		} else {
			frags.UsageExamples = usageOut.code
		}
	}

	files, err := assemble.Assemble(s.Renderer, spec, s.Config.SDK, frags)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble SDK: %w", err)
	}

	report.Files = files
	report.Validation = validate.ValidateFileSet(files)
	report.Summary = validate.Summarize(report.Validation)
	report.Duration = time.Since(start)

	s.Logger.Printf("[%s] generated %d files, %d/%d methods, %d degradations in %s",
		s.ID, len(files), report.Methods, len(spec.Endpoints), len(report.Degradations), report.Duration)
	return report, nil
}
