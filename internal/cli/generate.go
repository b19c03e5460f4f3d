// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/assemble"
	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/internal/pipeline"
	"github.com/api2spec/docs2sdk/internal/specfile"
	"github.com/api2spec/docs2sdk/pkg/types"
)

var (
	generateDryRun      bool
	generateZip         bool
	generateForce       bool
	generateConcurrency int
	generateNoUsage     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <spec>",
	Short: "Generate a TypeScript SDK from a specification",
	Long: `Generate a TypeScript SDK package from a reviewed specification file.

One method is generated per endpoint, plus the type definitions and the README
usage section, with a bounded number of backend calls in flight. A failed
method is left out of the client and a failed type generation becomes a
placeholder file; both are reported as degradations. The generated TypeScript
is checked by the code validator before it is written.

Example:
  docs2sdk generate users.yaml                  # Write the SDK to ./sdk
  docs2sdk generate users.yaml -o ./users-sdk   # Choose the output directory
  docs2sdk generate users.yaml --zip            # Also write a zip archive
  docs2sdk generate users.yaml --dry-run        # Preview without writing
  docs2sdk generate users.yaml --concurrency 2  # Limit parallel calls`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "preview output without writing files")
	generateCmd.Flags().BoolVar(&generateZip, "zip", false, "also write a zip archive next to the output directory")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "overwrite a non-empty output directory")
	generateCmd.Flags().IntVar(&generateConcurrency, "concurrency", 0, "maximum parallel generation calls (default: number of CPUs)")
	generateCmd.Flags().BoolVar(&generateNoUsage, "no-usage-examples", false, "skip the generated README usage section")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if output != "" {
		cfg.Output = output
	}
	if generateConcurrency > 0 {
		cfg.Generation.Concurrency = generateConcurrency
	}
	if generateZip {
		cfg.Generation.Archive = true
	}
	if generateNoUsage {
		cfg.Generation.UsageExamples = false
	}

	spec, err := specfile.ReadFile(args[0])
	if err != nil {
		return err
	}

	printVerbose("Configuration:")
	printVerbose("  Backend: %s", cfg.Gateway.Backend)
	printVerbose("  Output: %s", cfg.Output)
	printVerbose("  Concurrency: %d", cfg.Generation.Concurrency)

	report, err := generateSDK(cmd.Context(), cfg, spec)
	if err != nil {
		return err
	}
	return writeSDK(cfg, spec, report, generateDryRun, generateForce)
}

// generateSDK runs the generation pipeline for spec.
func generateSDK(ctx context.Context, cfg *config.Config, spec *types.APISpecification) (*pipeline.Report, error) {
	session, err := newSession(cfg, spec.APIName)
	if err != nil {
		return nil, err
	}
	printVerbose("Session %s: generating %d endpoints for %s", session.ID, len(spec.Endpoints), session.Config.SDK.PackageName)

	report, err := session.Generate(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	return report, nil
}

// writeSDK prints the report and writes the files unless dryRun is set.
func writeSDK(cfg *config.Config, spec *types.APISpecification, report *pipeline.Report, dryRun, force bool) error {
	files := report.Files

	printInfo("%s", strings.TrimRight(files.DisplayTree(), "\n"))
	printInfo("%d files, %s, %d/%d methods in %s",
		len(files), assemble.FormatSize(files.TotalSize()), report.Methods, len(spec.Endpoints), report.Duration.Round(time.Millisecond))
	printReport(report)

	if dryRun {
		for _, f := range files.Plan() {
			printVerbose("  %-28s %s", f.Path, assemble.FormatSize(f.Size))
		}
		printInfo("Dry run - no files written")
		return nil
	}

	if err := files.WriteDir(cfg.Output, force); err != nil {
		return fmt.Errorf("failed to write SDK: %w", err)
	}
	printInfo("Wrote SDK to %s", cfg.Output)

	if !cfg.Generation.Archive {
		return nil
	}
	data, err := files.Bundle(spec.APIName)
	if err != nil {
		return fmt.Errorf("failed to bundle SDK: %w", err)
	}
	archive := filepath.Join(filepath.Dir(filepath.Clean(cfg.Output)), assemble.ArchiveName(spec.APIName))
	if err := os.WriteFile(archive, data, 0o644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	printInfo("Wrote %s (%s)", archive, assemble.FormatSize(len(data)))
	return nil
}

// printReport prints degradations and validator findings.
func printReport(report *pipeline.Report) {
	if report.Degraded() {
		printInfo("Degraded output:")
		for _, d := range report.Degradations {
			printInfo("  - %s", d)
		}
	}

	if report.Summary.Errors == 0 && report.Summary.Warnings == 0 {
		return
	}
	printInfo("Validation: %d errors, %d warnings in %d of %d files",
		report.Summary.Errors, report.Summary.Warnings, report.Summary.Invalid, report.Summary.Files)
	for _, r := range report.Validation {
		for _, e := range r.Errors {
			printInfo("  error: %s", e)
		}
		for _, w := range r.Warnings {
			printVerbose("  warning: %s", w)
		}
	}
}
