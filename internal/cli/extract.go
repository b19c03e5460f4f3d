// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/confidence"
	"github.com/api2spec/docs2sdk/internal/specfile"
	"github.com/api2spec/docs2sdk/internal/util"
)

var extractMinConfidence float64

var extractCmd = &cobra.Command{
	Use:   "extract [paths...]",
	Short: "Extract an API specification from documentation",
	Long: `Extract an API specification from documentation files.

The extract command scans the given files and directories for documentation
(Markdown, text, HTML, YAML, JSON), sends it to the extraction backend,
normalizes the result and writes a specification file you can review before
generating an SDK. Each endpoint is scored for confidence.

The offline backend accepts structured documentation only: a specification
payload or an OpenAPI 3 document.

Example:
  docs2sdk extract ./docs                        # Extract from a directory
  docs2sdk extract api.md -o users.yaml          # Choose the output file
  docs2sdk extract openapi.json --backend offline
  docs2sdk extract ./docs --min-confidence 0.7   # Fail on low confidence`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Float64Var(&extractMinConfidence, "min-confidence", 0, "fail when the overall confidence is below this score")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	printVerbose("Scanning documentation:")
	text, docs, err := readDocumentation(cfg, args)
	if err != nil {
		return err
	}

	session, err := newSession(cfg, "")
	if err != nil {
		return err
	}
	printVerbose("Session %s using the %s backend", session.ID, cfg.Gateway.Backend)

	result, err := session.Extract(cmd.Context(), text)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	path := output
	if path == "" {
		path = defaultSpecPath(result.Spec.APIName, cfg.Format)
	}
	if err := specfile.WriteFile(result.Spec, path, specFormat(path, cfg.Format)); err != nil {
		return err
	}

	printInfo("Extracted %d endpoints from %d files to %s", len(result.Spec.Endpoints), len(docs), path)
	printConfidence(result.Confidence)
	printVerbose("Estimated cost: $%.4f extraction, $%.4f generation", result.Cost.Extraction, result.Cost.Generation)

	if extractMinConfidence > 0 && result.Confidence.Score < extractMinConfidence {
		return &ExitError{Code: 1, Err: fmt.Errorf("confidence %.2f is below the required %.2f", result.Confidence.Score, extractMinConfidence)}
	}
	return nil
}

// defaultSpecPath names the specification file of an API.
func defaultSpecPath(apiName, fileFormat string) string {
	slug := util.Slug(apiName)
	if slug == "" {
		slug = "api"
	}
	if fileFormat == specfile.FormatJSON {
		return slug + ".json"
	}
	return slug + ".yaml"
}

// printConfidence prints the aggregate confidence and every endpoint below Complete.
func printConfidence(report confidence.Report) {
	printInfo("Confidence: %.2f (%s)", report.Score, report.Level)
	low := report.LowConfidence()
	if len(low) == 0 {
		return
	}
	printInfo("Endpoints to review:")
	for _, e := range low {
		printInfo("  %-6s %-40s %.2f %s", e.Method, e.Path, e.Score, e.Level)
	}
}
