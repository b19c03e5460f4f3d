// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/gateway"
	"github.com/api2spec/docs2sdk/internal/pipeline"
	"github.com/api2spec/docs2sdk/internal/util"
	"github.com/api2spec/docs2sdk/pkg/types"
)

var analyzeSkipKeyCheck bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Assess documentation before extracting it",
	Long: `Analyze documentation and estimate the cost of processing it.

The analysis classifies the documentation, lists the endpoints it mentions
and reports whether more endpoints are documented elsewhere. With the http
backend the API key is checked first.

Example:
  docs2sdk analyze ./docs
  docs2sdk analyze api.md --skip-key-check`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeSkipKeyCheck, "skip-key-check", false, "do not verify the API key before analyzing")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, docs, err := readDocumentation(cfg, args)
	if err != nil {
		return err
	}

	gw, err := newGateway(cfg)
	if err != nil {
		return err
	}
	if kv, ok := gw.(gateway.KeyValidator); ok && !analyzeSkipKeyCheck {
		if err := kv.ValidateAPIKey(cmd.Context()); err != nil {
			return fmt.Errorf("API key check failed: %w", err)
		}
		printVerbose("API key accepted")
	}

	session := pipeline.NewSession(gw, sessionConfig(cfg, cfg.SDKConfig("api")), pipeline.WithLogger(newLogger()))

	printInfo("Read %d files, %d characters", len(docs), len(text))
	analysis, err := session.Analyze(cmd.Context(), text)
	switch {
	case errors.Is(err, pipeline.ErrUnsupported):
		printInfo("Documentation analysis is not available with the %s backend", cfg.Gateway.Backend)
	case err != nil:
		return fmt.Errorf("analysis failed: %w", err)
	default:
		printAnalysis(analysis)
	}

	cost := gw.EstimateCost(text)
	printInfo("Estimated cost: $%.4f (%d tokens: $%.4f extraction, $%.4f generation)",
		cost.Total(), cost.Tokens, cost.Extraction, cost.Generation)
	return nil
}

func printAnalysis(a *types.DocumentationAnalysis) {
	printInfo("Document type: %s", util.TitleCase(string(a.DocumentType)))
	if a.APIName != "" {
		printInfo("API: %s", a.APIName)
	}
	if a.BaseURL != "" {
		printInfo("Base URL: %s", a.BaseURL)
	}
	printInfo("Endpoints found: %d (complete API: %t)", a.EndpointsFound.Count, a.IsCompleteAPI)
	for _, e := range a.EndpointsFound.List {
		line := fmt.Sprintf("  %-6s %s", e.Method, e.Path)
		if e.Description != "" {
			line += " - " + e.Description
		}
		printInfo("%s", line)
	}

	nav := a.NavigationDetected
	if nav.HasMoreEndpoints {
		printInfo("More endpoints are documented elsewhere")
		if len(nav.OtherSections) > 0 {
			printInfo("  Sections: %s", strings.Join(nav.OtherSections, ", "))
		}
		for _, u := range nav.ReferenceURLs {
			printInfo("  %s", u)
		}
	}

	if a.UserMessage != "" {
		printInfo("%s", a.UserMessage)
	}
	for _, r := range a.Recommendations {
		printInfo("  * %s", r)
	}
}
