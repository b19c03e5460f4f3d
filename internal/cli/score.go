// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/confidence"
	"github.com/api2spec/docs2sdk/internal/specfile"
)

var scoreCmd = &cobra.Command{
	Use:   "score <spec>",
	Short: "Show the confidence of a specification",
	Long: `Score every endpoint of a specification file and the specification as a whole.

Scores range from 0 to 1. Endpoints scoring 0.9 or above are Complete.
Below 0.7 the documentation is missing data the SDK needs.

Example:
  docs2sdk score users.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	spec, err := specfile.ReadFile(args[0])
	if err != nil {
		return err
	}

	report := confidence.Apply(spec)

	printInfo("%s (%d endpoints)", spec.APIName, len(spec.Endpoints))
	for _, e := range report.Endpoints {
		printInfo("  [%-6s] %.2f  %-6s %s", e.Level.Color(), e.Score, e.Method, e.Path)
	}
	printInfo("Overall: %.2f %s", report.Score, report.Level)
	return nil
}
