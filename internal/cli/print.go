// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/specfile"
)

var printCmd = &cobra.Command{
	Use:   "print <spec>",
	Short: "Print a specification to stdout",
	Long: `Print a specification file to standard output.

The file is parsed, validated and re-encoded, so the output is the normalized
form of the specification with defaults applied. Use --format to convert
between YAML and JSON.

Example:
  docs2sdk print users.yaml                   # Print as YAML
  docs2sdk print users.yaml -f json           # Convert to JSON
  docs2sdk print users.yaml -f json | jq '.endpoints[].path'`,
	Args: cobra.ExactArgs(1),
	RunE: runPrint,
}

func runPrint(cmd *cobra.Command, args []string) error {
	outputFormat := format
	if outputFormat == "" {
		outputFormat = specfile.FormatYAML
	}
	if !specfile.ValidFormat(outputFormat) {
		return fmt.Errorf("unsupported format %q, must be yaml or json", outputFormat)
	}

	printVerbose("Print configuration:")
	printVerbose("  Format: %s", outputFormat)

	spec, err := specfile.ReadFile(args[0])
	if err != nil {
		return err
	}
	data, err := specfile.Marshal(spec, outputFormat)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
