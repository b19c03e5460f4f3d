// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/openapi"
	"github.com/api2spec/docs2sdk/internal/specfile"
)

var exportNoValidate bool

var exportCmd = &cobra.Command{
	Use:   "export <spec>",
	Short: "Export a specification as an OpenAPI 3 document",
	Long: `Export a specification file as an OpenAPI 3 document.

The document is written to the file given with --output, or to standard
output. The format follows --format, then the output file extension, and
defaults to YAML. The document is validated before it is written.

Example:
  docs2sdk export users.yaml                    # Print OpenAPI YAML
  docs2sdk export users.yaml -o openapi.json    # Write OpenAPI JSON
  docs2sdk export users.yaml | jq '.paths'      # Pipe to other tools`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportNoValidate, "no-validate", false, "skip OpenAPI document validation")
}

func runExport(cmd *cobra.Command, args []string) error {
	spec, err := specfile.ReadFile(args[0])
	if err != nil {
		return err
	}

	doc, err := openapi.NewBuilder().Build(spec)
	if err != nil {
		return fmt.Errorf("failed to build OpenAPI document: %w", err)
	}
	if !exportNoValidate {
		if err := doc.Validate(cmd.Context()); err != nil {
			return fmt.Errorf("generated OpenAPI document is invalid: %w", err)
		}
	}

	w := openapi.NewWriter()
	if output == "" {
		return w.Write(doc, cmd.OutOrStdout(), format)
	}
	if err := w.WriteFile(doc, output, format); err != nil {
		return err
	}
	printInfo("Wrote OpenAPI %s document to %s", doc.OpenAPI, output)
	return nil
}
