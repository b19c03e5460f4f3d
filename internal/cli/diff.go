// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/specfile"
)

var diffFailOnBreaking bool

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare two specifications",
	Long: `Compare two specification files and show the differences.

Endpoints are matched by method and path. Removed endpoints, new required
parameters, changed parameter types, a changed base URL or a changed
authentication type are breaking for code written against the old SDK.

Example:
  docs2sdk diff old.yaml new.yaml                      # Show differences
  docs2sdk diff old.yaml new.yaml --fail-on-breaking   # Exit 1 on breaking changes`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVar(&diffFailOnBreaking, "fail-on-breaking", false, "exit with status 1 when breaking changes are found")
}

func runDiff(cmd *cobra.Command, args []string) error {
	printVerbose("Comparing %s against %s", args[0], args[1])

	oldSpec, err := specfile.ReadFile(args[0])
	if err != nil {
		return err
	}
	newSpec, err := specfile.ReadFile(args[1])
	if err != nil {
		return err
	}

	result := specfile.NewDiffer().Diff(oldSpec, newSpec)
	fmt.Fprint(cmd.OutOrStdout(), specfile.FormatDiff(result))

	if diffFailOnBreaking && result.HasBreakingChanges {
		return &ExitError{Code: 1, Err: fmt.Errorf("breaking changes detected")}
	}
	return nil
}
