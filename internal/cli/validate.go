// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/scanner"
	"github.com/api2spec/docs2sdk/internal/validate"
)

// Exit codes for the validate command
const (
	ExitCodeValid         = 0 // No errors found
	ExitCodeFindings      = 1 // At least one file has errors
	ExitCodeValidateError = 2 // Files could not be read
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate [paths...]",
	Short: "Check TypeScript files with the code validator",
	Long: `Validate runs the code validator over TypeScript files.

The validator checks bracket balance, relative import depth, dangerous calls,
hardcoded secrets and loose typing. It is heuristic: it does not compile the
code. Directories are searched for .ts files; node_modules is skipped.

Exit codes:
  0  No errors found
  1  At least one file has errors (or warnings with --strict)
  2  Files could not be read

Example:
  docs2sdk validate ./sdk                # Check a generated SDK
  docs2sdk validate src/client.ts        # Check a single file
  docs2sdk validate ./sdk --strict       # Fail on warnings too`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
}

func runValidate(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	s := scanner.New(scanner.Config{
		IncludePatterns: []string{"**/*"},
		ExcludePatterns: []string{"node_modules/**", "dist/**"},
		Extensions:      validate.DefaultExtensions,
	})
	docs, err := s.ScanPaths(paths)
	if err != nil {
		return &ExitError{Code: ExitCodeValidateError, Err: err}
	}
	if len(docs) == 0 {
		return &ExitError{Code: ExitCodeValidateError, Err: fmt.Errorf("no TypeScript files found in %v", paths)}
	}

	base := documentationBase(paths)
	results := make([]validate.Result, 0, len(docs))
	for _, d := range docs {
		label := d.Path
		if rel, err := filepath.Rel(base, d.Path); err == nil {
			label = filepath.ToSlash(rel)
		}
		r := validate.ValidateAll(string(d.Content), label)
		results = append(results, r)

		for _, e := range r.Errors {
			printInfo("  error: %s", e)
		}
		for _, w := range r.Warnings {
			printInfo("  warning: %s", w)
		}
		if !r.HasFindings() {
			printVerbose("  ok: %s", label)
		}
	}

	summary := validate.Summarize(results)
	printInfo("Checked %d files: %d errors, %d warnings", summary.Files, summary.Errors, summary.Warnings)

	if summary.Errors > 0 || (validateStrict && summary.Warnings > 0) {
		return &ExitError{Code: ExitCodeFindings, Err: fmt.Errorf("validation failed in %d files", failedFiles(results, validateStrict))}
	}
	return nil
}

// failedFiles counts the files that fail validation.
func failedFiles(results []validate.Result, strict bool) int {
	n := 0
	for _, r := range results {
		if !r.Valid || (strict && len(r.Warnings) > 0) {
			n++
		}
	}
	return n
}
