// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a command and returns output and error.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	resetFlags(root)

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default, since the flag variables outlive a
// single Execute.
func resetFlags(root *cobra.Command) {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(root.PersistentFlags())
	for _, c := range root.Commands() {
		reset(c.Flags())
	}
}

// captureOutput runs fn with the command output streams redirected to a buffer.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := fn()
	return buf.String(), err
}

// chdir switches into dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
}

// writeFile writes content below dir, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand_Help(t *testing.T) {
	output, err := executeCommand(rootCmd, "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "docs2sdk")
	assert.Contains(t, output, "typed TypeScript SDK")
	assert.Contains(t, output, "Available Commands")
	for _, name := range []string{"extract", "score", "generate", "validate", "export", "diff", "analyze", "watch", "init", "print", "version"} {
		assert.Contains(t, output, name)
	}
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		expected string
	}{
		{
			name:     "config flag short",
			flag:     "-c",
			expected: "config file",
		},
		{
			name:     "config flag long",
			flag:     "--config",
			expected: "config file",
		},
		{
			name:     "output flag short",
			flag:     "-o",
			expected: "output file or directory",
		},
		{
			name:     "format flag long",
			flag:     "--format",
			expected: "specification file format",
		},
		{
			name:     "backend flag",
			flag:     "--backend",
			expected: "extraction backend",
		},
		{
			name:     "verbose flag short",
			flag:     "-v",
			expected: "verbose output",
		},
		{
			name:     "quiet flag long",
			flag:     "--quiet",
			expected: "suppress",
		},
	}

	output, err := executeCommand(rootCmd, "--help")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, output, tt.flag)
			assert.Contains(t, output, tt.expected)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := executeCommand(rootCmd, "version")
	require.NoError(t, err)

	assert.Contains(t, output, "docs2sdk")
	assert.Contains(t, output, "Commit")
	assert.Contains(t, output, "Build Date")
	assert.Contains(t, output, "Go Version")
	assert.Contains(t, output, "OS/Arch")
}

func TestVersionCommand_Short(t *testing.T) {
	output, err := executeCommand(rootCmd, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", output)
}

func TestCommand_Help(t *testing.T) {
	tests := []struct {
		command  string
		expected []string
	}{
		{"extract", []string{"Extract an API specification", "--min-confidence"}},
		{"score", []string{"Score every endpoint"}},
		{"generate", []string{"Generate a TypeScript SDK package", "--dry-run", "--zip", "--concurrency", "--force", "--no-usage-examples"}},
		{"validate", []string{"Validate runs the code validator", "--strict", "Exit codes"}},
		{"export", []string{"OpenAPI 3 document", "--no-validate"}},
		{"diff", []string{"Compare two specification files", "--fail-on-breaking"}},
		{"analyze", []string{"Analyze documentation", "--skip-key-check"}},
		{"watch", []string{"Watch a specification file", "--debounce", "--on-change"}},
		{"init", []string{"Initialize a new docs2sdk configuration file", "--force", "--package-name", "--interactive"}},
		{"print", []string{"Print a specification file"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			output, err := executeCommand(rootCmd, tt.command, "--help")
			require.NoError(t, err)
			for _, want := range tt.expected {
				assert.Contains(t, output, want)
			}
		})
	}
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Contains(t, info, "docs2sdk")
	assert.Contains(t, info, "commit")
	assert.Contains(t, info, "built")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))

	err := fmt.Errorf("wrapped: %w", &ExitError{Code: ExitCodeValidateError, Err: errors.New("unreadable")})
	assert.Equal(t, 2, ExitCode(err))
	assert.EqualError(t, &ExitError{Code: 1, Err: errors.New("findings")}, "findings")
}

func TestQuietSuppressesInfo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.yaml", specYAML)

	output, err := executeCommand(rootCmd, "score", filepath.Join(dir, "users.yaml"), "--quiet")
	require.NoError(t, err)
	assert.Empty(t, output)
}
