// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/docs2sdk/internal/config"
)

func TestInitCommand(t *testing.T) {
	chdir(t, t.TempDir())

	output, err := executeCommand(rootCmd, "init", "--package-name", "@acme/users", "--author", "Acme", "--backend", "offline")
	require.NoError(t, err)
	assert.Contains(t, output, "Created docs2sdk.yaml")

	data, err := os.ReadFile("docs2sdk.yaml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# docs2sdk configuration file\n"))
	assert.Contains(t, string(data), "# Extraction backend")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "@acme/users", cfg.SDK.PackageName)
	assert.Equal(t, "Acme", cfg.SDK.Author)
	assert.Equal(t, config.BackendOffline, cfg.Gateway.Backend)
	assert.Equal(t, []string{"."}, cfg.Source.Paths)
	assert.NoError(t, cfg.Validate())
}

func TestInitCommand_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docs2sdk.yaml", "output: mine\n")
	chdir(t, dir)

	_, err := executeCommand(rootCmd, "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = executeCommand(rootCmd, "init", "--force")
	require.NoError(t, err)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "sdk", cfg.Output)
}

func TestInitCommand_InvalidLicense(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := executeCommand(rootCmd, "init", "--license", "GPL")
	assert.ErrorContains(t, err, "invalid configuration")
	assert.NoFileExists(t, "docs2sdk.yaml")
}

func TestDetectDocPaths(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, []string{"."}, detectDocPaths(dir))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "reference"), 0o755))
	writeFile(t, dir, "doc", "a file, not a directory")

	assert.Equal(t, []string{"./docs", "./reference"}, detectDocPaths(dir))
}

func TestInteractiveInit(t *testing.T) {
	in := strings.NewReader("@acme/users\n\nAda\nApache-2.0\noffline\n\n")
	var out bytes.Buffer

	cfg := interactiveInit(config.Default(), in, &out)

	assert.Equal(t, "@acme/users", cfg.SDK.PackageName)
	assert.Equal(t, "1.0.0", cfg.SDK.Version)
	assert.Equal(t, "Ada", cfg.SDK.Author)
	assert.Equal(t, "Apache-2.0", cfg.SDK.License)
	assert.Equal(t, config.BackendOffline, cfg.Gateway.Backend)
	assert.Equal(t, "sdk", cfg.Output)
	assert.Contains(t, out.String(), "Package version [1.0.0]: ")
}

func TestBuildConfigYAML_LoadsBack(t *testing.T) {
	want := config.Default()
	want.SDK.Retry.RetryableStatusCodes = []int{429, 503}

	data, err := buildConfigYAML(want)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "docs2sdk.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, want.Output, got.Output)
	assert.Equal(t, want.SDK, got.SDK)
	assert.Equal(t, want.Gateway, got.Gateway)
	assert.Equal(t, want.Generation, got.Generation)
	assert.Equal(t, want.Source, got.Source)
	assert.Equal(t, want.Watch, got.Watch)
}
