// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/api2spec/docs2sdk/internal/config"
)

const initConfigFile = "docs2sdk.yaml"

var (
	initForce       bool
	initInteractive bool
	initPackageName string
	initAuthor      string
	initLicense     string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new docs2sdk configuration file",
	Long: `Initialize a new docs2sdk configuration file in the current directory.

This command creates a docs2sdk.yaml file with sensible defaults and a short
comment above every section.

Features:
  - Detects common documentation directories (docs, doc, reference)
  - Selects the extraction backend with --backend
  - Prompts for package details with --interactive

Example:
  docs2sdk init                                # Create config with defaults
  docs2sdk init --package-name @acme/users     # Set the npm package name
  docs2sdk init --backend offline              # Use the offline backend
  docs2sdk init --force                        # Overwrite existing config
  docs2sdk init --interactive                  # Interactive mode with prompts`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "interactive mode with prompts")
	initCmd.Flags().StringVar(&initPackageName, "package-name", "", "npm package name of the generated SDK")
	initCmd.Flags().StringVar(&initAuthor, "author", "", "package author")
	initCmd.Flags().StringVar(&initLicense, "license", "", "package license: MIT, Apache-2.0, ISC, BSD-3-Clause")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := initConfigFile
	if cfgFile != "" {
		configFile = cfgFile
	}

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configFile)
	}

	projectRoot, err := filepath.Abs(".")
	if err != nil {
		return fmt.Errorf("failed to determine project root: %w", err)
	}

	cfg := config.Default()
	if backend != "" {
		cfg.Gateway.Backend = backend
	}
	if output != "" {
		cfg.Output = output
	}
	if format != "" {
		cfg.Format = format
	}
	if initPackageName != "" {
		cfg.SDK.PackageName = initPackageName
	}
	if initAuthor != "" {
		cfg.SDK.Author = initAuthor
	}
	if initLicense != "" {
		cfg.SDK.License = initLicense
	}

	docPaths := detectDocPaths(projectRoot)
	cfg.Source.Paths = docPaths
	printVerbose("Documentation paths: %s", strings.Join(docPaths, ", "))

	if initInteractive && isTerminal() {
		cfg = interactiveInit(cfg, os.Stdin, cmd.OutOrStdout())
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := buildConfigYAML(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created %s", configFile)
	printVerbose("Backend: %s", cfg.Gateway.Backend)
	printVerbose("Output: %s", cfg.Output)
	if cfg.Gateway.Backend == config.BackendHTTP {
		printInfo("Set $%s before running extract", cfg.Gateway.APIKeyEnv)
	}
	return nil
}

// detectDocPaths returns the documentation directories found under projectRoot.
func detectDocPaths(projectRoot string) []string {
	var paths []string

	for _, dir := range []string{"docs", "doc", "documentation", "api-docs", "reference"} {
		if stat, err := os.Stat(filepath.Join(projectRoot, dir)); err == nil && stat.IsDir() {
			paths = append(paths, "./"+dir)
		}
	}

	// If no documentation directory is found, use the current directory
	if len(paths) == 0 {
		paths = []string{"."}
	}
	return paths
}

// isTerminal checks if stdin is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// interactiveInit prompts for the most common settings. An empty answer keeps the
// shown default.
func interactiveInit(cfg *config.Config, in io.Reader, out io.Writer) *config.Config {
	reader := bufio.NewReader(in)
	ask := func(label string, value *string) {
		fmt.Fprintf(out, "%s [%s]: ", label, *value)
		answer, _ := reader.ReadString('\n')
		if answer = strings.TrimSpace(answer); answer != "" {
			*value = answer
		}
	}

	ask("Package name (empty derives it from the API name)", &cfg.SDK.PackageName)
	ask("Package version", &cfg.SDK.Version)
	ask("Author", &cfg.SDK.Author)
	ask("License (MIT/Apache-2.0/ISC/BSD-3-Clause)", &cfg.SDK.License)
	ask("Backend (http/offline)", &cfg.Gateway.Backend)
	ask("Output directory", &cfg.Output)

	return cfg
}

// sectionComments are written above the top-level keys of a new config file.
var sectionComments = map[string]string{
	"output":     "# Directory generated SDKs are written to",
	"format":     "# Format of specification files written by extract: yaml or json",
	"sdk":        "# Package preferences of the generated SDK.\n# An empty packageName is derived from the API name.",
	"gateway":    "# Extraction backend: http calls an OpenAI-compatible API with the key read\n# from $apiKeyEnv; offline accepts structured documentation only.",
	"generation": "# Parallel generation calls (0 uses every CPU) and output options",
	"source":     "# Where extract, analyze and watch look for documentation",
	"watch":      "# Debounce in milliseconds and a command run after each regeneration",
}

// buildConfigYAML encodes cfg as YAML with a header and a comment above every section.
func buildConfigYAML(cfg *config.Config) ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(cfg); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if c, ok := sectionComments[node.Content[i].Value]; ok {
			node.Content[i].HeadComment = c
		}
	}

	var buf bytes.Buffer
	buf.WriteString("# docs2sdk configuration file\n\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
