// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package specfile reads and writes API specifications as YAML or JSON files and
// compares two of them.
package specfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// Supported formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// FormatFromPath infers the format from a file extension. Unknown extensions are YAML.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ValidFormat reports whether format is supported.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatYAML, "yml", FormatJSON:
		return true
	}
	return false
}

// Marshal encodes spec in the given format.
func Marshal(spec *types.APISpecification, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		data, err := json.MarshalIndent(spec, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML, "yml", "":
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(spec); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Parse decodes and validates a specification. YAML is a superset of JSON, so
// format only selects the stricter JSON decoder.
func Parse(data []byte, format string) (*types.APISpecification, error) {
	var payload map[string]any
	if strings.EqualFold(format, FormatJSON) {
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("specification file is empty")
	}
	return types.DecodeSpecification(payload)
}

// ReadFile reads a specification file. The format is inferred from the extension.
func ReadFile(path string) (*types.APISpecification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	spec, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// WriteFile writes spec to path. An empty format is inferred from the extension.
func WriteFile(spec *types.APISpecification, path, format string) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	data, err := Marshal(spec, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
