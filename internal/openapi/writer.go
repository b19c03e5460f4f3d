// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"sigs.k8s.io/yaml"
)

// Writer handles writing OpenAPI documents to various outputs.
type Writer struct {
	// Indent specifies the indentation for JSON output (default: 2 spaces)
	Indent int
}

// NewWriter creates a new Writer with default settings.
func NewWriter() *Writer {
	return &Writer{
		Indent: 2,
	}
}

// Marshal encodes doc as "yaml" or "json". The document is always encoded to JSON
// first so kin-openapi's marshalers decide the field layout.
func (w *Writer) Marshal(doc *openapi3.T, format string) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", strings.Repeat(" ", w.Indent))
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}

	switch strings.ToLower(format) {
	case "json":
		return append(data, '\n'), nil
	case "yaml", "yml", "":
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Write encodes doc to out.
func (w *Writer) Write(doc *openapi3.T, out io.Writer, format string) error {
	data, err := w.Marshal(doc, format)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// WriteFile writes an OpenAPI document to a file.
// The format is determined by the format parameter ("yaml" or "json").
// If format is empty, it is inferred from the file extension.
func (w *Writer) WriteFile(doc *openapi3.T, path string, format string) error {
	if format == "" {
		format = FormatFromPath(path)
	}

	data, err := w.Marshal(doc, format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// FormatFromPath infers "json" or "yaml" from a file extension. Unknown extensions are YAML.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}
