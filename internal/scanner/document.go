// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package scanner discovers documentation and generated source files on disk.
package scanner

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Document represents a discovered file.
type Document struct {
	// Path is the absolute path to the file
	Path string

	// Format is the detected format ("markdown", "text", "html", "yaml", "json", "typescript")
	Format string

	// Content is the file content
	Content []byte

	// ModTime is the last modification time
	ModTime time.Time
}

// formatExtensions maps file extensions to format identifiers.
var formatExtensions = map[string]string{
	".md":       "markdown",
	".markdown": "markdown",
	".mdx":      "markdown",
	".txt":      "text",
	".rst":      "text",
	".html":     "html",
	".htm":      "html",
	".yaml":     "yaml",
	".yml":      "yaml",
	".json":     "json",
	".ts":       "typescript",
	".mts":      "typescript",
	".cts":      "typescript",
}

// DetectFormat detects the format from a file path.
func DetectFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if format, ok := formatExtensions[ext]; ok {
		return format
	}
	return ""
}

// SupportedExtensions returns the supported file extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(formatExtensions))
	for ext := range formatExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupportedFile checks if a file path has a supported extension.
func IsSupportedFile(path string) bool {
	_, ok := formatExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Combine joins documents into one text for extraction. With more than one document each
// is introduced by a header naming its path relative to base.
func Combine(docs []Document, base string) string {
	if len(docs) == 1 {
		return string(docs[0].Content)
	}

	var sb strings.Builder
	for i, d := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		name := d.Path
		if rel, err := filepath.Rel(base, d.Path); err == nil && !strings.HasPrefix(rel, "..") {
			name = rel
		}
		sb.WriteString("===== ")
		sb.WriteString(filepath.ToSlash(name))
		sb.WriteString(" =====\n\n")
		sb.WriteString(strings.TrimSpace(string(d.Content)))
	}
	return sb.String()
}
