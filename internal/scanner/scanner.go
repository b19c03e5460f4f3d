// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludePatterns match documentation files.
var DefaultIncludePatterns = []string{"**/*.md", "**/*.txt", "**/*.html", "**/*.yaml", "**/*.yml", "**/*.json"}

// Config holds scanner configuration.
type Config struct {
	// BasePath is the base directory for scanning (defaults to current directory)
	BasePath string

	// IncludePatterns are glob patterns for files to include (e.g., "docs/**/*.md")
	IncludePatterns []string

	// ExcludePatterns are glob patterns for files to exclude (e.g., "node_modules/**")
	ExcludePatterns []string

	// Extensions filters files by extension (e.g., []string{".md", ".ts"})
	// If empty, all supported extensions are included
	Extensions []string
}

// Scanner discovers files in a directory tree.
type Scanner struct {
	config Config
}

// New creates a new Scanner with the given configuration.
func New(config Config) *Scanner {
	if config.BasePath == "" {
		config.BasePath = "."
	}
	if len(config.IncludePatterns) == 0 {
		config.IncludePatterns = DefaultIncludePatterns
	}

	return &Scanner{
		config: config,
	}
}

// Scan discovers all files under BasePath matching the configuration.
func (s *Scanner) Scan() ([]Document, error) {
	return s.ScanPath(s.config.BasePath)
}

// ScanPath scans a file or directory. A file named explicitly only has to have a
// supported extension; the glob patterns apply to files found by walking.
func (s *Scanner) ScanPath(path string) ([]Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("path does not exist: %s", absPath)
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if !info.IsDir() {
		if !s.hasExtension(absPath) {
			return nil, nil
		}
		doc, err := readDocument(absPath, info)
		if err != nil {
			return nil, err
		}
		return []Document{doc}, nil
	}

	var docs []Document
	err = s.walk(absPath, func(filePath string, info fs.FileInfo) {
		doc, err := readDocument(filePath, info)
		if err != nil {
			// Skip files we can't read
			return
		}
		docs = append(docs, doc)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return docs, nil
}

// ScanPaths scans multiple paths, dropping duplicates.
func (s *Scanner) ScanPaths(paths []string) ([]Document, error) {
	var all []Document
	seen := make(map[string]bool)

	for _, path := range paths {
		docs, err := s.ScanPath(path)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			if !seen[d.Path] {
				seen[d.Path] = true
				all = append(all, d)
			}
		}
	}

	return all, nil
}

// FileCount returns a quick count of matching files under BasePath without reading content.
func (s *Scanner) FileCount() (int, error) {
	basePath, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve base path: %w", err)
	}

	count := 0
	err = s.walk(basePath, func(string, fs.FileInfo) { count++ })
	return count, err
}

// walk calls fn for every matching file under root. Patterns are matched against
// slash-separated paths relative to root.
func (s *Scanner) walk(root string, fn func(path string, info fs.FileInfo)) error {
	return filepath.WalkDir(root, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip inaccessible paths
			return nil
		}

		relPath, relErr := filepath.Rel(root, filePath)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if s.shouldExcludeDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.shouldIncludeFile(relPath) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		fn(filePath, info)
		return nil
	})
}

func readDocument(path string, info fs.FileInfo) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read file: %w", err)
	}
	return Document{
		Path:    path,
		Format:  DetectFormat(path),
		Content: content,
		ModTime: info.ModTime(),
	}, nil
}

func (s *Scanner) hasExtension(filePath string) bool {
	if len(s.config.Extensions) == 0 {
		return IsSupportedFile(filePath)
	}
	ext := filepath.Ext(filePath)
	for _, e := range s.config.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// shouldIncludeFile checks a relative path against the extension filter and patterns.
func (s *Scanner) shouldIncludeFile(relPath string) bool {
	if !s.hasExtension(relPath) {
		return false
	}

	// Check exclude patterns first
	if matchesPatterns(relPath, s.config.ExcludePatterns) {
		return false
	}

	return matchesPatterns(relPath, s.config.IncludePatterns)
}

// shouldExcludeDir checks if a directory should be excluded.
func (s *Scanner) shouldExcludeDir(relPath string) bool {
	if relPath == "" || relPath == "." {
		return false
	}

	for _, pattern := range s.config.ExcludePatterns {
		// "node_modules" matches "node_modules/**"
		dirPattern := strings.TrimSuffix(pattern, "/**")
		dirPattern = strings.TrimSuffix(dirPattern, "/*")

		if relPath == dirPattern {
			return true
		}

		// Also check if the pattern would match any file in this directory
		if matched, _ := doublestar.Match(pattern, relPath+"/dummy.md"); matched && strings.HasSuffix(pattern, "/**") {
			return true
		}
	}

	return false
}

// matchesPatterns checks if a path matches any of the given patterns.
func matchesPatterns(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			// Invalid pattern, skip
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// ValidatePatterns reports the first malformed glob pattern.
func ValidatePatterns(patterns ...string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}
