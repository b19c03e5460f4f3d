// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package assemble

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/api2spec/docs2sdk/internal/util"
)

// bundleModTime is stamped on every archive entry so bundles are reproducible.
var bundleModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// FileSet maps slash-separated relative paths to file contents.
type FileSet map[string]string

// PlannedFile describes one file of a FileSet without its content.
type PlannedFile struct {
	Path string
	Size int
}

// Paths returns the file paths in sorted order.
func (f FileSet) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Plan lists every file with its size, sorted by path.
func (f FileSet) Plan() []PlannedFile {
	planned := make([]PlannedFile, 0, len(f))
	for _, p := range f.Paths() {
		planned = append(planned, PlannedFile{Path: p, Size: len(f[p])})
	}
	return planned
}

// TotalSize is the sum of the byte lengths of all contents.
func (f FileSet) TotalSize() int {
	total := 0
	for _, content := range f {
		total += len(content)
	}
	return total
}

type treeNode struct {
	name     string
	children map[string]*treeNode
}

func (n *treeNode) child(name string) *treeNode {
	if n.children == nil {
		n.children = make(map[string]*treeNode)
	}
	c, ok := n.children[name]
	if !ok {
		c = &treeNode{name: name}
		n.children[name] = c
	}
	return c
}

func (n *treeNode) sortedChildren() []*treeNode {
	out := make([]*treeNode, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// DisplayTree renders the paths as an indented tree, grouping files under their
// directories. Directory names end with a slash.
func (f FileSet) DisplayTree() string {
	root := &treeNode{}
	for _, p := range f.Paths() {
		node := root
		for _, part := range strings.Split(p, "/") {
			node = node.child(part)
		}
	}

	var b strings.Builder
	writeTree(&b, root, "")
	return b.String()
}

func writeTree(b *strings.Builder, n *treeNode, indent string) {
	children := n.sortedChildren()
	for i, c := range children {
		last := i == len(children)-1

		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}

		name := c.name
		if len(c.children) > 0 {
			name += "/"
		}
		b.WriteString(indent + branch + name + "\n")

		if len(c.children) > 0 {
			writeTree(b, c, indent+next)
		}
	}
}

// ArchiveName returns the file name used for the bundle of the named API.
func ArchiveName(name string) string {
	return rootDir(name) + "-sdk.zip"
}

func rootDir(name string) string {
	slug := util.Slug(name)
	if slug == "" {
		return "sdk"
	}
	return slug
}

// Bundle packages the files into a zip archive under a single root directory derived
// from name. Entries are sorted and carry a fixed modification time, so the same
// FileSet always yields the same bytes.
func (f FileSet) Bundle(name string) ([]byte, error) {
	root := rootDir(name)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, p := range f.Paths() {
		header := &zip.FileHeader{
			Name:     path.Join(root, p),
			Method:   zip.Deflate,
			Modified: bundleModTime,
		}
		header.SetMode(0o644)

		w, err := zw.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("add %s to bundle: %w", p, err)
		}
		if _, err := w.Write([]byte(f[p])); err != nil {
			return nil, fmt.Errorf("write %s to bundle: %w", p, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDir writes every file below dir. Each file is written to a temporary file and
// renamed into place. Unless force is set, a non-empty dir is refused.
func (f FileSet) WriteDir(dir string, force bool) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}

	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("output directory %q is not empty (use --force to overwrite)", abs)
		}
	}

	for _, p := range f.Paths() {
		if err := checkRelPath(p); err != nil {
			return err
		}
		if err := writeFileAtomic(abs, p, []byte(f[p])); err != nil {
			return err
		}
	}
	return nil
}

// checkRelPath rejects paths that would land outside the output directory.
func checkRelPath(p string) error {
	clean := path.Clean(p)
	if p == "" || path.IsAbs(p) || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("invalid file path %q", p)
	}
	return nil
}

// writeFileAtomic writes content to baseDir/relPath through a temporary file and rename.
func writeFileAtomic(baseDir, relPath string, content []byte) error {
	fullPath := filepath.Join(baseDir, filepath.FromSlash(relPath))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure target directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-docs2sdk-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", relPath, err)
	}
	tmpPath := tmpFile.Name()
	success := false

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
		}
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(content); err != nil {
		return fmt.Errorf("write temp file for %s: %w", relPath, err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		return fmt.Errorf("set file permissions: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Rename(tmpPath, fullPath); err != nil {
		return fmt.Errorf("atomic rename %s: %w", relPath, err)
	}

	success = true
	return nil
}

// FormatSize renders a byte count for humans.
func FormatSize(n int) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(n)/unit)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(unit*unit))
	}
}
