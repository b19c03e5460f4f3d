// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/internal/scanner"
	"github.com/api2spec/docs2sdk/internal/specfile"
	"github.com/api2spec/docs2sdk/pkg/types"
)

var (
	watchDebounce int
	watchOnChange string
)

var watchCmd = &cobra.Command{
	Use:   "watch <spec | paths...>",
	Short: "Watch for file changes and regenerate the SDK",
	Long: `Watch a specification file or documentation and regenerate the SDK on change.

Given a single specification file, every save regenerates the SDK from it.
Given documentation files or directories, every change re-extracts the
specification first. Bursts of changes are collapsed with a debounce, and the
output directory is overwritten on each run.

Example:
  docs2sdk watch users.yaml                  # Regenerate from a spec file
  docs2sdk watch ./docs                      # Re-extract and regenerate
  docs2sdk watch users.yaml --debounce 1000  # Wait 1s before regenerating
  docs2sdk watch users.yaml --on-change "npm run build --prefix sdk"`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce duration in milliseconds (default: from config, 500)")
	watchCmd.Flags().StringVar(&watchOnChange, "on-change", "", "command to run after each regeneration")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if output != "" {
		cfg.Output = output
	}
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}
	if watchOnChange != "" {
		cfg.Watch.OnChange = watchOnChange
	}

	paths := args
	if len(paths) == 0 {
		paths = cfg.Source.Paths
	}
	specPath := ""
	if len(paths) == 1 && isSpecFile(paths[0]) {
		specPath = paths[0]
	}

	outDir, err := filepath.Abs(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	printVerbose("Watch configuration:")
	printVerbose("  Debounce: %dms", cfg.Watch.Debounce)
	if cfg.Watch.OnChange != "" {
		printVerbose("  On change: %s", cfg.Watch.OnChange)
	}
	printVerbose("  Paths: %s", strings.Join(paths, ", "))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := addWatchPath(watcher, p, outDir); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	regenerate := func() {
		if err := regenerateSDK(ctx, cfg, specPath, paths); err != nil {
			printError("%v", err)
			return
		}
		if cfg.Watch.OnChange != "" {
			if err := runOnChange(ctx, cfg.Watch.OnChange); err != nil {
				printError("on-change command failed: %v", err)
			}
		}
	}

	regenerate()
	printInfo("Watching for changes in: %s", strings.Join(paths, ", "))
	printInfo("Press Ctrl+C to stop")

	relevant := func(ev fsnotify.Event) bool {
		name, err := filepath.Abs(ev.Name)
		if err != nil || within(name, outDir) {
			return false
		}
		if specPath != "" {
			abs, _ := filepath.Abs(specPath)
			return name == abs
		}
		if ev.Has(fsnotify.Create) {
			if info, err := os.Stat(name); err == nil && info.IsDir() {
				if err := addWatchPath(watcher, name, outDir); err != nil {
					printError("%v", err)
				}
				return false
			}
		}
		return scanner.IsSupportedFile(name)
	}

	debounce := time.Duration(cfg.Watch.Debounce) * time.Millisecond
	return watchLoop(ctx, watcher.Events, watcher.Errors, debounce, relevant, regenerate)
}

// watchLoop calls fn once events stop arriving for debounce. It returns when ctx is
// done or the event channel closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, debounce time.Duration, relevant func(fsnotify.Event) bool, fn func()) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !relevant(ev) {
				continue
			}
			printVerbose("Changed: %s", ev.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			printError("watch error: %v", err)
		case <-fire:
			fire = nil
			fn()
		}
	}
}

// regenerateSDK reads or extracts the specification and writes the SDK over outDir.
func regenerateSDK(ctx context.Context, cfg *config.Config, specPath string, paths []string) error {
	var spec *types.APISpecification
	if specPath != "" {
		var err error
		if spec, err = specfile.ReadFile(specPath); err != nil {
			return err
		}
	} else {
		text, _, err := readDocumentation(cfg, paths)
		if err != nil {
			return err
		}
		session, err := newSession(cfg, "")
		if err != nil {
			return err
		}
		result, err := session.Extract(ctx, text)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		printConfidence(result.Confidence)
		spec = result.Spec
	}

	report, err := generateSDK(ctx, cfg, spec)
	if err != nil {
		return err
	}
	return writeSDK(cfg, spec, report, false, true)
}

// addWatchPath watches path. Directories are watched recursively, skipping outDir and
// dependency or VCS directories; a file is watched through its parent directory so
// editors that replace files on save are seen.
func addWatchPath(w *fsnotify.Watcher, path, outDir string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(path))
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != path {
			switch d.Name() {
			case "node_modules", ".git", "dist", "build", "vendor":
				return filepath.SkipDir
			}
		}
		if abs, _ := filepath.Abs(p); within(abs, outDir) {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("cannot watch %s: %w", p, err)
		}
		printVerbose("  watching %s", p)
		return nil
	})
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// isSpecFile reports whether path is a readable specification file.
func isSpecFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return false
	}
	_, err = specfile.ReadFile(path)
	return err == nil
}

// runOnChange runs command through the shell with the CLI's output streams.
func runOnChange(ctx context.Context, command string) error {
	var c *exec.Cmd
	if runtime.GOOS == "windows" {
		c = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		c = exec.CommandContext(ctx, "sh", "-c", command)
	}
	c.Stdout = rootCmd.OutOrStdout()
	c.Stderr = rootCmd.ErrOrStderr()
	printVerbose("Running: %s", command)
	return c.Run()
}
