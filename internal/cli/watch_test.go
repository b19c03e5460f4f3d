// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchLoop_Debounces(t *testing.T) {
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	calls := make(chan struct{}, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, events, errs, 20*time.Millisecond,
			func(fsnotify.Event) bool { return true },
			func() { calls <- struct{}{} })
	}()

	for i := 0; i < 3; i++ {
		events <- fsnotify.Event{Name: "users.yaml", Op: fsnotify.Write}
	}

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("regeneration was not triggered")
	}
	select {
	case <-calls:
		t.Fatal("a burst of events triggered more than one regeneration")
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatchLoop_IgnoresIrrelevantEvents(t *testing.T) {
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	calls := make(chan struct{}, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, events, errs, 10*time.Millisecond,
			func(ev fsnotify.Event) bool { return ev.Name == "users.yaml" },
			func() { calls <- struct{}{} })
	}()

	events <- fsnotify.Event{Name: "users.yaml", Op: fsnotify.Chmod}
	events <- fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}

	select {
	case <-calls:
		t.Fatal("irrelevant event triggered a regeneration")
	case <-time.After(100 * time.Millisecond):
	}

	close(events)
	require.NoError(t, <-done)
}

func TestWithin(t *testing.T) {
	base := filepath.FromSlash("/work/sdk")
	assert.True(t, within(base, base))
	assert.True(t, within(filepath.Join(base, "src", "client.ts"), base))
	assert.False(t, within(filepath.FromSlash("/work/docs/api.md"), base))
	assert.False(t, within(filepath.FromSlash("/work/sdk-old/a.ts"), base))
}

func TestIsSpecFile(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "users.yaml", specYAML)
	docs := writeFile(t, dir, "notes.yaml", "title: Getting started\n")
	md := writeFile(t, dir, "api.md", documentationMarkdown)

	assert.True(t, isSpecFile(spec))
	assert.False(t, isSpecFile(docs))
	assert.False(t, isSpecFile(md))
	assert.False(t, isSpecFile(dir))
	assert.False(t, isSpecFile(filepath.Join(dir, "missing.yaml")))
}

func TestRegenerateSDK_FromSpecFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.yaml", specYAML)
	chdir(t, dir)
	resetFlags(rootCmd)
	backend = "offline"

	cfg, err := loadConfig()
	require.NoError(t, err)

	require.NoError(t, regenerateSDK(context.Background(), cfg, "users.yaml", nil))
	assert.FileExists(t, filepath.Join("sdk", "src", "client.ts"))

	// a second run overwrites the output
	require.NoError(t, regenerateSDK(context.Background(), cfg, "users.yaml", nil))
}

func TestRegenerateSDK_FromDocumentation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docs/users.json", documentationJSON)
	chdir(t, dir)
	resetFlags(rootCmd)
	backend = "offline"

	cfg, err := loadConfig()
	require.NoError(t, err)

	require.NoError(t, regenerateSDK(context.Background(), cfg, "", []string{"docs/users.json"}))
	assert.FileExists(t, filepath.Join("sdk", "README.md"))
}

func TestRunOnChange(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}

	output, err := captureOutput(t, func() error {
		return runOnChange(context.Background(), "echo regenerated")
	})
	require.NoError(t, err)
	assert.Equal(t, "regenerated\n", output)

	_, err = captureOutput(t, func() error {
		return runOnChange(context.Background(), "exit 3")
	})
	assert.Error(t, err)
}
