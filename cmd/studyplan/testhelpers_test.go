package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/at-ishikawa/studyplan/internal/testutil"
)

// setupWorkspace creates a config file with YAML storage and returns its path and data directory.
func setupWorkspace(t *testing.T) (string, string) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	tmpDir := t.TempDir()
	return testutil.SetupTestConfig(t, tmpDir), filepath.Join(tmpDir, "data")
}

// execute runs the root command with args and returns everything it printed.
func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
