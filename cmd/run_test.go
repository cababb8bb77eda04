package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lintrun/lintrun"
)

// setFlags points the package flag globals at a fixture project and
// restores them when the test finishes.
func setFlags(t *testing.T, cfg, dir, env string) {
	t.Helper()
	origCfg, origDir, origEnv, origTimeout := cfgFile, projectDir, envDir, timeout
	cfgFile, projectDir, envDir, timeout = cfg, dir, env, time.Minute
	logger = zap.NewNop()
	t.Cleanup(func() {
		cfgFile, projectDir, envDir, timeout = origCfg, origDir, origEnv, origTimeout
	})
}

// fixtureProject creates a project directory holding a fake environment
// with a stub flake8 that exits with the given code.
func fixtureProject(t *testing.T, exitCode string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub checkers are shell scripts")
	}

	projectDir := t.TempDir()
	binDir := filepath.Join(projectDir, ".venv", "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	script := "#!/bin/sh\nexit " + exitCode + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "flake8"), []byte(script), 0o755))
	return projectDir
}

func TestRunCheckersCleanTree(t *testing.T) {
	dir := fixtureProject(t, "0")
	setFlags(t, "", dir, ".venv")

	assert.Equal(t, lintrun.ExitOK, runCheckers())
}

func TestRunCheckersPropagatesFailure(t *testing.T) {
	dir := fixtureProject(t, "7")
	setFlags(t, "", dir, ".venv")

	assert.Equal(t, 7, runCheckers())
}

func TestRunCheckersMissingProjectDir(t *testing.T) {
	setFlags(t, "", filepath.Join(t.TempDir(), "nope"), ".venv")

	assert.Equal(t, lintrun.ExitContextError, runCheckers())
}

func TestRunCheckersMissingEnv(t *testing.T) {
	setFlags(t, "", t.TempDir(), ".venv")

	assert.Equal(t, lintrun.ExitContextError, runCheckers())
}

func TestRunCheckersUnresolvableChecker(t *testing.T) {
	dir := fixtureProject(t, "0")
	cfgPath := filepath.Join(dir, ".lintrun.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("checkers: [{command: lintrun-test-ghost-tool}]"), 0o644))
	setFlags(t, cfgPath, dir, ".venv")

	// the environment exists but the checker is not installed in it
	assert.Equal(t, lintrun.ExitContextError, runCheckers())
}

func TestRunCheckersInvalidConfig(t *testing.T) {
	dir := fixtureProject(t, "0")
	cfgPath := filepath.Join(dir, ".lintrun.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("checkers: [{name: broken}]"), 0o644))
	setFlags(t, cfgPath, dir, ".venv")

	assert.Equal(t, lintrun.ExitInvalidConfig, runCheckers())
}

func TestRunCheckersIdempotent(t *testing.T) {
	dir := fixtureProject(t, "1")
	setFlags(t, "", dir, ".venv")

	assert.Equal(t, runCheckers(), runCheckers())
}

func TestPreflight(t *testing.T) {
	dir := fixtureProject(t, "0")
	setFlags(t, "", dir, ".venv")
	assert.Equal(t, lintrun.ExitOK, runPreflight())

	cfgPath := filepath.Join(dir, ".lintrun.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("checkers: [{command: lintrun-test-ghost-tool}]"), 0o644))
	setFlags(t, cfgPath, dir, ".venv")
	assert.Equal(t, lintrun.ExitContextError, runPreflight())
}
