package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// XDGDirs maps the XDG variables to their locations under a home dir.
func XDGDirs(homeDir string) map[string]string {
	return map[string]string{
		"XDG_CONFIG_HOME": filepath.Join(homeDir, ".config"),
		"XDG_STATE_HOME":  filepath.Join(homeDir, ".local", "state"),
		"XDG_DATA_HOME":   filepath.Join(homeDir, ".local", "share"),
	}
}

// EnsureHomeDirs creates the XDG directories under homeDir.
func EnsureHomeDirs(homeDir string) error {
	for name, dir := range XDGDirs(homeDir) {
		if err := os.MkdirAll(filepath.Join(dir, "timeclock"), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	return nil
}

// SetupTestHome creates a temp home directory, ensures the XDG dirs, and
// points HOME and the XDG variables at it.
func SetupTestHome(t testing.TB) string {
	t.Helper()

	homeDir := t.TempDir()
	if err := EnsureHomeDirs(homeDir); err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for name, dir := range XDGDirs(homeDir) {
		t.Setenv(name, dir)
	}
	return homeDir
}
