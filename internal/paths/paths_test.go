package paths

import (
	"path/filepath"
	"testing"
)

func TestDefaultStateDirUsesXDGStateHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", filepath.Join("/tmp", "test-state"))

	expected := filepath.Join("/tmp", "test-state", "timeclock")
	if dir := DefaultStateDir(); dir != expected {
		t.Fatalf("expected %s, got %s", expected, dir)
	}
}

func TestDefaultServerStateDirUsesXDGDataHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", filepath.Join("/tmp", "test-data"))

	expected := filepath.Join("/tmp", "test-data", "timeclock", "server")
	if dir := DefaultServerStateDir(); dir != expected {
		t.Fatalf("expected %s, got %s", expected, dir)
	}
}

func TestGlobalConfigPathUsesXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", filepath.Join("/tmp", "test-config"))

	expected := filepath.Join("/tmp", "test-config", "timeclock", "config.toml")
	if path := GlobalConfigPath(); path != expected {
		t.Fatalf("expected %s, got %s", expected, path)
	}
}

func TestDefaultStateDirFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", filepath.Join("/tmp", "test-home"))

	expected := filepath.Join("/tmp", "test-home", ".local", "state", "timeclock")
	if dir := DefaultStateDir(); dir != expected {
		t.Fatalf("expected %s, got %s", expected, dir)
	}
}
