package editor

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/creack/pty"
)

func TestIsTerminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if !IsTerminal(tty) {
		t.Fatal("expected pty to be a terminal")
	}

	file, err := os.CreateTemp(t.TempDir(), "plain")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer file.Close()
	if IsTerminal(file) {
		t.Fatal("expected regular file not to be a terminal")
	}
	if IsTerminal(nil) {
		t.Fatal("expected nil file not to be a terminal")
	}
}

func TestCommand(t *testing.T) {
	cases := []struct {
		name   string
		visual string
		editor string
		want   []string
	}{
		{name: "fallback", want: []string{"vi"}},
		{name: "editor", editor: "nano", want: []string{"nano"}},
		{name: "editor with args", editor: "code --wait", want: []string{"code", "--wait"}},
		{name: "visual wins", visual: "hx", editor: "nano", want: []string{"hx"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("VISUAL", tc.visual)
			t.Setenv("EDITOR", tc.editor)
			if got := Command(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEditReportsExitStatus(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", writeScript(t, "exit 3"))

	err := Edit(filepath.Join(t.TempDir(), "file"))
	if err == nil || err.Error() != "editor exited with status 3" {
		t.Fatalf("expected exit status error, got %v", err)
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "editor.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}
