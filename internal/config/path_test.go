package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".msg-store", "config.json")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
}

func TestDefaultDataDir(t *testing.T) {
	dir, err := DefaultDataDir()
	if err != nil {
		t.Fatalf("DefaultDataDir: %v", err)
	}
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".msg-store")
	if dir != want {
		t.Fatalf("dir = %q, want %q", dir, want)
	}
}

func TestEnsureDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".msg-store")
	if err := EnsureDataDir(dir); err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}
	if !isDir(dir) {
		t.Fatalf("expected %s to be a directory", dir)
	}
}

func TestIsDir(t *testing.T) {
	if !isDir(t.TempDir()) {
		t.Fatalf("expected temp dir to report as a directory")
	}
	if isDir(filepath.Join(t.TempDir(), "does-not-exist")) {
		t.Fatalf("expected missing path to report false")
	}
}
