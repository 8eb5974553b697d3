package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// configDirName is the fixed directory name spec §6 mandates:
// $HOME/.msg-store/config.json.
const configDirName = ".msg-store"

// DefaultConfigPath returns $HOME/.msg-store/config.json.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("config: could not resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName, "config.json"), nil
}

// DefaultDataDir returns $HOME/.msg-store, the parent of config.json.
// It is not used as a fallback for leveldb_path or file_storage_path;
// Validate rejects a config that needs either and omits it.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("config: could not resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// EnsureDataDir creates dir (and config.json's parent) if absent.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
