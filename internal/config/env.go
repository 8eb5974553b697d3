package config

import (
	"os"
	"strconv"
)

// FromEnv overlays MSGSTORE_* environment variables onto cfg, applied
// after the config file so the environment wins.
func FromEnv(cfg *Config) {
	if v := os.Getenv("MSGSTORE_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("MSGSTORE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("MSGSTORE_NODE_ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			cfg.NodeID = uint16(n)
		}
	}
	if v := os.Getenv("MSGSTORE_DATABASE"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("MSGSTORE_LEVELDB_PATH"); v != "" {
		cfg.LevelDBPath = v
	}
	if v := os.Getenv("MSGSTORE_FILE_STORAGE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.FileStorage = b
		}
	}
	if v := os.Getenv("MSGSTORE_FILE_STORAGE_PATH"); v != "" {
		cfg.FileStoragePath = v
	}
	if v := os.Getenv("MSGSTORE_MAX_BYTE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxByteSize = &n
		}
	}
}
