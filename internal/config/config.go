package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Config is the on-disk shape at $HOME/.msg-store/config.json (spec §6).
type Config struct {
	Host            string           `json:"host"`
	Port            int              `json:"port"`
	NodeID          uint16           `json:"node_id"`
	Database        string           `json:"database"` // "mem" | "leveldb"
	LevelDBPath     string           `json:"leveldb_path,omitempty"`
	FileStorage     bool             `json:"file_storage"`
	FileStoragePath string           `json:"file_storage_path,omitempty"`
	MaxByteSize     *int64           `json:"max_byte_size,omitempty"`
	Groups          map[string]int64 `json:"groups,omitempty"`
	Update          *bool            `json:"update,omitempty"`
	NoUpdate        *bool            `json:"no_update,omitempty"`
}

// Default returns the built-in baseline: an unbounded in-memory store
// listening on 0.0.0.0:8080 as node 1.
func Default() Config {
	return Config{
		Host:     "0.0.0.0",
		Port:     8080,
		NodeID:   1,
		Database: "mem",
	}
}

// Load reads cfg from a JSON file at path, overlaying Default(). An
// absent file is not an error — callers get the baseline.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as indented JSON, for the self-persist toggle
// (update/no_update).
func Save(path string, cfg Config) error {
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks the constraints spec §6 implies: database is one of the
// two known backends, and update/no_update are mutually exclusive.
func (c Config) Validate() error {
	switch c.Database {
	case "mem", "leveldb":
	default:
		return fmt.Errorf("config: unknown database %q, want \"mem\" or \"leveldb\"", c.Database)
	}
	if c.Database == "leveldb" && c.LevelDBPath == "" {
		return fmt.Errorf("config: leveldb_path is required when database is \"leveldb\"")
	}
	if c.FileStorage && c.FileStoragePath == "" {
		return fmt.Errorf("config: file_storage_path is required when file_storage is true")
	}
	if c.Update != nil && c.NoUpdate != nil {
		return fmt.Errorf("config: update and no_update are mutually exclusive")
	}
	if _, err := c.GroupCaps(); err != nil {
		return err
	}
	return nil
}

// SelfPersist reports whether the store should write its own config
// changes back to disk. update/no_update are mutually exclusive; the
// default, with neither set, is not to self-persist.
func (c Config) SelfPersist() bool {
	if c.Update != nil {
		return *c.Update
	}
	if c.NoUpdate != nil {
		return !*c.NoUpdate
	}
	return false
}

// GroupCaps parses the groups map's string priority keys into the
// uint32 priorities the store index uses.
func (c Config) GroupCaps() (map[uint32]int64, error) {
	out := make(map[uint32]int64, len(c.Groups))
	for k, v := range c.Groups {
		p, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("config: groups key %q is not a valid priority: %w", k, err)
		}
		out[uint32(p)] = v
	}
	return out, nil
}

// SortedGroupPriorities returns the configured group priorities ascending,
// for deterministic startup application order.
func (c Config) SortedGroupPriorities() []uint32 {
	caps, err := c.GroupCaps()
	if err != nil {
		return nil
	}
	out := make([]uint32, 0, len(caps))
	for p := range caps {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
