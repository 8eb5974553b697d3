// Package config loads msg-store's configuration from the fixed path
// $HOME/.msg-store/config.json (spec §6), overlays MSGSTORE_* environment
// variables, and validates the result before the runtime wires up a
// store.
//
// Example:
//
//	path, _ := config.DefaultConfigPath()
//	cfg, err := config.Load(path)
//	if err != nil { /* handle */ }
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil { /* handle */ }
package config
