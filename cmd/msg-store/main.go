package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	serverrun "github.com/msg-store/msg-store/internal/cmd/server"
	cfgpkg "github.com/msg-store/msg-store/internal/config"
	logpkg "github.com/msg-store/msg-store/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	level := os.Getenv("MSGSTORE_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
	restore := logpkg.RedirectStdLog(logger)
	defer restore()

	rootCmd := &cobra.Command{
		Use:   "msg-store",
		Short: "msg-store runtime CLI",
		Long:  "msg-store is a single-binary, bounded-capacity message buffer. This CLI manages the server and basic operations.",
	}

	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the msg-store HTTP server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, logger)
		},
	}
	serverStartCmd.Flags().String("config", "", "Path to config.json (defaults to $HOME/.msg-store/config.json)")
	serverStartCmd.Flags().String("host", "", "Listen host, overrides config")
	serverStartCmd.Flags().Int("port", 0, "Listen port, overrides config")
	serverStartCmd.Flags().Uint16("node-id", 0, "Node identifier stamped onto minted identifiers, overrides config")
	serverStartCmd.Flags().String("database", "", "Persistence backend: mem|leveldb, overrides config")
	serverStartCmd.Flags().String("leveldb-path", "", "Embedded key-value store directory, overrides config")
	serverStartCmd.Flags().Bool("file-storage", false, "Enable the blob store for streamed large payloads")
	serverStartCmd.Flags().String("file-storage-path", "", "Blob store directory, overrides config")
	serverStartCmd.Flags().Int64("max-byte-size", 0, "Store-wide byte cap, overrides config; 0 keeps the configured cap")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	configCmd := &cobra.Command{Use: "config", Short: "Configuration operations"}
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			enc, err := cfgPretty(cfg)
			if err != nil {
				return err
			}
			fmt.Println(enc)
			return nil
		},
	}
	configShowCmd.Flags().String("config", "", "Path to config.json (defaults to $HOME/.msg-store/config.json)")
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, logger logpkg.Logger) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.Host = v
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetUint16("node-id"); v != 0 {
		cfg.NodeID = v
	}
	if v, _ := cmd.Flags().GetString("database"); v != "" {
		cfg.Database = v
	}
	if v, _ := cmd.Flags().GetString("leveldb-path"); v != "" {
		cfg.LevelDBPath = v
	}
	if v, _ := cmd.Flags().GetBool("file-storage"); v {
		cfg.FileStorage = true
	}
	if v, _ := cmd.Flags().GetString("file-storage-path"); v != "" {
		cfg.FileStoragePath = v
	}
	if v, _ := cmd.Flags().GetInt64("max-byte-size"); v != 0 {
		cfg.MaxByteSize = &v
	}
	cfgpkg.FromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	if err := serverrun.Run(ctx, serverrun.Options{HTTPAddr: addr, Config: cfg, Logger: logger}); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// loadConfig resolves --config (or the fixed default path), loads it,
// and overlays the environment, matching the precedence the server
// itself applies at startup.
func loadConfig(cmd *cobra.Command) (cfgpkg.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := cfgpkg.DefaultConfigPath()
		if err != nil {
			return cfgpkg.Config{}, "", err
		}
		path = p
	}
	cfg, err := cfgpkg.Load(path)
	if err != nil {
		return cfgpkg.Config{}, "", err
	}
	cfgpkg.FromEnv(&cfg)
	return cfg, path, nil
}

func cfgPretty(cfg cfgpkg.Config) (string, error) {
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
