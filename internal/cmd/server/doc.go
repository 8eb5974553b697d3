// Package serverrun exposes the Run entrypoint the CLI uses to start
// msg-store's HTTP server over a Runtime, handling lifecycle and
// graceful shutdown.
//
// Example:
//
//	opts := serverrun.Options{HTTPAddr: ":8080", Config: config.Default()}
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = serverrun.Run(ctx, opts)
package serverrun
