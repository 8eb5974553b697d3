// Package runtime wires configuration, a persistence backend, an
// optional blob store, and the store facade into a single-node
// msg-store instance. It exposes Open/Close and accessors for the
// pieces the CLI and HTTP server need.
//
// Example:
//
//	cfg := config.Default()
//	rt, err := runtime.Open(runtime.Options{Config: cfg})
//	if err != nil { /* handle */ }
//	defer rt.Close()
//	st := rt.Store()
package runtime
