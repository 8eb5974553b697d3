// Package httpserver exposes an internal/store.Store over HTTP: message
// insertion and retrieval, group and group-default administration,
// statistics, and store-wide introspection (spec §6), plus a
// supplemented export listing and a liveness probe.
//
// Handlers live in the controllers subpackage; this package only owns
// routing and the listen/shutdown lifecycle.
//
// Example:
//
//	st := store.New(1, backend, blobs, logger)
//	s := httpserver.New(st, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
