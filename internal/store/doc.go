// Package store implements the message store's in-memory indexing and
// eviction engine (the aggregate index over every priority group) and the
// facade that exposes it to callers.
//
// # Layout
//
// Group (group.go) is the per-priority bookkeeping unit: an ordered
// sequence of resident identifiers plus their total byte size. Index
// (index.go) aggregates every Group behind one exclusive lock and
// implements admission, eviction-candidate selection, and retrieval.
// Stats (stats.go) tracks the inserted/deleted/pruned counters, mutated
// only while the Index lock is held. Store (facade.go) composes Index
// with an identifier generator and the persistence/blob backends,
// exposing the public add/get/del/administration surface that the HTTP
// layer drives.
//
// # Concurrency
//
// Every Index method takes the single exclusive lock for its duration.
// Large payload streaming happens outside that lock; see Store.AddBlob.
package store
