// Package id provides the message store's identifier: a 4-tuple of
// (priority, timestamp_ms, sequence, node_id) that totally orders every
// resident message.
//
// # Ordering
//
// IDs compare by priority descending, then timestamp_ms ascending, then
// sequence ascending, then node_id ascending. This is the store's
// retrieval order: highest priority first, oldest first within a
// priority. Eviction walks the mirror of it (lowest priority first,
// oldest first within a priority).
//
// # Text form
//
// String returns the dashed form "p-t-s-n". Parse is its exact inverse;
// round-tripping an ID through String/Parse always yields an equal ID.
//
// # Monotonicity
//
// Generator guards a single (timestamp_ms, sequence) counter behind a
// mutex, the way the teacher's Generator guards (lastMs, sequence):
//   - If the system clock regresses, it pins to the last seen millisecond
//     and keeps incrementing sequence so output never goes backwards.
//   - If sequence would overflow within a millisecond, it busy-waits for
//     the next millisecond before emitting the next ID.
//
// node_id is set once at Generator construction and never changes, so two
// generators with distinct node_id values never collide even if their
// clocks and sequences agree.
package id
