// Package kvstore persists preference values in a flat key-value store.
//
// # Overview
//
// The preference manager only needs three operations: read a bool, read a
// string, and write a batch of both. Store captures exactly that, shaped like
// a platform shared-preferences object: reads take a fallback, writes go
// through an Editor and take effect on Apply.
//
// # Backends
//
//   - Memory: process-local map, used by tests and dry runs
//   - File: one TOML document per namespace under a directory
//     (default ~/.config/prefcenter/store), rewritten atomically on Apply
//   - Redis: one hash per namespace at prefcenter:<namespace>
//
// Open picks a backend from Options. The namespace comes from the
// accessName of the markup's PreferenceSet element.
//
// # Error Handling
//
// Reads never fail because of a missing or mistyped value; the fallback is
// returned. A corrupt TOML document is logged and treated as empty so a
// damaged file never blocks startup. Backend I/O errors
// (Redis connectivity, failed writes) are returned wrapped.
//
// # Concurrency
//
// Memory and File guard their maps with a mutex. None of the backends
// coordinate across processes; a single writer is assumed.
package kvstore
