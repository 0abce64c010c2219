// Package state shares the follower's view of the log directory.
//
// # Overview
//
// The follow loop in package app reads the log store on a timer and records
// what it saw here. Readers, such as the command printing new entries, take
// snapshots without blocking the loop.
//
// # Update Semantics
//
//	// Success case: replace the entries
//	store.Update(entries, nil)
//	→ snapshot.Entries = entries
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Error case: keep old entries, record error
//	store.Update(nil, err)
//	→ snapshot.Entries = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// # Copying
//
// Update and Snapshot copy the entry slice and the error, so a snapshot can be
// held and mutated by the reader without affecting the store.
//
// # Testing Considerations
//
// The zero Store is ready to use; Snapshot returns a zero Snapshot if Update
// was never called.
package state
