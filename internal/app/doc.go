// Package app provides the orchestration layer for the prefcenter command.
//
// # Overview
//
// This package wires together configuration, the resource table, the
// preference tree, its key-value store and the log store. It serves as the
// composition root: every collaborator is opened here and handed to the code
// that needs it.
//
// # Architecture
//
// Run handles one command per invocation:
//
//  1. Load configuration from ~/.config/prefcenter/config.toml
//  2. Build the slog handler at the configured level
//  3. Open the log store
//  4. For preference commands, parse the markup, open the store namespace
//     it declares and load every node
//  5. Execute the command and print plain text to Options.Stdout
//
// # Components
//
//   - app.go: Run, command dispatch and collaborator setup
//   - output.go: plain text rendering of nodes and log entries
//   - poller.go: Follow, the polling loop behind the follow command
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read config, .env, PREFCENTER_*
//	       ├─────> logstore.Open()        Log directory
//	       ├─────> preference.Parse()     Markup + resources
//	       ├─────> kvstore.Open()         file, memory or redis
//	       ├─────> Manager.LoadAll()      Reconcile stored values
//	       └─────> command                get, set, switch, select, ...
//
//	Follow loop:
//	┌─────────────────────────────────────────┐
//	│ Follow()                                │
//	│  ├─> logstore.All()                     │
//	│  ├─> state.Store.Update()               │
//	│  └─> print entries not seen before      │
//	└─────────────────────────────────────────┘
//
// # Error Handling
//
// Configuration and log store failures are returned before any command runs.
// Failures of preference commands are also posted to the log store with a
// stack trace, so `prefcenter logs` shows what went wrong later. Errors
// wrapping ErrUsage are not recorded; the caller prints usage instead.
//
// The follow loop keeps running when the log directory cannot be read,
// doubling its interval per consecutive failure up to 30 seconds.
package app
