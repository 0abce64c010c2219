// Package logstore keeps a bounded history of log records, one file per record.
//
// # Overview
//
// Each Post writes a new file into the store directory and evicts the oldest
// files first so that no more than the retention ceiling (100 by default)
// remain afterwards. Files are never appended to or rewritten.
//
// # File Format
//
// Files are named after the capture time in Unix milliseconds:
//
//	1760870400123.log
//	1760870400123_1.log   second record within the same millisecond
//
// The first line is a header, the rest is the body with its newlines intact:
//
//	caused time: 1760870400123
//	first body line
//	second body line
//
// Listings sort by timestamp then collision suffix, so _10 follows _9. Files
// whose names do not follow the pattern are ignored.
//
// # Listener
//
// A Store holds at most one Listener. SetListener replaces the previous one.
// The listener runs synchronously inside Post, after the file is written,
// with the index of the new record in the sorted listing.
//
// # Error Handling
//
// Post returns I/O errors. All and Tail never fail because of a single bad
// file: unreadable files and malformed headers are skipped and logged at
// debug level. PostError stores an error together with a stack trace taken
// from github.com/pkg/errors.
//
// # Concurrency
//
// A mutex serializes Post, Clear and listing within a process. Names are
// claimed with O_EXCL, so concurrent writers in other processes never
// overwrite each other, though retention across processes is best effort.
package logstore
