// Package repositories implements SQLite persistence for client-side state.
//
// The browser client kept its state in local storage. [LocalStorage] reproduces those semantics on a single
// local_storage table: string keys, string values, synchronous access, last write wins.
//
// Keys in use:
//   - theme : "light" or "dark"
//   - journeyHistory : JSON array of models.HistoryEntry, newest first, at most 10
package repositories
