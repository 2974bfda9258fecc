// Package storage provides durable key-value storage for panel state.
//
// The panel persists exactly two kinds of data: the active session
// (token + server URL) and user settings. Both live in a single
// SQLite-backed KV table so a panel restart survives context reloads.
//
// Implementations:
//   - SQLite: durable store backed by modernc.org/sqlite (pure Go)
//   - Memory: in-process store for tests and degraded operation
//
// Write failures are surfaced to callers but are expected to be
// treated as non-fatal: an in-memory session remains usable, it just
// will not survive the next restart.
//
// Example Usage:
//
//	kv, err := storage.OpenSQLite("/var/lib/infapanel/panel.db")
//	if err != nil {
//	    kv = storage.NewMemory()
//	}
//	defer kv.Close()
package storage
