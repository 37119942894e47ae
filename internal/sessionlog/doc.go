// Package sessionlog is an optional debug/replay sink that records
// stabilized contact frames and stylus samples to a local SQLite
// database, keyed by a per-run session identifier. It sits entirely
// outside the core pipeline: nothing in internal/pipeline depends on
// it, and a daemon may run without ever constructing a Store.
package sessionlog
