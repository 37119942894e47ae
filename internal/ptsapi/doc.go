// Package ptsapi exposes a small HTTP status and debug surface for a
// running daemon: current pipeline configuration, the last stabilized
// contact frame, and liveness/readiness endpoints suitable for a
// process supervisor. It is independent of the ptsrpc streaming
// service; a daemon may run either, both, or neither.
package ptsapi
