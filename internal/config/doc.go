// Package config loads and validates the tunable parameters of the IPTS
// pipeline: blob-detection thresholds, tracker gating distance, and
// stabilizer hysteresis bands. Configuration errors are rejected at
// construction and are never surfaced per-frame.
package config
