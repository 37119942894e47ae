// Package stabilizer applies temporal smoothing to tracked contacts: a
// dead-band/break-band hysteresis rule per axis (size, position,
// orientation) against a sliding window of previously stabilized
// frames, plus a per-contact stability flag.
package stabilizer
