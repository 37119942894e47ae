// Package pipeline wires the Reader, Frame Decoder, Blob Detector,
// Tracker, and Stabilizer into a single synchronous processing stage
// that consumes one raw device buffer at a time and emits stylus
// samples and stabilized contact frames to a caller-supplied EventSink.
//
// The pipeline does not own a device buffer or a read loop; it is
// driven one buffer per ProcessBuffer call so callers can choose their
// own read/dispatch strategy (polling, a DeviceSource read loop, or
// replay from a recorded session).
package pipeline
