// Package device provides pipeline.DeviceSource implementations: one
// reading directly from a raw device file (the normal path, for a
// kernel-exposed touch digitizer character device), and one bridging a
// go.bug.st/serial port (for USB-serial test harnesses and bench rigs
// that replay captured device traffic over a serial link rather than
// exposing a character device).
package device
