// Package reader provides a bounded cursor over a borrowed byte buffer.
//
// Responsibilities: typed sequential reads, skips, seeks, and independent
// sub-span readers over a device buffer, with strict bounds checking and
// no host-endianness assumptions. This is the lowest layer of the decode
// pipeline; every other stage reads through a Reader rather than touching
// raw byte slices directly.
package reader
