// Package wire defines the IPTS binary record layouts and constant
// registry: the data/payload/payload_frame/report
// header structs, the stylus and heatmap record shapes, and the type-tag
// constants the frame decoder dispatches on.
//
// All records are little-endian, packed, with no implicit padding.
// Decoders here never assume host endianness matches the wire.
package wire
