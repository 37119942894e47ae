package pipeline

import (
	"github.com/iptsd/iptsd-core/internal/contact"
	"github.com/iptsd/iptsd-core/internal/decoder"
)

// DeviceSource delivers opaque raw buffers from the IPTS character
// device. Discovery, ioctl mode switching, and the blocking read itself
// live entirely outside this package; the pipeline only ever sees the
// bytes a DeviceSource hands it.
type DeviceSource interface {
	// MaxBufferSize returns the largest buffer ReadFrame may fill.
	MaxBufferSize() int
	// ReadFrame blocks until one device buffer is available, copies it
	// into buf, and returns the number of bytes written.
	ReadFrame(buf []byte) (int, error)
}

// EventSink receives the pipeline's output: stylus samples as they are
// decoded, and one stabilized contact frame per processed buffer that
// carried heatmap data. Synthetic input emission to the OS happens
// entirely behind this interface.
type EventSink interface {
	decoder.StylusSink
	EmitContacts(contact.Frame)
}
