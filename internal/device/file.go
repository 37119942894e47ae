package device

import (
	"fmt"
	"os"
)

// FileDevice reads raw buffers from a device character file, one
// ReadFrame call per underlying read(2).
type FileDevice struct {
	f             *os.File
	maxBufferSize int
}

// OpenFile opens path and wraps it as a DeviceSource. maxBufferSize
// bounds how large a single buffer read may be; it should be at least
// as large as the device's largest reported payload.
func OpenFile(path string, maxBufferSize int) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("device: open %s: %w", path, err)
	}
	return &FileDevice{f: f, maxBufferSize: maxBufferSize}, nil
}

// MaxBufferSize implements pipeline.DeviceSource.
func (d *FileDevice) MaxBufferSize() int {
	return d.maxBufferSize
}

// ReadFrame implements pipeline.DeviceSource.
func (d *FileDevice) ReadFrame(buf []byte) (int, error) {
	n, err := d.f.Read(buf)
	if err != nil {
		return n, fmt.Errorf("device: read: %w", err)
	}
	return n, nil
}

// Close closes the underlying file.
func (d *FileDevice) Close() error {
	return d.f.Close()
}
