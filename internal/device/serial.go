package device

import (
	"fmt"

	"go.bug.st/serial"
)

// DefaultSerialMode is the port configuration used by bench rigs that
// replay captured device buffers over a USB-serial bridge.
func DefaultSerialMode() *serial.Mode {
	return &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// SerialDevice reads raw buffers from a serial port rather than a
// device character file. It implements pipeline.DeviceSource.
type SerialDevice struct {
	port          serial.Port
	maxBufferSize int
}

// OpenSerial opens a serial port at path with mode and wraps it as a
// DeviceSource. Pass nil for mode to use DefaultSerialMode.
func OpenSerial(path string, mode *serial.Mode, maxBufferSize int) (*SerialDevice, error) {
	if mode == nil {
		mode = DefaultSerialMode()
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("device: open serial port %s: %w", path, err)
	}
	return &SerialDevice{port: port, maxBufferSize: maxBufferSize}, nil
}

// MaxBufferSize implements pipeline.DeviceSource.
func (d *SerialDevice) MaxBufferSize() int {
	return d.maxBufferSize
}

// ReadFrame implements pipeline.DeviceSource.
func (d *SerialDevice) ReadFrame(buf []byte) (int, error) {
	n, err := d.port.Read(buf)
	if err != nil {
		return n, fmt.Errorf("device: serial read: %w", err)
	}
	return n, nil
}

// Close closes the underlying serial port.
func (d *SerialDevice) Close() error {
	return d.port.Close()
}
