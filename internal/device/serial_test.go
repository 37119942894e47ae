package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.bug.st/serial"
)

func TestDefaultSerialModeMatchesBenchRigExpectations(t *testing.T) {
	t.Parallel()

	mode := DefaultSerialMode()
	assert.Equal(t, 115200, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
}

func TestOpenSerialRejectsUnknownPort(t *testing.T) {
	t.Parallel()

	_, err := OpenSerial("/dev/nonexistent-iptsd-bench-rig", nil, 64)
	assert.Error(t, err)
}
