package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFileRejectsMissingPath(t *testing.T) {
	t.Parallel()

	_, err := OpenFile(filepath.Join(t.TempDir(), "missing"), 64)
	require.Error(t, err)
}

func TestFileDeviceReadFrameReturnsWrittenBytes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stream")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4}, 0o644))

	d, err := OpenFile(path, 16)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, 16, d.MaxBufferSize())

	buf := make([]byte, 16)
	n, err := d.ReadFrame(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, buf[:n])
}
