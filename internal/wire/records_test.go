package wire

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/iptsd/iptsd-core/internal/reader"
)

func TestReadDataHeader(t *testing.T) {
	t.Parallel()

	buf := make([]byte, SizeData)
	buf[0], buf[1], buf[2], buf[3] = 0x00, 0x00, 0x00, 0x00 // Type = DataPayload
	buf[4], buf[5], buf[6], buf[7] = 0x10, 0x00, 0x00, 0x00 // Size = 16
	buf[8], buf[9], buf[10], buf[11] = 0x02, 0x00, 0x00, 0x00 // Buffer = 2

	r := reader.New(buf)
	h, err := ReadDataHeader(r)
	require.NoError(t, err)

	want := DataHeader{Type: DataPayload, Size: 16, Buffer: 2}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("DataHeader mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 0, r.Size(), "ReadDataHeader must consume the full 64-byte record")
}

func TestReadPayloadFrameHeader(t *testing.T) {
	t.Parallel()

	buf := []byte{
		0x01, 0x00, // Index = 1
		0x08, 0x00, // Type = FrameHeatmap
		0x20, 0x00, 0x00, 0x00, // Size = 32
		0, 0, 0, 0, 0, 0, 0, 0, // reserved
	}
	r := reader.New(buf)
	h, err := ReadPayloadFrameHeader(r)
	require.NoError(t, err)
	require.Equal(t, PayloadFrameHeader{Index: 1, Type: FrameHeatmap, Size: 32}, h)
	require.Equal(t, 0, r.Size())
}

func TestReadStylusReportSerial(t *testing.T) {
	t.Parallel()

	buf := []byte{
		0x03,             // Elements = 3
		0, 0, 0,          // reserved
		0x2A, 0x00, 0x00, 0x00, // Serial = 42
	}
	r := reader.New(buf)
	h, err := ReadStylusReportSerial(r)
	require.NoError(t, err)
	require.Equal(t, StylusReportSerial{Elements: 3, Serial: 42}, h)
}

func TestReadStylusDataV1PressureIsQuarterScale(t *testing.T) {
	t.Parallel()

	buf := []byte{
		0, 0, 0, 0, // reserved
		0x03,       // Mode = proximity|contact
		0x10, 0x00, // X = 16
		0x20, 0x00, // Y = 32
		0x40, 0x00, // Pressure = 64 (caller must x4)
		0, // reserved
	}
	r := reader.New(buf)
	h, err := ReadStylusDataV1(r)
	require.NoError(t, err)
	require.Equal(t, StylusDataV1{Mode: 0x03, X: 16, Y: 32, Pressure: 64}, h)
}

func TestReadHeatmapDim(t *testing.T) {
	t.Parallel()

	buf := []byte{44, 64, 0, 43, 0, 63, 0, 255}
	r := reader.New(buf)
	h, err := ReadHeatmapDim(r)
	require.NoError(t, err)
	want := HeatmapDim{Height: 44, Width: 64, YMin: 0, YMax: 43, XMin: 0, XMax: 63, ZMin: 0, ZMax: 255}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("HeatmapDim mismatch (-want +got):\n%s", diff)
	}
}

func TestReadHeatmapTimestampSkipsReservedHead(t *testing.T) {
	t.Parallel()

	buf := []byte{
		0, 0, // reserved
		0x05, 0x00, // Count = 5
		0x01, 0x00, 0x00, 0x00, // Timestamp = 1
	}
	r := reader.New(buf)
	h, err := ReadHeatmapTimestamp(r)
	require.NoError(t, err)
	require.Equal(t, HeatmapTimestamp{Count: 5, Timestamp: 1}, h)
}
