package sessionlog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/iptsd/iptsd-core/internal/contact"
	"github.com/iptsd/iptsd-core/internal/decoder"
)

func TestContactRoundTrip(t *testing.T) {
	t.Parallel()

	c := contact.Contact{
		Index:       5,
		HasIndex:    true,
		Mean:        contact.Point{X: 0.25, Y: 0.75},
		SizeVal:     contact.Size{Width: 0.1, Height: 0.2},
		Orientation: 1.5,
		Stable:      true,
		Valid:       true,
	}

	got, err := DecodeContact(EncodeContact(c))
	require.NoError(t, err)
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("contact round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	t.Parallel()

	frame := contact.Frame{
		{Index: 0, HasIndex: true, Mean: contact.Point{X: 0.1, Y: 0.1}, Valid: true},
		{Index: 1, HasIndex: true, Mean: contact.Point{X: 0.9, Y: 0.9}, Valid: true},
	}

	got, err := DecodeFrame(EncodeFrame(frame))
	require.NoError(t, err)
	if diff := cmp.Diff(frame, got); diff != "" {
		t.Errorf("frame round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStylusRoundTrip(t *testing.T) {
	t.Parallel()

	ev := decoder.StylusEvent{
		X: 100, Y: 200, Pressure: 4000,
		TiltX: -15, TiltY: 30,
		Timestamp: 42,
		Serial:    778899,
		Proximity: true, Contact: true, Button: false, Rubber: true,
	}

	got, err := DecodeStylus(EncodeStylus(ev))
	require.NoError(t, err)
	if diff := cmp.Diff(ev, got); diff != "" {
		t.Errorf("stylus round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFrameEmptyPayloadYieldsNilFrame(t *testing.T) {
	t.Parallel()

	frame, err := DecodeFrame(nil)
	require.NoError(t, err)
	require.Nil(t, frame)
}
