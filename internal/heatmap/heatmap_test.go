package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeatmapSetAndAt(t *testing.T) {
	t.Parallel()

	h := New(4, 3)
	h.Set(2, 1, 0.75)
	assert.Equal(t, 0.75, h.At(2, 1))
	assert.Equal(t, 0.0, h.At(0, 0))
}

func TestHeatmapResizeGrowsWithoutLosingCapacity(t *testing.T) {
	t.Parallel()

	h := New(2, 2)
	h.Set(1, 1, 1)
	h.Resize(3, 3)
	require.Equal(t, 9, len(h.Values))

	h.Resize(2, 2)
	require.Equal(t, 4, len(h.Values))
}

func TestHeatmapReset(t *testing.T) {
	t.Parallel()

	h := New(2, 2)
	h.Set(0, 0, 1)
	h.Set(1, 1, 1)
	h.Reset()
	for i, v := range h.Values {
		assert.Equalf(t, 0.0, v, "cell %d not cleared", i)
	}
}

func TestHeatmapValueAtOutOfBoundsIsNegInf(t *testing.T) {
	t.Parallel()

	h := New(2, 2)
	assert.Equal(t, negInf, h.valueAt(-1, 0))
	assert.Equal(t, negInf, h.valueAt(0, 2))
}

func TestHeatmapSetFromBytesRescalesToUnitRange(t *testing.T) {
	t.Parallel()

	h := New(2, 2)
	h.SetFromBytes([]byte{0, 64, 128, 255}, 0, 255)
	assert.InDelta(t, 0.0, h.At(0, 0), 1e-9)
	assert.InDelta(t, 255.0/255.0, h.At(1, 1), 1e-9)
}

func TestHeatmapSetFromBytesClampsWhenSpanDegenerate(t *testing.T) {
	t.Parallel()

	h := New(2, 2)
	h.SetFromBytes([]byte{0, 64, 128, 255}, 10, 10)
	assert.InDelta(t, 128.0/255.0, h.At(0, 1), 1e-9)
}

func TestHeatmapSetFromBytesShortInputZeroesRemainder(t *testing.T) {
	t.Parallel()

	h := New(2, 2)
	h.SetFromBytes([]byte{255}, 0, 255)
	assert.InDelta(t, 1.0, h.At(0, 0), 1e-9)
	assert.Equal(t, 0.0, h.At(1, 0))
	assert.Equal(t, 0.0, h.At(0, 1))
}
