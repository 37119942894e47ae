package heatmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaussianHeatmap(width, height int, cx, cy, sigma float64) *Heatmap {
	h := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			v := math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
			h.Set(x, y, v)
		}
	}
	return h
}

func TestDetectorFindsSingleSymmetricBlob(t *testing.T) {
	t.Parallel()

	h := gaussianHeatmap(16, 16, 8, 8, 1.5)
	d := NewDetector(0.1, 0.05, 3)

	blobs := d.Detect(h)
	require.Len(t, blobs, 1)

	b := blobs[0]
	assert.True(t, b.Valid)
	assert.InDelta(t, 8.0, b.Mean.X, 0.25)
	assert.InDelta(t, 8.0, b.Mean.Y, 0.25)
	assert.InDelta(t, b.Major, b.Minor, 0.2, "a circularly symmetric blob should have near-equal axes")
}

func TestDetectorFindsTwoSeparatedBlobs(t *testing.T) {
	t.Parallel()

	h := New(20, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			dx1, dy1 := float64(x)-4, float64(y)-5
			dx2, dy2 := float64(x)-15, float64(y)-5
			v1 := math.Exp(-(dx1*dx1 + dy1*dy1) / 2)
			v2 := math.Exp(-(dx2*dx2 + dy2*dy2) / 2)
			h.Set(x, y, math.Max(v1, v2))
		}
	}
	d := NewDetector(0.1, 0.05, 3)

	blobs := d.Detect(h)
	require.Len(t, blobs, 2)
}

func TestDetectorNoMaximaAboveThresholdReturnsNil(t *testing.T) {
	t.Parallel()

	h := New(4, 4)
	d := NewDetector(0.5, 0.1, 1)

	assert.Nil(t, d.Detect(h))
}

func TestDetectorDropsClustersBelowMinSize(t *testing.T) {
	t.Parallel()

	h := New(8, 8)
	h.Set(4, 4, 1.0)
	d := NewDetector(0.1, 0.05, 5)

	assert.Empty(t, d.Detect(h), "a single isolated cell must not survive a MinClusterSize of 5")
}

func TestFindLocalMaximaPlateauYieldsOneMaximum(t *testing.T) {
	t.Parallel()

	h := New(4, 4)
	for y := 1; y <= 2; y++ {
		for x := 1; x <= 2; x++ {
			h.Set(x, y, 1.0)
		}
	}
	d := NewDetector(0.1, 0.05, 1)
	maxima := d.findLocalMaxima(h)
	assert.Len(t, maxima, 1, "an equal-valued plateau must contribute exactly one local maximum")
}
