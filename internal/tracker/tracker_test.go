package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iptsd/iptsd-core/internal/contact"
	"github.com/iptsd/iptsd-core/internal/heatmap"
)

func TestTrackMintsFreshIdentitiesWithNoHistory(t *testing.T) {
	t.Parallel()

	tr := New(1.0)
	blobs := []heatmap.Blob{
		{Mean: heatmap.Point2D{X: 1, Y: 1}},
		{Mean: heatmap.Point2D{X: 5, Y: 5}},
	}

	out := tr.Track(blobs, nil, 2)
	require.Len(t, out, 2)
	assert.True(t, out[0].HasIndex)
	assert.True(t, out[1].HasIndex)
	assert.NotEqual(t, out[0].Index, out[1].Index)
}

func TestTrackReassociatesByNearestDistance(t *testing.T) {
	t.Parallel()

	tr := New(1.0)
	prev := contact.Frame{
		{Index: 7, HasIndex: true, Mean: contact.Point{X: 1, Y: 1}},
	}
	blobs := []heatmap.Blob{{Mean: heatmap.Point2D{X: 1.1, Y: 1.1}}}

	out := tr.Track(blobs, prev, 2)
	require.Len(t, out, 1)
	assert.Equal(t, 7, out[0].Index)
}

func TestTrackGatesOutMovementBeyondMaxMovement(t *testing.T) {
	t.Parallel()

	tr := New(0.5)
	prev := contact.Frame{
		{Index: 3, HasIndex: true, Mean: contact.Point{X: 0, Y: 0}},
	}
	blobs := []heatmap.Blob{{Mean: heatmap.Point2D{X: 10, Y: 10}}}

	out := tr.Track(blobs, prev, 2)
	require.Len(t, out, 1)
	assert.NotEqual(t, 3, out[0].Index, "a blob further than MaxMovement from the only prior contact must mint a fresh identity")
}

func TestTrackReusesIdentityOnlyAfterWindowExpires(t *testing.T) {
	t.Parallel()

	tr := New(1.0)
	window := 2

	// Frame 1: single contact at (0,0), minted as identity 0.
	out := tr.Track([]heatmap.Blob{{Mean: heatmap.Point2D{X: 0, Y: 0}}}, nil, window)
	require.Len(t, out, 1)
	id := out[0].Index

	// Frame 2: contact vanishes (no blobs). Identity 0 goes unseen.
	out = tr.Track(nil, out, window)
	assert.Empty(t, out)

	// Frame 3: still within the window since last seen (frame 1 -> now frame 3, diff 2, not > window).
	out = tr.Track([]heatmap.Blob{{Mean: heatmap.Point2D{X: 50, Y: 50}}}, nil, window)
	require.Len(t, out, 1)
	assert.NotEqual(t, id, out[0].Index, "identity must not be reused while still inside its grace window")

	// Frame 4: now safely outside the window, so id 0 becomes eligible again.
	out = tr.Track([]heatmap.Blob{{Mean: heatmap.Point2D{X: 50, Y: 50}}}, nil, window)
	require.Len(t, out, 1)
	assert.Equal(t, id, out[0].Index, "identity must be reused once outside its grace window")
}

func TestHungarianAssignAvoidsForbiddenEntries(t *testing.T) {
	t.Parallel()

	cost := [][]float64{
		{1, forbidden},
		{forbidden, 2},
	}
	assignment := hungarianAssign(cost)
	require.Len(t, assignment, 2)
	assert.Equal(t, 0, assignment[0])
	assert.Equal(t, 1, assignment[1])
}

func TestHungarianAssignEmptyColumnsYieldsAllUnassigned(t *testing.T) {
	t.Parallel()

	assignment := hungarianAssign([][]float64{{}, {}})
	assert.Equal(t, []int{-1, -1}, assignment)
}

func TestHungarianAssignNilForNoRows(t *testing.T) {
	t.Parallel()

	assert.Nil(t, hungarianAssign(nil))
}
