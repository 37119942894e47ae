package stabilizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iptsd/iptsd-core/internal/config"
	"github.com/iptsd/iptsd-core/internal/contact"
)

func boolPtr(b bool) *bool       { return &b }
func intPtr(i int) *int          { return &i }
func f64Ptr(f float64) *float64  { return &f }

func TestStabilizeWithCheckingDisabledIsAlwaysStable(t *testing.T) {
	t.Parallel()

	cfg := config.EmptyConfig()
	cfg.TemporalCheckingEnabled = boolPtr(false)
	s := New(cfg)

	frame := contact.Frame{{Index: 1, HasIndex: true}}
	out := s.Stabilize(frame)
	assert.True(t, out[0].Stable)
}

func TestStabilizeNewIdentityIsStableWithNoContradictingHistory(t *testing.T) {
	t.Parallel()

	cfg := config.EmptyConfig()
	cfg.TemporalWindow = intPtr(2)
	s := New(cfg)

	// Nil padding slots carry no presence evidence, so a brand new
	// identity is stable immediately.
	out := s.Stabilize(contact.Frame{{Index: 1, HasIndex: true}})
	assert.True(t, out[0].Stable)
}

func TestStabilizeRequiresPresenceInEveryRealHistoryFrame(t *testing.T) {
	t.Parallel()

	cfg := config.EmptyConfig()
	cfg.TemporalWindow = intPtr(2)
	s := New(cfg)

	s.Stabilize(contact.Frame{{Index: 1, HasIndex: true}})            // history: [nil, {1}]
	s.Stabilize(contact.Frame{{Index: 2, HasIndex: true}})            // history: [{1}, {2}]; identity 1 absent here
	out3 := s.Stabilize(contact.Frame{{Index: 1, HasIndex: true}})    // history now [{1},{2}] at check time
	assert.False(t, out3[0].Stable, "identity 1 was absent from an intervening real frame within the window")

	out4 := s.Stabilize(contact.Frame{{Index: 1, HasIndex: true}}) // history [{2},{1}] at check time
	assert.False(t, out4[0].Stable)

	out5 := s.Stabilize(contact.Frame{{Index: 1, HasIndex: true}}) // history [{1},{1}] at check time
	assert.True(t, out5[0].Stable, "identity 1 has now been present in every frame across the full window")
}

func TestStabilizeUnindexedContactIsNeverStable(t *testing.T) {
	t.Parallel()

	cfg := config.EmptyConfig()
	cfg.TemporalWindow = intPtr(2)
	s := New(cfg)

	out := s.Stabilize(contact.Frame{{HasIndex: false}})
	assert.False(t, out[0].Stable)
}

func TestApplyHysteresisDeadBandSnapsToPrevious(t *testing.T) {
	t.Parallel()

	cfg := config.EmptyConfig()
	cfg.TemporalWindow = intPtr(2)
	cfg.PositionHysteresis = &config.HysteresisBand{Lo: 0.05, Hi: 1.0}
	s := New(cfg)

	f1 := contact.Frame{{Index: 1, HasIndex: true, Mean: contact.Point{X: 1, Y: 1}}}
	s.Stabilize(f1)

	f2 := contact.Frame{{Index: 1, HasIndex: true, Mean: contact.Point{X: 1.01, Y: 1.01}}}
	out := s.Stabilize(f2)

	assert.Equal(t, contact.Point{X: 1, Y: 1}, out[0].Mean, "movement below the dead band must snap back to the previous position")
}

func TestApplyHysteresisBreakBandMarksUnstable(t *testing.T) {
	t.Parallel()

	cfg := config.EmptyConfig()
	cfg.TemporalWindow = intPtr(2)
	cfg.TemporalCheckingEnabled = boolPtr(false)
	cfg.PositionHysteresis = &config.HysteresisBand{Lo: 0.01, Hi: 0.1}
	s := New(cfg)

	f1 := contact.Frame{{Index: 1, HasIndex: true, Mean: contact.Point{X: 0, Y: 0}}}
	s.Stabilize(f1)

	f2 := contact.Frame{{Index: 1, HasIndex: true, Mean: contact.Point{X: 5, Y: 5}}}
	out := s.Stabilize(f2)

	assert.False(t, out[0].Stable, "movement beyond the break band must mark the contact unstable")
}

func TestApplyHysteresisUndefinedOrientationForCircularBlob(t *testing.T) {
	t.Parallel()

	cfg := config.EmptyConfig()
	cfg.TemporalWindow = intPtr(2)
	cfg.CircularAspectRatio = f64Ptr(1.5)
	cfg.OrientationHysteresis = &config.HysteresisBand{Lo: 0.01, Hi: 0.5}
	s := New(cfg)

	f1 := contact.Frame{{Index: 1, HasIndex: true, SizeVal: contact.Size{Width: 1, Height: 1}, Orientation: 1.0}}
	s.Stabilize(f1)

	f2 := contact.Frame{{Index: 1, HasIndex: true, SizeVal: contact.Size{Width: 1, Height: 1}, Orientation: 2.0}}
	out := s.Stabilize(f2)

	require.Equal(t, 0.0, out[0].Orientation, "a near-circular blob must report orientation as undefined (zero)")
}

func TestResetClearsHistory(t *testing.T) {
	t.Parallel()

	cfg := config.EmptyConfig()
	cfg.TemporalWindow = intPtr(2)
	s := New(cfg)

	s.Stabilize(contact.Frame{{Index: 1, HasIndex: true}})
	s.Reset()

	for _, f := range s.history {
		assert.Nil(t, f)
	}
}
