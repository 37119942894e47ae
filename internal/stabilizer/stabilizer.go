package stabilizer

import (
	"math"

	"github.com/iptsd/iptsd-core/internal/config"
	"github.com/iptsd/iptsd-core/internal/contact"
)

// Stabilizer applies temporal smoothing to a tracked contact frame in
// place. It owns a fixed-length deque of the most recently stabilized
// frames; callers must never read that deque directly.
type Stabilizer struct {
	window                  int
	temporalCheckingEnabled bool
	orientationNormalized   bool
	sizeBand                *config.HysteresisBand
	positionBand            *config.HysteresisBand
	orientationBand         *config.HysteresisBand
	circularAspectRatio     float64

	// history holds exactly `window` slots at all times. A nil slot is
	// startup padding and is ignored by the "present in every frame"
	// check: padding slots carry no presence evidence against a
	// newly-assigned identity.
	history []contact.Frame
}

// New builds a Stabilizer from cfg, pre-allocating its history deque to
// the configured temporal window; this keeps the hot path free of
// per-frame allocation beyond what a new frame itself requires.
func New(cfg *config.Config) *Stabilizer {
	s := &Stabilizer{
		window:                  cfg.GetTemporalWindow(),
		temporalCheckingEnabled: cfg.GetTemporalCheckingEnabled(),
		orientationNormalized:   cfg.GetOrientationNormalized(),
		sizeBand:                cfg.GetSizeHysteresis(),
		positionBand:            cfg.GetPositionHysteresis(),
		orientationBand:         cfg.GetOrientationHysteresis(),
		circularAspectRatio:     cfg.GetCircularAspectRatio(),
	}
	if s.window < 0 {
		s.window = 0
	}
	s.history = make([]contact.Frame, s.window)
	return s
}

// Reset clears all stored history frames, keeping the deque length.
func (s *Stabilizer) Reset() {
	for i := range s.history {
		s.history[i] = nil
	}
}

// Stabilize mutates frame in place and returns it.
func (s *Stabilizer) Stabilize(frame contact.Frame) contact.Frame {
	checkingActive := s.temporalCheckingEnabled && s.window >= 2

	for i := range frame {
		c := &frame[i]
		if !checkingActive {
			c.Stable = true
			continue
		}
		c.Stable = s.presentInEveryRealFrame(c.Index, c.HasIndex)
	}

	if s.window >= 2 {
		prevFrame := s.mostRecentReal()
		if prevFrame != nil {
			for i := range frame {
				c := &frame[i]
				if !c.HasIndex {
					continue
				}
				prev, ok := prevFrame.ByIndex(c.Index)
				if !ok {
					continue
				}
				s.applyHysteresis(c, prev)
			}
		}
	}

	s.push(frame.Clone())
	return frame
}

func (s *Stabilizer) presentInEveryRealFrame(index int, hasIndex bool) bool {
	if !hasIndex {
		return false
	}
	for _, f := range s.history {
		if f == nil {
			continue
		}
		if _, ok := f.ByIndex(index); !ok {
			return false
		}
	}
	return true
}

func (s *Stabilizer) mostRecentReal() contact.Frame {
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i] != nil {
			return s.history[i]
		}
	}
	return nil
}

// push appends f as the newest history frame and drops the oldest,
// preserving the fixed deque length.
func (s *Stabilizer) push(f contact.Frame) {
	if s.window == 0 {
		return
	}
	copy(s.history, s.history[1:])
	s.history[len(s.history)-1] = f
}

// applyHysteresis applies the per-axis dead-band/break-band thresholds
// against prev, the previous Contact with the same identity.
func (s *Stabilizer) applyHysteresis(c *contact.Contact, prev contact.Contact) {
	if s.sizeBand != nil {
		applyBand(&c.SizeVal.Width, prev.SizeVal.Width, s.sizeBand, &c.Stable)
		applyBand(&c.SizeVal.Height, prev.SizeVal.Height, s.sizeBand, &c.Stable)
	}

	if s.positionBand != nil {
		dx := c.Mean.X - prev.Mean.X
		dy := c.Mean.Y - prev.Mean.Y
		d := math.Hypot(dx, dy)
		switch {
		case d < s.positionBand.Lo:
			c.Mean = prev.Mean
		case d > s.positionBand.Hi:
			c.Stable = false
		}
	}

	aspect := math.Inf(1)
	if c.SizeVal.Height > 0 {
		aspect = c.SizeVal.Width / c.SizeVal.Height
	}
	if aspect < s.circularAspectRatio {
		// Orientation is undefined for near-circular blobs.
		c.Orientation = 0
		return
	}

	if s.orientationBand != nil {
		max := math.Pi
		if s.orientationNormalized {
			max = 1
		}
		raw := math.Abs(c.Orientation - prev.Orientation)
		d := math.Min(raw, max-raw)
		switch {
		case d < s.orientationBand.Lo:
			c.Orientation = prev.Orientation
		case d > s.orientationBand.Hi:
			c.Stable = false
		}
	}
}

// applyBand implements the scalar dead-band/break-band rule for a
// single axis value, mutating *cur and *stable.
func applyBand(cur *float64, prev float64, band *config.HysteresisBand, stable *bool) {
	d := math.Abs(*cur - prev)
	switch {
	case d < band.Lo:
		*cur = prev
	case d > band.Hi:
		*stable = false
	}
}
