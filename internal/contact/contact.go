// Package contact defines the per-frame touch record shared by the
// Tracker and Stabilizer.
package contact

import "math"

// Point is a 2-D coordinate pair, in heatmap cell units during tracking
// and stabilization and in [0,1] after Frame.Normalize.
type Point struct {
	X, Y float64
}

// Size is a (width, height) pair, in heatmap cell units during tracking
// and stabilization and rescaled by the heatmap dimensions in
// Frame.Normalize.
type Size struct {
	Width, Height float64
}

// Contact is a per-frame record of one touch. Index is absent (HasIndex
// false) when the tracker could not associate this contact with any prior
// identity. Lifetime spans a single frame; identity continuity is carried
// by the tracker's internal table, not by the Contact itself.
type Contact struct {
	Index      int
	HasIndex   bool
	Mean       Point
	SizeVal    Size
	Orientation float64 // normalized [0,1) or radians [0,π), per configuration
	Stable     bool
	Valid      bool
}

// Frame is an ordered sequence of Contacts captured after stabilization.
type Frame []Contact

// ByIndex returns the Contact with the given identity in f, and whether
// one was found. Only contacts with HasIndex are considered.
func (f Frame) ByIndex(index int) (Contact, bool) {
	for _, c := range f {
		if c.HasIndex && c.Index == index {
			return c, true
		}
	}
	return Contact{}, false
}

// Clone returns an independent copy of f so callers can retain a frame
// across mutation of the original slice.
func (f Frame) Clone() Frame {
	if f == nil {
		return nil
	}
	out := make(Frame, len(f))
	copy(out, f)
	return out
}

// Normalize returns a copy of f with Mean and SizeVal rescaled from
// heatmap cell units into a [0,1] coordinate space. orientationNormalized
// additionally rescales Orientation from radians [0,π) into a normalized
// fraction [0,1). Tracking and
// stabilization operate in cell units throughout; Normalize is applied
// once, at the pipeline boundary, before contacts reach the event sink.
func (f Frame) Normalize(width, height int, orientationNormalized bool) Frame {
	out := f.Clone()
	w, h := float64(width), float64(height)
	for i := range out {
		if w > 0 {
			out[i].Mean.X /= w
			out[i].SizeVal.Width /= w
		}
		if h > 0 {
			out[i].Mean.Y /= h
			out[i].SizeVal.Height /= h
		}
		if orientationNormalized {
			out[i].Orientation /= math.Pi
		}
	}
	return out
}
