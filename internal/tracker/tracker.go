package tracker

import (
	"math"

	"github.com/iptsd/iptsd-core/internal/contact"
	"github.com/iptsd/iptsd-core/internal/heatmap"
)

// Tracker assigns persistent identities to blobs across frames. Position
// comparisons and MaxMovement are expressed in the same unit as
// heatmap.Blob.Mean (heatmap cell units); normalization to the [0,1]
// contract of contact.Contact happens downstream, once, at the pipeline
// boundary.
type Tracker struct {
	MaxMovement float64

	frame    int64
	lastSeen map[int]int64
}

// New creates a Tracker with the given maximum per-frame movement gate (D_max).
func New(maxMovement float64) *Tracker {
	return &Tracker{
		MaxMovement: maxMovement,
		lastSeen:    make(map[int]int64),
	}
}

// Track associates blobs with identities from prev (the most recently
// stabilized contact frame) and returns a new contact.Frame with Index
// fields assigned. window is the stabilizer's temporal window: identities
// may be reused once absent for longer than it.
func (t *Tracker) Track(blobs []heatmap.Blob, prev contact.Frame, window int) contact.Frame {
	t.frame++
	out := make(contact.Frame, len(blobs))
	for i, b := range blobs {
		out[i] = contact.Contact{
			Mean:        contact.Point{X: b.Mean.X, Y: b.Mean.Y},
			SizeVal:     contact.Size{Width: b.Major, Height: b.Minor},
			Orientation: b.Orientation,
			Valid:       true,
		}
	}

	prevIndexed := make([]contact.Contact, 0, len(prev))
	for _, c := range prev {
		if c.HasIndex {
			prevIndexed = append(prevIndexed, c)
		}
	}

	if len(out) > 0 && len(prevIndexed) > 0 {
		cost := make([][]float64, len(out))
		for i := range out {
			cost[i] = make([]float64, len(prevIndexed))
			for j, pc := range prevIndexed {
				d := distance(out[i].Mean, pc.Mean)
				if d > t.MaxMovement {
					cost[i][j] = forbidden
				} else {
					cost[i][j] = d
				}
			}
		}

		assignment := hungarianAssign(cost)
		for i, col := range assignment {
			if col < 0 {
				continue
			}
			out[i].Index = prevIndexed[col].Index
			out[i].HasIndex = true
			t.lastSeen[out[i].Index] = t.frame
			tracef("blob %d matched identity %d at distance %f", i, out[i].Index, cost[i][col])
		}
	}

	assigned := make(map[int]bool, len(out))
	for _, c := range out {
		if c.HasIndex {
			assigned[c.Index] = true
		}
	}

	for i := range out {
		if out[i].HasIndex {
			continue
		}
		id := t.mintIdentity(assigned, window)
		out[i].Index = id
		out[i].HasIndex = true
		assigned[id] = true
		t.lastSeen[id] = t.frame
		diagf("minted fresh identity %d for unmatched blob %d", id, i)
	}

	return out
}

// mintIdentity returns the lowest non-negative integer not currently
// assigned and not within its reuse grace period.
func (t *Tracker) mintIdentity(assigned map[int]bool, window int) int {
	for id := 0; ; id++ {
		if assigned[id] {
			continue
		}
		last, seen := t.lastSeen[id]
		if !seen || t.frame-last > int64(window) {
			return id
		}
	}
}

func distance(a, b contact.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Hypot(dx, dy)
}
