package heatmap

// Meta carries the optional heatmap_dim/heatmap_timestamp fields decoded
// alongside the raw heatmap cells. Zero value means no metadata was
// present on this frame.
type Meta struct {
	YMin, YMax, XMin, XMax uint8
	ZMin, ZMax             uint8
	Count                  uint16
	TimestampUnits         uint32
}

// Heatmap is a 2-D scalar field of contact probability, with higher
// values indicating higher probability of contact. The backing slice is
// reused across frames to avoid per-frame allocation.
type Heatmap struct {
	Width, Height int
	Values        []float64
	Meta          Meta
}

// New allocates a Heatmap of the given dimensions.
func New(width, height int) *Heatmap {
	return &Heatmap{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// Resize reuses h's backing slice when big enough, growing it otherwise.
// Existing contents are not preserved; call Reset or Set to repopulate.
func (h *Heatmap) Resize(width, height int) {
	h.Width, h.Height = width, height
	n := width * height
	if cap(h.Values) < n {
		h.Values = make([]float64, n)
		return
	}
	h.Values = h.Values[:n]
}

// Reset zeroes every cell without reallocating.
func (h *Heatmap) Reset() {
	for i := range h.Values {
		h.Values[i] = 0
	}
}

func (h *Heatmap) index(x, y int) int {
	return y*h.Width + x
}

// At returns the value at cell (x, y).
func (h *Heatmap) At(x, y int) float64 {
	return h.Values[h.index(x, y)]
}

// valueAt returns the value at (x, y), or negInf when out of bounds, so
// boundary local-maxima comparisons treat missing neighbours as never
// winning the comparison ("boundary cells use whichever
// neighbours exist").
func (h *Heatmap) valueAt(x, y int) float64 {
	if x < 0 || x >= h.Width || y < 0 || y >= h.Height {
		return negInf
	}
	return h.Values[h.index(x, y)]
}

// Set writes v into cell (x, y).
func (h *Heatmap) Set(x, y int, v float64) {
	h.Values[h.index(x, y)] = v
}

// SetFromBytes fills the heatmap from a raw byte slice (one byte per
// cell, row-major), rescaling each byte into [0,1] using the zMin/zMax
// clamp range decoded from a heatmap_dim report. If zMax <= zMin the
// bytes are interpreted as already spanning the full [0,255] range.
func (h *Heatmap) SetFromBytes(raw []byte, zMin, zMax uint8) {
	lo, hi := float64(zMin), float64(zMax)
	span := hi - lo
	if span <= 0 {
		lo, span = 0, 255
	}
	n := h.Width * h.Height
	if len(raw) < n {
		n = len(raw)
	}
	if cap(h.Values) < h.Width*h.Height {
		h.Values = make([]float64, h.Width*h.Height)
	} else {
		h.Values = h.Values[:h.Width*h.Height]
	}
	for i := 0; i < n; i++ {
		v := (float64(raw[i]) - lo) / span
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		h.Values[i] = v
	}
	for i := n; i < len(h.Values); i++ {
		h.Values[i] = 0
	}
}

const negInf = -1e308
