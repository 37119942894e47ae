package heatmap

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Point is an integer cell coordinate.
type Point struct {
	X, Y int
}

// Blob is the result of fitting a Cluster with a 2-D Gaussian.
// Mean and Size are expressed in heatmap cell units; Orientation is
// always radians in [0, π) at this layer. Normalization to [0,1] happens
// later, when the pipeline calls contact.Frame.Normalize on its output.
type Blob struct {
	Mean        Point2D
	Covariance  [2][2]float64
	Major       float64
	Minor       float64
	Orientation float64
	Value       float64
	Valid       bool
}

// Point2D is a floating-point cell coordinate.
type Point2D struct {
	X, Y float64
}

// Detector finds and fits Blobs in a Heatmap.
type Detector struct {
	ActivationThreshold        float64
	ClusterMembershipThreshold float64
	MinClusterSize             int
}

// NewDetector builds a Detector from the given thresholds.
func NewDetector(activation, membership float64, minClusterSize int) *Detector {
	return &Detector{
		ActivationThreshold:        activation,
		ClusterMembershipThreshold: membership,
		MinClusterSize:             minClusterSize,
	}
}

// Detect runs the three-stage detection pipeline over h and returns
// the surviving Blobs in arbitrary order.
func (d *Detector) Detect(h *Heatmap) []Blob {
	maxima := d.findLocalMaxima(h)
	if len(maxima) == 0 {
		diagf("no local maxima above activation threshold %f", d.ActivationThreshold)
		return nil
	}

	clusters := d.cluster(h, maxima)
	diagf("found %d maxima, %d clusters after size filter", len(maxima), len(clusters))

	blobs := make([]Blob, 0, len(clusters))
	for _, cells := range clusters {
		b := d.fit(h, cells)
		if !b.Valid {
			opsf("dropped degenerate cluster of %d cells", len(cells))
			continue
		}
		blobs = append(blobs, b)
	}
	return blobs
}

// findLocalMaxima is stage 1: a cell is a maximum when
// it exceeds the activation threshold and wins an asymmetric comparison
// against its 8 neighbours (strictly greater than upper-left/upper/
// upper-right/left, greater-or-equal to right/lower-left/lower/
// lower-right). The asymmetry guarantees a plateau of equal values
// contributes exactly one maximum.
func (d *Detector) findLocalMaxima(h *Heatmap) []Point {
	var maxima []Point
	for y := 0; y < h.Height; y++ {
		for x := 0; x < h.Width; x++ {
			v := h.At(x, y)
			if v <= d.ActivationThreshold {
				continue
			}
			if v > h.valueAt(x-1, y-1) &&
				v > h.valueAt(x, y-1) &&
				v > h.valueAt(x+1, y-1) &&
				v > h.valueAt(x-1, y) &&
				v >= h.valueAt(x+1, y) &&
				v >= h.valueAt(x-1, y+1) &&
				v >= h.valueAt(x, y+1) &&
				v >= h.valueAt(x+1, y+1) {
				maxima = append(maxima, Point{X: x, Y: y})
			}
		}
	}
	return maxima
}

// unionFind is a parent-pointer array keyed by flat cell index, avoiding
// any pointer-based tree structure.
type unionFind struct {
	parent []int
	active []bool
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p, active: make([]bool, n)}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// cluster is stage 2: flood fill from each local
// maximum over 8-connected neighbours exceeding the membership
// threshold, merging floods that meet via union-find, then discarding
// clusters smaller than MinClusterSize.
func (d *Detector) cluster(h *Heatmap, maxima []Point) [][]Point {
	n := h.Width * h.Height
	uf := newUnionFind(n)
	queue := make([]int, 0, n)

	for _, m := range maxima {
		start := h.index(m.X, m.Y)
		if uf.active[start] {
			continue
		}
		uf.active[start] = true
		queue = queue[:0]
		queue = append(queue, start)
		for len(queue) > 0 {
			cur := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			cx, cy := cur%h.Width, cur/h.Width
			for _, off := range neighborOffsets {
				nx, ny := cx+off[0], cy+off[1]
				if nx < 0 || nx >= h.Width || ny < 0 || ny >= h.Height {
					continue
				}
				if h.At(nx, ny) <= d.ClusterMembershipThreshold {
					continue
				}
				ni := h.index(nx, ny)
				if !uf.active[ni] {
					uf.active[ni] = true
					uf.union(cur, ni)
					queue = append(queue, ni)
					continue
				}
				uf.union(cur, ni)
			}
		}
	}

	byRoot := make(map[int][]Point)
	for i := 0; i < n; i++ {
		if !uf.active[i] {
			continue
		}
		root := uf.find(i)
		byRoot[root] = append(byRoot[root], Point{X: i % h.Width, Y: i / h.Width})
	}

	clusters := make([][]Point, 0, len(byRoot))
	for _, cells := range byRoot {
		if len(cells) < d.MinClusterSize {
			continue
		}
		clusters = append(clusters, cells)
	}
	return clusters
}

const covarianceEpsilon = 1e-9

// fit is stage 3: weighted moments, covariance, and an
// eigendecomposition of the covariance for axis lengths and orientation.
func (d *Detector) fit(h *Heatmap, cells []Point) Blob {
	var sumW, sumWX, sumWY float64
	for _, c := range cells {
		w := h.At(c.X, c.Y)
		sumW += w
		sumWX += w * float64(c.X)
		sumWY += w * float64(c.Y)
	}
	if sumW <= 0 {
		return Blob{}
	}
	meanX := sumWX / sumW
	meanY := sumWY / sumW

	var mu20, mu02, mu11, peak float64
	for _, c := range cells {
		w := h.At(c.X, c.Y)
		dx := float64(c.X) - meanX
		dy := float64(c.Y) - meanY
		mu20 += w * dx * dx
		mu02 += w * dy * dy
		mu11 += w * dx * dy
		if w > peak {
			peak = w
		}
	}
	mu20 /= sumW
	mu02 /= sumW
	mu11 /= sumW

	cov := mat.NewSymDense(2, []float64{mu20, mu11, mu11, mu02})

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return Blob{}
	}
	values := eig.Values(nil) // ascending
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	lambdaMajor, lambdaMinor := values[1], values[0]
	if lambdaMajor < 0 {
		lambdaMajor = 0
	}
	if lambdaMinor < 0 {
		lambdaMinor = 0
	}
	if lambdaMajor < covarianceEpsilon {
		return Blob{}
	}

	vx, vy := vectors.At(0, 1), vectors.At(1, 1)
	orientation := math.Atan2(vy, vx)
	for orientation < 0 {
		orientation += math.Pi
	}
	for orientation >= math.Pi {
		orientation -= math.Pi
	}

	return Blob{
		Mean:        Point2D{X: meanX, Y: meanY},
		Covariance:  [2][2]float64{{mu20, mu11}, {mu11, mu02}},
		Major:       math.Sqrt(lambdaMajor),
		Minor:       math.Sqrt(lambdaMinor),
		Orientation: orientation,
		Value:       peak,
		Valid:       true,
	}
}
