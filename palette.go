package beadpattern

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Entry is a named palette color.
type Entry struct {
	Name  string
	Color Color
}

// Palette is an ordered list of entries. Earlier entries win exact ties.
type Palette []Entry

// Colors returns the palette colors in order.
func (p Palette) Colors() []Color {
	out := make([]Color, len(p))
	for i, e := range p {
		out[i] = e.Color
	}
	return out
}

// matcher holds the palette projected into a metric space, one row per entry.
type matcher struct {
	metric Metric
	coords *mat.Dense
	n      int
}

func newMatcher(p Palette, m Metric) *matcher {
	data := make([]float64, 0, len(p)*3)
	for _, e := range p {
		c := m.project(e.Color)
		data = append(data, c[:]...)
	}
	return &matcher{
		metric: m,
		coords: mat.NewDense(len(p), 3, data),
		n:      len(p),
	}
}

// nearest returns the index of the first entry with minimal distance to c.
func (mt *matcher) nearest(c Color) int {
	target := mt.metric.project(c)
	best := 0
	bestDist := math.Inf(1)
	for i := range mt.n {
		d := squaredDistance(mt.coords.RawRowView(i), target[:])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
