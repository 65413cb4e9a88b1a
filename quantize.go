package beadpattern

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"
)

// AlphaThreshold is the lowest alpha value a cell needs to receive a bead.
const AlphaThreshold = 128

// Transparent is written into cells below AlphaThreshold.
var Transparent = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

// NoBead marks a transparent cell in Pattern.Cells.
const NoBead = -1

// Frequency counts beads per palette entry name.
type Frequency map[string]int

// Count is one row of a frequency report.
type Count struct {
	Name  string `json:"name"`
	Beads int    `json:"beads"`
}

// Sorted returns the counts ordered by name.
func (f Frequency) Sorted() []Count {
	out := make([]Count, 0, len(f))
	for name, n := range f {
		out = append(out, Count{Name: name, Beads: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func (f Frequency) Total() int {
	total := 0
	for _, n := range f {
		total += n
	}
	return total
}

// Pattern is a quantized bead grid.
type Pattern struct {
	Palette Palette
	Width   int
	Height  int
	// Cells holds the palette index of every cell in row-major order,
	// or NoBead for transparent cells.
	Cells     []int
	Grid      *image.NRGBA
	Frequency Frequency
}

// Quantize maps every cell of grid to its nearest palette entry under metric.
// Cells with alpha below AlphaThreshold become Transparent and are not
// counted. Rows are classified on up to workers goroutines (0 means
// GOMAXPROCS), each keeping its own tally.
func Quantize(grid image.Image, palette Palette, metric Metric, workers int) (*Pattern, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	if !metric.valid() {
		return nil, fmt.Errorf("quantize: %v is not a known metric", metric)
	}
	src := toNRGBA(grid)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("quantize: %w: %dx%d grid", ErrInvalidDimensions, w, h)
	}

	m := newMatcher(palette, metric)
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	cells := make([]int, w*h)
	workers = resolveWorkers(workers, h)
	tallies := make([][]int, workers)

	parallelRows(h, workers, func(worker, y0, y1 int) {
		tally := make([]int, len(palette))
		for y := y0; y < y1; y++ {
			srow := src.Pix[y*src.Stride : y*src.Stride+w*4]
			drow := out.Pix[y*out.Stride : y*out.Stride+w*4]
			for x := range w {
				s := srow[x*4 : x*4+4 : x*4+4]
				d := drow[x*4 : x*4+4 : x*4+4]
				if s[3] < AlphaThreshold {
					d[0], d[1], d[2], d[3] = Transparent.R, Transparent.G, Transparent.B, Transparent.A
					cells[y*w+x] = NoBead
					continue
				}
				idx := m.nearest(Color{R: s[0], G: s[1], B: s[2]})
				tally[idx]++
				c := palette[idx].Color
				d[0], d[1], d[2], d[3] = c.R, c.G, c.B, 255
				cells[y*w+x] = idx
			}
		}
		tallies[worker] = tally
	})

	freq := make(Frequency)
	for _, tally := range tallies {
		for i, n := range tally {
			if n > 0 {
				freq[palette[i].Name] += n
			}
		}
	}

	return &Pattern{
		Palette:   palette,
		Width:     w,
		Height:    h,
		Cells:     cells,
		Grid:      out,
		Frequency: freq,
	}, nil
}

// toNRGBA returns img as an *image.NRGBA anchored at the origin, copying only
// when needed.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			out.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}
