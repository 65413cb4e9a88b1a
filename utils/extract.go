package utils

import (
	"fmt"
	"image"
	"log"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/setanarut/beadpattern"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch strings.ToLower(s) {
	case "dominantcolor", "dominant":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return 0, fmt.Errorf("unknown palette method %q (want dominantcolor or kmeans)", s)
}

// maxSamples bounds the number of cells looked at when extracting a palette.
const maxSamples = 12000

type weightedColor struct {
	Col    beadpattern.Color
	Weight float64
}

// sampleBeads reduces img with nearest-neighbor sampling to at most about
// maxSamples cells.
func sampleBeads(img image.Image) (*image.NRGBA, error) {
	size := img.Bounds().Size()
	step := 1
	if n := size.X * size.Y; n > maxSamples {
		step = int(math.Sqrt(float64(n)/maxSamples)) + 1
	}
	step = max(1, min(step, size.X, size.Y))
	return beadpattern.Downscale(img, step, beadpattern.FilterNearest)
}

// SortPaletteByBrightness orders entries from darkest to brightest.
// Equal luminance keeps the input order.
func SortPaletteByBrightness(palette beadpattern.Palette) {
	slices.SortStableFunc(palette, func(a, b beadpattern.Entry) int {
		ya := luminance(a.Color)
		yb := luminance(b.Color)
		if ya < yb {
			return -1
		}
		if ya > yb {
			return 1
		}
		return 0
	})
}

func luminance(c beadpattern.Color) float64 {
	r, g, b := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// NamePalette turns bare colors into a palette named by hex code.
func NamePalette(colors []beadpattern.Color) beadpattern.Palette {
	out := make(beadpattern.Palette, 0, len(colors))
	for _, c := range colors {
		out = append(out, beadpattern.Entry{Name: c.Hex(), Color: c})
	}
	return out
}

// ExtractDominantPalette picks k colors among dominantcolor's candidates.
// Each candidate is weighted by the number of beads it receives when the
// sampled image is quantized against all candidates, so colors that only
// occur in transparent cells drop out.
func ExtractDominantPalette(img image.Image, k int) []beadpattern.Color {
	if k <= 0 {
		return nil
	}
	grid, err := sampleBeads(img)
	if err != nil {
		return nil
	}

	candidates := dominantcolor.FindWeight(grid, max(24, k*8))
	palette := make(beadpattern.Palette, 0, len(candidates))
	for i, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		palette = append(palette, beadpattern.Entry{
			Name:  strconv.Itoa(i),
			Color: beadpattern.ColorFromColorful(col),
		})
	}
	if len(palette) == 0 {
		return nil
	}

	beads, err := beadpattern.Quantize(grid, palette, beadpattern.MetricLab, 0)
	if err != nil {
		return nil
	}
	weighted := make([]weightedColor, 0, len(palette))
	for _, e := range palette {
		if n := beads.Frequency[e.Name]; n > 0 {
			weighted = append(weighted, weightedColor{Col: e.Color, Weight: float64(n)})
		}
	}
	return SelectDiverseColors(weighted, k)
}

// SelectDiverseColors greedily picks up to k colors. The heaviest candidate
// comes first; every further pick maximizes its Lab distance to the picks so
// far, scaled by its relative weight. Candidates identical to a pick are
// never chosen.
func SelectDiverseColors(cands []weightedColor, k int) []beadpattern.Color {
	k = min(k, len(cands))
	if k <= 0 {
		return nil
	}
	seed := 0
	maxW := 0.0
	for i, c := range cands {
		if c.Weight > cands[seed].Weight {
			seed = i
		}
		maxW = max(maxW, c.Weight)
	}
	if maxW <= 0 {
		maxW = 1
	}

	// gap[i] is the squared Lab distance from candidate i to its closest pick.
	gap := make([]float64, len(cands))
	picked := []int{seed}
	for i := range cands {
		gap[i] = beadpattern.MetricLab.Distance(cands[i].Col, cands[seed].Col)
	}
	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if gap[i] == 0 {
				continue
			}
			score := math.Sqrt(gap[i]) * (0.55 + 0.45*math.Sqrt(max(c.Weight, 0)/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		picked = append(picked, best)
		for i := range cands {
			gap[i] = min(gap[i], beadpattern.MetricLab.Distance(cands[i].Col, cands[best].Col))
		}
	}

	colors := make([]beadpattern.Color, len(picked))
	for i, p := range picked {
		colors[i] = cands[p].Col
	}
	return colors
}

// ExtractKMeansPalette clusters the opaque sampled cells and picks k colors
// among the cluster centers, weighted by cluster population.
func ExtractKMeansPalette(img image.Image, k int) []beadpattern.Color {
	if k <= 0 {
		return nil
	}
	grid, err := sampleBeads(img)
	if err != nil {
		return nil
	}

	dataset := make(clusters.Observations, 0, len(grid.Pix)/4)
	for i := 0; i < len(grid.Pix); i += 4 {
		// Cells this transparent never become beads.
		if grid.Pix[i+3] < beadpattern.AlphaThreshold {
			continue
		}
		dataset = append(dataset, clusters.Coordinates{
			float64(grid.Pix[i]) / 255.0,
			float64(grid.Pix[i+1]) / 255.0,
			float64(grid.Pix[i+2]) / 255.0,
		})
	}
	if len(dataset) == 0 {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, min(max(k*4, k+2), len(dataset)))
	if err != nil || len(cc) == 0 {
		return nil
	}

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}
		weighted = append(weighted, weightedColor{
			Col:    beadpattern.ColorFromColorful(col),
			Weight: float64(len(c.Observations)),
		})
	}
	return SelectDiverseColors(weighted, k)
}

func ExtractPalette(img image.Image, k int, method PaletteMethod) []beadpattern.Color {
	switch method {
	case PaletteMethodKMeans:
		p := ExtractKMeansPalette(img, k)
		if len(p) != 0 {
			return p
		}
		log.Println("palette warning: kmeans returned empty palette, falling back to dominantcolor")
		return ExtractDominantPalette(img, k)
	default:
		return ExtractDominantPalette(img, k)
	}
}

// AutoPalette extracts up to k colors from img, names them by hex code and
// sorts them dark to bright.
func AutoPalette(img image.Image, k int, method PaletteMethod) (beadpattern.Palette, error) {
	p := NamePalette(ExtractPalette(img, k, method))
	if len(p) == 0 {
		return nil, fmt.Errorf("%s: %w", method, beadpattern.ErrEmptyPalette)
	}
	SortPaletteByBrightness(p)
	return p, nil
}
