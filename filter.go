package beadpattern

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// Filter selects the resampling kernel used by Downscale.
type Filter int

const (
	FilterNearest Filter = iota
	FilterTriangle
	FilterCatmullRom
	FilterGaussian
	FilterLanczos3
)

var filterNames = [...]string{
	FilterNearest:    "nearest",
	FilterTriangle:   "triangle",
	FilterCatmullRom: "catmull_rom",
	FilterGaussian:   "gaussian",
	FilterLanczos3:   "lanczos3",
}

func (f Filter) String() string {
	if f.valid() {
		return filterNames[f]
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

func (f Filter) valid() bool {
	return f >= FilterNearest && f <= FilterLanczos3
}

// ParseFilter maps a filter name such as "catmull_rom" to a Filter.
func ParseFilter(s string) (Filter, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for f, n := range filterNames {
		if n == name {
			return Filter(f), nil
		}
	}
	return 0, fmt.Errorf("unknown filter %q (want one of %s)", s, strings.Join(filterNames[:], ", "))
}

// Gaussian with sigma 0.5. The scaler normalizes weights, so the constant
// factor is dropped.
var gaussian = &draw.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		return math.Exp(-2 * t * t)
	},
}

var lanczos3 = &draw.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		if t == 0 {
			return 1
		}
		if t >= 3 {
			return 0
		}
		pt := math.Pi * t
		return 3 * math.Sin(pt) * math.Sin(pt/3) / (pt * pt)
	},
}

func (f Filter) interpolator() draw.Interpolator {
	switch f {
	case FilterNearest:
		return draw.NearestNeighbor
	case FilterTriangle:
		return draw.BiLinear
	case FilterGaussian:
		return gaussian
	case FilterLanczos3:
		return lanczos3
	default:
		return draw.CatmullRom
	}
}

// GridSize returns the bead grid size for a source of the given size.
func GridSize(size image.Point, density int) (image.Point, error) {
	if density < 1 {
		return image.Point{}, fmt.Errorf("%w: got %d", ErrInvalidDensity, density)
	}
	grid := image.Pt(size.X/density, size.Y/density)
	if grid.X <= 0 || grid.Y <= 0 {
		return image.Point{}, fmt.Errorf("%w: %dx%d source with density %d gives %dx%d grid",
			ErrInvalidDimensions, size.X, size.Y, density, grid.X, grid.Y)
	}
	return grid, nil
}

// Downscale resamples src into a grid of floor(W/density) x floor(H/density)
// cells using the given filter.
func Downscale(src image.Image, density int, filter Filter) (*image.NRGBA, error) {
	if !filter.valid() {
		return nil, fmt.Errorf("downscale: %v is not a known filter", filter)
	}
	sb := src.Bounds()
	size, err := GridSize(sb.Size(), density)
	if err != nil {
		return nil, fmt.Errorf("downscale: %w", err)
	}
	dst := image.NewNRGBA(image.Rectangle{Max: size})
	if size == sb.Size() {
		// Same size is a plain copy for every filter.
		copyNRGBA(dst, src)
		return dst, nil
	}
	filter.interpolator().Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst, nil
}

// copyNRGBA copies src into dst of the same size. NRGBA sources are copied
// byte for byte so fully transparent cells keep their color channels.
func copyNRGBA(dst *image.NRGBA, src image.Image) {
	n, ok := src.(*image.NRGBA)
	if !ok {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return
	}
	rowLen := dst.Rect.Dx() * 4
	for y := range dst.Rect.Dy() {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], n.Pix[y*n.Stride:y*n.Stride+rowLen])
	}
}
