package beadpattern

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

// Color is an opaque 8-bit sRGB color.
type Color struct {
	R, G, B uint8
}

// RGBA implements color.Color. Palette colors are always fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}.RGBA()
}

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) toColorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ColorFromColorful converts a go-colorful color, clamping it into gamut.
func ColorFromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Metric selects how the distance between two colors is measured.
type Metric int

const (
	// MetricRGB is the squared Euclidean distance of the raw channels.
	MetricRGB Metric = iota
	// MetricLab is the squared Euclidean distance in CIE L*a*b* (D65).
	MetricLab
)

func (m Metric) String() string {
	switch m {
	case MetricRGB:
		return "rgb"
	case MetricLab:
		return "lab"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

func (m Metric) valid() bool {
	return m == MetricRGB || m == MetricLab
}

// ParseMetric maps "rgb" or "lab" to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb":
		return MetricRGB, nil
	case "lab":
		return MetricLab, nil
	}
	return 0, fmt.Errorf("unknown distance metric %q (want rgb or lab)", s)
}

// project maps c into the metric's coordinate space, where the distance is
// the plain squared Euclidean distance.
func (m Metric) project(c Color) [3]float64 {
	if m == MetricLab {
		// go-colorful reports L in [0,1]; scale back to the usual CIE range.
		l, a, b := c.toColorful().Lab()
		return [3]float64{l * 100, a * 100, b * 100}
	}
	return [3]float64{float64(c.R), float64(c.G), float64(c.B)}
}

// Distance returns the squared distance between a and b under m.
func (m Metric) Distance(a, b Color) float64 {
	pa, pb := m.project(a), m.project(b)
	return squaredDistance(pa[:], pb[:])
}

func squaredDistance(p, q []float64) float64 {
	var d [3]float64
	floats.SubTo(d[:], p, q)
	return floats.Dot(d[:], d[:])
}
