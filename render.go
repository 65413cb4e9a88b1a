package beadpattern

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// DefaultTextureSize is the edge length of the built-in bead tile.
const DefaultTextureSize = 16

// RenderFlat enlarges every cell of grid to a scale x scale block.
func RenderFlat(grid *image.NRGBA, scale int) (*image.NRGBA, error) {
	if scale < 1 {
		return nil, fmt.Errorf("render: %w: got %d", ErrInvalidScale, scale)
	}
	w, h := grid.Rect.Dx(), grid.Rect.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: %w: %dx%d grid", ErrInvalidDimensions, w, h)
	}
	out := image.NewNRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := range h {
		src := grid.Pix[y*grid.Stride : y*grid.Stride+w*4]
		first := out.Pix[y*scale*out.Stride : y*scale*out.Stride+out.Stride]
		for x := range w {
			px := src[x*4 : x*4+4]
			for i := range scale {
				copy(first[(x*scale+i)*4:], px)
			}
		}
		for i := 1; i < scale; i++ {
			copy(out.Pix[(y*scale+i)*out.Stride:], first)
		}
	}
	return out, nil
}

// RenderTiled expands every cell of grid to a copy of texture multiplied by
// the cell color, channel by channel including alpha.
func RenderTiled(grid *image.NRGBA, texture image.Image, workers int) (*image.NRGBA, error) {
	if texture == nil {
		return nil, fmt.Errorf("render: %w: no texture", ErrTextureLoad)
	}
	tb := texture.Bounds()
	tw, th := tb.Dx(), tb.Dy()
	if tw <= 0 || th <= 0 {
		return nil, fmt.Errorf("render: %w: empty %dx%d texture", ErrTextureLoad, tw, th)
	}
	w, h := grid.Rect.Dx(), grid.Rect.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: %w: %dx%d grid", ErrInvalidDimensions, w, h)
	}

	tex := toNRGBA(texture)

	out := image.NewNRGBA(image.Rect(0, 0, w*tw, h*th))
	parallelRows(h*th, workers, func(_, y0, y1 int) {
		for y := y0; y < y1; y++ {
			gy, ty := y/th, y%th
			cells := grid.Pix[gy*grid.Stride : gy*grid.Stride+w*4]
			texRow := tex.Pix[ty*tex.Stride : ty*tex.Stride+tw*4]
			dst := out.Pix[y*out.Stride : y*out.Stride+w*tw*4]
			for x := range w * tw {
				c := cells[(x/tw)*4 : (x/tw)*4+4]
				t := texRow[(x%tw)*4 : (x%tw)*4+4]
				d := dst[x*4 : x*4+4]
				for i := range 4 {
					d[i] = multiply(c[i], t[i])
				}
			}
		}
	})
	return out, nil
}

func multiply(a, b uint8) uint8 {
	return uint8(uint16(a) * uint16(b) / 255)
}

// DefaultTexture draws a shaded ring bead with a center hole on a transparent
// size x size tile.
func DefaultTexture(size int) *image.NRGBA {
	size = max(size, 1)
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	half := float64(size) / 2
	const (
		outer = 0.95
		inner = 0.38
	)
	for y := range size {
		for x := range size {
			dx := (float64(x) + 0.5 - half) / half
			dy := (float64(y) + 0.5 - half) / half
			d := math.Hypot(dx, dy)
			// One pixel of antialiasing on both edges.
			cover := clamp01((outer-d)*half) * clamp01((d-inner)*half)
			if cover == 0 {
				continue
			}
			t := (d - inner) / (outer - inner)
			light := clamp01(0.55 + 0.45*math.Sin(math.Pi*clamp01(t)) - 0.2*(dx+dy)/2)
			v := uint8(255 * light)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: uint8(255 * cover)})
		}
	}
	return img
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
