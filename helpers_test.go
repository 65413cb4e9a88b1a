package beadpattern

import (
	"image"
	"image/color"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	empty = color.NRGBA{}
)

// makeGrid builds a w x h NRGBA image from row-major pixels.
func makeGrid(w, h int, px ...color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, c := range px {
		img.SetNRGBA(i%w, i/w, c)
	}
	return img
}

func makeTestImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 17) ^ (y * 31)),
				G: uint8((x * 43) + (y * 13)),
				B: uint8((x * 7) ^ (y * 11)),
				A: uint8(x * 29),
			})
		}
	}
	return img
}

func redBlue() Palette {
	return Palette{
		{Name: "Red", Color: Color{R: 255}},
		{Name: "Blue", Color: Color{B: 255}},
	}
}

func samePixels(a, b *image.NRGBA) bool {
	if a.Rect.Dx() != b.Rect.Dx() || a.Rect.Dy() != b.Rect.Dy() {
		return false
	}
	for y := range a.Rect.Dy() {
		for x := range a.Rect.Dx() {
			if a.NRGBAAt(a.Rect.Min.X+x, a.Rect.Min.Y+y) != b.NRGBAAt(b.Rect.Min.X+x, b.Rect.Min.Y+y) {
				return false
			}
		}
	}
	return true
}

// within1 reports whether a and b differ by at most one step.
func within1(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}
