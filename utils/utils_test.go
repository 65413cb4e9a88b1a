package utils

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/setanarut/beadpattern"
)

func makeTestImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 230, G: 20, B: 20, A: 255}
			if x >= w/2 {
				c = color.NRGBA{R: 20, G: 20, B: 220, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestParsePalette(t *testing.T) {
	in := "Red ff0000\n\n  Blue 0000FF  \nWhite ffffff\n"
	p, err := ParsePalette(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParsePalette: %v", err)
	}
	want := beadpattern.Palette{
		{Name: "Red", Color: beadpattern.Color{R: 255}},
		{Name: "Blue", Color: beadpattern.Color{B: 255}},
		{Name: "White", Color: beadpattern.Color{R: 255, G: 255, B: 255}},
	}
	if !slices.Equal(p, want) {
		t.Fatalf("palette = %v, want %v", p, want)
	}
}

func TestParsePalette_Errors(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
	}{
		{"no hex", "Red\n"},
		{"bad digits", "Red ff00zz\n"},
		{"short", "Red fff\n"},
		{"long", "Red ff000000\n"},
		{"second line", "Red ff0000\nBlue\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParsePalette(strings.NewReader(tc.in)); !errors.Is(err, beadpattern.ErrPaletteParse) {
				t.Fatalf("err = %v, want ErrPaletteParse", err)
			}
		})
	}
}

func TestReadPalette_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.txt")
	if err := os.WriteFile(path, []byte("Black 000000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := ReadPalette(path)
	if err != nil || len(p) != 1 || p[0].Name != "Black" {
		t.Fatalf("ReadPalette = %v, %v", p, err)
	}
	if _, err := ReadPalette(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("missing palette file accepted")
	}
}

func TestSortPaletteByBrightness(t *testing.T) {
	p := beadpattern.Palette{
		{Name: "white", Color: beadpattern.Color{R: 255, G: 255, B: 255}},
		{Name: "blue", Color: beadpattern.Color{B: 255}},
		{Name: "black", Color: beadpattern.Color{}},
		{Name: "green", Color: beadpattern.Color{G: 255}},
	}
	SortPaletteByBrightness(p)
	var names []string
	for _, e := range p {
		names = append(names, e.Name)
	}
	if want := []string{"black", "blue", "green", "white"}; !slices.Equal(names, want) {
		t.Fatalf("order = %v, want %v", names, want)
	}
}

func TestNamePalette(t *testing.T) {
	p := NamePalette([]beadpattern.Color{{R: 255}, {G: 128, B: 255}})
	if p[0].Name != "#ff0000" || p[0].Color != (beadpattern.Color{R: 255}) {
		t.Fatalf("entry 0 = %+v", p[0])
	}
	if p[1].Name != "#0080ff" {
		t.Fatalf("entry 1 = %+v", p[1])
	}
}

func TestAutoPalette_IgnoresTransparentCells(t *testing.T) {
	// Left half opaque red, right half fully transparent blue.
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for y := range 20 {
		for x := range 40 {
			c := color.NRGBA{R: 230, G: 20, B: 20, A: 255}
			if x >= 20 {
				c = color.NRGBA{R: 20, G: 20, B: 220, A: 0}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	red := beadpattern.Color{R: 230, G: 20, B: 20}
	blue := beadpattern.Color{R: 20, G: 20, B: 220}
	for _, m := range []PaletteMethod{PaletteMethodDominantColor, PaletteMethodKMeans} {
		t.Run(m.String(), func(t *testing.T) {
			p, err := AutoPalette(img, 2, m)
			if err != nil {
				t.Fatalf("AutoPalette: %v", err)
			}
			for _, e := range p {
				if beadpattern.MetricLab.Distance(e.Color, blue) < beadpattern.MetricLab.Distance(e.Color, red) {
					t.Fatalf("entry %v comes from transparent cells", e)
				}
			}
		})
	}
}

func TestAutoPalette_AllTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	if _, err := AutoPalette(img, 3, PaletteMethodKMeans); !errors.Is(err, beadpattern.ErrEmptyPalette) {
		t.Fatalf("err = %v, want ErrEmptyPalette", err)
	}
}

func TestSelectDiverseColors(t *testing.T) {
	black := beadpattern.Color{}
	nearBlack := beadpattern.Color{R: 5, G: 5, B: 5}
	white := beadpattern.Color{R: 255, G: 255, B: 255}
	cands := []weightedColor{
		{Col: nearBlack, Weight: 10},
		{Col: black, Weight: 50},
		{Col: black, Weight: 40},
		{Col: white, Weight: 1},
	}
	got := SelectDiverseColors(cands, 2)
	if want := []beadpattern.Color{black, white}; !slices.Equal(got, want) {
		t.Fatalf("k=2: got %v, want %v", got, want)
	}
	// The duplicate black is never picked, so only three distinct colors exist.
	if got := SelectDiverseColors(cands, 4); len(got) != 3 {
		t.Fatalf("k=4: got %v", got)
	}
	if got := SelectDiverseColors(nil, 3); got != nil {
		t.Fatalf("empty: got %v", got)
	}
}

func TestSampleBeads(t *testing.T) {
	for _, size := range []image.Point{{10, 10}, {400, 300}, {50000, 1}} {
		grid, err := sampleBeads(image.NewNRGBA(image.Rectangle{Max: size}))
		if err != nil {
			t.Fatalf("%v: %v", size, err)
		}
		n := grid.Rect.Dx() * grid.Rect.Dy()
		// A one-pixel strip cannot be thinned without losing its only row.
		if n == 0 || (size.Y > 1 && n > maxSamples) {
			t.Fatalf("%v: %d samples", size, n)
		}
	}
}

func TestAutoPalette(t *testing.T) {
	img := makeTestImage(32, 16)
	for _, m := range []PaletteMethod{PaletteMethodDominantColor, PaletteMethodKMeans} {
		t.Run(m.String(), func(t *testing.T) {
			p, err := AutoPalette(img, 2, m)
			if err != nil {
				t.Fatalf("AutoPalette: %v", err)
			}
			if len(p) == 0 || len(p) > 2 {
				t.Fatalf("got %d entries", len(p))
			}
			pattern, err := beadpattern.Quantize(img, p, beadpattern.MetricLab, 0)
			if err != nil {
				t.Fatalf("Quantize: %v", err)
			}
			if pattern.Frequency.Total() != 32*16 {
				t.Fatalf("total = %d", pattern.Frequency.Total())
			}
		})
	}
}

func TestParsePaletteMethod(t *testing.T) {
	if m, err := ParsePaletteMethod("kmeans"); err != nil || m != PaletteMethodKMeans {
		t.Fatalf("kmeans = %v, %v", m, err)
	}
	if m, err := ParsePaletteMethod("dominantcolor"); err != nil || m != PaletteMethodDominantColor {
		t.Fatalf("dominantcolor = %v, %v", m, err)
	}
	if _, err := ParsePaletteMethod("octree"); err == nil {
		t.Fatal("octree accepted")
	}
}

func TestSaveImage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := makeTestImage(9, 5)
	for _, name := range []string{"out.png", "out.qoi"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := SaveImage(src, path); err != nil {
				t.Fatalf("SaveImage: %v", err)
			}
			img, err := ReadImage(path)
			if err != nil {
				t.Fatalf("ReadImage: %v", err)
			}
			for y := range 5 {
				for x := range 9 {
					r1, g1, b1, a1 := img.At(x, y).RGBA()
					r2, g2, b2, a2 := src.At(x, y).RGBA()
					if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
						t.Fatalf("(%d,%d) differs", x, y)
					}
				}
			}
		})
	}
}

func TestReadTexture_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadTexture(filepath.Join(dir, "missing.png")); !errors.Is(err, beadpattern.ErrTextureLoad) {
		t.Fatalf("missing: err = %v", err)
	}
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadTexture(garbage); !errors.Is(err, beadpattern.ErrTextureLoad) {
		t.Fatalf("garbage: err = %v", err)
	}
	good := filepath.Join(dir, "perla.png")
	if err := SaveImage(beadpattern.DefaultTexture(8), good); err != nil {
		t.Fatal(err)
	}
	tex, err := ReadTexture(good)
	if err != nil || tex.Bounds().Dx() != 8 {
		t.Fatalf("ReadTexture = %v, %v", tex, err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	for in, want := range map[string]string{
		"cat.jpg":          "cat.perlur.png",
		"dir/cat.tar.webp": "dir/cat.tar.perlur.png",
		"noext":            "noext.perlur.png",
	} {
		if got := DefaultOutputPath(in); got != want {
			t.Fatalf("DefaultOutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPaletteSwatch(t *testing.T) {
	p := beadpattern.Palette{
		{Name: "Red", Color: beadpattern.Color{R: 255}},
		{Name: "Blue", Color: beadpattern.Color{B: 255}},
	}
	img, err := PaletteSwatch(p, 4)
	if err != nil {
		t.Fatalf("PaletteSwatch: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.NRGBAAt(5, 3) != p[1].Color.NRGBA() {
		t.Fatalf("swatch = %v", img.Bounds())
	}
	if _, err := PaletteSwatch(nil, 4); !errors.Is(err, beadpattern.ErrEmptyPalette) {
		t.Fatalf("empty err = %v", err)
	}
}

func testPattern(t *testing.T) *beadpattern.Pattern {
	t.Helper()
	p := beadpattern.Palette{
		{Name: "Red", Color: beadpattern.Color{R: 255}},
		{Name: "Blue", Color: beadpattern.Color{B: 255}},
	}
	grid := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	grid.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	grid.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})
	grid.SetNRGBA(1, 1, color.NRGBA{R: 250, A: 255})
	pattern, err := beadpattern.Quantize(grid, p, beadpattern.MetricRGB, 1)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	return pattern
}

func TestChart(t *testing.T) {
	pattern := testPattern(t)
	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		if err := WriteChart(&buf, NewChart(pattern), compress); err != nil {
			t.Fatalf("WriteChart: %v", err)
		}
		if compress == bytes.HasPrefix(buf.Bytes(), []byte("{")) {
			t.Fatalf("compress=%v: unexpected payload %q", compress, buf.Bytes()[:1])
		}
		c, err := ReadChart(&buf, compress)
		if err != nil {
			t.Fatalf("ReadChart: %v", err)
		}
		if c.Width != 2 || c.Height != 2 || c.Total != 3 {
			t.Fatalf("chart = %+v", c)
		}
		if !slices.Equal(c.Cells, []int{0, 1, beadpattern.NoBead, 0}) {
			t.Fatalf("cells = %v", c.Cells)
		}
		if c.Palette[1].Hex != "#0000ff" || c.Frequency[0].Name != "Blue" {
			t.Fatalf("palette %v, frequency %v", c.Palette, c.Frequency)
		}
	}
}

func TestSaveChart_File(t *testing.T) {
	pattern := testPattern(t)
	path := filepath.Join(t.TempDir(), "chart.json.zst")
	if err := SaveChart(pattern, path); err != nil {
		t.Fatalf("SaveChart: %v", err)
	}
	c, err := LoadChart(path)
	if err != nil {
		t.Fatalf("LoadChart: %v", err)
	}
	if c.Total != pattern.Frequency.Total() {
		t.Fatalf("total = %d", c.Total)
	}
}
