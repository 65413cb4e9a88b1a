package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/setanarut/beadpattern"
	"github.com/xfmoulet/qoi"
	_ "golang.org/x/image/webp"
)

// OutputSuffix replaces the input extension when no output path is given.
const OutputSuffix = ".perlur.png"

func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// ReadTexture loads a bead tile. Every failure wraps ErrTextureLoad.
func ReadTexture(path string) (image.Image, error) {
	img, err := ReadImage(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", beadpattern.ErrTextureLoad, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s is empty", beadpattern.ErrTextureLoad, path)
	}
	return img, nil
}

// EncodeImage writes img as QOI when format is "qoi" and as PNG otherwise.
func EncodeImage(w io.Writer, img image.Image, format string) error {
	if strings.EqualFold(format, "qoi") {
		return qoi.Encode(w, img)
	}
	return png.Encode(w, img)
}

// SaveImage encodes img by the extension of filename. The file is only
// created once encoding succeeded.
func SaveImage(img image.Image, filename string) error {
	var buf bytes.Buffer
	format := strings.TrimPrefix(filepath.Ext(filename), ".")
	if err := EncodeImage(&buf, img, format); err != nil {
		return fmt.Errorf("encode %s: %w", filename, err)
	}
	return os.WriteFile(filename, buf.Bytes(), 0o644)
}

// DefaultOutputPath replaces the extension of input with OutputSuffix.
func DefaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + OutputSuffix
}

// SavePalette writes a strip of tileSize squares, one per entry.
func SavePalette(palette beadpattern.Palette, tileSize int, filename string) error {
	img, err := PaletteSwatch(palette, tileSize)
	if err != nil {
		return err
	}
	return SaveImage(img, filename)
}

func PaletteSwatch(palette beadpattern.Palette, tileSize int) (*image.NRGBA, error) {
	if len(palette) == 0 {
		return nil, beadpattern.ErrEmptyPalette
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	w := tileSize * len(palette)
	h := tileSize
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	for i, e := range palette {
		c := e.Color.NRGBA()
		x0 := i * tileSize
		x1 := x0 + tileSize
		for y := range h {
			for x := x0; x < x1; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img, nil
}
