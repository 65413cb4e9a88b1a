package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/setanarut/beadpattern"
)

// ParsePalette reads lines of the form "<name> <rrggbb>". Blank lines are
// skipped. Errors wrap beadpattern.ErrPaletteParse and name the line.
func ParsePalette(r io.Reader) (beadpattern.Palette, error) {
	var palette beadpattern.Palette
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		name, hex, ok := strings.Cut(text, " ")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: line %d: want \"name rrggbb\", got %q", beadpattern.ErrPaletteParse, line, text)
		}
		c, err := parseHex(strings.TrimSpace(hex))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", beadpattern.ErrPaletteParse, line, err)
		}
		palette = append(palette, beadpattern.Entry{Name: name, Color: c})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", beadpattern.ErrPaletteParse, err)
	}
	return palette, nil
}

func parseHex(s string) (beadpattern.Color, error) {
	if len(s) != 6 {
		return beadpattern.Color{}, fmt.Errorf("hex color %q is not 6 digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return beadpattern.Color{}, fmt.Errorf("hex color %q: %w", s, err)
	}
	return beadpattern.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func ReadPalette(path string) (beadpattern.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := ParsePalette(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
