package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/setanarut/beadpattern"
)

// Chart is the bead chart written next to the rendered pattern: the grid as
// palette indices plus the shopping list.
type Chart struct {
	Width     int                 `json:"width"`
	Height    int                 `json:"height"`
	Palette   []ChartEntry        `json:"palette"`
	Cells     []int               `json:"cells"`
	Frequency []beadpattern.Count `json:"frequency"`
	Total     int                 `json:"total"`
}

type ChartEntry struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

func NewChart(p *beadpattern.Pattern) *Chart {
	entries := make([]ChartEntry, len(p.Palette))
	for i, e := range p.Palette {
		entries[i] = ChartEntry{Name: e.Name, Hex: e.Color.Hex()}
	}
	return &Chart{
		Width:     p.Width,
		Height:    p.Height,
		Palette:   entries,
		Cells:     p.Cells,
		Frequency: p.Frequency.Sorted(),
		Total:     p.Frequency.Total(),
	}
}

// WriteChart writes c as JSON, zstd-compressed when compress is set.
func WriteChart(w io.Writer, c *Chart, compress bool) error {
	var raw bytes.Buffer
	if err := json.NewEncoder(&raw).Encode(c); err != nil {
		return err
	}
	if !compress {
		_, err := w.Write(raw.Bytes())
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return err
	}
	if _, err := enc.Write(raw.Bytes()); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func ReadChart(r io.Reader, compressed bool) (*Chart, error) {
	if compressed {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}
	var c Chart
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	if len(c.Cells) != c.Width*c.Height {
		return nil, fmt.Errorf("chart: %d cells for a %dx%d grid", len(c.Cells), c.Width, c.Height)
	}
	return &c, nil
}

func isZstd(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zst")
}

// SaveChart writes the chart of p to path; a ".zst" suffix selects zstd.
func SaveChart(p *beadpattern.Pattern, path string) error {
	var buf bytes.Buffer
	if err := WriteChart(&buf, NewChart(p), isZstd(path)); err != nil {
		return fmt.Errorf("chart %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func LoadChart(path string) (*Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadChart(f, isZstd(path))
}
