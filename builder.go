package beadpattern

import (
	"fmt"
	"image"
)

type Options struct {
	// Source pixels per bead along each side. Must be >= 1.
	Density int
	// Distance used to pick the nearest palette entry. Lab matches how
	// bead colors are judged by eye; RGB is cheaper.
	Metric Metric
	// Resampling kernel for the downscale step.
	Filter Filter
	// Flip the pattern left to right, e.g. for ironing from the back.
	Mirror bool
	// Flat upscale factor. 0 selects tiled rendering with Texture.
	Scale int
	// Bead tile multiplied with every cell in tiled mode.
	// nil uses DefaultTexture(DefaultTextureSize).
	Texture image.Image
	// Goroutines for quantizing and tiling. 0 uses GOMAXPROCS.
	Workers int
}

func DefaultOptions() Options {
	return Options{
		Density: 1,
		Metric:  MetricLab,
		Filter:  FilterCatmullRom,
	}
}

// OptionsFromSize returns DefaultOptions with Density chosen so that a
// source of the given size is roughly beadsWide beads across.
func OptionsFromSize(size image.Point, beadsWide int) Options {
	opt := DefaultOptions()
	if beadsWide <= 0 || size.X <= 0 {
		return opt
	}
	opt.Density = max(1, size.X/beadsWide)
	return opt
}

func (o Options) Validate() error {
	if o.Density < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDensity, o.Density)
	}
	if o.Scale < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidScale, o.Scale)
	}
	if !o.Metric.valid() {
		return fmt.Errorf("unknown metric %v", o.Metric)
	}
	if !o.Filter.valid() {
		return fmt.Errorf("unknown filter %v", o.Filter)
	}
	return nil
}

type PatternBuilder struct {
	InputImage image.Image
	Palette    Palette
}

func NewPatternBuilder(input image.Image, palette Palette) *PatternBuilder {
	return &PatternBuilder{
		InputImage: input,
		Palette:    palette,
	}
}

// Build downscales the input, quantizes it against the palette and applies
// the optional mirror.
func (pb *PatternBuilder) Build(opt Options) (*Pattern, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if len(pb.Palette) == 0 {
		return nil, ErrEmptyPalette
	}
	grid, err := Downscale(pb.InputImage, opt.Density, opt.Filter)
	if err != nil {
		return nil, err
	}
	p, err := Quantize(grid, pb.Palette, opt.Metric, opt.Workers)
	if err != nil {
		return nil, err
	}
	if opt.Mirror {
		p.Mirror()
	}
	return p, nil
}

// Render draws the pattern flat when opt.Scale > 0, otherwise tiled with
// opt.Texture.
func (p *Pattern) Render(opt Options) (*image.NRGBA, error) {
	if opt.Scale < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidScale, opt.Scale)
	}
	if opt.Scale > 0 {
		return RenderFlat(p.Grid, opt.Scale)
	}
	texture := opt.Texture
	if texture == nil {
		texture = DefaultTexture(DefaultTextureSize)
	}
	return RenderTiled(p.Grid, texture, opt.Workers)
}
