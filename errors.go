package beadpattern

import "errors"

var (
	// ErrInvalidDimensions is returned when a grid or output raster would be empty.
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrInvalidDensity is returned for a density factor below 1.
	ErrInvalidDensity = errors.New("density must be >= 1")
	// ErrInvalidScale is returned for a negative flat upscale factor.
	ErrInvalidScale = errors.New("scale must be >= 0")
	// ErrEmptyPalette is returned when quantization is asked to run without entries.
	ErrEmptyPalette = errors.New("empty palette")
	// ErrPaletteParse marks malformed palette input.
	ErrPaletteParse = errors.New("palette parse error")
	// ErrTextureLoad marks a missing, unreadable or empty texture tile.
	ErrTextureLoad = errors.New("texture load error")
)
