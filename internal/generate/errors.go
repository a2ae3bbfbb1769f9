package generate

import "errors"

// Errors returned by generators.
var (
	// ErrEmptyPalette indicates a random fill was requested with no colours.
	ErrEmptyPalette = errors.New("empty palette")

	// ErrNoPixelFunc indicates a script does not define pixel.
	ErrNoPixelFunc = errors.New("script does not define pixel(x, y, size)")

	// ErrBadPixel indicates pixel returned something other than a colour.
	ErrBadPixel = errors.New("pixel returned an invalid colour")
)
