package grid

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a cell colour in normalized "#RRGGBB" form.
// The zero value is not a valid colour.
type Color string

// Common colours.
const (
	White Color = "#FFFFFF"
	Black Color = "#000000"
	Red   Color = "#FF0000"
	Green Color = "#00FF00"
	Blue  Color = "#0000FF"
)

// ParseColor parses a hex colour and returns its normalized form.
// Supports formats: "#RGB", "#RRGGBB", "RGB", "RRGGBB" in any letter case.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimSpace(s)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	for i := 1; i < len(hex); i++ {
		if !isHexDigit(hex[i]) {
			return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}

	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	return Color(strings.ToUpper(c.Hex())), nil
}

// MustParseColor is like ParseColor but panics on malformed input.
// Intended for constants and tests.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColors parses every entry of ss.
func ParseColors(ss []string) ([]Color, error) {
	out := make([]Color, len(ss))
	for i, s := range ss {
		c, err := ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

// Valid reports whether c is in normalized form.
func (c Color) Valid() bool {
	n, err := ParseColor(string(c))
	return err == nil && n == c
}

// RGB returns the 8-bit channel values of c.
// Invalid colours report black.
func (c Color) RGB() (r, g, b uint8) {
	cf, err := colorful.Hex(strings.ToLower(string(c)))
	if err != nil {
		return 0, 0, 0
	}
	return cf.RGB255()
}

// RGBA converts c to an opaque image/color value.
func (c Color) RGBA() color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// String returns the hex form of c.
func (c Color) String() string {
	return string(c)
}

func isHexDigit(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}
