package color

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrInvalidHex   = errors.New("invalid hex color")
	ErrUnknownColor = errors.New("unknown color")
)

var (
	hexPattern      = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)
	shortHexPattern = regexp.MustCompile(`^[0-9A-Fa-f]{3}$`)
)

// IsHex reports whether s is a six digit hex color, with or without '#'.
func IsHex(s string) bool {
	return hexPattern.MatchString(strings.TrimPrefix(s, "#"))
}

// normalizeHex strips the '#' prefix, expands #RGB shorthand and returns the
// color in "#RRGGBB" form.
func normalizeHex(s string) (string, bool) {
	h := strings.TrimPrefix(s, "#")
	switch {
	case hexPattern.MatchString(h):
		return "#" + h, true
	case shortHexPattern.MatchString(h):
		return "#" + string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}), true
	}
	return "", false
}

// HexToXY converts an sRGB hex color to CIE 1931 xy chromaticity.
// The leading '#' is optional.
func HexToXY(hex string) (x, y float64, err error) {
	norm, ok := normalizeHex(hex)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}

	c, err := colorful.Hex(norm)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}

	// Inverse sRGB gamma: c > 0.04045 ? ((c+0.055)/1.055)^2.4 : c/12.92
	r, g, b := c.LinearRgb()

	x, y = linearRGBToXY(r, g, b)
	return x, y, nil
}

// linearRGBToXY projects linear RGB onto the xy plane using the sRGB D65
// matrix rounded to four places.
func linearRGBToXY(r, g, b float64) (x, y float64) {
	X := r*0.4124 + g*0.3576 + b*0.1805
	Y := r*0.2126 + g*0.7152 + b*0.0722
	Z := r*0.0193 + g*0.1192 + b*0.9505

	sum := X + Y + Z
	if sum == 0 {
		return whiteX, whiteY
	}

	return X / sum, Y / sum
}

// KelvinToMireds converts a color temperature to mireds, saturating at the
// supported range.
func KelvinToMireds(kelvin float64) int {
	if kelvin <= 0 {
		return MaxMireds
	}
	m := math.Round(1_000_000 / kelvin)
	if m > MaxMireds {
		return MaxMireds
	}
	return ClampMireds(int(m))
}
