// Package color turns human-friendly color tokens into the native
// representations understood by a Hue bridge: CIE xy chromaticity or a
// color temperature in mireds.
package color

import "fmt"

// Mired range supported by Hue lights.
const (
	MinMireds     = 153 // 6500K
	MaxMireds     = 500 // 2000K
	NeutralMireds = 285 // 3500K
)

// White point returned for colors without luminance (pure black).
const (
	whiteX = 0.33
	whiteY = 0.33
)

// Mode identifies which representation a Spec carries.
type Mode int

const (
	ModeNone Mode = iota
	ModeChromaticity
	ModeTemperature
)

func (m Mode) String() string {
	switch m {
	case ModeChromaticity:
		return "xy"
	case ModeTemperature:
		return "ct"
	default:
		return "none"
	}
}

// Spec is a resolved color. Exactly one representation is populated; the
// fields are unexported so a Spec can only be built through Chromaticity or
// Temperature.
type Spec struct {
	mode   Mode
	x, y   float64
	mireds int
}

// Chromaticity creates an xy Spec. Coordinates are clamped into [0,1].
func Chromaticity(x, y float64) Spec {
	return Spec{
		mode: ModeChromaticity,
		x:    clampUnit(x),
		y:    clampUnit(y),
	}
}

// Temperature creates a color temperature Spec. Mireds are clamped into
// [MinMireds, MaxMireds].
func Temperature(mireds int) Spec {
	return Spec{
		mode:   ModeTemperature,
		mireds: ClampMireds(mireds),
	}
}

// Mode returns the populated representation.
func (s Spec) Mode() Mode {
	return s.mode
}

// IsZero reports whether the Spec was never resolved.
func (s Spec) IsZero() bool {
	return s.mode == ModeNone
}

// XY returns the chromaticity coordinates, ok is false for temperatures.
func (s Spec) XY() (x, y float64, ok bool) {
	if s.mode != ModeChromaticity {
		return 0, 0, false
	}
	return s.x, s.y, true
}

// Mireds returns the color temperature, ok is false for chromaticity specs.
func (s Spec) Mireds() (int, bool) {
	if s.mode != ModeTemperature {
		return 0, false
	}
	return s.mireds, true
}

func (s Spec) String() string {
	switch s.mode {
	case ModeChromaticity:
		return fmt.Sprintf("xy(%.4f, %.4f)", s.x, s.y)
	case ModeTemperature:
		return fmt.Sprintf("ct(%d)", s.mireds)
	default:
		return "none"
	}
}

// ClampMireds saturates a mired value at the nearest supported bound.
func ClampMireds(mireds int) int {
	if mireds < MinMireds {
		return MinMireds
	}
	if mireds > MaxMireds {
		return MaxMireds
	}
	return mireds
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
