package color

import (
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"strings"
)

const whiteHex = "FFFFFF"

// Kind is the classification of a raw color token.
type Kind int

const (
	KindName Kind = iota
	KindHex
	KindTemperature
)

func (k Kind) String() string {
	switch k {
	case KindHex:
		return "hex"
	case KindTemperature:
		return "temperature"
	default:
		return "name"
	}
}

var kelvinPattern = regexp.MustCompile(`^(\d+)[Kk]?$`)

// DefaultNames maps color names to hex values.
var DefaultNames = map[string]string{
	"red":     "FF0000",
	"green":   "00FF00",
	"blue":    "0000FF",
	"yellow":  "FFFF00",
	"orange":  "FFA500",
	"purple":  "800080",
	"pink":    "FFC0CB",
	"white":   "FFFFFF",
	"cyan":    "00FFFF",
	"magenta": "FF00FF",
}

// DefaultTemperatures maps named white temperatures to mireds.
var DefaultTemperatures = map[string]int{
	"warm":     454, // 2200K
	"soft":     400, // 2500K
	"neutral":  285, // 3500K
	"cool":     200, // 5000K
	"daylight": 153, // 6500K
}

// Resolver classifies and resolves color tokens. A Resolver owns private
// copies of its tables and is safe for concurrent use.
type Resolver struct {
	names        map[string]string
	temperatures map[string]int
	strict       bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrict makes Resolve fail on unknown names and malformed hex instead
// of falling back to white.
func WithStrict(strict bool) Option {
	return func(r *Resolver) {
		r.strict = strict
	}
}

// WithNames adds (or overrides) color names. Keys are case-insensitive and
// values are hex colors with or without '#'.
func WithNames(names map[string]string) Option {
	return func(r *Resolver) {
		for name, hex := range names {
			r.names[strings.ToLower(strings.TrimSpace(name))] = strings.TrimPrefix(hex, "#")
		}
	}
}

// NewResolver creates a resolver seeded with DefaultNames and
// DefaultTemperatures.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		names:        maps.Clone(DefaultNames),
		temperatures: maps.Clone(DefaultTemperatures),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = NewResolver()

// Resolve resolves a token with the default lenient resolver. It never
// fails: unknown names and malformed hex resolve to white.
func Resolve(token string) Spec {
	spec, _ := defaultResolver.Resolve(token)
	return spec
}

// Classify classifies a token with the default vocabulary.
func Classify(token string) Kind {
	return defaultResolver.Classify(token)
}

// Classify decides which representation applies to a token. First match
// wins: '#'-prefixed or six hex digits, then Kelvin or a named temperature,
// otherwise a color name.
func (r *Resolver) Classify(token string) Kind {
	token = strings.TrimSpace(token)

	if strings.HasPrefix(token, "#") || IsHex(token) {
		return KindHex
	}

	if kelvinPattern.MatchString(token) {
		return KindTemperature
	}
	if _, ok := r.temperatures[strings.ToLower(token)]; ok {
		return KindTemperature
	}

	return KindName
}

// Resolve turns a token into a Spec. The error is always nil unless the
// resolver is strict.
func (r *Resolver) Resolve(token string) (Spec, error) {
	token = strings.TrimSpace(token)

	switch r.Classify(token) {
	case KindHex:
		return r.fromHex(token)
	case KindTemperature:
		return Temperature(r.mireds(token)), nil
	}

	hex, ok := r.names[strings.ToLower(token)]
	if !ok {
		if r.strict {
			return Spec{}, fmt.Errorf("%w: %q", ErrUnknownColor, token)
		}
		hex = whiteHex
	}
	return r.fromHex(hex)
}

func (r *Resolver) fromHex(hex string) (Spec, error) {
	x, y, err := HexToXY(hex)
	if err != nil {
		if r.strict {
			return Spec{}, err
		}
		x, y, _ = HexToXY(whiteHex)
	}
	return Chromaticity(x, y), nil
}

// mireds parses a temperature expression. Anything unparseable maps to
// NeutralMireds.
func (r *Resolver) mireds(token string) int {
	if m, ok := r.temperatures[strings.ToLower(token)]; ok {
		return m
	}

	match := kelvinPattern.FindStringSubmatch(token)
	if match == nil {
		return NeutralMireds
	}

	// ParseFloat accepts digit runs of any length; overflow becomes +Inf.
	kelvin, err := strconv.ParseFloat(match[1], 64)
	if err != nil && kelvin == 0 {
		return NeutralMireds
	}
	return KelvinToMireds(kelvin)
}
