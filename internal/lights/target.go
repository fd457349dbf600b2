// Package lights projects light commands onto Hue bridge operations.
package lights

import (
	"errors"
	"strings"

	"github.com/dokzlo13/huemcp/internal/hue"
)

// AllLights is the selector that addresses every light on the bridge.
const AllLights = "all"

var ErrEmptyTarget = errors.New("light id is required")

// Target selects either one bridge light or all of them.
type Target struct {
	id  string
	all bool
}

// ParseTarget reads a caller supplied selector. "all" (any case) addresses
// group 0; anything else is passed through as an opaque light id.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, ErrEmptyTarget
	}
	if strings.EqualFold(s, AllLights) {
		return Target{all: true}, nil
	}
	return Target{id: s}, nil
}

// Light returns a target for a single light id.
func Light(id string) Target {
	return Target{id: id}
}

// All returns the all-lights target.
func All() Target {
	return Target{all: true}
}

func (t Target) IsAll() bool {
	return t.all
}

// ID returns the light id, or the bridge group id for the all target.
func (t Target) ID() string {
	if t.all {
		return hue.AllLightsGroup
	}
	return t.id
}

func (t Target) String() string {
	if t.all {
		return AllLights
	}
	return t.id
}
