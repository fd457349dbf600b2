package hue

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/amimof/huego"
)

// AllLightsGroup is the bridge's built-in group containing every light.
const AllLightsGroup = "0"

// Light is a light as returned by the v1 API, keyed by its bridge id.
// The embedded huego.Light carries the decoded body; its numeric ID is
// unused because bridge ids are treated as opaque strings.
type Light struct {
	ID string
	huego.Light
}

// CurrentState returns the light state, never nil.
func (l *Light) CurrentState() huego.State {
	if l.State == nil {
		return huego.State{}
	}
	return *l.State
}

// StateUpdate is a partial light/group state for PUT requests.
// Nil fields are omitted from the body; set fields are sent even when zero,
// so bri=0 and on=false reach the bridge.
type StateUpdate struct {
	On  *bool     `json:"on,omitempty"`
	Bri *uint8    `json:"bri,omitempty"`
	Xy  []float32 `json:"xy,omitempty"`
	Ct  *uint16   `json:"ct,omitempty"`
}

// Failure is a single error entry from a bridge acknowledgement list.
type Failure struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// ack is one element of the acknowledgement list returned by mutations.
type ack struct {
	Success map[string]any `json:"success,omitempty"`
	Error   *Failure       `json:"error,omitempty"`
}

// sortLights orders lights by id, numerically when both ids are numbers.
func sortLights(lights []Light) {
	slices.SortFunc(lights, func(a, b Light) int {
		ai, aErr := strconv.Atoi(a.ID)
		bi, bErr := strconv.Atoi(b.ID)
		if aErr == nil && bErr == nil {
			return cmp.Compare(ai, bi)
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
