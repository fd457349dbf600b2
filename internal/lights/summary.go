package lights

import (
	"github.com/dokzlo13/huemcp/internal/hue"
)

// LightSummary is the caller-facing view of a light.
type LightSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	On         bool      `json:"on"`
	Brightness uint8     `json:"brightness"`
	Reachable  bool      `json:"reachable"`
	ColorMode  string    `json:"colorMode,omitempty"`
	XY         []float32 `json:"xy,omitempty"`
	CT         uint16    `json:"ct,omitempty"`
}

// GroupSummary describes an all-lights mutation. The bridge does not report
// the resulting group state, so it is built from the request.
type GroupSummary struct {
	Message    string `json:"message"`
	On         *bool  `json:"on,omitempty"`
	Brightness *int   `json:"brightness,omitempty"`
	Color      string `json:"color,omitempty"`
}

// Outcome is the result of a successful Apply. Exactly one of Light and
// Group is set.
type Outcome struct {
	Light *LightSummary
	Group *GroupSummary
}

// Summary returns the populated view for serialization.
func (o *Outcome) Summary() any {
	if o.Group != nil {
		return o.Group
	}
	return o.Light
}

// Summarize converts a bridge light to its summary.
func Summarize(l hue.Light) LightSummary {
	state := l.CurrentState()
	s := LightSummary{
		ID:         l.ID,
		Name:       l.Name,
		Type:       l.Type,
		On:         state.On,
		Brightness: state.Bri,
		Reachable:  state.Reachable,
		ColorMode:  state.ColorMode,
	}

	switch state.ColorMode {
	case "xy":
		s.XY = state.Xy
	case "ct":
		s.CT = state.Ct
	}

	return s
}

func groupSummary(req Request, update hue.StateUpdate) *GroupSummary {
	g := &GroupSummary{
		On:         update.On,
		Brightness: req.Brightness,
		Color:      req.ColorToken,
	}

	switch {
	case req.Color != nil:
		g.Message = "All lights color updated"
	case req.Brightness == nil && req.Power != nil:
		if *req.Power {
			g.Message = "All lights turned on"
		} else {
			g.Message = "All lights turned off"
		}
	default:
		g.Message = "All lights updated"
	}

	return g
}
