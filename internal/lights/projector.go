package lights

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/dokzlo13/huemcp/internal/color"
	"github.com/dokzlo13/huemcp/internal/hue"
)

// Brightness range accepted by the bridge.
const (
	MinBrightness = 0
	MaxBrightness = 254
)

var ErrBrightnessOutOfRange = errors.New("brightness must be between 0 and 254")

// Bridge is the subset of the bridge client the projector needs.
type Bridge interface {
	GetLights(ctx context.Context) ([]hue.Light, error)
	GetLight(ctx context.Context, lightID string) (*hue.Light, error)
	SetLightState(ctx context.Context, lightID string, update hue.StateUpdate) error
	SetGroupAction(ctx context.Context, groupID string, update hue.StateUpdate) error
}

// Request is a partial light state. Nil fields are left untouched.
type Request struct {
	Power      *bool
	Brightness *int
	Color      *color.Spec
	// ColorToken is the caller's original color string, echoed in group
	// summaries.
	ColorToken string
}

// Validate checks the request without touching the bridge.
func (r Request) Validate() error {
	if r.Brightness != nil && (*r.Brightness < MinBrightness || *r.Brightness > MaxBrightness) {
		return fmt.Errorf("%w (got %d)", ErrBrightnessOutOfRange, *r.Brightness)
	}
	return nil
}

// StateUpdate builds the bridge state for the request.
//
// Brightness without an explicit power flag switches the light on for
// values above zero and off for zero. A color always switches the light on.
func (r Request) StateUpdate() hue.StateUpdate {
	var update hue.StateUpdate

	if r.Power != nil {
		on := *r.Power
		update.On = &on
	}

	if r.Brightness != nil {
		bri := uint8(*r.Brightness)
		update.Bri = &bri
		if r.Power == nil {
			on := *r.Brightness > 0
			update.On = &on
		}
	}

	if r.Color != nil {
		if x, y, ok := r.Color.XY(); ok {
			update.Xy = []float32{round4(x), round4(y)}
		} else if mireds, ok := r.Color.Mireds(); ok {
			ct := uint16(mireds)
			update.Ct = &ct
		}
		on := true
		update.On = &on
	}

	return update
}

func round4(v float64) float32 {
	return float32(math.Round(v*10000) / 10000)
}

// Projector maps targets and requests onto bridge calls.
type Projector struct {
	bridge Bridge
}

// NewProjector creates a projector over the given bridge.
func NewProjector(bridge Bridge) *Projector {
	return &Projector{bridge: bridge}
}

// Apply validates the request and sends it to the target. A single light is
// read back after the mutation; the all-lights target is summarized from the
// request. Calls are sequential and never retried.
func (p *Projector) Apply(ctx context.Context, target Target, req Request) (*Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	update := req.StateUpdate()

	if target.IsAll() {
		if err := p.bridge.SetGroupAction(ctx, target.ID(), update); err != nil {
			return nil, err
		}

		zerolog.Ctx(ctx).Info().
			Str("target", target.String()).
			Interface("state", update).
			Msg("Applied state to all lights")

		return &Outcome{Group: groupSummary(req, update)}, nil
	}

	if err := p.bridge.SetLightState(ctx, target.ID(), update); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("target", target.String()).
		Interface("state", update).
		Msg("Applied state to light")

	light, err := p.bridge.GetLight(ctx, target.ID())
	if err != nil {
		return nil, fmt.Errorf("light %s updated but read-back failed: %w", target.ID(), err)
	}

	summary := Summarize(*light)
	return &Outcome{Light: &summary}, nil
}

// ListLights returns a summary of every light, ordered by id.
func (p *Projector) ListLights(ctx context.Context) ([]LightSummary, error) {
	lights, err := p.bridge.GetLights(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]LightSummary, 0, len(lights))
	for _, l := range lights {
		summaries = append(summaries, Summarize(l))
	}
	return summaries, nil
}
