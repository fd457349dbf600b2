package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dokzlo13/huemcp/internal/config"
	"github.com/dokzlo13/huemcp/internal/hue"
	"github.com/dokzlo13/huemcp/internal/lights"
)

// HueService wraps the bridge client and the command projector built on it.
type HueService struct {
	cfg *config.Config

	Client    *hue.Client
	Projector *lights.Projector
}

// NewHueService creates a new HueService. No connection is made until Start.
func NewHueService(cfg *config.Config) *HueService {
	client := hue.NewClient(cfg.Hue.Bridge, cfg.Hue.Token, hue.ClientConfig{
		Timeout:  cfg.Hue.Timeout.Duration(),
		LightRPS: cfg.Hue.RateLimitRPS,
		GroupRPS: cfg.Hue.GroupRateLimitRPS,
	})

	return &HueService{
		cfg:       cfg,
		Client:    client,
		Projector: lights.NewProjector(client),
	}
}

// Start probes the bridge once. A failure is logged and startup continues.
func (s *HueService) Start(ctx context.Context) {
	if err := s.Client.Connect(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("bridge", s.Client.Address()).Msg("Hue bridge not reachable, tools will report errors until it is")
		return
	}
	zerolog.Ctx(ctx).Info().Str("bridge", s.Client.Address()).Msg("Connected to Hue bridge")
}

// Ready reports whether the bridge accepts the configured token.
func (s *HueService) Ready(ctx context.Context) error {
	return s.Client.Connect(ctx)
}

// Close releases all resources.
func (s *HueService) Close() {
	if s.Client != nil {
		s.Client.Close()
	}
}
