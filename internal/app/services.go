package app

import (
	"context"

	"github.com/dokzlo13/huemcp/internal/color"
	"github.com/dokzlo13/huemcp/internal/config"
	"github.com/dokzlo13/huemcp/internal/db"
	"github.com/dokzlo13/huemcp/internal/ledger"
	"github.com/dokzlo13/huemcp/internal/tools"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure, nil when the ledger is disabled
	DB     *db.DB
	Ledger *ledger.Ledger

	// High-level services
	Hue       *HueService
	MCP       *MCPService
	Health    *HealthService
	Retention *RetentionService
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config, version string) (*Services, error) {
	s := &Services{cfg: cfg}

	var opts []tools.Option
	if cfg.Ledger.Enabled {
		database, err := db.Open(cfg.Ledger.Path)
		if err != nil {
			return nil, err
		}
		s.DB = database
		s.Ledger = ledger.New(database.DB)
		opts = append(opts, tools.WithRecorder(s.Ledger))
	}

	s.Hue = NewHueService(cfg)

	resolver := color.NewResolver(
		color.WithStrict(cfg.Color.Strict),
		color.WithNames(cfg.Color.Names),
	)
	s.MCP = NewMCPService(tools.NewServer("huemcp", version, s.Hue.Projector, resolver, opts...))

	s.Health = NewHealthService(cfg, s.Hue)
	s.Retention = NewRetentionService(cfg, s.Ledger)

	return s, nil
}

// Start starts all services in the correct order.
// onDone is called once the MCP session ends.
func (s *Services) Start(ctx context.Context, onDone func(error)) error {
	// Bridge problems are reported per call; startup continues regardless.
	s.Hue.Start(ctx)

	s.Health.Start(ctx)
	s.Retention.Start(ctx)
	s.MCP.Start(ctx, onDone)

	return nil
}

// Stop gracefully stops all services.
func (s *Services) Stop() error {
	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Hue != nil {
		s.Hue.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
