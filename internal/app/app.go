package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huemcp/internal/config"
)

// App owns the services of one huemcp process.
type App struct {
	cfg      *config.Config
	services *Services
	ctx      context.Context
	cancel   context.CancelFunc
}

// New builds all services without touching the bridge or stdio.
func New(cfg *config.Config, version string) (*App, error) {
	services, err := NewServices(cfg, version)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		services: services,
	}, nil
}

// Start probes the bridge and begins serving. The app context ends with ctx
// or with the MCP session.
func (a *App) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)

	// The agent closing stdin ends the session; treat it like a signal.
	onDone := func(err error) {
		if err != nil {
			log.Error().Err(err).Msg("MCP session ended with error, initiating shutdown")
		} else {
			log.Info().Msg("MCP session closed, initiating shutdown")
		}
		a.cancel()
	}

	if err := a.services.Start(a.ctx, onDone); err != nil {
		return err
	}

	log.Info().Msg("huemcp started")
	return nil
}

// Stop cancels the session and releases the bridge client and database.
func (a *App) Stop() error {
	log.Info().Msg("Shutting down...")

	if a.cancel != nil {
		a.cancel()
	}

	if a.services != nil {
		return a.services.Stop()
	}

	return nil
}

// Wait blocks until the session ends or a signal arrives.
func (a *App) Wait() {
	if a.ctx != nil {
		<-a.ctx.Done()
	}
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
