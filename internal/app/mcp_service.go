package app

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huemcp/internal/tools"
)

// MCPService serves the tool server over stdio.
type MCPService struct {
	Server *tools.Server
	in     io.Reader
	out    io.Writer
}

// NewMCPService creates a service bound to the process stdin and stdout.
func NewMCPService(server *tools.Server) *MCPService {
	return &MCPService{
		Server: server,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// Start serves in the background. onDone receives the serve error, nil when
// the session ended because stdin was closed or ctx was cancelled.
func (s *MCPService) Start(ctx context.Context, onDone func(error)) {
	log.Info().Msg("Serving MCP over stdio")

	go func() {
		err := s.Server.ServeStdio(ctx, s.in, s.out)
		if err != nil && (ctx.Err() != nil || err == io.EOF) {
			err = nil
		}
		if onDone != nil {
			onDone(err)
		}
	}()
}
