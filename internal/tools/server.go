// Package tools exposes light control to an agent as MCP tools.
package tools

import (
	"context"
	"encoding/json"
	"io"
	stdlog "log"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huemcp/internal/color"
	"github.com/dokzlo13/huemcp/internal/ledger"
	"github.com/dokzlo13/huemcp/internal/lights"
)

// Recorder persists invocation records. Implemented by ledger.Ledger.
type Recorder interface {
	Append(ctx context.Context, entry ledger.Entry) error
}

// Server wraps the MCP server with the light tools.
type Server struct {
	mcpServer *server.MCPServer
	projector *lights.Projector
	resolver  *color.Resolver
	recorder  Recorder
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder records every invocation. A nil recorder disables recording.
func WithRecorder(r Recorder) Option {
	return func(s *Server) {
		s.recorder = r
	}
}

// NewServer creates the MCP server and registers all tools.
func NewServer(name, version string, projector *lights.Projector, resolver *color.Resolver, opts ...Option) *Server {
	if resolver == nil {
		resolver = color.NewResolver()
	}

	s := &Server{
		projector: projector,
		resolver:  resolver,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.registerTools()

	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the protocol over the given streams until ctx is
// cancelled or the input is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(stdlog.New(log.Logger.With().Str("component", "stdio").Logger(), "", 0))
	return stdio.Listen(ctx, in, out)
}

type handlerFunc func(ctx context.Context, request mcp.CallToolRequest) (any, error)

// invoke is the error boundary for every tool. Failures become error
// results; the Go error returned to the MCP server is always nil.
func (s *Server) invoke(tool string, fn handlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := uuid.New().String()
		logger := log.With().Str("invocation", id).Str("tool", tool).Logger()
		ctx = logger.WithContext(ctx)

		start := time.Now()
		logger.Debug().Interface("arguments", request.GetArguments()).Msg("Tool invoked")

		payload, err := fn(ctx, request)
		elapsed := time.Since(start)

		var result *mcp.CallToolResult
		if err == nil {
			var text []byte
			text, err = json.MarshalIndent(payload, "", "  ")
			if err == nil {
				result = mcp.NewToolResultText(string(text))
			}
		}

		entry := ledger.Entry{
			InvocationID: id,
			Tool:         tool,
			Timestamp:    start,
			Arguments:    request.GetArguments(),
			Outcome:      ledger.OutcomeOK,
			Duration:     elapsed,
		}

		if err != nil {
			logger.Warn().Err(err).Dur("elapsed", elapsed).Msg("Tool failed")
			result = mcp.NewToolResultError("Error: " + err.Error())
			entry.Outcome = ledger.OutcomeError
			entry.Error = err.Error()
		} else {
			logger.Info().Dur("elapsed", elapsed).Msg("Tool completed")
		}

		s.record(ctx, entry)
		return result, nil
	}
}

func (s *Server) record(ctx context.Context, entry ledger.Entry) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Append(context.WithoutCancel(ctx), entry); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to record invocation")
	}
}
