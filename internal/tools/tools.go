package tools

import (
	"context"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dokzlo13/huemcp/internal/lights"
)

// Tool names
const (
	ToolGetLights     = "get_lights"
	ToolSetBrightness = "set_brightness"
	ToolSetColor      = "set_color"
	ToolToggleLight   = "toggle_light"
)

const lightIDDescription = `Light ID, or "all" for every light`

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(ToolGetLights,
			mcp.WithDescription("List all Hue lights with their current state"),
		),
		s.invoke(ToolGetLights, s.handleGetLights),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolSetBrightness,
			mcp.WithDescription("Set the brightness of a light. 0 turns the light off."),
			mcp.WithString("light_id",
				mcp.Required(),
				mcp.Description(lightIDDescription),
			),
			mcp.WithNumber("brightness",
				mcp.Required(),
				mcp.Description("Brightness level from 0 to 254"),
				mcp.Min(lights.MinBrightness),
				mcp.Max(lights.MaxBrightness),
			),
		),
		s.invoke(ToolSetBrightness, s.handleSetBrightness),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolSetColor,
			mcp.WithDescription("Set the color of a light and turn it on"),
			mcp.WithString("light_id",
				mcp.Required(),
				mcp.Description(lightIDDescription),
			),
			mcp.WithString("color",
				mcp.Required(),
				mcp.Description(`Hex code ("#FF0000"), color name ("red"), temperature name ("warm", "daylight") or Kelvin ("2700K")`),
			),
		),
		s.invoke(ToolSetColor, s.handleSetColor),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolToggleLight,
			mcp.WithDescription("Turn a light on or off"),
			mcp.WithString("light_id",
				mcp.Required(),
				mcp.Description(lightIDDescription),
			),
			mcp.WithBoolean("state",
				mcp.Required(),
				mcp.Description("true to turn on, false to turn off"),
			),
		),
		s.invoke(ToolToggleLight, s.handleToggleLight),
	)
}

func (s *Server) handleGetLights(ctx context.Context, _ mcp.CallToolRequest) (any, error) {
	return s.projector.ListLights(ctx)
}

func (s *Server) handleSetBrightness(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	target, err := requireTarget(request)
	if err != nil {
		return nil, err
	}

	value, err := request.RequireFloat("brightness")
	if err != nil {
		return nil, err
	}
	if value != math.Trunc(value) {
		return nil, fmt.Errorf("brightness must be a whole number (got %v)", value)
	}
	if value < lights.MinBrightness || value > lights.MaxBrightness {
		return nil, fmt.Errorf("%w (got %v)", lights.ErrBrightnessOutOfRange, value)
	}
	brightness := int(value)

	return s.apply(ctx, target, lights.Request{Brightness: &brightness})
}

func (s *Server) handleSetColor(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	target, err := requireTarget(request)
	if err != nil {
		return nil, err
	}

	token, err := request.RequireString("color")
	if err != nil {
		return nil, err
	}

	spec, err := s.resolver.Resolve(token)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, target, lights.Request{Color: &spec, ColorToken: token})
}

func (s *Server) handleToggleLight(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	target, err := requireTarget(request)
	if err != nil {
		return nil, err
	}

	on, err := request.RequireBool("state")
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, target, lights.Request{Power: &on})
}

func (s *Server) apply(ctx context.Context, target lights.Target, req lights.Request) (any, error) {
	outcome, err := s.projector.Apply(ctx, target, req)
	if err != nil {
		return nil, err
	}
	return outcome.Summary(), nil
}

func requireTarget(request mcp.CallToolRequest) (lights.Target, error) {
	id, err := request.RequireString("light_id")
	if err != nil {
		return lights.Target{}, err
	}
	return lights.ParseTarget(id)
}
