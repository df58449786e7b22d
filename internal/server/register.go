package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/veranek/workspace-mcp/internal/dispatch"
	"github.com/veranek/workspace-mcp/internal/schema"
)

// BuildMCPServer creates the MCP server and registers every tool from the
// registry. In read-only mode, tools lacking the read-only annotation are
// not exposed at all.
func BuildMCPServer(name, version string, registry *dispatch.Registry, dispatcher *dispatch.Dispatcher) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(name, version,
		mcpserver.WithToolCapabilities(true),
	)

	for _, reg := range registry.All() {
		if dispatcher.ReadOnly() && !reg.Annotations.ReadOnly {
			continue
		}
		s.AddTool(toolFromRegistration(reg), handlerFor(dispatcher, reg.Name))
	}
	return s
}

// ServeStdio runs the MCP server on stdin/stdout until the client
// disconnects or ctx is cancelled.
func ServeStdio(ctx context.Context, s *mcpserver.MCPServer) error {
	done := make(chan error, 1)
	go func() {
		done <- mcpserver.ServeStdio(s)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func handlerFor(dispatcher *dispatch.Dispatcher, tool string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := dispatcher.Dispatch(ctx, tool, request.GetArguments())
		if result.IsError {
			return mcp.NewToolResultError(result.Text), nil
		}
		return mcp.NewToolResultText(result.Text), nil
	}
}

// toolFromRegistration converts a registration into the MCP tool
// declaration, deriving the input schema from the validation schema so
// the two can never drift apart.
func toolFromRegistration(reg dispatch.Registration) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(reg.Description),
	}
	if reg.Annotations.Title != "" {
		opts = append(opts, mcp.WithTitleAnnotation(reg.Annotations.Title))
	}
	opts = append(opts,
		mcp.WithReadOnlyHintAnnotation(reg.Annotations.ReadOnly),
		mcp.WithDestructiveHintAnnotation(reg.Annotations.Destructive),
		mcp.WithIdempotentHintAnnotation(reg.Annotations.Idempotent),
		mcp.WithOpenWorldHintAnnotation(reg.Annotations.OpenWorld),
	)

	for _, field := range reg.Schema.Fields() {
		opts = append(opts, propertyOption(field))
	}

	return mcp.NewTool(reg.Name, opts...)
}

func propertyOption(field schema.Field) mcp.ToolOption {
	var propOpts []mcp.PropertyOption
	if field.Description != "" {
		propOpts = append(propOpts, mcp.Description(field.Description))
	}
	if field.Required {
		propOpts = append(propOpts, mcp.Required())
	}
	if len(field.Enum) > 0 {
		propOpts = append(propOpts, mcp.Enum(field.Enum...))
	}

	switch field.Type {
	case schema.TypeBool:
		if d, ok := field.Default.(bool); ok {
			propOpts = append(propOpts, mcp.DefaultBool(d))
		}
		return mcp.WithBoolean(field.Name, propOpts...)
	case schema.TypeInt, schema.TypeNumber:
		switch d := field.Default.(type) {
		case int:
			propOpts = append(propOpts, mcp.DefaultNumber(float64(d)))
		case float64:
			propOpts = append(propOpts, mcp.DefaultNumber(d))
		}
		return mcp.WithNumber(field.Name, propOpts...)
	case schema.TypeStringList:
		propOpts = append(propOpts, mcp.Items(map[string]any{"type": "string"}))
		return mcp.WithArray(field.Name, propOpts...)
	case schema.TypeObjectList:
		propOpts = append(propOpts, mcp.Items(map[string]any{"type": "object"}))
		return mcp.WithArray(field.Name, propOpts...)
	case schema.TypeRowList:
		propOpts = append(propOpts, mcp.Items(map[string]any{"type": "array"}))
		return mcp.WithArray(field.Name, propOpts...)
	default:
		if d, ok := field.Default.(string); ok && d != "" {
			propOpts = append(propOpts, mcp.DefaultString(d))
		}
		return mcp.WithString(field.Name, propOpts...)
	}
}
