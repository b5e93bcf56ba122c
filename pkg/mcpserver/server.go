// Package mcpserver exposes a tool server descriptor over the Model
// Context Protocol.
package mcpserver

import (
	"context"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dotsetgreg/dotsoul/pkg/host"
	"github.com/dotsetgreg/dotsoul/pkg/logger"
)

// New builds an MCP server advertising every tool in spec. Handlers answer
// with plain text blocks; only propagating tool faults become protocol
// errors.
func New(spec host.ToolServerSpec, instructions string) *server.MCPServer {
	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	}
	if instructions != "" {
		opts = append(opts, server.WithInstructions(instructions))
	}

	s := server.NewMCPServer(spec.Name, spec.Version, opts...)
	for _, tool := range spec.Tools {
		s.AddTool(toolDefinition(tool), toolHandler(tool))
	}
	logger.InfoCF("mcp", "MCP server built", map[string]interface{}{
		"name":  spec.Name,
		"tools": len(spec.Tools),
	})
	return s
}

// ServeStdio runs the server over stdin/stdout until the stream closes.
func ServeStdio(s *server.MCPServer) error {
	logger.InfoC("mcp", "Serving MCP on stdio")
	return server.ServeStdio(s)
}

func toolDefinition(tool host.ToolDescriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(tool.Description)}
	required := requiredSet(tool.InputSchema)
	for _, name := range propertyNames(tool.InputSchema) {
		var propOpts []mcp.PropertyOption
		if desc := propertyDescription(tool.InputSchema, name); desc != "" {
			propOpts = append(propOpts, mcp.Description(desc))
		}
		if required[name] {
			propOpts = append(propOpts, mcp.Required())
		}
		opts = append(opts, mcp.WithString(name, propOpts...))
	}
	return mcp.NewTool(tool.Name, opts...)
}

func toolHandler(tool host.ToolDescriptor) server.ToolHandlerFunc {
	handler := tool.Handler
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := handler(ctx, req.GetArguments())
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(joinTextBlocks(result)), nil
	}
}

func joinTextBlocks(result host.CallResult) string {
	parts := make([]string, 0, len(result.Content))
	for _, block := range result.Content {
		if block.Type != "text" {
			continue
		}
		parts = append(parts, block.Text)
	}
	return strings.Join(parts, "\n")
}

// propertyNames returns schema property names sorted so advertised tool
// definitions are stable across runs.
func propertyNames(schema map[string]interface{}) []string {
	props, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func propertyDescription(schema map[string]interface{}, name string) string {
	props, _ := schema["properties"].(map[string]interface{})
	prop, _ := props[name].(map[string]interface{})
	desc, _ := prop["description"].(string)
	return desc
}

func requiredSet(schema map[string]interface{}) map[string]bool {
	out := map[string]bool{}
	switch typed := schema["required"].(type) {
	case []string:
		for _, name := range typed {
			out[name] = true
		}
	case []interface{}:
		for _, item := range typed {
			if name, ok := item.(string); ok {
				out[name] = true
			}
		}
	}
	return out
}
