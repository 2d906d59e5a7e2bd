package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServeSSE returns an http.Handler for the MCP SSE transport. A GET opens a
// session stream whose first event names the endpoint for the client's POSTs;
// responses arrive on the stream as "message" events.
//
// Each session is served by a fresh MCPServer, so tools registered later are
// visible to new sessions.
func ServeSSE(r *Registry) http.Handler {
	return mcp.NewSSEHandler(func(*http.Request) *mcp.Server {
		return r.MCPServer()
	}, nil)
}

// MCPServer returns a go-sdk server exposing every registered tool.
func (r *Registry) MCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    r.config.ServerInfo.Name,
		Version: r.config.ServerInfo.Version,
	}, &mcp.ServerOptions{Logger: r.logger})

	for _, tool := range r.ListTools() {
		server.AddTool(&mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}, r.sdkToolHandler(tool.Name))
	}
	return server
}

// sdkToolHandler adapts a registry tool to the go-sdk handler signature.
// Results and failures are shaped like handleToolsCall's.
func (r *Registry) sdkToolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if v := recover(); v != nil {
				r.logger.Error("tool handler panicked", "tool", name, "panic", v)
				result, err = nil, fmt.Errorf("tool %s: internal error", name)
			}
		}()

		var args map[string]any
		if req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
		}

		out, err := r.Execute(ctx, name, args)
		if err != nil {
			r.logger.Warn("tool call failed", "tool", name, "error", err)
			return errorResult(err.Error()), nil
		}

		text, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: string(text)}},
			StructuredContent: out,
		}, nil
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}
