package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonwraymond/toolfoundation/model"

	"github.com/jonwraymond/appdiscovery/discovery"
)

// Config configures a Registry.
type Config struct {
	// Discovery answers the built-in app tools. Required.
	Discovery *discovery.Discovery

	ServerInfo ServerInfo

	// Logger receives request diagnostics. Default: discard.
	Logger *slog.Logger
}

// ServerInfo describes this MCP server for initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// Registry is an MCP tool registry that exposes app search and launch as
// tools, alongside any extra local tools.
type Registry struct {
	mu     sync.RWMutex
	config Config
	disc   *discovery.Discovery
	logger *slog.Logger

	order    []string
	tools    map[string]model.Tool
	handlers map[string]ToolHandler
}

// New creates a Registry with the built-in app tools registered.
func New(cfg Config) (*Registry, error) {
	if cfg.Discovery == nil {
		return nil, fmt.Errorf("%w: discovery is required", ErrInvalidRequest)
	}
	if cfg.ServerInfo.Name == "" {
		cfg.ServerInfo.Name = "appdiscovery"
	}

	r := &Registry{
		config:   cfg,
		disc:     cfg.Discovery,
		logger:   cfg.Logger,
		tools:    make(map[string]model.Tool),
		handlers: make(map[string]ToolHandler),
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}

	if err := r.registerAppTools(); err != nil {
		return nil, err
	}
	return r, nil
}

// RegisterLocal registers a tool with a local execution handler.
// Tools are addressed by name; names must be unique.
func (r *Registry) RegisterLocal(tool model.Tool, handler ToolHandler) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}
	if handler == nil {
		return fmt.Errorf("%w: %s", ErrHandlerNotFound, tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name)
	}
	r.tools[tool.Name] = tool
	r.handlers[tool.Name] = handler
	r.order = append(r.order, tool.Name)
	return nil
}

// RegisterLocalFunc is a convenience for inline tool definition.
func (r *Registry) RegisterLocalFunc(
	name, description string,
	inputSchema map[string]any,
	handler ToolHandler,
	opts ...LocalToolOption,
) error {
	cfg := applyLocalToolOptions(opts)
	tool := buildLocalTool(name, description, inputSchema, cfg)
	return r.RegisterLocal(tool, handler)
}

// ListTools returns all registered tools in registration order.
func (r *Registry) ListTools() []model.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]model.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// GetTool returns a tool by name.
func (r *Registry) GetTool(name string) (model.Tool, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return model.Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return tool, nil
}

// Execute runs a tool by name with the given arguments.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	if args == nil {
		args = map[string]any{}
	}
	return handler(ctx, args)
}

// Discovery returns the facade behind the app tools.
func (r *Registry) Discovery() *discovery.Discovery {
	return r.disc
}

// RegistryStats returns registry statistics.
type RegistryStats struct {
	TotalTools int
	Namespaces map[string]int
}

// Stats returns registry statistics.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{
		TotalTools: len(r.tools),
		Namespaces: make(map[string]int),
	}
	for _, tool := range r.tools {
		stats.Namespaces[tool.Namespace]++
	}
	return stats
}
