package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/appdiscovery/discovery"
	"github.com/jonwraymond/appdiscovery/index"
	"github.com/jonwraymond/appdiscovery/provider"
)

// RemoteConfig describes a connection to another launcher's MCP server.
type RemoteConfig struct {
	// Name identifies the remote in logs.
	Name string
	// URL is the MCP server URL (http(s)://, sse://, stdio://).
	URL string
	// Headers are optional HTTP headers for authenticated servers.
	Headers map[string]string
	// MaxRetries controls reconnect attempts for streamable HTTP transport.
	MaxRetries int
	// Transport overrides URL handling when provided (useful for tests).
	Transport mcp.Transport
	// Logger receives connection diagnostics. Default: discard.
	Logger *slog.Logger
}

// RemoteProvider lists apps from a remote launcher through its list_apps
// tool. It implements provider.Provider, so a Discovery can search apps that
// live on another machine.
type RemoteProvider struct {
	config RemoteConfig
	logger *slog.Logger

	mu        sync.RWMutex
	client    *mcp.Client
	session   *mcp.ClientSession
	connected bool
}

// NewRemoteProvider validates cfg and returns an unconnected provider.
// The connection is opened on first use or by Connect.
func NewRemoteProvider(cfg RemoteConfig) (*RemoteProvider, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = cfg.URL
	}
	if cfg.Transport == nil && strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("%w: remote URL is required", ErrInvalidRequest)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RemoteProvider{config: cfg, logger: logger}, nil
}

// Connect opens the MCP session. Connecting twice is a no-op.
func (p *RemoteProvider) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.connected {
		return nil
	}

	transport, err := p.transport()
	if err != nil {
		return err
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "appdiscovery-remote"}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", p.config.Name, err)
	}

	p.client = client
	p.session = session
	p.connected = true
	p.logger.Info("connected to remote launcher", "remote", p.config.Name)
	return nil
}

// Close ends the MCP session.
func (p *RemoteProvider) Close() error {
	p.mu.Lock()
	if !p.connected {
		p.mu.Unlock()
		return nil
	}
	session := p.session
	p.client = nil
	p.session = nil
	p.connected = false
	p.mu.Unlock()

	if session != nil {
		return session.Close()
	}
	return nil
}

// ListApps calls the remote list_apps tool.
func (p *RemoteProvider) ListApps(ctx context.Context) ([]provider.App, error) {
	var out ListAppsOutput
	if err := p.call(ctx, ToolListApps, map[string]any{}, &out); err != nil {
		return nil, err
	}
	return out.Apps, nil
}

// ListItems implements provider.Provider.
func (p *RemoteProvider) ListItems(ctx context.Context) ([]index.Item, error) {
	apps, err := p.ListApps(ctx)
	if err != nil {
		return nil, err
	}
	return provider.Items(apps), nil
}

// SearchApps runs search_apps on the remote launcher.
func (p *RemoteProvider) SearchApps(ctx context.Context, keyword string, limit int) (discovery.Results, error) {
	args := map[string]any{"keyword": keyword}
	if limit > 0 {
		args["limit"] = limit
	}
	var out SearchAppsOutput
	if err := p.call(ctx, ToolSearchApps, args, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// call invokes a remote tool and decodes its result into out.
func (p *RemoteProvider) call(ctx context.Context, name string, args map[string]any, out any) error {
	if err := p.Connect(ctx); err != nil {
		return err
	}

	p.mu.RLock()
	session := p.session
	p.mu.RUnlock()
	if session == nil {
		return ErrNotConnected
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}
	if result == nil {
		return fmt.Errorf("%w: empty result", ErrExecutionFailed)
	}
	if result.IsError {
		return fmt.Errorf("%w: %s", ErrExecutionFailed, toolResultError(result))
	}
	return decodeToolResult(result, out)
}

func (p *RemoteProvider) transport() (mcp.Transport, error) {
	if p.config.Transport != nil {
		return p.config.Transport, nil
	}

	parsed, err := url.Parse(p.config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL: %w", err)
	}

	httpClient := httpClientWithHeaders(p.config.Headers)

	switch parsed.Scheme {
	case "http", "https":
		return &mcp.StreamableClientTransport{
			Endpoint:   p.config.URL,
			HTTPClient: httpClient,
			MaxRetries: p.config.MaxRetries,
		}, nil
	case "sse":
		parsed.Scheme = "http"
		return &mcp.SSEClientTransport{
			Endpoint:   parsed.String(),
			HTTPClient: httpClient,
		}, nil
	case "stdio":
		return &mcp.StdioTransport{}, nil
	default:
		return nil, fmt.Errorf("unsupported remote URL scheme %q", parsed.Scheme)
	}
}

func httpClientWithHeaders(headers map[string]string) *http.Client {
	if len(headers) == 0 {
		return nil
	}
	clone := make(map[string]string, len(headers))
	for k, v := range headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		clone[k] = v
	}
	if len(clone) == 0 {
		return nil
	}
	return &http.Client{
		Transport: &headerRoundTripper{
			base:    http.DefaultTransport,
			headers: clone,
		},
	}
}

type headerRoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	base := h.base
	if base == nil {
		base = http.DefaultTransport
	}
	req = req.Clone(req.Context())
	for key, value := range h.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	return base.RoundTrip(req)
}

// decodeToolResult prefers structured content and falls back to a single
// JSON text block.
func decodeToolResult(result *mcp.CallToolResult, out any) error {
	var data []byte
	if result.StructuredContent != nil {
		raw, err := json.Marshal(result.StructuredContent)
		if err != nil {
			return err
		}
		data = raw
	} else {
		for _, content := range result.Content {
			if text, ok := content.(*mcp.TextContent); ok {
				data = []byte(text.Text)
				break
			}
		}
	}
	if len(data) == 0 {
		return errors.New("tool result has no content")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode tool result: %w", err)
	}
	return nil
}

func toolResultError(result *mcp.CallToolResult) string {
	if result == nil {
		return "tool execution failed"
	}
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok && text.Text != "" {
			return text.Text
		}
	}
	if result.StructuredContent != nil {
		return fmt.Sprintf("%v", result.StructuredContent)
	}
	return "tool execution failed"
}
