// Package plugin provides keyword-triggered result providers that sit next to
// application search.
//
// A plugin inspects the raw keyword and, when it recognizes it, contributes
// one extra result whose body is rendered from the keyword. The built-in
// [JSON] plugin pretty-prints keywords that parse as JSON.
package plugin

import (
	"errors"
	"fmt"
	"sync"
)

// Error values for plugin registration.
var (
	ErrInvalidPlugin = errors.New("invalid plugin")
	ErrDuplicateID   = errors.New("plugin id already registered")
	ErrNotFound      = errors.New("plugin not found")
	ErrInvalidInput  = errors.New("keyword not accepted by plugin")
)

// Info describes a plugin for display.
type Info struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Icon is a short text label shown where an app would show its icon.
	Icon string `json:"icon"`
}

// Plugin contributes a result for keywords it recognizes.
type Plugin interface {
	Info() Info
	Matches(keyword string) bool
	Render(keyword string) (string, error)
}

// Registry holds plugins in registration order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	plugins map[string]Plugin
}

// NewRegistry creates a registry holding the given plugins.
func NewRegistry(plugins ...Plugin) (*Registry, error) {
	r := &Registry{plugins: make(map[string]Plugin)}
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Default returns a registry with the built-in plugins.
func Default() *Registry {
	r, _ := NewRegistry(JSON{})
	return r
}

// Register adds a plugin. IDs must be non-empty and unique.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("%w: nil plugin", ErrInvalidPlugin)
	}
	id := p.Info().ID
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidPlugin)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	r.plugins[id] = p
	r.order = append(r.order, id)
	return nil
}

// Get returns a plugin by ID.
func (r *Registry) Get(id string) (Plugin, error) {
	r.mu.RLock()
	p, ok := r.plugins[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// List returns all plugins in registration order.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Plugin, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.plugins[id])
	}
	return out
}

// Matching returns the plugins that recognize keyword, in registration order.
func (r *Registry) Matching(keyword string) []Plugin {
	var out []Plugin
	for _, p := range r.List() {
		if p.Matches(keyword) {
			out = append(out, p)
		}
	}
	return out
}
