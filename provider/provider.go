// Package provider discovers launchable applications and exposes them as
// index items.
//
// A [Provider] returns the current application list in a stable order.
// [BundleProvider] reads application bundles from disk, [InMemoryStore] holds
// a registered set, and [Catalog] caches any Provider and reports changes.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonwraymond/appdiscovery/index"
)

// Error values for consistent error handling by callers.
var (
	ErrNotFound    = errors.New("app not found")
	ErrInvalidApp  = errors.New("invalid app")
	ErrInvalidPath = errors.New("invalid app path")
	ErrNoSources   = errors.New("no readable application directories")
)

// App describes an installed application.
type App struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	Path string `json:"path"`
}

// Item converts the app into a search item. The display name doubles as the
// item ID, so apps sharing a name rehydrate to the first of them.
func (a App) Item() index.Item {
	return index.Item{
		ID:          a.Name,
		DisplayName: a.Name,
		Payload:     a,
	}
}

// Items converts apps into search items, preserving order.
func Items(apps []App) []index.Item {
	items := make([]index.Item, len(apps))
	for i, app := range apps {
		items[i] = app.Item()
	}
	return items
}

// Provider lists the items currently eligible for search.
type Provider interface {
	ListItems(ctx context.Context) ([]index.Item, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) ([]index.Item, error)

// ListItems implements Provider.
func (f ProviderFunc) ListItems(ctx context.Context) ([]index.Item, error) {
	return f(ctx)
}

// InMemoryStore stores apps in memory in registration order.
type InMemoryStore struct {
	mu    sync.RWMutex
	order []string
	apps  map[string]App
}

// NewInMemoryStore creates a new app store.
func NewInMemoryStore(apps ...App) *InMemoryStore {
	s := &InMemoryStore{
		apps: make(map[string]App),
	}
	for _, app := range apps {
		_ = s.RegisterApp(app)
	}
	return s
}

// RegisterApp adds or replaces an app, keyed by its path. Replacing keeps the
// original position.
func (s *InMemoryStore) RegisterApp(app App) error {
	if app.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidApp)
	}
	if app.Path == "" {
		return ErrInvalidPath
	}

	s.mu.Lock()
	if _, exists := s.apps[app.Path]; !exists {
		s.order = append(s.order, app.Path)
	}
	s.apps[app.Path] = app
	s.mu.Unlock()

	return nil
}

// UnregisterApp removes an app by path.
func (s *InMemoryStore) UnregisterApp(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.apps[path]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	delete(s.apps, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// DescribeApp returns an app by path.
func (s *InMemoryStore) DescribeApp(path string) (App, error) {
	if path == "" {
		return App{}, ErrInvalidPath
	}

	s.mu.RLock()
	app, ok := s.apps[path]
	s.mu.RUnlock()

	if !ok {
		return App{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return app, nil
}

// ListApps returns all registered apps in registration order.
func (s *InMemoryStore) ListApps() []App {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]App, 0, len(s.order))
	for _, path := range s.order {
		result = append(result, s.apps[path])
	}
	return result
}

// ListItems implements Provider.
func (s *InMemoryStore) ListItems(ctx context.Context) ([]index.Item, error) {
	return Items(s.ListApps()), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
