package provider

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jonwraymond/appdiscovery/index"
)

// ChangeEvent describes a catalog snapshot that differs from the previous one.
type ChangeEvent struct {
	Items       int
	Fingerprint string
	Previous    string
}

// ChangeListener is notified after a refresh produced a new snapshot.
type ChangeListener func(ChangeEvent)

// CatalogOptions configures a Catalog.
type CatalogOptions struct {
	Logger *slog.Logger

	// Snapshot, if set, receives every changed snapshot and serves the last
	// saved one while the source cannot be loaded.
	Snapshot *SnapshotStore
}

// Catalog caches the item list of a Provider between refreshes.
//
// The search core never keeps state across queries; the Catalog is the
// caller-side cache that avoids rescanning the disk on every keystroke.
type Catalog struct {
	mu          sync.RWMutex
	source      Provider
	items       []index.Item
	fingerprint string
	loaded      bool

	listenerMu sync.Mutex
	listeners  map[uint64]ChangeListener
	nextID     uint64

	snapshot *SnapshotStore
	logger   *slog.Logger
}

// NewCatalog creates a catalog over source. Nothing is loaded until the first
// Refresh or ListItems call.
func NewCatalog(source Provider, opts ...CatalogOptions) *Catalog {
	c := &Catalog{
		source:    source,
		listeners: make(map[uint64]ChangeListener),
		logger:    discardLogger(),
	}
	if len(opts) > 0 {
		if opts[0].Logger != nil {
			c.logger = opts[0].Logger
		}
		c.snapshot = opts[0].Snapshot
	}
	return c
}

// Refresh reloads the item list from the source. It reports whether the
// snapshot changed; listeners are notified only in that case. On error the
// previous snapshot is kept.
func (c *Catalog) Refresh(ctx context.Context) (bool, error) {
	items, err := c.source.ListItems(ctx)
	if err != nil {
		c.logger.Warn("catalog refresh failed", "error", err)
		return false, err
	}

	fp := computeFingerprint(items)

	c.mu.Lock()
	previous := c.fingerprint
	changed := !c.loaded || previous != fp
	c.items = items
	c.fingerprint = fp
	c.loaded = true
	c.mu.Unlock()

	if changed {
		c.logger.Info("catalog updated", "items", len(items), "fingerprint", shortFingerprint(fp))
		if c.snapshot != nil {
			if err := c.snapshot.Save(items); err != nil {
				c.logger.Warn("catalog snapshot not saved", "error", err)
			}
		}
		c.notify(ChangeEvent{Items: len(items), Fingerprint: fp, Previous: previous})
	}
	return changed, nil
}

// ListItems implements Provider. It loads the source on first use and returns
// a copy of the cached snapshot afterwards. If the first load fails and a
// saved snapshot exists, the saved apps are returned and the source is tried
// again on the next call.
func (c *Catalog) ListItems(ctx context.Context) ([]index.Item, error) {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()

	if !loaded {
		if _, err := c.Refresh(ctx); err != nil {
			return c.fallback(err)
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]index.Item, len(c.items))
	copy(out, c.items)
	return out, nil
}

func (c *Catalog) fallback(err error) ([]index.Item, error) {
	if c.snapshot == nil {
		return nil, err
	}
	apps, loadErr := c.snapshot.Load()
	if loadErr != nil || len(apps) == 0 {
		return nil, err
	}
	c.logger.Warn("serving saved catalog snapshot", "items", len(apps), "error", err)
	return Items(apps), nil
}

// Fingerprint returns the hash of the current snapshot, or "" before the
// first successful refresh.
func (c *Catalog) Fingerprint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fingerprint
}

// OnChange registers a listener and returns its unsubscribe function.
func (c *Catalog) OnChange(listener ChangeListener) func() {
	c.listenerMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = listener
	c.listenerMu.Unlock()

	return func() {
		c.listenerMu.Lock()
		delete(c.listeners, id)
		c.listenerMu.Unlock()
	}
}

func (c *Catalog) notify(event ChangeEvent) {
	c.listenerMu.Lock()
	listeners := make([]ChangeListener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.listenerMu.Unlock()

	for _, l := range listeners {
		l(event)
	}
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
