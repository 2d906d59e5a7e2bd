package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/appdiscovery/index"
	"github.com/jonwraymond/appdiscovery/launch"
	"github.com/jonwraymond/appdiscovery/plugin"
	"github.com/jonwraymond/appdiscovery/provider"
	"github.com/jonwraymond/appdiscovery/search"
)

// DefaultLimit is the number of app results returned when no limit is set.
const DefaultLimit = 5

// Error values for discovery operations.
var (
	ErrNotFound      = errors.New("app not found")
	ErrNotLaunchable = errors.New("result is not launchable")
	ErrInvalidResult = errors.New("invalid result")
	ErrProvider      = errors.New("app provider failed")
)

// SearchOptions configures a single SearchItems call.
type SearchOptions struct {
	// Searcher answers the keyword. If nil, uses index.NgramSearcher with the
	// default token width.
	Searcher index.Searcher

	// Limit caps the number of app results. Zero means DefaultLimit; a
	// negative limit returns no app results.
	Limit int

	// Plugins contribute extra results after the apps. Nil means none.
	Plugins *plugin.Registry
}

func (o SearchOptions) limit() int {
	switch {
	case o.Limit == 0:
		return DefaultLimit
	case o.Limit < 0:
		return 0
	default:
		return o.Limit
	}
}

// SearchItems answers keyword against items and returns tagged results:
// ranked app hits first, then one result per matching plugin.
//
// It keeps no state between calls and does not modify items.
func SearchItems(items []index.Item, keyword string, opts SearchOptions) (Results, error) {
	results, _, err := SearchItemsStats(items, keyword, opts)
	return results, err
}

// SearchItemsStats is SearchItems that also reports how hits were resolved.
func SearchItemsStats(items []index.Item, keyword string, opts SearchOptions) (Results, Stats, error) {
	searcher := opts.Searcher
	if searcher == nil {
		searcher = index.NewNgramSearcher(index.Options{})
	}

	matches, err := searcher.Search(keyword, opts.limit(), items)
	if err != nil {
		return nil, Stats{}, err
	}

	apps, dropped := rehydrate(matches, items, scoreTypeOf(searcher))
	plugins, pluginErrs := pluginResults(opts.Plugins, keyword)

	stats := Stats{
		Candidates:   len(matches),
		Dropped:      dropped,
		Plugins:      len(plugins),
		PluginErrors: pluginErrs,
	}
	return compose(apps, plugins), stats, nil
}

func scoreTypeOf(s index.Searcher) ScoreType {
	if _, ok := s.(*search.BleveSearcher); ok {
		return ScoreBleve
	}
	return ScoreNgram
}

// Options configures a Discovery instance.
type Options struct {
	// Provider lists the searchable apps. If nil, creates an empty
	// provider.InMemoryStore.
	Provider provider.Provider

	// Searcher is the search implementation. If nil, uses index.NgramSearcher
	// with MaxTokenWidth.
	Searcher index.Searcher

	// MaxTokenWidth is the longest indexed substring. Only used when Searcher
	// is nil. Default: index.DefaultMaxTokenWidth
	MaxTokenWidth int

	// Limit is the default number of app results. Default: DefaultLimit
	Limit int

	// Plugins contribute extra results. If nil, uses plugin.Default().
	Plugins *plugin.Registry

	// Launcher starts apps. If nil, uses the platform opener.
	Launcher launch.Launcher

	// Logger receives query diagnostics. Default: discard.
	Logger *slog.Logger
}

// Discovery is the facade combining app listing, search, plugins and launch.
type Discovery struct {
	provider  provider.Provider
	searcher  index.Searcher
	plugins   *plugin.Registry
	launcher  launch.Launcher
	limit     int
	scoreType ScoreType
	logger    *slog.Logger
}

// New creates a new Discovery instance with the given options.
func New(opts Options) (*Discovery, error) {
	d := &Discovery{}

	d.logger = opts.Logger
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}

	if opts.Provider != nil {
		d.provider = opts.Provider
	} else {
		d.provider = provider.NewInMemoryStore()
	}

	if opts.Searcher != nil {
		d.searcher = opts.Searcher
	} else {
		if opts.MaxTokenWidth < 0 {
			return nil, fmt.Errorf("%w: %d", index.ErrInvalidTokenWidth, opts.MaxTokenWidth)
		}
		d.searcher = index.NewNgramSearcher(index.Options{MaxTokenWidth: opts.MaxTokenWidth})
	}
	d.scoreType = scoreTypeOf(d.searcher)

	if opts.Limit < 0 {
		return nil, fmt.Errorf("%w: limit %d", ErrInvalidResult, opts.Limit)
	}
	d.limit = opts.Limit
	if d.limit == 0 {
		d.limit = DefaultLimit
	}

	if opts.Plugins != nil {
		d.plugins = opts.Plugins
	} else {
		d.plugins = plugin.Default()
	}

	if opts.Launcher != nil {
		d.launcher = opts.Launcher
	} else {
		d.launcher = launch.NewCommandLauncher("", d.logger)
	}

	return d, nil
}

// Search answers keyword with the configured limit.
func (d *Discovery) Search(ctx context.Context, keyword string) (Results, error) {
	return d.SearchLimit(ctx, keyword, d.limit)
}

// SearchLimit answers keyword with an explicit app result limit.
// A limit of zero uses the configured default.
func (d *Discovery) SearchLimit(ctx context.Context, keyword string, limit int) (Results, error) {
	queryID := uuid.NewString()
	logger := d.logger.With("query_id", queryID)
	start := time.Now()

	items, err := d.items(ctx)
	if err != nil {
		logger.Warn("app listing failed", "error", err)
		return nil, err
	}

	if limit == 0 {
		limit = d.limit
	}
	results, stats, err := SearchItemsStats(items, keyword, SearchOptions{
		Searcher: d.searcher,
		Limit:    limit,
		Plugins:  d.plugins,
	})
	if err != nil {
		logger.Error("search failed", "keyword", keyword, "error", err)
		return nil, err
	}

	if stats.Dropped > 0 {
		logger.Debug("dropped unresolvable hits", "dropped", stats.Dropped)
	}
	for _, perr := range stats.PluginErrors {
		logger.Debug("plugin render failed", "error", perr)
	}
	logger.Debug("search",
		"keyword", keyword,
		"items", len(items),
		"candidates", stats.Candidates,
		"plugins", stats.Plugins,
		"elapsed", time.Since(start),
	)
	return results, nil
}

// ListApps returns every searchable app in provider order.
func (d *Discovery) ListApps(ctx context.Context) ([]provider.App, error) {
	items, err := d.items(ctx)
	if err != nil {
		return nil, err
	}
	apps := make([]provider.App, 0, len(items))
	for _, item := range items {
		switch p := item.Payload.(type) {
		case provider.App:
			apps = append(apps, p)
		case *provider.App:
			if p != nil {
				apps = append(apps, *p)
			}
		}
	}
	return apps, nil
}

// Launch starts the app held by an app result. Plugin results cannot be
// launched.
func (d *Discovery) Launch(ctx context.Context, r Result) error {
	switch r.Kind {
	case KindApp:
		if r.App == nil {
			return fmt.Errorf("%w: app result without app", ErrInvalidResult)
		}
		return d.launcher.Launch(ctx, r.App.Path)
	case KindPlugin:
		return fmt.Errorf("%w: %s", ErrNotLaunchable, r.ID)
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidResult, r.Kind)
	}
}

// LaunchPath starts the known app installed at path. Paths that no listed
// app has are rejected with ErrNotFound.
func (d *Discovery) LaunchPath(ctx context.Context, path string) error {
	if path == "" {
		return launch.ErrInvalidPath
	}
	apps, err := d.ListApps(ctx)
	if err != nil {
		return err
	}
	for _, app := range apps {
		if app.Path == path {
			return d.launcher.Launch(ctx, path)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Provider returns the underlying app provider.
func (d *Discovery) Provider() provider.Provider {
	return d.provider
}

// Plugins returns the plugin registry.
func (d *Discovery) Plugins() *plugin.Registry {
	return d.plugins
}

// Limit returns the default app result limit.
func (d *Discovery) Limit() int {
	return d.limit
}

// ScoreType returns the score type of app results.
func (d *Discovery) ScoreType() ScoreType {
	return d.scoreType
}

func (d *Discovery) items(ctx context.Context) ([]index.Item, error) {
	items, err := d.provider.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return items, nil
}
