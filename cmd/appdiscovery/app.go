package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/appdiscovery/config"
	"github.com/jonwraymond/appdiscovery/discovery"
	"github.com/jonwraymond/appdiscovery/index"
	"github.com/jonwraymond/appdiscovery/launch"
	"github.com/jonwraymond/appdiscovery/logging"
	"github.com/jonwraymond/appdiscovery/provider"
	"github.com/jonwraymond/appdiscovery/registry"
	"github.com/jonwraymond/appdiscovery/search"
)

// app is the wired launcher behind every subcommand.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	disc   *discovery.Discovery

	catalog  *provider.Catalog
	snapshot *provider.SnapshotStore
	watcher  *provider.Watcher
	remote   *registry.RemoteProvider
}

// loadConfigFile reads the config file named by --config, or the default one.
func loadConfigFile(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadFromFile(configFile(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadConfig is loadConfigFile with --log-level applied.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := loadConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

func configFile(opts *rootOptions) string {
	if opts.configPath != "" {
		return config.ExpandPath(opts.configPath)
	}
	return config.DefaultPaths().ConfigFile()
}

// newApp wires config, logging, the app source, the search backend and the
// launcher. The source is cached by a Catalog backed by a snapshot in the
// cache directory. When watch is set and apps come from local directories,
// the catalog is kept fresh by a directory watcher until Close.
func newApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions, watch bool) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(&logging.Config{
		Output: cmd.ErrOrStderr(),
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	var (
		source       provider.Provider
		snapshotName = "catalog.db"
	)
	if opts.remote != "" {
		remote, err := registry.NewRemoteProvider(registry.RemoteConfig{
			Name:   "remote",
			URL:    opts.remote,
			Logger: logger,
		})
		if err != nil {
			return nil, err
		}
		a.remote = remote
		source = remote
		snapshotName = "remote.db"
	} else {
		source = provider.NewBundleProvider(provider.BundleOptions{Dirs: cfg.AppDirs(), Logger: logger})
	}

	snapshotPath := filepath.Join(config.DefaultPaths().CacheDir, snapshotName)
	if a.snapshot, err = provider.OpenSnapshotStore(snapshotPath); err != nil {
		logger.Warn("catalog snapshot disabled", "path", snapshotPath, "error", err)
	}
	a.catalog = provider.NewCatalog(source, provider.CatalogOptions{Logger: logger, Snapshot: a.snapshot})

	if watch && cfg.Apps.Watch && a.remote == nil {
		if err := a.startWatcher(ctx, cfg.AppDirs()); err != nil {
			logger.Warn("app directory watching disabled", "error", err)
		}
	}

	var searcher index.Searcher
	if cfg.Search.Backend == config.BackendBleve {
		searcher = search.NewBleveSearcher(search.BleveConfig{MaxTokenWidth: cfg.Search.MaxTokenWidth})
	}

	a.disc, err = discovery.New(discovery.Options{
		Provider:      a.catalog,
		Searcher:      searcher,
		MaxTokenWidth: cfg.Search.MaxTokenWidth,
		Limit:         cfg.Search.Limit,
		Launcher:      launch.NewCommandLauncher(cfg.Launch.Command, logger),
		Logger:        logger,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) startWatcher(ctx context.Context, dirs []string) error {
	w, err := provider.NewWatcher(a.catalog, dirs, provider.WatcherOptions{Logger: a.logger})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return err
	}
	a.watcher = w
	return nil
}

// Close stops the watcher, the remote session and the snapshot store.
func (a *app) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Stop())
	}
	if a.remote != nil {
		errs = append(errs, a.remote.Close())
	}
	if a.snapshot != nil {
		errs = append(errs, a.snapshot.Close())
	}
	return errors.Join(errs...)
}
