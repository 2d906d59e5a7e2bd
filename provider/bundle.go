package provider

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"

	"github.com/jonwraymond/appdiscovery/index"
)

// DefaultAppDir is where application bundles are installed on macOS.
const DefaultAppDir = "/Applications"

const (
	bundleSuffix  = ".app"
	infoPlistPath = "Contents/Info.plist"
)

// bundleInfo holds the Info.plist keys read from a bundle.
type bundleInfo struct {
	BundleName        string `plist:"CFBundleName"`
	BundleDisplayName string `plist:"CFBundleDisplayName"`
	IconFile          string `plist:"CFBundleIconFile"`
}

// BundleOptions configures a BundleProvider.
type BundleOptions struct {
	// Dirs are scanned in order. Default: [DefaultAppDir].
	Dirs []string

	// Logger receives skipped-bundle diagnostics. Default: discard.
	Logger *slog.Logger
}

// BundleProvider lists the application bundles found in a set of directories.
type BundleProvider struct {
	dirs   []string
	logger *slog.Logger
}

// NewBundleProvider creates a provider over the configured directories.
func NewBundleProvider(opts BundleOptions) *BundleProvider {
	dirs := opts.Dirs
	if len(dirs) == 0 {
		dirs = []string{DefaultAppDir}
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &BundleProvider{dirs: dirs, logger: logger}
}

// Dirs returns the scanned directories.
func (p *BundleProvider) Dirs() []string {
	out := make([]string, len(p.dirs))
	copy(out, p.dirs)
	return out
}

// ListApps scans every directory for *.app bundles with a readable Info.plist.
// Unreadable bundles are skipped. An unreadable directory is skipped too,
// unless no directory could be read at all.
func (p *BundleProvider) ListApps(ctx context.Context) ([]App, error) {
	var apps []App
	var lastErr error
	readable := 0

	for _, dir := range p.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			p.logger.Warn("skipping application directory", "dir", dir, "error", err)
			lastErr = err
			continue
		}
		readable++

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), bundleSuffix) {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			app, err := ReadBundle(path)
			if err != nil {
				p.logger.Debug("skipping bundle", "path", path, "error", err)
				continue
			}
			apps = append(apps, app)
		}
	}

	if readable == 0 && lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSources, lastErr)
	}

	p.logger.Debug("scanned application directories", "dirs", len(p.dirs), "apps", len(apps))
	return apps, nil
}

// ListItems implements Provider.
func (p *BundleProvider) ListItems(ctx context.Context) ([]index.Item, error) {
	apps, err := p.ListApps(ctx)
	if err != nil {
		return nil, err
	}
	return Items(apps), nil
}

// ReadBundle reads the app name and icon from a bundle's Info.plist.
// The name falls back to CFBundleDisplayName, then to the bundle file name.
func ReadBundle(path string) (App, error) {
	data, err := os.ReadFile(filepath.Join(path, infoPlistPath))
	if err != nil {
		return App{}, err
	}

	var info bundleInfo
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return App{}, fmt.Errorf("%w: %s: %v", ErrInvalidApp, path, err)
	}

	name := info.BundleName
	if name == "" {
		name = info.BundleDisplayName
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), bundleSuffix)
	}

	return App{
		Name: name,
		Icon: info.IconFile,
		Path: path,
	}, nil
}
