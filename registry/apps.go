package registry

import (
	"context"
	"fmt"

	"github.com/jonwraymond/appdiscovery/discovery"
	"github.com/jonwraymond/appdiscovery/provider"
)

// Built-in tool names.
const (
	ToolSearchApps = "search_apps"
	ToolLaunchApp  = "launch_app"
	ToolListApps   = "list_apps"
)

const appsNamespace = "apps"

// SearchAppsOutput is the structured content of search_apps.
type SearchAppsOutput struct {
	Keyword string            `json:"keyword"`
	Results discovery.Results `json:"results"`
}

// ListAppsOutput is the structured content of list_apps.
type ListAppsOutput struct {
	Apps []provider.App `json:"apps"`
}

// LaunchAppOutput is the structured content of launch_app.
type LaunchAppOutput struct {
	Launched string `json:"launched"`
}

func (r *Registry) registerAppTools() error {
	if err := r.RegisterLocalFunc(
		ToolSearchApps,
		"Find installed applications whose name contains the keyword. Results are ranked; valid JSON keywords also yield a formatted JSON result.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"keyword": map[string]any{"type": "string", "description": "Case-insensitive substring of the app name"},
				"limit":   map[string]any{"type": "integer", "minimum": 1, "description": "Maximum number of app results"},
			},
			"required": []string{"keyword"},
		},
		r.searchApps,
		WithNamespace(appsNamespace), WithTags("search", "apps"),
	); err != nil {
		return err
	}

	if err := r.RegisterLocalFunc(
		ToolLaunchApp,
		"Launch an installed application by its bundle path, as returned by search_apps or list_apps.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{"type": "string", "description": "Application bundle path"},
			},
			"required": []string{"path"},
		},
		r.launchApp,
		WithNamespace(appsNamespace), WithTags("launch", "apps"),
	); err != nil {
		return err
	}

	return r.RegisterLocalFunc(
		ToolListApps,
		"List every installed application known to the launcher.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		r.listApps,
		WithNamespace(appsNamespace), WithTags("apps"),
	)
}

func (r *Registry) searchApps(ctx context.Context, args map[string]any) (any, error) {
	keyword, err := stringArg(args, "keyword", true)
	if err != nil {
		return nil, err
	}
	limit, err := intArg(args, "limit")
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, argError("limit", "must be positive")
	}

	results, err := r.disc.SearchLimit(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = discovery.Results{}
	}
	return SearchAppsOutput{Keyword: keyword, Results: results}, nil
}

func (r *Registry) launchApp(ctx context.Context, args map[string]any) (any, error) {
	path, err := stringArg(args, "path", true)
	if err != nil {
		return nil, err
	}
	if err := r.disc.LaunchPath(ctx, path); err != nil {
		return nil, err
	}
	return LaunchAppOutput{Launched: path}, nil
}

func (r *Registry) listApps(ctx context.Context, _ map[string]any) (any, error) {
	apps, err := r.disc.ListApps(ctx)
	if err != nil {
		return nil, err
	}
	return ListAppsOutput{Apps: apps}, nil
}

func argError(key, msg string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArguments, key, msg)
}
