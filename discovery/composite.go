package discovery

import (
	"fmt"

	"github.com/jonwraymond/appdiscovery/index"
	"github.com/jonwraymond/appdiscovery/plugin"
	"github.com/jonwraymond/appdiscovery/provider"
)

// Rehydrate returns the first item whose ID equals id.
//
// Items sharing an ID are indistinguishable here: every hit on any of them
// resolves to the earliest one.
func Rehydrate(id string, items []index.Item) (index.Item, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return index.Item{}, false
}

// fromItem wraps an item payload in the matching Result variant.
// Payloads with no variant report false.
func fromItem(item index.Item, m index.Match, scoreType ScoreType) (Result, bool) {
	var app provider.App
	switch p := item.Payload.(type) {
	case provider.App:
		app = p
	case *provider.App:
		if p == nil {
			return Result{}, false
		}
		app = *p
	default:
		return Result{}, false
	}

	return Result{
		Kind:      KindApp,
		ID:        item.ID,
		Score:     m.Score,
		ScoreType: scoreType,
		App:       &app,
	}, true
}

// rehydrate turns ranked matches back into app results. Misses are counted
// and skipped.
func rehydrate(matches []index.Match, items []index.Item, scoreType ScoreType) (Results, int) {
	results := make(Results, 0, len(matches))
	dropped := 0

	for _, m := range matches {
		item, ok := Rehydrate(m.ID, items)
		if !ok {
			dropped++
			continue
		}
		result, ok := fromItem(item, m, scoreType)
		if !ok {
			dropped++
			continue
		}
		results = append(results, result)
	}
	return results, dropped
}

// pluginResults renders every plugin that recognizes keyword. A plugin whose
// Render fails is skipped and its error returned.
func pluginResults(registry *plugin.Registry, keyword string) (Results, []error) {
	if registry == nil {
		return nil, nil
	}

	var results Results
	var errs []error
	for _, p := range registry.Matching(keyword) {
		info := p.Info()
		output, err := p.Render(keyword)
		if err != nil {
			errs = append(errs, fmt.Errorf("plugin %s: %w", info.ID, err))
			continue
		}
		results = append(results, Result{
			Kind:      KindPlugin,
			ID:        info.ID,
			ScoreType: ScorePlugin,
			Plugin:    &PluginOutput{Info: info, Output: output},
		})
	}
	return results, errs
}

// compose appends plugin results after the ranked app results.
func compose(apps, plugins Results) Results {
	if len(plugins) == 0 {
		return apps
	}
	out := make(Results, 0, len(apps)+len(plugins))
	out = append(out, apps...)
	return append(out, plugins...)
}
