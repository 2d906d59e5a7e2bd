package discovery

import (
	"encoding/json"
	"fmt"

	"github.com/jonwraymond/appdiscovery/plugin"
	"github.com/jonwraymond/appdiscovery/provider"
)

// Kind tags the variant held by a Result.
type Kind string

const (
	// KindApp results carry an installed application.
	KindApp Kind = "app"

	// KindPlugin results carry the output of a plugin that recognized the keyword.
	KindPlugin Kind = "plugin"
)

// ScoreType indicates the source of a search result's score.
type ScoreType string

const (
	// ScoreNgram indicates the score came from the built-in n-gram index.
	ScoreNgram ScoreType = "ngram"

	// ScoreBleve indicates the candidates came from the bleve backend.
	// Scores are computed the same way as ScoreNgram.
	ScoreBleve ScoreType = "bleve"

	// ScorePlugin marks plugin results, which are not ranked.
	ScorePlugin ScoreType = "plugin"
)

// PluginOutput is the payload of a KindPlugin result.
type PluginOutput struct {
	plugin.Info
	Output string
}

// Result is a tagged search result. Exactly one of App or Plugin is set,
// selected by Kind.
type Result struct {
	Kind Kind

	// ID is the matched item's ID (the app name) or the plugin ID.
	ID string

	// Score is the relevance score. Zero for plugin results.
	Score float64

	// ScoreType indicates how the Score was computed.
	ScoreType ScoreType

	App    *provider.App
	Plugin *PluginOutput
}

// Title returns the text shown for the result in a list.
func (r Result) Title() string {
	switch r.Kind {
	case KindApp:
		if r.App != nil {
			return r.App.Name
		}
	case KindPlugin:
		if r.Plugin != nil {
			return r.Plugin.Name
		}
	}
	return r.ID
}

type appJSON struct {
	Type Kind   `json:"type"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Path string `json:"path"`
}

type pluginJSON struct {
	Type   Kind   `json:"type"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Output string `json:"output"`
}

// MarshalJSON encodes the result as a flat object discriminated by "type".
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindApp:
		if r.App == nil {
			return nil, fmt.Errorf("%w: app result without app", ErrInvalidResult)
		}
		return json.Marshal(appJSON{Type: KindApp, Name: r.App.Name, Icon: r.App.Icon, Path: r.App.Path})
	case KindPlugin:
		if r.Plugin == nil {
			return nil, fmt.Errorf("%w: plugin result without plugin", ErrInvalidResult)
		}
		return json.Marshal(pluginJSON{
			Type:   KindPlugin,
			ID:     r.Plugin.ID,
			Name:   r.Plugin.Name,
			Icon:   r.Plugin.Icon,
			Output: r.Plugin.Output,
		})
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidResult, r.Kind)
	}
}

// UnmarshalJSON decodes the flat "type"-discriminated form.
// Scores are not part of the encoding and decode as zero.
func (r *Result) UnmarshalJSON(data []byte) error {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	switch head.Type {
	case KindApp:
		var v appJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*r = Result{
			Kind: KindApp,
			ID:   v.Name,
			App:  &provider.App{Name: v.Name, Icon: v.Icon, Path: v.Path},
		}
	case KindPlugin:
		var v pluginJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*r = Result{
			Kind:      KindPlugin,
			ID:        v.ID,
			ScoreType: ScorePlugin,
			Plugin: &PluginOutput{
				Info:   plugin.Info{ID: v.ID, Name: v.Name, Icon: v.Icon},
				Output: v.Output,
			},
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidResult, head.Type)
	}
	return nil
}

// Results is a slice of Result with helper methods.
type Results []Result

// IDs returns the result IDs in order.
func (r Results) IDs() []string {
	ids := make([]string, len(r))
	for i, result := range r {
		ids[i] = result.ID
	}
	return ids
}

// Apps returns the applications of the app results, in order.
func (r Results) Apps() []provider.App {
	var apps []provider.App
	for _, result := range r {
		if result.Kind == KindApp && result.App != nil {
			apps = append(apps, *result.App)
		}
	}
	return apps
}

// FilterByKind returns results of the given kind.
func (r Results) FilterByKind(kind Kind) Results {
	var filtered Results
	for _, result := range r {
		if result.Kind == kind {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// FilterByMinScore returns results with score >= minScore.
func (r Results) FilterByMinScore(minScore float64) Results {
	var filtered Results
	for _, result := range r {
		if result.Score >= minScore {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// Stats describes how a query's hits turned into results.
type Stats struct {
	// Candidates is the number of ranked hits returned by the searcher.
	Candidates int

	// Dropped counts hits that could not be rehydrated into a result.
	Dropped int

	// Plugins is the number of plugin results appended.
	Plugins int

	// PluginErrors holds the Render failures of matching plugins that were
	// left out of the results.
	PluginErrors []error
}
