package plugin

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// JSONPluginID is the registry ID of the JSON plugin.
const JSONPluginID = "json"

var prettyOptions = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// JSON matches keywords that are a complete JSON value and renders them
// indented.
type JSON struct{}

// Info implements Plugin.
func (JSON) Info() Info {
	return Info{ID: JSONPluginID, Name: "JSON", Icon: "{}"}
}

// Matches implements Plugin.
func (JSON) Matches(keyword string) bool {
	return gjson.Valid(keyword)
}

// Render implements Plugin.
func (JSON) Render(keyword string) (string, error) {
	if !gjson.Valid(keyword) {
		return "", fmt.Errorf("%w: not a JSON value", ErrInvalidInput)
	}
	out := pretty.PrettyOptions([]byte(keyword), prettyOptions)
	return string(out), nil
}
