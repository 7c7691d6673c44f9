package dashboard

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrDefinitionNotObject is returned when a dashboard definition
// document is not a JSON object after coercion.
var ErrDefinitionNotObject = errors.New("dashboard: definition must be an object")

// DefaultLayout returns the default grid layout document.
func DefaultLayout() map[string]any {
	return map[string]any{
		"grid": map[string]any{"cols": 12, "rowHeight": 36, "gap": 14},
	}
}

// DefaultTime returns the default time-picker document.
func DefaultTime() map[string]any {
	return map[string]any{"mode": "picker", "default": "last_30_days"}
}

// NormalizeDefinition coerces a raw definition value into a well-formed
// dashboard configuration document.
//
// A JSON-encoded string is parsed (parse failures fall through to
// object coercion); nil defaults to an empty document; anything that is
// not an object after coercion is a hard error. The returned document
// always carries the three required sub-fields: "widgets" (array),
// "layout" (object), and "time" (object), defaulted when missing or
// malformed. The input map is not mutated.
func NormalizeDefinition(raw any) (map[string]any, error) {
	v := raw
	if s, ok := v.(string); ok {
		trimmed := strings.TrimSpace(s)
		if trimmed != "" {
			var parsed any
			if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
				v = parsed
			}
		}
	}

	if v == nil {
		v = map[string]any{}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrDefinitionNotObject
	}

	out := make(map[string]any, len(obj)+3)
	for k, val := range obj {
		out[k] = val
	}

	if _, ok := out["widgets"].([]any); !ok {
		out["widgets"] = []any{}
	}
	if _, ok := out["layout"].(map[string]any); !ok {
		out["layout"] = DefaultLayout()
	}
	if _, ok := out["time"].(map[string]any); !ok {
		out["time"] = DefaultTime()
	}

	return out, nil
}
