package aimove

import (
	"fmt"

	"dario.cat/mergo"
)

// MergeConfig builds the provider config for one request: schema defaults overlaid by runtime values.
//
// A schema entry shaped like {"default": v} contributes v; any other entry is its own default.
// The result shares no maps or slices with schema or runtime, so neither is ever modified.
func MergeConfig(schema, runtime map[string]any) (map[string]any, error) {
	merged := make(map[string]any, len(schema)+len(runtime))

	for key, value := range schema {
		if entry, ok := value.(map[string]any); ok {
			if def, hasDefault := entry["default"]; hasDefault {
				merged[key] = cloneValue(def)
			}
			continue
		}

		merged[key] = cloneValue(value)
	}

	if len(runtime) == 0 {
		return merged, nil
	}

	overrides, _ := cloneValue(runtime).(map[string]any)

	if err := mergo.Merge(&merged, overrides, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge runtime config: %w", err)
	}

	return merged, nil
}

// cloneValue copies the JSON-shaped containers inside value; scalars are returned as is.
func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
