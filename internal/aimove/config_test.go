package aimove

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeConfig(t *testing.T) {
	schema := map[string]any{
		"model":       map[string]any{"type": "string", "default": "small"},
		"temperature": map[string]any{"type": "number", "default": 0.7},
		"label":       map[string]any{"type": "string"},
		"retries":     2,
	}

	t.Run("Schema defaults only", func(t *testing.T) {
		merged, err := MergeConfig(schema, nil)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"model": "small", "temperature": 0.7, "retries": 2}, merged)
	})

	t.Run("Runtime values override defaults", func(t *testing.T) {
		merged, err := MergeConfig(schema, map[string]any{"model": "large", "seed": 7})

		require.NoError(t, err)
		assert.Equal(t, "large", merged["model"])
		assert.Equal(t, 0.7, merged["temperature"])
		assert.Equal(t, 7, merged["seed"])
	})

	t.Run("No schema", func(t *testing.T) {
		merged, err := MergeConfig(nil, map[string]any{"model": "large"})

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"model": "large"}, merged)
	})

	t.Run("Schema is not modified", func(t *testing.T) {
		_, err := MergeConfig(schema, map[string]any{"retries": 5})

		require.NoError(t, err)
		assert.Equal(t, 2, schema["retries"])
	})

	t.Run("Nested defaults are copied, not shared", func(t *testing.T) {
		// Given: a schema whose default is an object
		nested := map[string]any{
			"options": map[string]any{"default": map[string]any{"top_p": 0.9}},
		}
		runtime := map[string]any{"options": map[string]any{"seed": 7}}

		// When: runtime values are merged into it
		merged, err := MergeConfig(nested, runtime)

		// Then: the merged config carries both, the inputs keep their own values
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"top_p": 0.9, "seed": 7}, merged["options"])
		assert.Equal(t, map[string]any{"default": map[string]any{"top_p": 0.9}}, nested["options"])
		assert.Equal(t, map[string]any{"seed": 7}, runtime["options"])

		merged["options"].(map[string]any)["top_p"] = 0.1
		assert.Equal(t, map[string]any{"default": map[string]any{"top_p": 0.9}}, nested["options"])
	})
}

