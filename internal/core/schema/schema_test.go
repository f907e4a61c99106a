package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_JSON(t *testing.T) {
	s := Object("note", map[string]*Property{
		"title":    Text(),
		"color":    String(),
		"priority": Enum("low", "medium", "high"),
		"tags":     ArrayOf(String()),
	}, []string{"title"})

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "object", decoded["type"])
	assert.Equal(t, []any{"title"}, decoded["required"])

	props := decoded["properties"].(map[string]any)
	assert.Equal(t, float64(1), props["title"].(map[string]any)["minLength"])
	assert.Equal(t, []any{"low", "medium", "high"}, props["priority"].(map[string]any)["enum"])
	assert.Equal(t, "array", props["tags"].(map[string]any)["type"])
}

func TestObject_NilRequiredIsEmptyList(t *testing.T) {
	s := Object("category", map[string]*Property{"name": Text()}, nil)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"required":[]`)
}
