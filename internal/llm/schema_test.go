package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return Object(map[string]*Schema{
		"score":  Number("content score", 0, 90),
		"label":  Enum("word status", "good", "poor"),
		"tips":   ArrayOf(String("tip"), "tips"),
		"remark": String("optional remark"),
	}, "score", "label", "tips")
}

func TestSchema_JSONSchemaIsStrict(t *testing.T) {
	got := testSchema().JSONSchema()

	assert.Equal(t, "object", got["type"])
	assert.Equal(t, false, got["additionalProperties"])
	assert.Equal(t, []string{"label", "remark", "score", "tips"}, got["required"])

	props := got["properties"].(map[string]any)
	score := props["score"].(map[string]any)
	assert.Equal(t, "number", score["type"])
	assert.Equal(t, 0.0, score["minimum"])
	assert.Equal(t, 90.0, score["maximum"])

	label := props["label"].(map[string]any)
	assert.Equal(t, []string{"good", "poor"}, label["enum"])

	remark := props["remark"].(map[string]any)
	assert.Equal(t, []string{"string", "null"}, remark["type"], "optional properties become nullable")

	tips := props["tips"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string", "description": "tip"}, tips["items"])
}

func TestToGenaiSchema(t *testing.T) {
	got := toGenaiSchema(testSchema())
	require.NotNil(t, got)

	assert.Equal(t, genai.TypeObject, got.Type)
	assert.Equal(t, []string{"score", "label", "tips"}, got.Required)
	assert.Equal(t, genai.TypeNumber, got.Properties["score"].Type)
	assert.Contains(t, got.Properties["score"].Description, "between 0 and 90")
	assert.Equal(t, "enum", got.Properties["label"].Format)
	assert.Equal(t, []string{"good", "poor"}, got.Properties["label"].Enum)
	assert.Equal(t, genai.TypeArray, got.Properties["tips"].Type)
	assert.Equal(t, genai.TypeString, got.Properties["tips"].Items.Type)
}
