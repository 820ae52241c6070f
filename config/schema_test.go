package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &schema))

	assert.Equal(t, "http://json-schema.org/draft-07/schema#", schema["$schema"])
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok, "expected properties object")
	for _, key := range []string{"version", "debug", "dev", "demo"} {
		assert.Contains(t, props, key)
	}
	assert.NotContains(t, props, "Extensions")

	required, _ := schema["required"].([]interface{})
	assert.Contains(t, required, "version")
}
