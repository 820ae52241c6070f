package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects Config into a JSON Schema. Extensions are left out
// and validated by the packages that own them.
func GenerateSchema() ([]byte, error) {
	schema := reflectSchema()
	return json.MarshalIndent(schema, "", "  ")
}

func reflectSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "treestate configuration"
	schema.Description = "Schema for treestate.yml and treestate.toml."
	schema.Version = "http://json-schema.org/draft-07/schema#"
	return schema
}
