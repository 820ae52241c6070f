package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/grovetools/treestate/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiled() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		data, err := GenerateSchema()
		if err != nil {
			compileErr = fmt.Errorf("failed to generate schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("treestate.json", strings.NewReader(string(data))); err != nil {
			compileErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("treestate.json")
	})
	return compiledSchema, compileErr
}

// Validate checks the configuration against the generated schema.
func (c *Config) Validate() error {
	schema, err := compiled()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "configuration schema unavailable")
	}

	// The validator works on plain JSON values.
	jsonData, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to marshal config for validation")
	}
	var data interface{}
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to unmarshal config for validation")
	}

	if err := schema.Validate(data); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			var messages []string
			collectErrors(validationErr, &messages)
			return errors.ConfigInvalid("schema validation failed:\n" + strings.Join(messages, "\n"))
		}
		return errors.ConfigInvalid(err.Error())
	}
	return nil
}

func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if err.InstanceLocation != "" {
		*messages = append(*messages, fmt.Sprintf("- %s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
