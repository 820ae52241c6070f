package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the treestate.yml / treestate.toml project configuration.
type Config struct {
	Version string `yaml:"version" toml:"version" json:"version" jsonschema:"required,description=Configuration version (e.g. 1.0)"`

	// Debug enables update and emit tracing in every store the CLI creates.
	// TREESTATE_DEBUG=1 forces it on.
	Debug bool `yaml:"debug,omitempty" toml:"debug,omitempty" json:"debug,omitempty" jsonschema:"description=Trace store updates and emitted snapshots"`

	Dev  DevConfig  `yaml:"dev,omitempty" toml:"dev,omitempty" json:"dev" jsonschema:"description=Development-time checks"`
	Demo DemoConfig `yaml:"demo,omitempty" toml:"demo,omitempty" json:"demo" jsonschema:"description=Settings for the interactive demo"`

	// Extensions captures all other top-level keys (for example `logging`).
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`
}

// DevConfig holds checks that only make sense while developing an application.
type DevConfig struct {
	// CheckSelectors runs every connected selector twice per render and warns
	// when the two results are not shallow-equal.
	CheckSelectors bool `yaml:"check_selectors,omitempty" toml:"check_selectors,omitempty" json:"check_selectors,omitempty" jsonschema:"description=Warn about selectors that return fresh values for identical inputs"`
}

// DemoConfig configures `treestate demo`.
type DemoConfig struct {
	Title string `yaml:"title,omitempty" toml:"title,omitempty" json:"title,omitempty" jsonschema:"description=Title shown above the demo"`
	Theme string `yaml:"theme,omitempty" toml:"theme,omitempty" json:"theme,omitempty" jsonschema:"enum=dusk,enum=terminal,description=Color palette"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Demo.Title == "" {
		c.Demo.Title = "treestate"
	}
}

// knownKeys are the top-level keys owned by Config itself.
var knownKeys = map[string]bool{
	"version": true,
	"debug":   true,
	"dev":     true,
	"demo":    true,
}

// UnmarshalTOML decodes the known sections and keeps every other top-level
// table in Extensions, matching the YAML inline behaviour.
func (c *Config) UnmarshalTOML(data []byte) error {
	type plain Config
	var p plain
	if err := toml.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Config(p)
	for key, value := range raw {
		if knownKeys[key] {
			continue
		}
		if c.Extensions == nil {
			c.Extensions = make(map[string]interface{})
		}
		c.Extensions[key] = value
	}
	return nil
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded treestate.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// A missing section leaves target zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// YAML renders the effective configuration, extensions included.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
