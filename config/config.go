package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/treestate/errors"
	"github.com/grovetools/treestate/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames are searched, in order, in every directory from the start
// directory up to the filesystem root.
var configNames = []string{
	"treestate.yml",
	"treestate.yaml",
	".treestate.yml",
	".treestate.yaml",
	"treestate.toml",
}

// Format identifies a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf infers the syntax from a file name.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads, parses and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, FormatOf(path))
	if err != nil {
		if se, ok := err.(*errors.StoreError); ok {
			return nil, se.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadDefault finds and loads the configuration nearest to the working directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}
	return LoadFrom(cwd)
}

// LoadFrom loads the configuration nearest to startDir.
func LoadFrom(startDir string) (*Config, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return LoadFromWithLogger(startDir, logger)
}

// LoadFromWithLogger is LoadFrom with an explicit logger for load diagnostics.
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	path, err := FindConfigFile(startDir)
	if err != nil {
		return nil, err
	}

	logger.WithField("path", path).Debug("Loading project configuration")

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		if data, err := cfg.YAML(); err == nil {
			logger.Debugf("Effective configuration:\n%s", string(data))
		}
	}
	return cfg, nil
}

// LoadFromBytes parses configuration data in the given format, applies
// defaults and environment overrides, and validates the result.
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	switch format {
	case FormatTOML:
		if err := cfg.UnmarshalTOML([]byte(expanded)); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML config")
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML config")
		}
	}

	cfg.SetDefaults()
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	applyEnv(cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	if os.Getenv("TREESTATE_DEBUG") == "1" {
		cfg.Debug = true
	}
}

// FindConfigFile searches from startDir up to the filesystem root, then the
// user config directory.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if xdgConfigPath := getXDGConfigPath(); xdgConfigPath != "" {
		if info, err := os.Stat(xdgConfigPath); err == nil && !info.IsDir() {
			return xdgConfigPath, nil
		}
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

func getXDGConfigPath() string {
	dir := paths.ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "treestate.yml")
}

// TOML renders the configuration as TOML. Extensions are not included.
func (c *Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}
