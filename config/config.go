// Package config loads p4forestctl's run configuration via viper: YAML
// on disk, sane defaults, environment overrides, validated once at load
// time.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/katalvlaran/p4forest/internal/logging"
)

// BrickConfig describes the p4est "brick" connectivity to build.
type BrickConfig struct {
	Dim      int    `mapstructure:"dim"` // 2 or 3
	Mi       int    `mapstructure:"mi"`
	Ni       int    `mapstructure:"ni"`
	Ki       int    `mapstructure:"ki"` // ignored for dim=2
	Periodic [3]bool `mapstructure:"periodic"`
}

// ForestConfig describes the uniform forest to build and the balance
// sweep to run over it.
type ForestConfig struct {
	Level    int    `mapstructure:"level"`
	Selector string `mapstructure:"selector"` // faces, edges, corners
}

// TransportConfig selects and parameterizes the comm.Transport to use.
type TransportConfig struct {
	Kind  string   `mapstructure:"kind"` // local or grpc
	Rank  int      `mapstructure:"rank"`
	Addrs []string `mapstructure:"addrs"` // grpc only: one address per rank
}

// LogConfig mirrors the ambient logging configuration every command reads.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config holds everything a p4forestctl invocation needs.
type Config struct {
	Brick     BrickConfig     `mapstructure:"brick"`
	Forest    ForestConfig    `mapstructure:"forest"`
	Transport TransportConfig `mapstructure:"transport"`
	Log       LogConfig       `mapstructure:"log"`
}

// Load reads configuration from configPath (or the standard search path if
// empty), applies defaults, allows environment overrides, and validates
// the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("p4forest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/p4forest")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// fall through to defaults
		} else if os.IsNotExist(err) {
			// fall through to defaults
		} else {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	v.SetEnvPrefix("P4FOREST")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// LoadFromReader loads configuration from raw content, for tests and for
// embedding a config without touching the filesystem.
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("brick.dim", 2)
	v.SetDefault("brick.mi", 1)
	v.SetDefault("brick.ni", 1)
	v.SetDefault("brick.ki", 1)

	v.SetDefault("forest.level", 2)
	v.SetDefault("forest.selector", "faces")

	v.SetDefault("transport.kind", "local")
	v.SetDefault("transport.rank", 0)

	v.SetDefault("log.level", "info")
}

// Validate checks the fields Load cannot enforce through viper defaults
// alone: cross-field and enumerated constraints.
func (c *Config) Validate() error {
	if c.Brick.Dim != 2 && c.Brick.Dim != 3 {
		return fmt.Errorf("brick.dim must be 2 or 3, got %d", c.Brick.Dim)
	}
	if c.Brick.Mi < 1 || c.Brick.Ni < 1 {
		return fmt.Errorf("brick.mi and brick.ni must be >= 1")
	}
	if c.Brick.Dim == 3 && c.Brick.Ki < 1 {
		return fmt.Errorf("brick.ki must be >= 1 for a 3D brick")
	}
	if c.Forest.Level < 0 {
		return fmt.Errorf("forest.level must be >= 0")
	}
	switch c.Forest.Selector {
	case "faces", "edges", "corners":
	default:
		return fmt.Errorf("forest.selector must be one of faces, edges, corners, got %q", c.Forest.Selector)
	}
	switch c.Transport.Kind {
	case "local":
	case "grpc":
		if len(c.Transport.Addrs) == 0 {
			return fmt.Errorf("transport.addrs is required when transport.kind is grpc")
		}
		if c.Transport.Rank < 0 || c.Transport.Rank >= len(c.Transport.Addrs) {
			return fmt.Errorf("transport.rank %d out of range for %d addrs", c.Transport.Rank, len(c.Transport.Addrs))
		}
	default:
		return fmt.Errorf("transport.kind must be local or grpc, got %q", c.Transport.Kind)
	}
	return nil
}

// LogLevel parses Log.Level into a logging.Level, defaulting to Info on an
// unrecognized value.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}
