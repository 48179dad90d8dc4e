// Package config loads the machine configuration file.
//
// The file is YAML. It is checked twice: structurally against an embedded
// CUE schema (unknown keys, enums, ranges), then semantically by Validate
// (duplicate services, unreachable endpoints).
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/mksync/internal/hal"
	"github.com/roach88/mksync/internal/transport"
)

//go:embed schema.cue
var schemaCUE string

const (
	DefaultPollInterval = 50 * time.Millisecond
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Config models the machine configuration file.
type Config struct {
	Machine string `yaml:"machine"`
	Poll    struct {
		Interval    time.Duration `yaml:"interval"`
		MaxMessages int           `yaml:"max_messages"`
	} `yaml:"poll"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Journal struct {
		Path string `yaml:"path"`
	} `yaml:"journal"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	HAL struct {
		Components []string `yaml:"components"`
	} `yaml:"hal"`
	Endpoints []transport.Endpoint `yaml:"endpoints"`
}

// Default returns a config with every optional value filled in.
func Default(machine string) *Config {
	cfg := &Config{Machine: machine}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Poll.Interval == 0 {
		c.Poll.Interval = DefaultPollInterval
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.HAL.Components == nil {
		c.HAL.Components = []string{hal.ToolChangeComponent}
	}
}

// Validate checks what the schema cannot express.
func (c *Config) Validate() error {
	if c.Machine == "" {
		return fmt.Errorf("config.machine is required")
	}
	if c.Poll.Interval < 0 {
		return fmt.Errorf("config.poll.interval must be positive")
	}
	if c.Poll.MaxMessages < 0 {
		return fmt.Errorf("config.poll.max_messages must be positive")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Endpoints))
	for i, ep := range c.Endpoints {
		if ep.Service == "" {
			return fmt.Errorf("config.endpoints[%d].service is required", i)
		}
		if seen[ep.Service] {
			return fmt.Errorf("config.endpoints has more than one %s service", ep.Service)
		}
		seen[ep.Service] = true
		if ep.DSN == "" && (ep.Address == "" || ep.Port == 0) {
			return fmt.Errorf("config.endpoints[%d] (%s) needs dsn or address and port", i, ep.Service)
		}
	}
	return nil
}

// ParseLevel maps a config log level to slog. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("config.log.level %q is not one of debug, info, warn, error", s)
}

// CheckSchema validates raw YAML against the embedded CUE schema.
func CheckSchema(filename string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	f, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("invalid config yaml: %w", err)
	}
	v := ctx.BuildFile(f)
	if err := v.Err(); err != nil {
		return fmt.Errorf("invalid config yaml: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s does not match schema: %w", filename, err)
	}
	return nil
}

// FromYAML parses, schema-checks and validates a config.
func FromYAML(filename string, data []byte) (*Config, error) {
	if err := CheckSchema(filename, data); err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found", path)
		}
		return nil, err
	}
	return FromYAML(path, data)
}
