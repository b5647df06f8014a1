package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/damascout/pkg/domain"
	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config file is given and it exists.
const DefaultPath = "damascout.yaml"

// EnvPrefix prefixes every environment override, e.g. DAMASCOUT_SINK.
const EnvPrefix = "damascout"

// Sink types.
const (
	SinkNone   = "none"
	SinkMemory = "memory"
	SinkJS     = "js"
	SinkRedis  = "redis"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the runtime configuration of the damascout binary.
type Config struct {
	Sink     string      `mapstructure:"sink" envconfig:"sink"`
	Policy   string      `mapstructure:"policy" envconfig:"policy"`
	Color    string      `mapstructure:"color" envconfig:"color"`
	Debug    bool        `mapstructure:"debug" envconfig:"debug"`
	Script   string      `mapstructure:"script" envconfig:"script"`
	SinkName string      `mapstructure:"sink_name" envconfig:"sink_name"`
	Redis    RedisConfig `mapstructure:"redis" envconfig:"redis"`
	HTTP     HTTPConfig  `mapstructure:"http" envconfig:"http"`
}

// RedisConfig configures the Redis sink.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" envconfig:"addr"`
	Password string `mapstructure:"password" envconfig:"password"`
	DB       int    `mapstructure:"db" envconfig:"db"`
	Prefix   string `mapstructure:"prefix" envconfig:"prefix"`
	MaxLen   int64  `mapstructure:"max_len" envconfig:"max_len"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Port   string `mapstructure:"port" envconfig:"port"`
	Buffer int    `mapstructure:"buffer" envconfig:"buffer"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sink:     SinkNone,
		Policy:   string(domain.DefaultErrorPolicy),
		Color:    ColorAuto,
		SinkName: "damascOutput",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "damasc:output:",
			MaxLen: 1000,
		},
		HTTP: HTTPConfig{
			Port:   "8080",
			Buffer: 16,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path, and
// DAMASCOUT_* environment variables, in that order of precedence.
// An empty path reads DefaultPath when it exists.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that layer further overrides.
func Read(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	// A missing default file is fine: defaults and environment only.
	if err := loadFile(path, &cfg); err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return Config{}, err
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	return nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Sink {
	case SinkNone, SinkMemory, SinkJS, SinkRedis:
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownSink, c.Sink)
	}

	if _, err := domain.ParseErrorPolicy(c.Policy); err != nil {
		return err
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}

	if c.Sink == SinkJS && c.Script == "" {
		return errors.New("sink js requires a script")
	}
	return nil
}

// ErrorPolicy returns the parsed policy. Call after Validate.
func (c Config) ErrorPolicy() domain.ErrorPolicy {
	p, _ := domain.ParseErrorPolicy(c.Policy)
	return p
}
