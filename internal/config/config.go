// Package config loads dmxld's runtime configuration from an optional
// YAML file overlaid with environment variables and command-line
// overrides, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/roguenand/dmxld/internal/color"
)

// globalConfig stores the configuration from the most recent load so
// that other packages can read it through GetGlobalConfig without it
// being threaded through every call.
var (
	globalConfig *Config
	configMutex  sync.Mutex
)

// ErrUnknownStrategy is returned when EngineConfig.ColorStrategy does
// not name one of the recognized strategies.
var ErrUnknownStrategy = fmt.Errorf("unknown color strategy")

// ErrUnknownProtocol is returned when EngineConfig.Protocol does not
// name one of the recognized transports.
var ErrUnknownProtocol = fmt.Errorf("unknown transport protocol")

// Protocol names the wire protocol an EngineConfig selects.
type Protocol string

const (
	ProtocolSACN   Protocol = "sacn"
	ProtocolArtNet Protocol = "artnet"
)

// Config holds the application configuration.
type Config struct {
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	Network NetworkConfig `json:"network" yaml:"network"`
	Preview PreviewConfig `json:"preview" yaml:"preview"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LoadOptions holds command-line override options, taking precedence
// over both the YAML file and the environment.
type LoadOptions struct {
	ConfigFile    string
	Protocol      string
	ColorStrategy string
	LogLevel      string
	PreviewHost   string
	PreviewPort   string
}

// EngineConfig controls the frame loop: its rate, the transport it
// drives, and the default color conversion strategy new fixture types
// resolve unless they request their own.
type EngineConfig struct {
	FPS           int      `json:"fps" yaml:"fps" env:"ENGINE_FPS" default:"40"`
	Protocol      Protocol `json:"protocol" yaml:"protocol" env:"ENGINE_PROTOCOL" default:"sacn"`
	ColorStrategy string   `json:"colorStrategy" yaml:"colorStrategy" env:"ENGINE_COLOR_STRATEGY" default:"balanced"`
}

// Strategy resolves ColorStrategy into a color.Strategy, or
// ErrUnknownStrategy if it names none of the recognized strategies.
func (e EngineConfig) Strategy() (color.Strategy, error) {
	switch e.ColorStrategy {
	case "balanced":
		return color.StrategyBalanced, nil
	case "preserve_rgb":
		return color.StrategyPreserveRGB, nil
	case "max_white":
		return color.StrategyMaxWhite, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, e.ColorStrategy)
	}
}

// NetworkConfig controls where rendered frames are sent.
type NetworkConfig struct {
	// BindAddr is the local address UDP sockets are opened on.
	BindAddr string `json:"bindAddr" yaml:"bindAddr" env:"NETWORK_BIND_ADDR" default:"0.0.0.0"`
	// UniverseTargets maps a universe number to a unicast destination
	// IP; a universe absent from this map uses sACN multicast or
	// Art-Net broadcast depending on Protocol.
	UniverseTargets map[uint16]string `json:"universeTargets" yaml:"universeTargets" env:"UNIVERSE_TARGETS"`
	// ArtNetTarget is the destination address for Art-Net output;
	// "255.255.255.255" broadcasts to the local segment.
	ArtNetTarget string `json:"artnetTarget" yaml:"artnetTarget" env:"ARTNET_TARGET" default:"255.255.255.255"`
}

// PreviewConfig controls the optional HTTP/WebSocket monitoring
// façade.
type PreviewConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" env:"PREVIEW_ENABLED" default:"false"`
	Host    string `json:"host" yaml:"host" env:"PREVIEW_HOST" default:"0.0.0.0"`
	Port    string `json:"port" yaml:"port" env:"PREVIEW_PORT" default:"8081"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" env:"LOG_LEVEL" default:"info"`
	Format string `json:"format" yaml:"format" env:"LOG_FORMAT" default:"text"`
}

// Load loads configuration from an optional YAML file (path via
// DMXLD_CONFIG_FILE) and the environment, with no command-line
// overrides.
func Load() (*Config, error) {
	return LoadWithOverrides(LoadOptions{})
}

// LoadWithOverrides loads configuration from defaults, then an
// optional YAML file, then the environment, then opts, each layer
// overriding the previous one only where it sets a value.
func LoadWithOverrides(opts LoadOptions) (*Config, error) {
	cfg := defaultConfig()

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = os.Getenv("DMXLD_CONFIG_FILE")
	}
	if configFile != "" {
		if err := loadYAMLFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}

	cfg.Engine.FPS = getIntWithDefault("ENGINE_FPS", cfg.Engine.FPS)
	cfg.Engine.Protocol = Protocol(getEnvWithDefault("ENGINE_PROTOCOL", string(cfg.Engine.Protocol)))
	cfg.Engine.ColorStrategy = getEnvWithDefault("ENGINE_COLOR_STRATEGY", cfg.Engine.ColorStrategy)

	cfg.Network.BindAddr = getEnvWithDefault("NETWORK_BIND_ADDR", cfg.Network.BindAddr)
	cfg.Network.ArtNetTarget = getEnvWithDefault("ARTNET_TARGET", cfg.Network.ArtNetTarget)
	if raw := os.Getenv("UNIVERSE_TARGETS"); raw != "" {
		targets, err := parseUniverseTargets(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing UNIVERSE_TARGETS: %w", err)
		}
		cfg.Network.UniverseTargets = targets
	}

	cfg.Preview.Enabled = getBoolWithDefault("PREVIEW_ENABLED", cfg.Preview.Enabled)
	cfg.Preview.Host = getEnvWithDefault("PREVIEW_HOST", cfg.Preview.Host)
	cfg.Preview.Port = getEnvWithDefault("PREVIEW_PORT", cfg.Preview.Port)

	cfg.Logging.Level = getEnvWithDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnvWithDefault("LOG_FORMAT", cfg.Logging.Format)

	if opts.Protocol != "" {
		cfg.Engine.Protocol = Protocol(opts.Protocol)
	}
	if opts.ColorStrategy != "" {
		cfg.Engine.ColorStrategy = opts.ColorStrategy
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.PreviewHost != "" {
		cfg.Preview.Host = opts.PreviewHost
	}
	if opts.PreviewPort != "" {
		cfg.Preview.Port = opts.PreviewPort
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	configMutex.Lock()
	globalConfig = cfg
	configMutex.Unlock()

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			FPS:           40,
			Protocol:      ProtocolSACN,
			ColorStrategy: "balanced",
		},
		Network: NetworkConfig{
			BindAddr:     "0.0.0.0",
			ArtNetTarget: "255.255.255.255",
		},
		Preview: PreviewConfig{
			Enabled: false,
			Host:    "0.0.0.0",
			Port:    "8081",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// GetGlobalConfig returns the configuration stored by the most recent
// Load/LoadWithOverrides call, or nil if none has run yet.
func GetGlobalConfig() *Config {
	configMutex.Lock()
	defer configMutex.Unlock()
	return globalConfig
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.FPS <= 0 {
		return fmt.Errorf("engine fps must be positive")
	}

	switch c.Engine.Protocol {
	case ProtocolSACN, ProtocolArtNet:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProtocol, c.Engine.Protocol)
	}

	if _, err := c.Engine.Strategy(); err != nil {
		return err
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Preview.Enabled && c.Preview.Port == "" {
		return fmt.Errorf("preview port cannot be empty when preview is enabled")
	}

	return nil
}

// parseUniverseTargets parses a "universe=ip,universe=ip" list, as
// produced by the UNIVERSE_TARGETS environment variable.
func parseUniverseTargets(raw string) (map[uint16]string, error) {
	targets := make(map[uint16]string)
	for _, part := range splitString(raw, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid entry %q, want universe=ip", part)
		}
		universe, err := strconv.ParseUint(strings.TrimSpace(kv[0]), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid universe number %q: %w", kv[0], err)
		}
		targets[uint16(universe)] = strings.TrimSpace(kv[1])
	}
	return targets, nil
}

// Helper functions for environment variable parsing, mirroring the
// override-then-default resolution used throughout this package.

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func splitString(s, sep string) []string {
	if s == "" {
		return []string{}
	}

	var result []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
