package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "ODMCP_LOG_LEVEL"
	EnvLogFile   = "ODMCP_LOG_FILE"
	EnvLogFormat = "ODMCP_LOG_FORMAT"
	EnvTimeout   = "ODMCP_TIMEOUT"
	EnvTransport = "ODMCP_TRANSPORT"
	EnvAddr      = "ODMCP_ADDR"
)

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 30 * time.Second

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Duration is a time.Duration that decodes from strings such as "15s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler, used by the TOML decoder.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}

	*d = Duration(parsed)

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the server configuration loaded from file and environment.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// LogFile, if set, sends logs to a rotating file instead of stderr.
	LogFile string `yaml:"log_file" toml:"log_file"`
	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format" toml:"log_format"`

	// Transport selects stdio or HTTP serving.
	Transport Transport `yaml:"transport" toml:"transport"`
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr" toml:"addr"`

	// Timeout bounds upstream requests for every provider.
	Timeout Duration `yaml:"timeout" toml:"timeout"`

	// Providers holds per-provider overrides keyed by provider name.
	Providers map[string]ProviderConfig `yaml:"providers" toml:"providers"`
}

// ProviderConfig overrides data source settings for one provider.
type ProviderConfig struct {
	BaseURL   string   `yaml:"base_url" toml:"base_url"`
	Timeout   Duration `yaml:"timeout" toml:"timeout"`
	UserAgent string   `yaml:"user_agent" toml:"user_agent"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: LogFormatText,
		Transport: TransportStdio,
		Addr:      DefaultHTTPAddr,
		Timeout:   Duration(DefaultTimeout),
		Providers: map[string]ProviderConfig{},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file. The format is chosen by extension:
// .yaml and .yml for YAML, .toml for TOML.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		if err := cfg.decode(filepath.Ext(path), data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) decode(ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		return nil
	case ".toml":
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return err
		}

		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys: %v", undecoded)
		}

		return nil
	default:
		return fmt.Errorf("unsupported config format %q: use .yaml, .yml or .toml", ext)
	}
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}

	if v, ok := lookup(EnvLogFile); ok && v != "" {
		c.LogFile = v
	}

	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = v
	}

	if v, ok := lookup(EnvTransport); ok && v != "" {
		c.Transport = Transport(v)
	}

	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Addr = v
	}

	if v, ok := lookup(EnvTimeout); ok && v != "" {
		if err := c.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
	}

	return nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.LogFormat {
	case "", LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be %q or %q", c.LogFormat, LogFormatText, LogFormatJSON)
	}

	if err := c.Transport.Validate(); err != nil {
		return err
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout.Std())
	}

	for name, p := range c.Providers {
		if p.Timeout < 0 {
			return fmt.Errorf("provider %q: timeout must not be negative", name)
		}
	}

	return nil
}

// Provider returns the effective settings for the named provider, falling
// back to the global timeout when the provider does not set one.
func (c *Config) Provider(name string) ProviderConfig {
	p := c.Providers[name]

	if p.Timeout == 0 {
		p.Timeout = c.Timeout
	}

	return p
}
