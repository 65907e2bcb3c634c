package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds CLI configuration from config.toml.
type Config struct {
	Timeout         Duration          `toml:"timeout"`
	DiscoveryWait   Duration          `toml:"discovery_wait"`
	SearchTarget    string            `toml:"search_target"`
	Listen          string            `toml:"listen"`
	ServiceID       string            `toml:"service_id"`
	SeekUnit        string            `toml:"seek_unit"`
	DefaultRenderer string            `toml:"default_renderer"`
	Aliases         map[string]string `toml:"aliases"`
	LogLevel        string            `toml:"log_level"`
	LogFormat       string            `toml:"log_format"`
	MQTT            MQTT              `toml:"mqtt"`
}

// MQTT configures optional event publishing. An empty broker disables it.
type MQTT struct {
	Broker    string `toml:"broker"`
	TopicBase string `toml:"topic_base"`
	ClientID  string `toml:"client_id"`
	User      string `toml:"user"`
	Pass      string `toml:"pass"`
	TLSCA     string `toml:"tls_ca"`
	TLSCert   string `toml:"tls_cert"`
	TLSKey    string `toml:"tls_key"`
}

// Duration decodes TOML strings such as "5s" or "1500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timeout:       Duration{5 * time.Second},
		DiscoveryWait: Duration{2 * time.Second},
		SearchTarget:  "ssdp:all",
		ServiceID:     "urn:upnp-org:serviceId:AVTransport",
		SeekUnit:      "ABS_TIME",
		Aliases:       map[string]string{},
		LogLevel:      "warn",
		LogFormat:     "console",
		MQTT:          MQTT{TopicBase: "dlnactl"},
	}
}

// Load loads config.toml from the XDG config directory. A missing file
// returns the defaults.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

// LoadFile loads path over the defaults. A missing file returns the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	if info.IsDir() {
		return Config{}, errors.New("config path is a directory")
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("decode %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Aliases == nil {
		cfg.Aliases = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Timeout.Duration <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.DiscoveryWait.Duration <= 0 {
		return errors.New("discovery_wait must be positive")
	}
	switch c.SeekUnit {
	case "ABS_TIME", "REL_TIME":
	default:
		return fmt.Errorf("seek_unit must be ABS_TIME or REL_TIME, got %q", c.SeekUnit)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Path returns the config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "dlnactl", "config.toml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dlnactl", "config.toml"), nil
}
