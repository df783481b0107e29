package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sultan-labs/sultan-go/client"
	"github.com/sultan-labs/sultan-go/logx"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			Name:           DefaultNetwork,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
	}
}

// DefaultPath returns ~/.sultan/config.yml, or "" when the home directory
// is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultConfigPath)
}

// Load reads the file at path on top of the defaults and then applies the
// environment overrides. The format follows the extension: .yml and .yaml
// are YAML, .ini is INI.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load for an optional file: an empty path or a missing
// file yields the defaults plus the environment.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		logx.Debug("CONFIG", fmt.Sprintf("no config file at %s, using defaults", path))
	}
	cfg := Default()
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config from environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return c.loadYAML(path)
	case ".ini":
		return c.loadINI(path)
	default:
		return fmt.Errorf("config %s: unsupported extension (want .yml, .yaml or .ini)", path)
	}
}

func (c *Config) loadYAML(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		// an empty file leaves the defaults in place
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config %s: %w", path, err)
	}
	logx.Debug("CONFIG", fmt.Sprintf("loaded %s: network=%s rpc_url=%s", path, c.Network.Name, c.Network.RPCURL))
	return nil
}

func (c *Config) loadINI(path string) error {
	f, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if err := f.Section("network").MapTo(&c.Network); err != nil {
		return fmt.Errorf("config %s [network]: %w", path, err)
	}
	if err := f.Section("log").MapTo(&c.Log); err != nil {
		return fmt.Errorf("config %s [log]: %w", path, err)
	}
	if err := f.Section("metrics").MapTo(&c.Metrics); err != nil {
		return fmt.Errorf("config %s [metrics]: %w", path, err)
	}
	logx.Debug("CONFIG", fmt.Sprintf("loaded %s: network=%s rpc_url=%s", path, c.Network.Name, c.Network.RPCURL))
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvNetwork); ok && v != "" {
		c.Network.Name = v
		// a network from the environment replaces a file-level url
		c.Network.RPCURL = ""
	}
	if v, ok := lookup(EnvRPCURL); ok && v != "" {
		c.Network.RPCURL = v
	}
}

func (c *Config) Validate() error {
	if c.Network.RPCURL == "" {
		if _, err := client.URLForNetwork(c.Network.Name); err != nil {
			return err
		}
	}
	if c.Network.TimeoutSeconds < 0 {
		return fmt.Errorf("network.timeout_seconds must not be negative, got %d", c.Network.TimeoutSeconds)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}
	return nil
}

// RPCURL is the explicit rpc_url, or the public endpoint of the named network.
func (c *Config) RPCURL() (string, error) {
	if c.Network.RPCURL != "" {
		return c.Network.RPCURL, nil
	}
	return client.URLForNetwork(c.Network.Name)
}

func (c *Config) Timeout() time.Duration {
	if c.Network.TimeoutSeconds == 0 {
		return client.DefaultTimeout
	}
	return time.Duration(c.Network.TimeoutSeconds) * time.Second
}

func (c *Config) LogOptions() logx.Options {
	return logx.Options{
		Level:      logx.ParseLevel(c.Log.Level),
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}

// ClientConfig builds the SDK client configuration.
func (c *Config) ClientConfig() (client.Config, error) {
	u, err := c.RPCURL()
	if err != nil {
		return client.Config{}, err
	}
	return client.Config{BaseURL: u, Timeout: c.Timeout()}, nil
}
