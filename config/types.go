package config

// NetworkConfig selects the node the CLI talks to. RPCURL wins over Name.
type NetworkConfig struct {
	Name           string `yaml:"name" ini:"name"`
	RPCURL         string `yaml:"rpc_url" ini:"rpc_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" ini:"timeout_seconds"`
}

type LogConfig struct {
	Level      string `yaml:"level" ini:"level"`
	File       string `yaml:"file" ini:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" ini:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days" ini:"max_age_days"`
}

// MetricsConfig turns on the client metrics. The CLI prints them in the
// Prometheus text format to stderr once the command finishes.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" ini:"enabled"`
}

// Config is the CLI configuration file
type Config struct {
	Network NetworkConfig `yaml:"network"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}
