package config

const (
	DefaultNetwork        = "mainnet"
	DefaultTimeoutSeconds = 20
	DefaultLogLevel       = "info"
	DefaultLogMaxSizeMB   = 100
	DefaultLogMaxAgeDays  = 28

	// DefaultConfigPath is relative to the user's home directory.
	DefaultConfigPath = ".sultan/config.yml"
)

// Environment overrides, applied after the file and before CLI flags.
const (
	EnvRPCURL  = "SULTAN_RPC_URL"
	EnvNetwork = "SULTAN_NETWORK"
)
