package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sultan-labs/sultan-go/client"
	"github.com/sultan-labs/sultan-go/logx"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Setenv(EnvRPCURL, "")
	t.Setenv(EnvNetwork, "")
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)

	u, err := cfg.RPCURL()
	require.NoError(t, err)
	assert.Equal(t, client.MainnetURL, u)
	assert.Equal(t, 20*time.Second, cfg.Timeout())
	assert.Equal(t, logx.LevelInfo, cfg.LogOptions().Level)
	assert.Empty(t, cfg.LogOptions().File)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yml", `
network:
  name: testnet
  timeout_seconds: 5
log:
  level: debug
  file: /tmp/sultan.log
  max_size_mb: 10
metrics:
  enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Metrics.Enabled)

	u, err := cfg.RPCURL()
	require.NoError(t, err)
	assert.Equal(t, client.TestnetURL, u)
	assert.Equal(t, 5*time.Second, cfg.Timeout())

	opts := cfg.LogOptions()
	assert.Equal(t, logx.LevelDebug, opts.Level)
	assert.Equal(t, "/tmp/sultan.log", opts.File)
	assert.Equal(t, 10, opts.MaxSizeMB)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultLogMaxAgeDays, opts.MaxAgeDays)
}

func TestLoadEmptyYAML(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeFile(t, "config.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "config.yml", "network:\n  rpcurl: http://x\n"))
	assert.Error(t, err)
}

func TestLoadINI(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.ini", `
[network]
rpc_url = http://127.0.0.1:8545
timeout_seconds = 3

[log]
level = warn

[metrics]
enabled = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Metrics.Enabled)

	cc, err := cfg.ClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8545", cc.BaseURL)
	assert.Equal(t, 3*time.Second, cc.Timeout)
	assert.Equal(t, logx.LevelWarn, cfg.LogOptions().Level)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", "x = 1"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownNetwork(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "config.yml", "network:\n  name: devnet\n"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yml", "network:\n  rpc_url: http://file:1\n")

	t.Setenv(EnvRPCURL, "http://env:2")
	t.Setenv(EnvNetwork, "")
	cfg, err := Load(path)
	require.NoError(t, err)
	u, _ := cfg.RPCURL()
	assert.Equal(t, "http://env:2", u)

	t.Setenv(EnvRPCURL, "")
	t.Setenv(EnvNetwork, "testnet")
	cfg, err = Load(path)
	require.NoError(t, err)
	u, _ = cfg.RPCURL()
	assert.Equal(t, client.TestnetURL, u)
}

func TestApplyEnvPrecedence(t *testing.T) {
	env := map[string]string{EnvNetwork: "testnet", EnvRPCURL: "http://both:3"}
	cfg := Default()
	cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	u, err := cfg.RPCURL()
	require.NoError(t, err)
	assert.Equal(t, "http://both:3", u)
	assert.Equal(t, "testnet", cfg.Network.Name)
}

func TestValidateRejectsNegativeValues(t *testing.T) {
	cfg := Default()
	cfg.Network.TimeoutSeconds = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Log.MaxAgeDays = -1
	assert.Error(t, cfg.Validate())
}
