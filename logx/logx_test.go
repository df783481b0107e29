package logx

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelWarn)
	t.Cleanup(func() { Init(Options{Level: LevelInfo}) })

	Debug("TEST", "debug line")
	Info("TEST", "info line")
	Warn("TEST", "warn line")
	Error("TEST", "error line")

	out := buf.String()
	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "info line")
	assert.Contains(t, out, "[WARN][TEST]")
	assert.Contains(t, out, "[ERROR][TEST]")
}

func TestErrorfWraps(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { Init(Options{Level: LevelInfo}) })

	base := errors.New("boom")
	err := Errorf("send failed: %w", base)

	assert.ErrorIs(t, err, base)
	assert.Contains(t, buf.String(), "send failed: boom")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestInitWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sultan.log")
	Init(Options{Level: LevelInfo, File: path, MaxSizeMB: 1, MaxAgeDays: 1})
	t.Cleanup(func() { Init(Options{Level: LevelInfo}) })

	Debug("TEST", "filtered")
	Info("TEST", "to file")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[INFO][TEST]")
	assert.Contains(t, string(b), "to file")
	assert.NotContains(t, string(b), "filtered")
}
