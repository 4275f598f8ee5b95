package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)

	data, err := os.ReadFile(path)
	require.NoError(t, err, "default config should have been written")

	var written Config
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, *DefaultConfig(), written)
}

func TestLoadConfigOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level": "debug", "max_words": 40}`), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, 40, config.MaxWords)
	// Fields missing from the file keep their defaults.
	assert.Equal(t, DefaultConfig().ServerAddr, config.ServerAddr)
	assert.Equal(t, ".", config.Terminator)
}

func TestLoadConfigRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level": `), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestConfigTokenizer(t *testing.T) {
	config := DefaultConfig()
	config.Separator = "_"
	config.Terminator = "!"
	config.Comma = ";"

	tok := config.Tokenizer()
	assert.Equal(t, "_", tok.Separator())
	assert.Equal(t, "!", tok.EOC())
	assert.Equal(t, ";", tok.Comma())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("loud"))
}
