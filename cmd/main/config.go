package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/CTAG07/babbler/pkg/markov"
)

// Config holds the configuration for the command line tool and the HTTP server.
type Config struct {
	LogLevel     string `json:"log_level"`
	DatabasePath string `json:"database_path"`
	ServerAddr   string `json:"server_addr"`
	Separator    string `json:"separator"`
	Terminator   string `json:"terminator"`
	Comma        string `json:"comma"`
	// MaxWords caps generated sentences; 0 leaves them unbounded.
	MaxWords     int `json:"max_words"`
	MaxLineBytes int `json:"max_line_bytes"`
	// MaxSentencesPerRequest bounds the count accepted by the HTTP API.
	MaxSentencesPerRequest int `json:"max_sentences_per_request"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:               "info",
		DatabasePath:           "./data/babbler.db",
		ServerAddr:             ":7279",
		Separator:              " ",
		Terminator:             ".",
		Comma:                  ",",
		MaxWords:               0,
		MaxLineBytes:           markov.DefaultMaxLineBytes,
		MaxSentencesPerRequest: 100,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The tool can still run with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Tokenizer builds the tokenizer described by the configuration.
func (c *Config) Tokenizer() *markov.DefaultTokenizer {
	return markov.NewDefaultTokenizer(
		markov.WithSeparator(c.Separator),
		markov.WithEOC(c.Terminator),
		markov.WithComma(c.Comma),
		markov.WithMaxLineBytes(c.MaxLineBytes),
	)
}

// parseLogLevel maps a config log level to a slog.Level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
