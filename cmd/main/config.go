package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// Config holds the settings of the command line tool. It is read once at
// startup and handed to the code that loads corpora and runs the generator;
// the babble package itself never sees it.
type Config struct {
	LogLevel           string `json:"log_level"`
	CorpusDatabasePath string `json:"corpus_database_path"`
	DefaultCorpusPath  string `json:"default_corpus_path"`
	MaxSteps           int    `json:"max_steps"`
	Normalize          bool   `json:"normalize"`
}

// DefaultConfig creates a configuration with default values. An empty
// DefaultCorpusPath selects the built-in book, and a MaxSteps of 0 leaves the
// walk unbounded.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:           "warn",
		CorpusDatabasePath: "./data/babble_corpus.db",
		DefaultCorpusPath:  "",
		MaxSteps:           0,
		Normalize:          true,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values. An empty path
// returns the defaults without touching the filesystem.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The defaults are still usable without the file.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.MaxSteps < 0 {
		return nil, fmt.Errorf("invalid config: max_steps must not be negative, got %d", config.MaxSteps)
	}

	return config, nil
}

// parseLogLevel maps a config level name onto a slog.Level, defaulting to info.
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

// newLogger builds the tool's logger. Logs go to w, which is stderr in normal
// use so that generated sentences on stdout stay clean.
func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
}
