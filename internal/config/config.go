// Package config resolves server settings from flags, environment variables
// and an optional per-user YAML file.
package config

import (
	"context"
	stdErrors "errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"goa.design/clue/log"
	"gopkg.in/yaml.v3"

	"gemini-collab-server/internal/filesystem"
	"gemini-collab-server/internal/gemini"
)

// defaultRelPath is the config file location under the user home directory.
const defaultRelPath = ".claude-mcp-servers/gemini-collab/config.yaml"

// placeholderAPIKey is the value setup scripts ship before the user fills in
// a real key. It must never reach the upstream API.
const placeholderAPIKey = "YOUR_API_KEY_HERE"

// Config holds all configurable values for the server.
type Config struct {
	APIKey           string
	Model            string
	BaseURL          string
	SystemPromptPath string
	MaxOutputTokens  int
	RequestTimeout   time.Duration
	HistoryFile      string
	Debug            bool
}

// Flags holds the command-line options.
type Flags struct {
	ConfigPath string
	Debug      bool
}

// ParseFlags parses the command-line flags.
func ParseFlags() *Flags {
	f := &Flags{}
	flag.StringVar(&f.ConfigPath, "config", "", "path to the YAML config file (default ~/"+defaultRelPath+")")
	flag.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	flag.Parse()
	return f
}

// fileConfig is the YAML file shape. Every key is optional.
type fileConfig struct {
	Model                 string `yaml:"model"`
	APIBaseURL            string `yaml:"api_base_url"`
	MaxOutputTokens       int    `yaml:"max_output_tokens"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	HistoryFile           string `yaml:"history_file"`
	Debug                 bool   `yaml:"debug"`
}

// Load resolves the effective configuration. Precedence: environment over
// config file over defaults. A missing config file is normal; an unreadable
// or invalid one is logged and ignored so a typo in the file never takes the
// server down.
func Load(ctx context.Context, fsa filesystem.FileSystemAdapter, flags *Flags) *Config {
	cfg := &Config{
		Model:           gemini.DefaultModel,
		BaseURL:         gemini.DefaultBaseURL,
		MaxOutputTokens: gemini.DefaultMaxOutputTokens,
		Debug:           flags.Debug,
	}

	if fc, ok := readFile(ctx, fsa, flags.ConfigPath); ok {
		if fc.Model != "" {
			cfg.Model = fc.Model
		}
		if fc.APIBaseURL != "" {
			cfg.BaseURL = fc.APIBaseURL
		}
		if fc.MaxOutputTokens > 0 {
			cfg.MaxOutputTokens = fc.MaxOutputTokens
		}
		if fc.RequestTimeoutSeconds > 0 {
			cfg.RequestTimeout = time.Duration(fc.RequestTimeoutSeconds) * time.Second
		}
		cfg.HistoryFile = fc.HistoryFile
		cfg.Debug = cfg.Debug || fc.Debug
	}

	cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("GEMINI_API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	cfg.SystemPromptPath = os.Getenv("GEMINI_SYSTEM_PROMPT")

	if !gemini.KnownModel(cfg.Model) {
		log.Warnf(ctx, "⚠️  Unknown model '%s', using default '%s'", cfg.Model, gemini.DefaultModel)
		cfg.Model = gemini.DefaultModel
	}
	return cfg
}

// Validate checks the credential. Failure is fatal at startup.
func (c *Config) Validate() error {
	if c.APIKey == "" || c.APIKey == placeholderAPIKey {
		return fmt.Errorf("Please set your Gemini API key in the GEMINI_API_KEY environment variable")
	}
	return nil
}

// readFile loads and decodes the YAML config file. The boolean reports
// whether a usable file was found.
func readFile(ctx context.Context, fsa filesystem.FileSystemAdapter, override string) (fileConfig, bool) {
	path := override
	if path == "" {
		home, err := fsa.UserHomeDir()
		if err != nil {
			log.Debugf(ctx, "cannot resolve home directory for config file: %v", err)
			return fileConfig{}, false
		}
		path = filepath.Join(home, defaultRelPath)
	}

	data, err := fsa.ReadFileBytes(path)
	if err != nil {
		if stdErrors.Is(err, os.ErrNotExist) {
			log.Debugf(ctx, "no config file at %s", path)
		} else {
			log.Warnf(ctx, "ignoring unreadable config file %s: %v", path, err)
		}
		return fileConfig{}, false
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		log.Warnf(ctx, "ignoring invalid config file %s: %v", path, err)
		return fileConfig{}, false
	}
	log.Debugf(ctx, "loaded config file %s", path)
	return fc, true
}
