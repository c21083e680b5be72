// Package config loads the application configuration from a TOML file
// with environment variable overrides for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Env variable names recognised for credentials. Keys in the config
// file win over the environment.
const (
	EnvOpenAIKey  = "OPENAI_API_KEY"
	EnvMistralKey = "MISTRAL_API_KEY"
)

// Config is the full application configuration.
type Config struct {
	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`

	// DataDir is where the SQLite database lives.
	// Empty means ~/.docchat/data.
	DataDir string `toml:"data_dir"`

	Embedding  Provider `toml:"embedding"`
	Completion Provider `toml:"completion"`
	Ocr        Provider `toml:"ocr"`

	Ingest IngestConfig `toml:"ingest"`
	Chat   ChatConfig   `toml:"chat"`
	Watch  WatchConfig  `toml:"watch"`
}

// Provider configures one remote AI endpoint.
type Provider struct {
	// APIKey authenticates against the provider. Falls back to the
	// provider's environment variable when empty.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the provider's default endpoint. Lets the
	// completion provider point at any OpenAI-compatible API.
	BaseURL string `toml:"base_url"`

	// Model selects the model. Empty uses the adapter default.
	Model string `toml:"model"`
}

// IngestConfig tunes the ingestion pipeline. Zero values take the
// pipeline defaults.
type IngestConfig struct {
	// ChunkSize is the chunk window size in runes.
	ChunkSize int `toml:"chunk_size"`

	// BatchSize is how many chunks are embedded concurrently.
	BatchSize int `toml:"batch_size"`

	// BatchDelaySeconds is the pause between embedding batches.
	BatchDelaySeconds int `toml:"batch_delay_seconds"`
}

// ChatConfig tunes the answer pipeline.
type ChatConfig struct {
	// TopK is how many chunks are retrieved per question.
	TopK int `toml:"top_k"`

	// Instructions overrides the system turn template. Must contain
	// exactly one %s verb for the retrieved context.
	Instructions string `toml:"instructions"`
}

// WatchConfig tunes the auto-ingest watcher.
type WatchConfig struct {
	// Extensions limits which files are picked up.
	Extensions []string `toml:"extensions"`
}

// DefaultPath returns the default config file location,
// ~/.docchat/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docchat", "config.toml"), nil
}

// Load reads the config file at path, applying environment fallbacks.
// A missing file is not an error; the configuration is then defaults
// plus environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus environment only.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the configuration to path, creating the directory when
// needed. Used by `docchat config init` to scaffold a file to edit.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// Restricted permissions, the file may hold API keys.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyEnv fills empty credentials from the environment.
func (c *Config) applyEnv() {
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = os.Getenv(EnvOpenAIKey)
	}
	if c.Completion.APIKey == "" {
		c.Completion.APIKey = os.Getenv(EnvOpenAIKey)
	}
	if c.Ocr.APIKey == "" {
		c.Ocr.APIKey = os.Getenv(EnvMistralKey)
	}
}
