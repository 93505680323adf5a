package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"legal-chat/internal/logging"
	"legal-chat/internal/models"
)

const (
	DefaultConfigDir  = ".legal-chat"
	DefaultConfigFile = "config.yaml"
	DefaultBaseURL    = "http://localhost:8000"
	DefaultChatPath   = "/chat"
)

// Config represents the application configuration
type Config struct {
	Backend    BackendConfig    `yaml:"backend"`
	Generation GenerationConfig `yaml:"generation"`
	Logging    LoggingConfig    `yaml:"logging"`

	// DataDir holds the document catalog
	DataDir string `yaml:"data_dir"`

	// set when LoadFrom could not write the defaults back
	writeErr error
}

type BackendConfig struct {
	BaseURL  string `yaml:"base_url"`
	ChatPath string `yaml:"chat_path"`

	// Timeout of zero leaves the transport defaults in place
	Timeout time.Duration `yaml:"timeout"`
}

type GenerationConfig struct {
	Defaults models.GenerationParameters `yaml:"defaults"`

	// Models offered by the model picker
	Models []string `yaml:"models"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

func DefaultConfig() *Config {
	base := defaultBaseDir()
	return &Config{
		Backend: BackendConfig{
			BaseURL:  DefaultBaseURL,
			ChatPath: DefaultChatPath,
		},
		Generation: GenerationConfig{
			Defaults: models.DefaultGenerationParameters(),
			Models:   []string{"gpt-4o-mini", "gpt-4o", "qwen2.5-7b-instruct", "vinallama-7b-chat"},
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   base,
		},
		DataDir: filepath.Join(base, "db"),
	}
}

func defaultBaseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigDir
	}
	return filepath.Join(homeDir, DefaultConfigDir)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, DefaultConfigDir, DefaultConfigFile), nil
}

// Load loads the configuration from the default path, creating it if missing
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from path. A missing file yields the
// defaults, which are written back when possible.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveTo(cfg, configPath); err != nil {
			// the app still works with defaults when the config dir is read-only
			cfg.writeErr = fmt.Errorf("failed to write default config to %s: %w", configPath, err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unset keys keep their defaults
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func SaveTo(cfg *Config, configPath string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultsWriteError reports why the defaults could not be written on first
// run. Logging is not up yet while the config loads, so callers log it later.
func (c *Config) DefaultsWriteError() error {
	return c.writeErr
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}

	if err := c.Generation.Defaults.Validate(); err != nil {
		return fmt.Errorf("generation.defaults: %w", err)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir must not be empty")
	}

	return nil
}

func (c *Config) validateBackend() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.base_url must use http or https, got %q", c.Backend.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend.base_url has no host: %q", c.Backend.BaseURL)
	}

	if !strings.HasPrefix(c.Backend.ChatPath, "/") {
		return fmt.Errorf("backend.chat_path must start with '/', got %q", c.Backend.ChatPath)
	}

	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative, got %s", c.Backend.Timeout)
	}

	return nil
}

// ModelChoices returns the picker entries, always including the default model
func (c *Config) ModelChoices() []string {
	choices := make([]string, 0, len(c.Generation.Models)+1)
	seen := make(map[string]bool)
	for _, m := range append([]string{c.Generation.Defaults.Model}, c.Generation.Models...) {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		choices = append(choices, m)
	}
	return choices
}
