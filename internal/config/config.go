// Package config handles Recap configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./config.yaml, ~/.config/recap/config.yaml, /etc/recap/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "recap", "config.yaml"))
	}

	paths = append(paths, "/etc/recap/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all Recap configuration.
type Config struct {
	Models    ModelsConfig            `yaml:"models"`
	OpenAI    OpenAIConfig            `yaml:"openai"`
	Anthropic AnthropicConfig         `yaml:"anthropic"`
	Output    OutputConfig            `yaml:"output"`
	Limits    LimitsConfig            `yaml:"limits"`
	Pricing   map[string]PricingEntry `yaml:"pricing"`
	Listen    ListenConfig            `yaml:"listen"`
	SMTP      SMTPConfig              `yaml:"smtp"`
	DataDir   string                  `yaml:"data_dir"`
	LogLevel  string                  `yaml:"log_level"`
}

// ModelsConfig defines model selection and routing settings.
type ModelsConfig struct {
	// Default is the model used when no -model flag is given.
	Default string `yaml:"default"`
	// Premium is the higher-quality model offered by the interactive menu.
	Premium string `yaml:"premium"`
	// Temperature applies to every completion request. Low values keep
	// the section formatting consistent between runs.
	Temperature float64 `yaml:"temperature"`
	// OllamaURL is the base URL of a local Ollama server. Models whose
	// provider resolves to "ollama" are sent there.
	OllamaURL string `yaml:"ollama_url"`
	// Providers maps a model name to its provider ("openai", "anthropic",
	// "ollama"). Models not listed fall back to prefix detection.
	Providers map[string]string `yaml:"providers"`
}

// OpenAIConfig defines OpenAI API settings.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // Override for proxies; default is the public API.
}

// AnthropicConfig defines Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
}

// OutputConfig defines artifact generation defaults.
type OutputConfig struct {
	// Dir is where artifact files are written.
	Dir string `yaml:"dir"`
	// Email enables follow-up email generation by default.
	Email bool `yaml:"email"`
	// Brief enables executive brief generation by default.
	Brief bool `yaml:"brief"`
}

// LimitsConfig defines token budget settings.
type LimitsConfig struct {
	// MaxInputTokens caps the estimated size of the notes sent to the
	// model. Longer input is truncated at a sentence boundary.
	MaxInputTokens int `yaml:"max_input_tokens"`
	// MaxOutputTokens is passed to the completion API as the generation
	// ceiling.
	MaxOutputTokens int `yaml:"max_output_tokens"`
}

// PricingEntry defines per-million-token pricing for a model.
type PricingEntry struct {
	InputPerMillion  float64 `yaml:"input_per_million"`
	OutputPerMillion float64 `yaml:"output_per_million"`
}

// ListenConfig defines the web server settings for recap serve.
type ListenConfig struct {
	Address string `yaml:"address"` // Bind address (default: "" = all interfaces)
	Port    int    `yaml:"port"`
}

// SMTPConfig defines the optional outbound mail settings used when a
// follow-up email is sent directly instead of written to disk.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	// StartTLS upgrades a plain connection (port 587). When false the
	// connection is implicit TLS (port 465).
	StartTLS bool `yaml:"starttls"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables so secrets stay out of the file.
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a default configuration. Provider credentials are
// seeded from the environment so a run without any config file still
// picks up OPENAI_API_KEY / ANTHROPIC_API_KEY.
func Default() *Config {
	return &Config{
		OpenAI:    OpenAIConfig{APIKey: os.Getenv("OPENAI_API_KEY")},
		Anthropic: AnthropicConfig{APIKey: os.Getenv("ANTHROPIC_API_KEY")},
		Models: ModelsConfig{
			Default:     "gpt-4o-mini",
			Premium:     "claude-sonnet-4-20250514",
			Temperature: 0.3,
			OllamaURL:   "http://localhost:11434",
		},
		Output: OutputConfig{
			Dir:   "output",
			Email: true,
			Brief: false,
		},
		Limits: LimitsConfig{
			MaxInputTokens:  6000,
			MaxOutputTokens: 2000,
		},
		Pricing: map[string]PricingEntry{
			"gpt-4o-mini":              {InputPerMillion: 0.15, OutputPerMillion: 0.60},
			"gpt-4o":                   {InputPerMillion: 2.50, OutputPerMillion: 10.0},
			"claude-sonnet-4-20250514": {InputPerMillion: 3.0, OutputPerMillion: 15.0},
		},
		Listen: ListenConfig{Port: 8080},
	}
}

// ProviderFor resolves the provider name for a model. Explicit entries
// in Models.Providers win; otherwise the model name prefix decides.
// Unknown models default to "ollama" so local experiments just work.
func (c *Config) ProviderFor(model string) string {
	if p, ok := c.Models.Providers[model]; ok {
		return p
	}
	switch {
	case strings.HasPrefix(model, "gpt-"), strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"):
		return "openai"
	case strings.HasPrefix(model, "claude-"):
		return "anthropic"
	default:
		return "ollama"
	}
}

// Validate checks that the provider serving model has a credential.
// It is called before any network request so a missing key fails fast.
func (c *Config) Validate(model string) error {
	switch c.ProviderFor(model) {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("no OpenAI API key configured for model %q (set OPENAI_API_KEY)", model)
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("no Anthropic API key configured for model %q (set ANTHROPIC_API_KEY)", model)
		}
	}
	// Ollama needs no credential.
	return nil
}
