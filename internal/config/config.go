package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Database  DatabaseConfig  `yaml:"database"`
	TextIndex TextIndexConfig `yaml:"text_index,omitempty"`
	Search    SearchConfig    `yaml:"search,omitempty"`
	Tools     ToolsConfig     `yaml:"tools,omitempty"`
}

// CorpusConfig holds corpus ingestion configuration
type CorpusConfig struct {
	// Path or doublestar glob selecting the source documents
	Path string `yaml:"path"`

	// Chunking parameters (measured in runes)
	ChunkSize    int `yaml:"chunk_size,omitempty"`    // Target chunk length
	ChunkOverlap int `yaml:"chunk_overlap,omitempty"` // Overlap between consecutive chunks
}

// EmbeddingConfig holds embedding service configuration
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "openai"

	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint,omitempty"` // Override for OpenAI-compatible gateways
	Model    string `yaml:"model,omitempty"`

	Dimensions int `yaml:"dimensions,omitempty"` // Vector length reported by the model
	BatchSize  int `yaml:"batch_size,omitempty"` // Batch size for embedding requests
}

// LLMConfig holds chat model configuration for answer generation
// and tool selection.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key,omitempty"` // Falls back to embedding.api_key
	Endpoint    string  `yaml:"endpoint,omitempty"`
	Model       string  `yaml:"model,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	// Path to SQLite database file
	// If empty, uses ~/.travelpal/data/travelpal.db
	Path string `yaml:"path,omitempty"`
}

// TextIndexConfig holds keyword index configuration
type TextIndexConfig struct {
	// Directory for the bleve index
	// If empty, uses ~/.travelpal/data/textindex
	Dir string `yaml:"dir,omitempty"`
}

// SearchConfig holds retrieval configuration
type SearchConfig struct {
	TopK          int     `yaml:"top_k,omitempty"`          // Chunks retrieved per question
	VectorWeight  float32 `yaml:"vector_weight,omitempty"`  // Hybrid search vector weight (0-1)
	KeywordWeight float32 `yaml:"keyword_weight,omitempty"` // Hybrid search keyword weight (0-1)
}

// ToolsConfig holds configuration for the lookup tools
type ToolsConfig struct {
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds,omitempty"` // Advisory page fetch timeout
	GeocodeEndpoint     string `yaml:"geocode_endpoint,omitempty"`
	ClimateEndpoint     string `yaml:"climate_endpoint,omitempty"`
}

// Load loads configuration from the default config file
// Default location: ~/.travelpal/config/travelpal.yaml
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".travelpal", "config", "travelpal.yaml")
	return LoadFromFile(configPath)
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			homeDir, _ := os.UserHomeDir()
			defaultPath := filepath.Join(homeDir, ".travelpal", "config", "travelpal.yaml")
			return nil, &ConfigNotFoundError{
				RequestedPath: path,
				DefaultPath:   defaultPath,
			}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ConfigNotFoundError is returned when config file is not found
type ConfigNotFoundError struct {
	RequestedPath string
	DefaultPath   string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found at: %s\n\nDefault location: %s\n\nYou can:\n"+
		"  1. Create the config file at the default location\n"+
		"  2. Specify a custom path with -config flag",
		e.RequestedPath, e.DefaultPath)
}

// IsConfigNotFound checks if error is config not found
func IsConfigNotFound(err error) bool {
	_, ok := err.(*ConfigNotFoundError)
	return ok
}

// expandPath expands ~ and $HOME to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "$HOME/") || path == "$HOME" {
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			var err error
			homeDir, err = os.UserHomeDir()
			if err != nil {
				return path
			}
		}
		if path == "$HOME" {
			return homeDir
		}
		return filepath.Join(homeDir, path[6:])
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return homeDir
		}
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// ApplyDefaults sets default values for missing configuration
func (c *Config) ApplyDefaults() {
	if c.Corpus.ChunkSize == 0 {
		c.Corpus.ChunkSize = 1000
	}
	if c.Corpus.ChunkOverlap == 0 {
		c.Corpus.ChunkOverlap = 100
	}
	if c.Corpus.Path != "" {
		c.Corpus.Path = expandPath(c.Corpus.Path)
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions == 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.Embedding.BatchSize == 0 {
		c.Embedding.BatchSize = 32
	}

	if c.LLM.APIKey == "" {
		c.LLM.APIKey = c.Embedding.APIKey
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.4
	}

	if c.Database.Path != "" {
		c.Database.Path = expandPath(c.Database.Path)
	}
	if c.TextIndex.Dir != "" {
		c.TextIndex.Dir = expandPath(c.TextIndex.Dir)
	}

	if c.Search.TopK == 0 {
		c.Search.TopK = 3
	}
	if c.Search.VectorWeight == 0 && c.Search.KeywordWeight == 0 {
		c.Search.VectorWeight = 0.7
		c.Search.KeywordWeight = 0.3
	}

	if c.Tools.FetchTimeoutSeconds == 0 {
		c.Tools.FetchTimeoutSeconds = 5
	}
	if c.Tools.GeocodeEndpoint == "" {
		c.Tools.GeocodeEndpoint = "https://geocoding-api.open-meteo.com/v1/search"
	}
	if c.Tools.ClimateEndpoint == "" {
		c.Tools.ClimateEndpoint = "https://climate-api.open-meteo.com/v1/climate"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Embedding.Provider {
	case "openai":
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("openai provider requires api_key")
		}
	default:
		return fmt.Errorf("unsupported embedding provider: %s", c.Embedding.Provider)
	}

	if c.Corpus.ChunkOverlap >= c.Corpus.ChunkSize {
		return fmt.Errorf("chunk_overlap must be smaller than chunk_size, got %d >= %d",
			c.Corpus.ChunkOverlap, c.Corpus.ChunkSize)
	}

	if c.Search.TopK < 0 {
		return fmt.Errorf("top_k must not be negative, got: %d", c.Search.TopK)
	}

	if c.Tools.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive, got: %d", c.Tools.FetchTimeoutSeconds)
	}

	return nil
}

const defaultConfigTemplate = `# TravelPal Configuration
#
# Copy and edit this file for your environment.
# Default location: $HOME/.travelpal/config/travelpal.yaml

corpus:
  # Path or glob selecting the knowledge documents
  path: ~/travelpal/docs/**/*.md
  chunk_size: 1000
  chunk_overlap: 100

embedding:
  provider: openai
  api_key: your-openai-api-key
  model: text-embedding-3-small
  dimensions: 1536
  batch_size: 32

llm:
  # api_key defaults to embedding.api_key
  model: gpt-4o-mini
  temperature: 0.4

search:
  top_k: 3

tools:
  fetch_timeout_seconds: 5
`

// WriteDefaultTemplate creates a default configuration file if it does not exist.
// It returns true if a file was created, false if it already existed.
func WriteDefaultTemplate(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return false, fmt.Errorf("failed to write config template: %w", err)
	}

	return true, nil
}
