// Package config loads the application configuration from a TOML file and
// TEAMPILOT_* environment variables. Environment values win over file values;
// defaults fill whatever neither sets.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is consulted when no --config flag is given.
const DefaultConfigFile = "teampilot.toml"

// Defaults applied by Load. Adapter-level settings (models, timeouts, chunk
// sizes) default inside the adapter that owns them and stay zero here.
const (
	DefaultHost                = "127.0.0.1"
	DefaultPort                = 8000
	DefaultTokenExpiryMinutes  = 60
	DefaultMaxDocumentSize     = int64(10 * 1024 * 1024)
	DefaultEmbeddingDimensions = 1024
)

// ServerConfig configures the HTTP API and token issuing.
type ServerConfig struct {
	Host               string `toml:"host"`
	Port               int    `toml:"port"`
	SecretKey          string `toml:"secret_key"`
	TokenExpiryMinutes int    `toml:"token_expiry_minutes"`
}

// DocumentsConfig configures uploaded payload storage.
type DocumentsConfig struct {
	Dir     string `toml:"dir"`
	MaxSize int64  `toml:"max_size"`
}

// DatabaseConfig contains the PostgreSQL connection string.
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// LLMConfig configures the chat model client.
type LLMConfig struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	MaxTokens      int    `toml:"max_tokens"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// EmbeddingConfig configures the embedding client.
type EmbeddingConfig struct {
	APIKey            string  `toml:"api_key"`
	Model             string  `toml:"model"`
	Dimensions        int     `toml:"dimensions"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	MaxAttempts       int     `toml:"max_attempts"`
	RetryDelaySeconds int     `toml:"retry_delay_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ExtractionConfig configures text extraction and chunking.
type ExtractionConfig struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
	MinChunkSize int `toml:"min_chunk_size"`
	OCRThreshold int `toml:"ocr_threshold"`
}

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Documents  DocumentsConfig  `toml:"documents"`
	Database   DatabaseConfig   `toml:"database"`
	LLM        LLMConfig        `toml:"llm"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Extraction ExtractionConfig `toml:"extraction"`
	Verbose    bool             `toml:"verbose"`
}

// Load reads the configuration at path, applies TEAMPILOT_* environment
// overrides and fills defaults. An empty path falls back to
// DefaultConfigFile; a missing file is not an error, the configuration then
// comes from the environment alone.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file, run on environment and defaults.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills unset values that no adapter can default on its own.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.TokenExpiryMinutes == 0 {
		cfg.Server.TokenExpiryMinutes = DefaultTokenExpiryMinutes
	}
	if cfg.Documents.MaxSize == 0 {
		cfg.Documents.MaxSize = DefaultMaxDocumentSize
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = DefaultEmbeddingDimensions
	}
}

// applyEnv overlays TEAMPILOT_* environment variables onto cfg.
func applyEnv(cfg *Config) error {
	env := &envOverrides{}

	env.str("TEAMPILOT_SERVER_HOST", &cfg.Server.Host)
	env.num("TEAMPILOT_SERVER_PORT", &cfg.Server.Port)
	env.str("TEAMPILOT_SERVER_SECRET_KEY", &cfg.Server.SecretKey)
	env.num("TEAMPILOT_SERVER_TOKEN_EXPIRY_MINUTES", &cfg.Server.TokenExpiryMinutes)

	env.str("TEAMPILOT_DOCUMENTS_DIR", &cfg.Documents.Dir)
	env.num64("TEAMPILOT_DOCUMENTS_MAX_SIZE", &cfg.Documents.MaxSize)

	env.str("TEAMPILOT_DATABASE_URL", &cfg.Database.URL)

	env.str("TEAMPILOT_LLM_API_KEY", &cfg.LLM.APIKey)
	env.str("TEAMPILOT_LLM_MODEL", &cfg.LLM.Model)
	env.num("TEAMPILOT_LLM_MAX_TOKENS", &cfg.LLM.MaxTokens)
	env.num("TEAMPILOT_LLM_TIMEOUT_SECONDS", &cfg.LLM.TimeoutSeconds)

	env.str("TEAMPILOT_EMBEDDING_API_KEY", &cfg.Embedding.APIKey)
	env.str("TEAMPILOT_EMBEDDING_MODEL", &cfg.Embedding.Model)
	env.num("TEAMPILOT_EMBEDDING_DIMENSIONS", &cfg.Embedding.Dimensions)
	env.num("TEAMPILOT_EMBEDDING_TIMEOUT_SECONDS", &cfg.Embedding.TimeoutSeconds)
	env.num("TEAMPILOT_EMBEDDING_MAX_ATTEMPTS", &cfg.Embedding.MaxAttempts)
	env.num("TEAMPILOT_EMBEDDING_RETRY_DELAY_SECONDS", &cfg.Embedding.RetryDelaySeconds)
	env.flt("TEAMPILOT_EMBEDDING_REQUESTS_PER_SECOND", &cfg.Embedding.RequestsPerSecond)

	env.num("TEAMPILOT_EXTRACTION_CHUNK_SIZE", &cfg.Extraction.ChunkSize)
	env.num("TEAMPILOT_EXTRACTION_CHUNK_OVERLAP", &cfg.Extraction.ChunkOverlap)
	env.num("TEAMPILOT_EXTRACTION_MIN_CHUNK_SIZE", &cfg.Extraction.MinChunkSize)
	env.num("TEAMPILOT_EXTRACTION_OCR_THRESHOLD", &cfg.Extraction.OCRThreshold)

	env.boolean("TEAMPILOT_VERBOSE", &cfg.Verbose)

	return env.err
}

// envOverrides reads typed environment values, remembering the first parse
// failure.
type envOverrides struct {
	err error
}

func (e *envOverrides) str(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func (e *envOverrides) num(key string, dst *int) {
	v, ok := os.LookupEnv(key)
	if !ok || e.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.err = fmt.Errorf("config: %s: %w", key, err)
		return
	}
	*dst = n
}

func (e *envOverrides) num64(key string, dst *int64) {
	v, ok := os.LookupEnv(key)
	if !ok || e.err != nil {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.err = fmt.Errorf("config: %s: %w", key, err)
		return
	}
	*dst = n
}

func (e *envOverrides) flt(key string, dst *float64) {
	v, ok := os.LookupEnv(key)
	if !ok || e.err != nil {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.err = fmt.Errorf("config: %s: %w", key, err)
		return
	}
	*dst = f
}

func (e *envOverrides) boolean(key string, dst *bool) {
	v, ok := os.LookupEnv(key)
	if !ok || e.err != nil {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.err = fmt.Errorf("config: %s: %w", key, err)
		return
	}
	*dst = b
}
