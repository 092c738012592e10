package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor the environment sets a
// value.
const (
	DefaultDataset        = "ledger"
	DefaultParsingModel   = "gemini-2.5-flash"
	DefaultEmbeddingModel = "gemini-embedding-001"
	DefaultCallTimeout    = 2 * time.Minute
	DefaultMaxToolRounds  = 4
	DefaultQueueSize      = 16
	DefaultWorkerCount    = 3
)

// ExtractionPolicy controls how the extractor reacts to a failing strategy.
type ExtractionPolicy string

const (
	// PolicyBestEffort records a failing strategy as an empty artifact and
	// keeps going. This is the default.
	PolicyBestEffort ExtractionPolicy = "best_effort"
	// PolicyFailFast aborts extraction on the first strategy error.
	PolicyFailFast ExtractionPolicy = "fail_fast"
)

// Config holds everything a pipeline run needs: GCP identifiers, model names
// and run limits. It is passed explicitly into each run rather than held in
// package globals, so concurrent runs with different settings are safe.
type Config struct {
	ProjectID       string           `yaml:"project_id"`
	Dataset         string           `yaml:"dataset"`
	Bucket          string           `yaml:"bucket"`
	CredentialsFile string           `yaml:"credentials_file"`
	ParsingModel    string           `yaml:"parsing_model"`
	EmbeddingModel  string           `yaml:"embedding_model"`
	Policy          ExtractionPolicy `yaml:"extraction_policy"`
	CallTimeout     time.Duration    `yaml:"call_timeout"`
	MaxToolRounds   int              `yaml:"max_tool_rounds"`
	QueueSize       int              `yaml:"queue_size"`
	WorkerCount     int              `yaml:"worker_count"`
}

// Load reads the YAML config at path (optional), applies environment
// overrides, fills defaults and validates. An empty path skips the file and
// configures from environment and defaults alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: reading %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parsing %q: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LEDGER_PROJECT_ID"); v != "" {
		cfg.ProjectID = v
	}
	if v := os.Getenv("LEDGER_DATASET"); v != "" {
		cfg.Dataset = v
	}
	if v := os.Getenv("LEDGER_BUCKET"); v != "" {
		cfg.Bucket = v
	}
	if v := os.Getenv("LEDGER_CREDENTIALS_FILE"); v != "" {
		cfg.CredentialsFile = v
	}
	if v := os.Getenv("LEDGER_PARSING_MODEL"); v != "" {
		cfg.ParsingModel = v
	}
	if v := os.Getenv("LEDGER_EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}
	if v := os.Getenv("LEDGER_EXTRACTION_POLICY"); v != "" {
		cfg.Policy = ExtractionPolicy(v)
	}
	if v := os.Getenv("LEDGER_MAX_TOOL_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxToolRounds = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Dataset == "" {
		cfg.Dataset = DefaultDataset
	}
	if cfg.ParsingModel == "" {
		cfg.ParsingModel = DefaultParsingModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyBestEffort
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = DefaultMaxToolRounds
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("config: project_id is required (set LEDGER_PROJECT_ID or project_id in the config file)")
	}
	switch c.Policy {
	case PolicyBestEffort, PolicyFailFast:
	default:
		return fmt.Errorf("config: unknown extraction_policy %q", c.Policy)
	}
	return nil
}
