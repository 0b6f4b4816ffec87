package model

import (
	"runtime"
	"time"
)

// Config is the complete verdikt configuration.
type Config struct {
	Verification VerificationConfig `yaml:"verification" mapstructure:"verification"`
	Domain       DomainConfig       `yaml:"domain" mapstructure:"domain"`
	Embedding    EmbeddingConfig    `yaml:"embedding" mapstructure:"embedding"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// VerificationConfig holds thresholds and retry behavior.
type VerificationConfig struct {
	Threshold         float64 `yaml:"threshold" mapstructure:"threshold"`                     // Matching floor for best-match selection
	StrictMode        bool    `yaml:"strict_mode" mapstructure:"strict_mode"`                 // Raise the floor to at least strict_floor
	StrictFloor       float64 `yaml:"strict_floor" mapstructure:"strict_floor"`               // Minimum floor in strict mode
	TopK              int     `yaml:"top_k" mapstructure:"top_k"`                             // Internal ranking depth for tie-break stability
	MinSentenceLength int     `yaml:"min_sentence_length" mapstructure:"min_sentence_length"` // Below this, sentences are flagged (not dropped)
	RetryThreshold    float64 `yaml:"retry_threshold" mapstructure:"retry_threshold"`         // Retry while overall confidence is below this
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	MinImprovement    float64 `yaml:"min_improvement" mapstructure:"min_improvement"` // Stop retrying when gains fall to this or below
}

// DomainConfig selects the citation-pattern domain module.
type DomainConfig struct {
	Preset string `yaml:"preset" mapstructure:"preset"` // "legal.german" or "generic"
}

// EmbeddingConfig configures the embedding capability.
type EmbeddingConfig struct {
	Provider          string        `yaml:"provider" mapstructure:"provider"` // "openai"
	Model             string        `yaml:"model" mapstructure:"model"`
	APIKey            string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	BatchSize         int           `yaml:"batch_size" mapstructure:"batch_size"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig configures the embedding cache.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxEntries int           `yaml:"max_entries" mapstructure:"max_entries"`
	MemoryTTL  time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir    string        `yaml:"disk_dir" mapstructure:"disk_dir"` // Empty disables the disk layer
	DiskTTL    time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// StoreConfig configures result and fingerprint-history persistence.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "memory"
	Path   string `yaml:"path" mapstructure:"path"`     // SQLite database path
}

// ConcurrencyConfig bounds parallel work.
type ConcurrencyConfig struct {
	SentenceWorkers int `yaml:"sentence_workers" mapstructure:"sentence_workers"` // Parallel sentence scoring within one call
	BatchWorkers    int `yaml:"batch_workers" mapstructure:"batch_workers"`       // Parallel verifications in batch mode
}

// LLMConfig configures the optional strict-evidence report summarizer.
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"` // "openai", "anthropic", "ollama", "" (disabled)
	Model          string `yaml:"model" mapstructure:"model"`
	APIKey         string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	Timeout        int    `yaml:"timeout" mapstructure:"timeout"` // Seconds
	StrictEvidence bool   `yaml:"strict_evidence" mapstructure:"strict_evidence"`
	MaxTokens      int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Verification: VerificationConfig{
			Threshold:         0.75,
			StrictMode:        false,
			StrictFloor:       0.85,
			TopK:              5,
			MinSentenceLength: 10,
			RetryThreshold:    0.60,
			MaxRetries:        2,
			MinImprovement:    0.01,
		},
		Domain: DomainConfig{
			Preset: "legal.german",
		},
		Embedding: EmbeddingConfig{
			Provider:          "openai",
			Model:             "text-embedding-3-small",
			BatchSize:         32,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 1000,
			MemoryTTL:  time.Hour,
			DiskTTL:    24 * time.Hour,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "~/.verdikt/verdikt.db",
		},
		Concurrency: ConcurrencyConfig{
			SentenceWorkers: 4,
			BatchWorkers:    runtime.NumCPU(),
		},
		LLM: LLMConfig{
			Provider:       "",
			Timeout:        30,
			StrictEvidence: true,
			MaxTokens:      1000,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
