// Package config provides configuration management for the evidence search service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Search strategy constants for the federated orchestrator.
const (
	// StrategySequential queries sources one at a time in priority order.
	StrategySequential = "sequential"
	// StrategyConcurrent fans (source, term) units out across a worker pool.
	StrategyConcurrent = "concurrent"
)

// Config holds all configuration for the evidence search service.
type Config struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Search contains federated search pipeline settings.
	Search SearchConfig `mapstructure:"search"`
	// Sources contains study source API configurations.
	Sources SourcesConfig `mapstructure:"sources"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log output format (json, console, pretty).
	Format string `mapstructure:"format"`
	// Output is the log destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource includes the caller file and line in log entries.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format for log entries.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected at all.
	Enabled bool `mapstructure:"enabled"`
	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace" validate:"required_if=Enabled true"`
}

// SearchConfig holds federated search pipeline configuration.
type SearchConfig struct {
	// MaxResults caps the final deduplicated, ranked result set.
	MaxResults int `mapstructure:"max_results" validate:"gt=0"`
	// MinPerSource is the per-term result request used by the sequential
	// strategy; a source stops contributing once it has 2x this many records.
	MinPerSource int `mapstructure:"min_per_source" validate:"gt=0"`
	// Strategy selects the orchestration mode (sequential, concurrent).
	Strategy string `mapstructure:"strategy"`
	// Workers sizes the worker pool for the concurrent strategy.
	Workers int `mapstructure:"workers" validate:"gt=0"`
	// TermsPerSource bounds concurrent fan-out to the first N search terms
	// of every source.
	TermsPerSource int `mapstructure:"terms_per_source" validate:"gt=0"`
	// UnitResults is the per-unit result request for the concurrent strategy.
	UnitResults int `mapstructure:"unit_results" validate:"gt=0"`
	// BatchTimeout bounds an entire concurrent batch; units still running at
	// the deadline are abandoned.
	BatchTimeout time.Duration `mapstructure:"batch_timeout" validate:"gt=0"`
}

// SourceConfig holds configuration for a single study source API. Fields
// that only some sources use (APIKey, Email, WindowDays) are ignored by
// the rest.
type SourceConfig struct {
	// Enabled controls whether the source participates in searches.
	Enabled bool `mapstructure:"enabled"`
	// APIKey authenticates requests for sources that support keys.
	// Loaded exclusively from environment variables (see loadSecrets).
	APIKey string `mapstructure:"-"`
	// BaseURL is the root endpoint of the source API.
	BaseURL string `mapstructure:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout" validate:"required_if=Enabled true,omitempty,gt=0"`
	// RateLimit is the maximum request rate in requests per second.
	RateLimit float64 `mapstructure:"rate_limit" validate:"required_if=Enabled true,omitempty,gt=0"`
	// MaxResults caps how many records one request may ask the source for.
	MaxResults int `mapstructure:"max_results" validate:"omitempty,gt=0"`
	// Email identifies the caller to sources with polite-use policies.
	Email string `mapstructure:"email" validate:"omitempty,email"`
	// WindowDays is the preprint listing window in days.
	WindowDays int `mapstructure:"window_days" validate:"omitempty,gt=0"`
}

// SourcesConfig holds per-source study API configuration.
type SourcesConfig struct {
	// PubMed configures the NCBI E-utilities source.
	PubMed SourceConfig `mapstructure:"pubmed"`
	// EuropePMC configures the Europe PMC REST source.
	EuropePMC SourceConfig `mapstructure:"europepmc"`
	// SemanticScholar configures the Semantic Scholar Graph API source.
	SemanticScholar SourceConfig `mapstructure:"semantic_scholar"`
	// CrossRef configures the CrossRef works API source.
	CrossRef SourceConfig `mapstructure:"crossref"`
	// ClinicalTrials configures the ClinicalTrials.gov v2 API source.
	ClinicalTrials SourceConfig `mapstructure:"clinical_trials"`
	// BioRxiv configures the bioRxiv/medRxiv details API source.
	BioRxiv SourceConfig `mapstructure:"biorxiv"`
}

// AnyEnabled reports whether at least one study source is enabled.
func (c *SourcesConfig) AnyEnabled() bool {
	return c.PubMed.Enabled || c.EuropePMC.Enabled || c.SemanticScholar.Enabled ||
		c.CrossRef.Enabled || c.ClinicalTrials.Enabled || c.BioRxiv.Enabled
}

// Load loads configuration from environment variables and config files.
// A non-empty path names an explicit config file and overrides the default
// search locations; loading fails if that file is missing.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("EVIDENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if present
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/evidence-search")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Config file not found is OK, we'll use env vars and defaults
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Load secrets exclusively from environment variables.
	// These fields use mapstructure:"-" to prevent loading from config files.
	loadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadSecrets populates secret fields exclusively from environment variables.
// These fields are tagged with mapstructure:"-" to prevent loading from config files.
func loadSecrets(cfg *Config) {
	// Study source API keys. Only PubMed and Semantic Scholar accept keys.
	cfg.Sources.PubMed.APIKey = os.Getenv("EVIDENCE_SOURCES_PUBMED_API_KEY")
	cfg.Sources.SemanticScholar.APIKey = os.Getenv("EVIDENCE_SOURCES_SEMANTIC_SCHOLAR_API_KEY")
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "evidence")

	// Search defaults
	v.SetDefault("search.max_results", 50)
	v.SetDefault("search.min_per_source", 5)
	v.SetDefault("search.strategy", StrategySequential)
	v.SetDefault("search.workers", 6)
	v.SetDefault("search.terms_per_source", 3)
	v.SetDefault("search.unit_results", 10)
	v.SetDefault("search.batch_timeout", "60s")

	// Sources defaults - PubMed
	// API keys are loaded exclusively from environment variables (see loadSecrets).
	v.SetDefault("sources.pubmed.enabled", true)
	v.SetDefault("sources.pubmed.base_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils")
	v.SetDefault("sources.pubmed.timeout", "15s")
	v.SetDefault("sources.pubmed.rate_limit", 3.0) // NCBI recommends max 3 req/sec without API key
	v.SetDefault("sources.pubmed.max_results", 100)
	v.SetDefault("sources.pubmed.email", "")

	// Sources defaults - Europe PMC
	v.SetDefault("sources.europepmc.enabled", true)
	v.SetDefault("sources.europepmc.base_url", "https://www.ebi.ac.uk/europepmc/webservices/rest")
	v.SetDefault("sources.europepmc.timeout", "15s")
	v.SetDefault("sources.europepmc.rate_limit", 2.0)
	v.SetDefault("sources.europepmc.max_results", 100)

	// Sources defaults - Semantic Scholar
	v.SetDefault("sources.semantic_scholar.enabled", true)
	v.SetDefault("sources.semantic_scholar.base_url", "https://api.semanticscholar.org/graph/v1")
	v.SetDefault("sources.semantic_scholar.timeout", "15s")
	v.SetDefault("sources.semantic_scholar.rate_limit", 1.0) // Unauthenticated shared pool allows 1 req/sec
	v.SetDefault("sources.semantic_scholar.max_results", 100)

	// Sources defaults - CrossRef
	v.SetDefault("sources.crossref.enabled", true)
	v.SetDefault("sources.crossref.base_url", "https://api.crossref.org")
	v.SetDefault("sources.crossref.timeout", "15s")
	v.SetDefault("sources.crossref.rate_limit", 1.0)
	v.SetDefault("sources.crossref.max_results", 100)
	v.SetDefault("sources.crossref.email", "")

	// Sources defaults - ClinicalTrials.gov
	v.SetDefault("sources.clinical_trials.enabled", true)
	v.SetDefault("sources.clinical_trials.base_url", "https://clinicaltrials.gov/api/v2")
	v.SetDefault("sources.clinical_trials.timeout", "15s")
	v.SetDefault("sources.clinical_trials.rate_limit", 2.0)
	v.SetDefault("sources.clinical_trials.max_results", 100)

	// Sources defaults - bioRxiv
	v.SetDefault("sources.biorxiv.enabled", true)
	v.SetDefault("sources.biorxiv.base_url", "https://api.biorxiv.org")
	v.SetDefault("sources.biorxiv.timeout", "15s")
	v.SetDefault("sources.biorxiv.rate_limit", 2.0)
	v.SetDefault("sources.biorxiv.max_results", 100)
	v.SetDefault("sources.biorxiv.window_days", 365)
}

// validate checks struct tags. A single shared instance caches parsed
// struct metadata across calls.
var validate = validator.New()

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid value for %s: fails %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("struct validation: %w", err)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	// Validate search strategy
	switch strings.ToLower(c.Search.Strategy) {
	case StrategySequential, StrategyConcurrent:
	default:
		return fmt.Errorf("invalid search strategy: %s", c.Search.Strategy)
	}

	if !c.Sources.AnyEnabled() {
		return fmt.Errorf("at least one study source must be enabled")
	}

	return nil
}
