// Package main is the entry point for the evidence-search CLI, the
// one-shot batch interface to the compound evidence pipeline.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/compoundintel/evidence-service/internal/config"
	"github.com/compoundintel/evidence-service/internal/observability"
	"github.com/compoundintel/evidence-service/internal/studysources"
	"github.com/compoundintel/evidence-service/internal/studysources/biorxiv"
	"github.com/compoundintel/evidence-service/internal/studysources/clinicaltrials"
	"github.com/compoundintel/evidence-service/internal/studysources/crossref"
	"github.com/compoundintel/evidence-service/internal/studysources/europepmc"
	"github.com/compoundintel/evidence-service/internal/studysources/pubmed"
	"github.com/compoundintel/evidence-service/internal/studysources/semanticscholar"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the evidence-search CLI.
var rootCmd = &cobra.Command{
	Use:   "evidence-search",
	Short: "Federated evidence search for research compounds",
	Long: `evidence-search queries the public biomedical literature for studies on a
research compound. A compound name is expanded into search-term variants,
each variant is run against the enabled bibliographic sources (PubMed,
Europe PMC, Semantic Scholar, CrossRef, ClinicalTrials.gov, bioRxiv),
and the merged results are deduplicated, ranked by relevance, and
optionally graded for aggregate evidence strength.

Results are printed as JSON on stdout; structured logs go to stderr.`,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./config.yaml, ./config/config.yaml, or /etc/evidence-search/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the --config flag and loads the configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// newCLILogger builds the logger for CLI runs. Logs always go to stderr;
// stdout is reserved for command output.
func newCLILogger(cfg *config.Config) zerolog.Logger {
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     "stderr",
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	return logger.With().Str("component", "cli").Logger()
}

// registerStudySources registers all enabled study sources with the registry.
func registerStudySources(registry *studysources.Registry, cfg *config.Config, logger zerolog.Logger) {
	// PubMed.
	if cfg.Sources.PubMed.Enabled {
		pmCfg := cfg.Sources.PubMed
		registry.Register(pubmed.New(pubmed.Config{
			BaseURL:    pmCfg.BaseURL,
			APIKey:     pmCfg.APIKey,
			Email:      pmCfg.Email,
			Timeout:    pmCfg.Timeout,
			RateLimit:  pmCfg.RateLimit,
			MaxResults: pmCfg.MaxResults,
			Enabled:    true,
		}))
		logger.Info().Msg("registered study source: PubMed")
	}

	// Europe PMC.
	if cfg.Sources.EuropePMC.Enabled {
		epCfg := cfg.Sources.EuropePMC
		registry.Register(europepmc.New(europepmc.Config{
			BaseURL:    epCfg.BaseURL,
			Timeout:    epCfg.Timeout,
			RateLimit:  epCfg.RateLimit,
			MaxResults: epCfg.MaxResults,
			Enabled:    true,
		}))
		logger.Info().Msg("registered study source: Europe PMC")
	}

	// Semantic Scholar.
	if cfg.Sources.SemanticScholar.Enabled {
		ssCfg := cfg.Sources.SemanticScholar
		registry.Register(semanticscholar.New(semanticscholar.Config{
			BaseURL:    ssCfg.BaseURL,
			APIKey:     ssCfg.APIKey,
			Timeout:    ssCfg.Timeout,
			RateLimit:  ssCfg.RateLimit,
			MaxResults: ssCfg.MaxResults,
			Enabled:    true,
		}))
		logger.Info().Msg("registered study source: Semantic Scholar")
	}

	// CrossRef.
	if cfg.Sources.CrossRef.Enabled {
		crCfg := cfg.Sources.CrossRef
		registry.Register(crossref.New(crossref.Config{
			BaseURL:    crCfg.BaseURL,
			Email:      crCfg.Email,
			Timeout:    crCfg.Timeout,
			RateLimit:  crCfg.RateLimit,
			MaxResults: crCfg.MaxResults,
			Enabled:    true,
		}))
		logger.Info().Msg("registered study source: CrossRef")
	}

	// ClinicalTrials.gov.
	if cfg.Sources.ClinicalTrials.Enabled {
		ctCfg := cfg.Sources.ClinicalTrials
		registry.Register(clinicaltrials.New(clinicaltrials.Config{
			BaseURL:    ctCfg.BaseURL,
			Timeout:    ctCfg.Timeout,
			RateLimit:  ctCfg.RateLimit,
			MaxResults: ctCfg.MaxResults,
			Enabled:    true,
		}))
		logger.Info().Msg("registered study source: ClinicalTrials.gov")
	}

	// bioRxiv/medRxiv.
	if cfg.Sources.BioRxiv.Enabled {
		brCfg := cfg.Sources.BioRxiv
		registry.Register(biorxiv.New(biorxiv.Config{
			BaseURL:    brCfg.BaseURL,
			Timeout:    brCfg.Timeout,
			RateLimit:  brCfg.RateLimit,
			MaxResults: brCfg.MaxResults,
			WindowDays: brCfg.WindowDays,
			Enabled:    true,
		}))
		logger.Info().Msg("registered study source: bioRxiv")
	}
}
