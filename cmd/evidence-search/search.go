package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/compoundintel/evidence-service/internal/domain"
	"github.com/compoundintel/evidence-service/internal/observability"
	"github.com/compoundintel/evidence-service/internal/search"
	"github.com/compoundintel/evidence-service/internal/studysources"
	"github.com/compoundintel/evidence-service/internal/synonym"
)

var searchCmd = &cobra.Command{
	Use:   "search <compound>",
	Short: "Run the evidence pipeline for one compound",
	Long: `Search expands the compound name into search-term variants, queries every
enabled bibliographic source, deduplicates and ranks the merged records,
and prints the result as JSON. With --grade, the output also carries the
aggregate evidence grade computed from the ranked records.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "maximum number of ranked records to return (default from config)")
	searchCmd.Flags().String("strategy", "", "orchestration strategy: sequential or concurrent (default from config)")
	searchCmd.Flags().Bool("grade", false, "include the aggregate evidence grade in the output")

	rootCmd.AddCommand(searchCmd)
}

// searchOutput is the JSON document the search command prints.
type searchOutput struct {
	*search.Result
	EvidenceGrade *domain.EvidenceGrade `json:"evidence_grade,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newCLILogger(cfg)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	}

	registry := studysources.NewRegistry()
	registerStudySources(registry, cfg, logger)

	svc := search.New(search.Config{
		MaxResults:     cfg.Search.MaxResults,
		MinPerSource:   cfg.Search.MinPerSource,
		Strategy:       cfg.Search.Strategy,
		Workers:        cfg.Search.Workers,
		TermsPerSource: cfg.Search.TermsPerSource,
		UnitResults:    cfg.Search.UnitResults,
		BatchTimeout:   cfg.Search.BatchTimeout,
	}, synonym.New(synonym.DefaultAliases()), registry, logger, metrics)

	maxResults, err := cmd.Flags().GetInt("max-results")
	if err != nil {
		return err
	}
	strategy, err := cmd.Flags().GetString("strategy")
	if err != nil {
		return err
	}
	withGrade, err := cmd.Flags().GetBool("grade")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := svc.Search(ctx, args[0], search.Options{
		MaxResults: maxResults,
		Strategy:   strategy,
	})
	if err != nil {
		return err
	}

	output := searchOutput{Result: result}
	if withGrade {
		output.EvidenceGrade = svc.Grade(result.Studies)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
