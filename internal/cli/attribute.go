package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/factrace/factrace/internal/embed"
	"github.com/factrace/factrace/internal/engine"
	"github.com/factrace/factrace/internal/ingest"
	"github.com/factrace/factrace/internal/model"
	"github.com/factrace/factrace/internal/validate"
)

var (
	factsPath    string
	outJSON      string
	timeout      time.Duration
	embedEnabled bool
	embedModel   string
)

// attributeCmd represents the attribute command
var attributeCmd = &cobra.Command{
	Use:   "attribute <document>",
	Short: "Attribute facts to evidence in a single document",
	Long: `Attribute runs one document pass:
- Load the document (plain text or HTML) and normalize it
- Attribute each fact from the facts file to verbatim source text
- Report per-fact context, confidence and method
- Roll up coverage statistics

Example:
  factrace attribute report.txt --facts facts.yaml
  factrace attribute report.html --facts facts.yaml --json out.json
  factrace attribute report.txt --facts facts.yaml --embed`,
	Args: cobra.ExactArgs(1),
	RunE: runAttribute,
}

func init() {
	rootCmd.AddCommand(attributeCmd)

	attributeCmd.Flags().StringVar(&factsPath, "facts", "", "facts YAML file (required)")
	attributeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON report path (optional)")
	attributeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall pass timeout")
	attributeCmd.Flags().BoolVar(&embedEnabled, "embed", false, "enable embedding-based semantic similarity")
	attributeCmd.Flags().StringVar(&embedModel, "embed-model", "", "embedding model name")
	_ = attributeCmd.MarkFlagRequired("facts")
}

func runAttribute(cmd *cobra.Command, args []string) error {
	docPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildConfig()
	log := newLogger()
	defer func() { _ = log.Sync() }()

	sim, err := buildSimilarity(cfg)
	if err != nil {
		return err
	}

	lines, err := ingest.LoadDocument(docPath)
	if err != nil {
		return err
	}
	facts, err := ingest.LoadFacts(factsPath)
	if err != nil {
		return err
	}
	facts, issues := validate.Facts(facts)
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "⚠ %s\n", issue)
	}
	if len(facts) == 0 {
		return fmt.Errorf("no valid facts in %s", factsPath)
	}

	eng := engine.New(cfg, sim, log)
	report := eng.ProcessDocument(ctx, docPath, lines, facts)

	if outJSON != "" {
		if err := writeJSON(report, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}

	printSummary(report)
	return nil
}

// buildConfig merges defaults with viper-resolved overrides.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose

	if embedEnabled || viper.GetBool("embedding.enabled") {
		cfg.Embedding.Enabled = true
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if embedModel != "" {
		cfg.Embedding.Model = embedModel
	}
	if dir := viper.GetString("embedding.cache_dir"); dir != "" {
		cfg.Embedding.CacheDir = dir
	}
	if floor := viper.GetFloat64("quality.gate_floor"); floor > 0 {
		cfg.Quality.GateFloor = floor
	}
	return cfg
}

// buildSimilarity constructs the optional embedding provider. A
// missing API key is an error only when embeddings were requested.
func buildSimilarity(cfg *model.Config) (embed.Similarity, error) {
	if !cfg.Embedding.Enabled {
		return nil, nil
	}
	if cfg.Embedding.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	provider, err := embed.NewOpenAIProvider(embed.OpenAIConfig{
		APIKey:            cfg.Embedding.APIKey,
		Model:             cfg.Embedding.Model,
		BaseURL:           cfg.Embedding.BaseURL,
		CacheSize:         cfg.Embedding.CacheSize,
		CacheDir:          cfg.Embedding.CacheDir,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		Burst:             cfg.Embedding.Burst,
	}, newLogger())
	if err != nil {
		return nil, fmt.Errorf("configure embeddings: %w", err)
	}
	return provider, nil
}

func writeJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func printSummary(report *model.Report) {
	s := report.Summary
	fmt.Printf("Document: %s\n", report.Document)
	fmt.Printf("Facts attributed: %d/%d (%.1f%%)\n", s.FieldsWithContext, s.TotalFields, s.CoveragePercent)
	fmt.Printf("Average context length: %.1f chars\n", s.AverageSpanLength)

	if verbose {
		for _, r := range report.Results {
			marker := "✗"
			if r.HasContext {
				marker = "✓"
			}
			fmt.Printf("  %s %-40s [%-14s] %.2f  %s\n", marker, r.Fact.Field, r.Method, r.Confidence, clip(r.Context, 80))
		}
		for i, paragraph := range report.Unattributed {
			fmt.Printf("  unattributed %d: %s\n", i+1, clip(paragraph, 100))
		}
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
