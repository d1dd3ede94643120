package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/factrace/factrace/internal/engine"
	"github.com/factrace/factrace/internal/ingest"
	"github.com/factrace/factrace/internal/model"
	"github.com/factrace/factrace/internal/validate"
	"github.com/factrace/factrace/internal/worker"
)

var (
	batchConcurrency int
	batchOutDir      string
	batchTimeout     time.Duration
	batchEmbed       bool
)

type batchJob struct {
	docPath   string
	factsPath string
}

type batchResult struct {
	doc    string
	report *model.Report
	err    error
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Attribute facts across a directory of documents",
	Long: `Batch walks a directory for documents with sibling fact files and
runs a full attribution pass over each, in parallel.

For every document <name>.txt or <name>.html the facts are read from
<name>.facts.yaml next to it. Documents without a facts file are skipped.

Example:
  factrace batch ./reports --concurrency 4 --out ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "parallel document passes")
	batchCmd.Flags().StringVar(&batchOutDir, "out", "", "directory for JSON reports (optional)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")
	batchCmd.Flags().BoolVar(&batchEmbed, "embed", false, "enable embedding-based semantic similarity")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	embedEnabled = embedEnabled || batchEmbed
	cfg := buildConfig()
	log := newLogger()
	defer func() { _ = log.Sync() }()

	sim, err := buildSimilarity(cfg)
	if err != nil {
		return err
	}

	jobs, err := collectJobs(dir)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no documents with facts files found in %s", dir)
	}

	if batchOutDir != "" {
		if err := os.MkdirAll(batchOutDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	eng := engine.New(cfg, sim, log)
	pool := worker.NewPool(batchConcurrency, func(ctx context.Context, job batchJob) batchResult {
		return processOne(ctx, eng, job)
	})

	start := time.Now()
	results := pool.Run(ctx, jobs)

	var ok, failed int
	var totalFields, attributed int
	for _, res := range results {
		if res.err != nil {
			failed++
			log.Warn("document failed", zap.String("document", res.doc), zap.Error(res.err))
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.doc, res.err)
			continue
		}
		ok++
		totalFields += res.report.Summary.TotalFields
		attributed += res.report.Summary.FieldsWithContext
		if verbose {
			fmt.Printf("✓ %s: %d/%d facts (%.1f%%)\n",
				res.doc,
				res.report.Summary.FieldsWithContext,
				res.report.Summary.TotalFields,
				res.report.Summary.CoveragePercent)
		}
	}

	fmt.Printf("\nProcessed %d documents in %v (%d failed)\n", ok, time.Since(start).Round(time.Millisecond), failed)
	if totalFields > 0 {
		fmt.Printf("Overall coverage: %d/%d facts (%.1f%%)\n",
			attributed, totalFields, 100*float64(attributed)/float64(totalFields))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(jobs))
	}
	return nil
}

// collectJobs pairs each document in dir with its sibling facts file.
func collectJobs(dir string) ([]batchJob, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var jobs []batchJob
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".txt" && ext != ".html" && ext != ".htm" {
			continue
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		factsFile := filepath.Join(dir, base+".facts.yaml")
		if _, err := os.Stat(factsFile); err != nil {
			continue
		}
		jobs = append(jobs, batchJob{
			docPath:   filepath.Join(dir, name),
			factsPath: factsFile,
		})
	}
	return jobs, nil
}

func processOne(ctx context.Context, eng *engine.Engine, job batchJob) batchResult {
	name := filepath.Base(job.docPath)
	lines, err := ingest.LoadDocument(job.docPath)
	if err != nil {
		return batchResult{doc: name, err: err}
	}
	facts, err := ingest.LoadFacts(job.factsPath)
	if err != nil {
		return batchResult{doc: name, err: err}
	}
	facts, _ = validate.Facts(facts)
	if len(facts) == 0 {
		return batchResult{doc: name, err: fmt.Errorf("no valid facts in %s", job.factsPath)}
	}

	report := eng.ProcessDocument(ctx, name, lines, facts)

	if batchOutDir != "" {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		outPath := filepath.Join(batchOutDir, base+".json")
		if err := writeJSON(report, outPath); err != nil {
			return batchResult{doc: name, err: err}
		}
	}
	return batchResult{doc: name, report: report}
}
