package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksenkov/verdikt/internal/verify"
	"github.com/ksenkov/verdikt/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// threshold, strictMode, and the llm* flags are defined in verify.go
	// and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple answers from a JSONL file in parallel",
	Long: `Batch processes multiple verification requests concurrently:
- Read requests from a JSONL input file (one JSON object per line)
- Verify answers in parallel with a configurable worker count
- One failing record does not stop the rest
- Write an individual result file per request

Example:
  verdikt batch requests.jsonl
  verdikt batch requests.jsonl --concurrency 10 --output-dir ./results
  verdikt batch requests.jsonl --strict --timeout 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./verdikt-results", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Verification flags shared with the verify command
	batchCmd.Flags().Float64Var(&threshold, "threshold", 0, "matching floor override (0 = use config)")
	batchCmd.Flags().BoolVar(&strictMode, "strict", false, "strict mode (raise the matching floor)")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Verdikt Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = concurrency
	if llmEnabled {
		if err := configureLLM(cfg, llmProvider, llmModel); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n\n", llmProvider, llmModel)
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	rt, err := verify.NewRuntime(cfg, newLogger())
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	processor := worker.NewBatchProcessor(rt.Service, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading requests from file...\n")
	results, err := processor.ProcessFile(ctx, file, verify.Options{
		Threshold: threshold,
		Strict:    strictMode,
	})
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Processed %d requests with %d workers\n", len(results), concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	// Process results
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ request %d: %v\n", result.Index, result.Error)
			continue
		}

		successCount++

		jsonPath := filepath.Join(outputDir, fmt.Sprintf("result-%04d.json", result.Index))
		if err := writeResultJSON(result.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ request %d: %v\n", result.Index, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ request %d: %.2f (%s)\n",
			result.Index, result.Result.OverallConfidence, result.Result.TrustLabel)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d requests\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
