package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksenkov/verdikt/internal/llm"
	"github.com/ksenkov/verdikt/internal/verify"
)

var (
	outJSON     string
	outMD       string
	threshold   float64
	strictMode  bool
	timeout     time.Duration
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Verify a single answer against its sources",
	Long: `Verify reads one verification request (answer plus sources) as JSON
from a file or stdin and:
- Segments the answer into sentences
- Extracts legal citations (§§, Art., court decisions)
- Matches every sentence against the sources by semantic similarity
- Fuses similarity, retrieval score, and citation coverage into
  per-sentence confidence scores and an overall trust label
- Retries with a relaxed matching floor when confidence is low

Request format:
  {"answer": "...", "sources": [{"source_id": "a", "text": "...", "retrieval_score": 0.9}]}

Example:
  verdikt verify request.json
  cat request.json | verdikt verify
  verdikt verify request.json --strict --threshold 0.8 --json result.json
  verdikt verify request.json --llm openai --llm-model gpt-4o-mini --md summary.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	// Output flags
	verifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path for the LLM summary (optional)")

	// Verification flags
	verifyCmd.Flags().Float64Var(&threshold, "threshold", 0, "matching floor override (0 = use config)")
	verifyCmd.Flags().BoolVar(&strictMode, "strict", false, "strict mode (raise the matching floor)")
	verifyCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall verification timeout")

	// LLM flags
	verifyCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := readRequest(path)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if llmEnabled {
		if err := configureLLM(cfg, llmProvider, llmModel); err != nil {
			return err
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Sources: %d\n", len(req.Sources))
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintln(os.Stderr)
	}

	rt, err := verify.NewRuntime(cfg, newLogger())
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	result, err := rt.Service.VerifyAnswer(ctx, req, verify.Options{
		Threshold: threshold,
		Strict:    strictMode,
	})
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if verbose {
		stats := rt.Service.CacheStats()
		fmt.Fprintf(os.Stderr, "✓ Analyzed %d sentences\n", len(result.Sentences))
		fmt.Fprintf(os.Stderr, "✓ Overall confidence: %.2f (%s)\n", result.OverallConfidence, result.TrustLabel)
		fmt.Fprintf(os.Stderr, "✓ Retries: %d, cache hits/misses: %d/%d\n", result.RetryCount, stats.Hits, stats.Misses)
		if result.LLM != nil && result.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM summary using %s/%s\n", result.LLM.Provider, result.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := writeResultJSON(result, outJSON); err != nil {
		return err
	}

	if outMD != "" {
		md := llm.RenderSeparateMarkdown(result.LLM)
		if md == "" {
			fmt.Fprintln(os.Stderr, "No LLM summary to write (enable with --llm)")
		} else if err := os.WriteFile(outMD, []byte(md), 0644); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
	}

	return nil
}

// readRequest loads a request from a file, or stdin when path is "" or "-".
func readRequest(path string) (verify.Request, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return verify.Request{}, fmt.Errorf("read request: %w", err)
	}

	var req verify.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return verify.Request{}, fmt.Errorf("parse request: %w", err)
	}
	return req, nil
}

func writeResultJSON(result any, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
