package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ksenkov/verdikt/internal/model"
	"github.com/ksenkov/verdikt/internal/verify"
)

// Verifier runs one answer verification.
type Verifier interface {
	VerifyAnswer(ctx context.Context, req verify.Request, opts verify.Options) (*model.VerificationResult, error)
}

// VerifyJob is one batched verification.
type VerifyJob struct {
	Index    int
	Request  verify.Request
	Opts     verify.Options
	Verifier Verifier
}

// Execute runs the verification job.
func (j *VerifyJob) Execute(ctx context.Context) Result {
	result, err := j.Verifier.VerifyAnswer(ctx, j.Request, j.Opts)
	return &VerifyResult{
		Index:  j.Index,
		Result: result,
		Error:  err,
	}
}

// VerifyResult is the outcome of one batched verification. Index points back
// to the input record.
type VerifyResult struct {
	Index  int
	Result *model.VerificationResult
	Error  error
}

// GetError returns the error from the verification
func (r *VerifyResult) GetError() error {
	return r.Error
}

// BatchProcessor verifies many answer records concurrently. One record
// failing does not stop the rest.
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessRequests verifies the requests concurrently and returns results in
// input order.
func (b *BatchProcessor) ProcessRequests(ctx context.Context, requests []verify.Request, opts verify.Options) []*VerifyResult {
	if len(requests) == 0 {
		return []*VerifyResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, req := range requests {
		pool.Submit(&VerifyJob{
			Index:    i,
			Request:  req,
			Opts:     opts,
			Verifier: b.verifier,
		})
	}

	results := pool.Wait()

	verifyResults := make([]*VerifyResult, 0, len(results))
	for _, result := range results {
		verifyResults = append(verifyResults, result.(*VerifyResult))
	}
	sort.Slice(verifyResults, func(i, j int) bool {
		return verifyResults[i].Index < verifyResults[j].Index
	})

	return verifyResults
}

// ProcessFile reads verification requests from a JSONL file and processes
// them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, opts verify.Options) ([]*VerifyResult, error) {
	requests, err := ReadRequestsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}

	return b.ProcessRequests(ctx, requests, opts), nil
}

// ReadRequestsFromFile reads requests from a JSONL file (one JSON object per
// line). Blank lines and #-comments are skipped.
func ReadRequestsFromFile(filePath string) ([]verify.Request, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var requests []verify.Request

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var req verify.Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		requests = append(requests, req)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return requests, nil
}
