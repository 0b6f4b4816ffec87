package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ksenkov/verdikt/internal/model"
	"github.com/ksenkov/verdikt/internal/verify"
)

// MockVerifier implements the Verifier interface
type MockVerifier struct {
	ShouldError bool
}

func (m *MockVerifier) VerifyAnswer(_ context.Context, req verify.Request, _ verify.Options) (*model.VerificationResult, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("verification error")
	}
	return &model.VerificationResult{
		VerificationID:    "v-" + req.Answer,
		OverallConfidence: 0.9,
		TrustLabel:        model.LabelVerifiedHigh,
	}, nil
}

func sampleRequests(n int) []verify.Request {
	reqs := make([]verify.Request, n)
	for i := range reqs {
		reqs[i] = verify.Request{
			Answer:  fmt.Sprintf("Antwort %d.", i),
			Sources: []model.Source{{SourceID: "s", Text: "Quelle."}},
		}
	}
	return reqs
}

func TestBatchProcessor_ProcessRequests(t *testing.T) {
	processor := NewBatchProcessor(&MockVerifier{}, 2)

	results := processor.ProcessRequests(context.Background(), sampleRequests(3), verify.Options{})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Index != i {
			t.Errorf("result %d has index %d, want input order", i, res.Index)
		}
		if res.Error != nil {
			t.Errorf("unexpected error at %d: %v", i, res.Error)
			continue
		}
		if res.Result == nil || res.Result.TrustLabel != model.LabelVerifiedHigh {
			t.Errorf("unexpected result at %d: %+v", i, res.Result)
		}
	}
}

func TestBatchProcessor_ProcessRequests_Error(t *testing.T) {
	processor := NewBatchProcessor(&MockVerifier{ShouldError: true}, 2)

	results := processor.ProcessRequests(context.Background(), sampleRequests(1), verify.Options{})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Result != nil {
		t.Error("expected nil result on error")
	}
}

func TestBatchProcessor_ProcessRequests_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockVerifier{}, 2)

	results := processor.ProcessRequests(context.Background(), nil, verify.Options{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "requests*.jsonl")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestReadRequestsFromFile(t *testing.T) {
	content := `{"answer":"Erste Antwort.","sources":[{"source_id":"a","text":"Quelle A."}]}
# comment
{"answer":"Zweite Antwort.","sources":[{"source_id":"b","text":"Quelle B."}]}

`
	path := writeTempFile(t, content)

	requests, err := ReadRequestsFromFile(path)
	if err != nil {
		t.Fatalf("ReadRequestsFromFile failed: %v", err)
	}

	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(requests))
	}
	if requests[0].Answer != "Erste Antwort." {
		t.Errorf("request 0 = %+v", requests[0])
	}
	if requests[1].Sources[0].SourceID != "b" {
		t.Errorf("request 1 sources = %+v", requests[1].Sources)
	}
}

func TestReadRequestsFromFile_MalformedLine(t *testing.T) {
	path := writeTempFile(t, "{not json}\n")

	_, err := ReadRequestsFromFile(path)
	if err == nil {
		t.Fatal("expected error for malformed JSONL")
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestReadRequestsFromFile_NonExistent(t *testing.T) {
	_, err := ReadRequestsFromFile("non_existent_file.jsonl")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	content := `{"answer":"Antwort eins.","sources":[{"source_id":"a","text":"Quelle."}]}
{"answer":"Antwort zwei.","sources":[{"source_id":"a","text":"Quelle."}]}
`
	path := writeTempFile(t, content)

	processor := NewBatchProcessor(&MockVerifier{}, 2)
	results, err := processor.ProcessFile(context.Background(), path, verify.Options{})
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockVerifier{}, 2)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.jsonl", verify.Options{})
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestVerifyResult_GetError(t *testing.T) {
	r1 := &VerifyResult{Index: 0}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("verification failed")
	r2 := &VerifyResult{Index: 1, Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
