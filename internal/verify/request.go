package verify

import (
	"fmt"
	"unicode/utf8"

	"github.com/ksenkov/verdikt/internal/model"
)

// Input bounds enforced before any processing starts.
const (
	maxAnswerChars = 10000
	maxSourceChars = 50000
	maxSources     = 100
)

// Request is one answer-verification job.
type Request struct {
	Answer  string         `json:"answer"`
	Sources []model.Source `json:"sources"`
}

// Options tune a single verification call.
type Options struct {
	Threshold float64 // Matching floor; <= 0 selects the configured default
	Strict    bool    // Raise the floor for high-stakes checks
}

// validate fails fast on malformed input. Nothing is scored, cached, or
// persisted for an invalid request.
func validate(req Request, threshold float64) error {
	if utf8.RuneCountInString(req.Answer) == 0 {
		return fmt.Errorf("%w: answer is empty", model.ErrValidation)
	}
	if n := utf8.RuneCountInString(req.Answer); n > maxAnswerChars {
		return fmt.Errorf("%w: answer length %d exceeds %d chars", model.ErrValidation, n, maxAnswerChars)
	}
	if len(req.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", model.ErrValidation)
	}
	if len(req.Sources) > maxSources {
		return fmt.Errorf("%w: %d sources exceed the limit of %d", model.ErrValidation, len(req.Sources), maxSources)
	}
	seen := make(map[string]struct{}, len(req.Sources))
	for i, s := range req.Sources {
		if s.SourceID == "" {
			return fmt.Errorf("%w: source %d has no source_id", model.ErrValidation, i)
		}
		if _, dup := seen[s.SourceID]; dup {
			return fmt.Errorf("%w: duplicate source_id %q", model.ErrValidation, s.SourceID)
		}
		seen[s.SourceID] = struct{}{}
		if s.Text == "" {
			return fmt.Errorf("%w: source %q has no text", model.ErrValidation, s.SourceID)
		}
		if n := utf8.RuneCountInString(s.Text); n > maxSourceChars {
			return fmt.Errorf("%w: source %q length %d exceeds %d chars", model.ErrValidation, s.SourceID, n, maxSourceChars)
		}
		if s.RetrievalScore != nil && (*s.RetrievalScore < 0 || *s.RetrievalScore > 1) {
			return fmt.Errorf("%w: source %q retrieval_score %v outside [0,1]", model.ErrValidation, s.SourceID, *s.RetrievalScore)
		}
	}
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: threshold %v outside [0,1]", model.ErrValidation, threshold)
	}
	return nil
}
