// Package confidence fuses matching signals into per-sentence confidence
// scores, aggregate confidence, and trust labels.
package confidence

import (
	"fmt"
	"math"
	"strings"

	"github.com/ksenkov/verdikt/internal/model"
)

// Weights are the fusion factors. They must sum to 1.0.
type Weights struct {
	Semantic         float64 `yaml:"semantic"`
	Retrieval        float64 `yaml:"retrieval"`
	CitationCoverage float64 `yaml:"citation_coverage"`
	OverallCoverage  float64 `yaml:"overall_coverage"`
}

// DefaultWeights returns the standard factor weighting.
func DefaultWeights() Weights {
	return Weights{
		Semantic:         0.50,
		Retrieval:        0.25,
		CitationCoverage: 0.15,
		OverallCoverage:  0.10,
	}
}

const weightSumEpsilon = 0.01

// Trust label boundaries over aggregate confidence.
const (
	labelHighMin     = 0.90
	labelModerateMin = 0.80
	labelReviewMin   = 0.60
)

// Per-sentence status boundaries.
const (
	statusVerifiedMin = 0.80
	statusReviewMin   = 0.60
)

// Engine scores sentences against their matches.
type Engine struct {
	weights           Weights
	minSentenceLength int
}

// NewEngine validates the weights and builds an engine. A weight set that
// does not sum to 1.0 (within a small epsilon) is a configuration error.
func NewEngine(w Weights, minSentenceLength int) (*Engine, error) {
	sum := w.Semantic + w.Retrieval + w.CitationCoverage + w.OverallCoverage
	if math.Abs(sum-1.0) > weightSumEpsilon {
		return nil, fmt.Errorf("confidence weights must sum to 1.0, got %.4f", sum)
	}
	if minSentenceLength < 0 {
		minSentenceLength = 0
	}
	return &Engine{weights: w, minSentenceLength: minSentenceLength}, nil
}

// ScoreSentence fuses the four factors into one confidence score and builds
// the explained sentence result. match may be nil; overallCoverage is the
// answer-level citation coverage computed once per verification.
func (e *Engine) ScoreSentence(s model.Sentence, match *model.Match, sources []model.Source, overallCoverage float64) model.SentenceResult {
	var semantic, retrieval, citationCov float64
	var explanations, warnings []string

	retrieval = model.NeutralRetrievalScore
	if len(s.Citations) == 0 {
		citationCov = 1.0
	}
	if match != nil {
		semantic = match.Similarity
		if src, ok := sourceByID(sources, match.SourceID); ok {
			retrieval = src.Score()
			citationCov = citationCoverage(s.Citations, src.Text)
		}
		explanations = append(explanations,
			fmt.Sprintf("matched source %s with similarity %.2f", match.SourceID, match.Similarity))
	} else {
		warnings = append(warnings, "no supporting source found above threshold")
	}

	if n := len(s.Citations); n > 0 && match != nil {
		found := int(math.Round(citationCov * float64(n)))
		explanations = append(explanations,
			fmt.Sprintf("%d of %d citations found in matched source", found, n))
	}
	for _, c := range missingCitations(s.Citations, sources) {
		warnings = append(warnings, fmt.Sprintf("citation %s not found in any source", c))
	}
	if len([]rune(s.Text)) < e.minSentenceLength {
		warnings = append(warnings, "sentence below minimum analyzable length")
	}

	score := e.weights.Semantic*semantic +
		e.weights.Retrieval*retrieval +
		e.weights.CitationCoverage*citationCov +
		e.weights.OverallCoverage*overallCoverage
	score = clamp01(score)

	return model.SentenceResult{
		Sentence:     s,
		Confidence:   score,
		Status:       statusFor(score),
		BestMatch:    match,
		Explanations: explanations,
		Warnings:     warnings,
	}
}

// OverallCoverage is the fraction of the answer's citations found in any
// source, case-insensitively. An answer without citations is fully covered.
func (e *Engine) OverallCoverage(citations []string, sources []model.Source) float64 {
	if len(citations) == 0 {
		return 1.0
	}
	lowered := make([]string, len(sources))
	for i, s := range sources {
		lowered[i] = strings.ToLower(s.Text)
	}
	found := 0
	for _, c := range citations {
		needle := strings.ToLower(c)
		for _, text := range lowered {
			if strings.Contains(text, needle) {
				found++
				break
			}
		}
	}
	return float64(found) / float64(len(citations))
}

// Aggregate is the arithmetic mean of sentence confidences, 0 when empty.
func Aggregate(results []model.SentenceResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Confidence
	}
	return sum / float64(len(results))
}

// Label buckets aggregate confidence into a trust label.
func Label(confidence float64) model.TrustLabel {
	switch {
	case confidence >= labelHighMin:
		return model.LabelVerifiedHigh
	case confidence >= labelModerateMin:
		return model.LabelVerifiedModerate
	case confidence >= labelReviewMin:
		return model.LabelReviewRequired
	default:
		return model.LabelRejected
	}
}

// citationCoverage is the fraction of the sentence's citations present in
// the matched source text, case-insensitively. No citations means full
// coverage: there is nothing to contradict.
func citationCoverage(citations []string, sourceText string) float64 {
	if len(citations) == 0 {
		return 1.0
	}
	haystack := strings.ToLower(sourceText)
	found := 0
	for _, c := range citations {
		if strings.Contains(haystack, strings.ToLower(c)) {
			found++
		}
	}
	return float64(found) / float64(len(citations))
}

// missingCitations lists the sentence's citations that appear in no source
// text, case-insensitively.
func missingCitations(citations []string, sources []model.Source) []string {
	if len(citations) == 0 {
		return nil
	}
	lowered := make([]string, len(sources))
	for i, s := range sources {
		lowered[i] = strings.ToLower(s.Text)
	}
	var missing []string
	for _, c := range citations {
		needle := strings.ToLower(c)
		found := false
		for _, text := range lowered {
			if strings.Contains(text, needle) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, c)
		}
	}
	return missing
}

func statusFor(confidence float64) model.SentenceStatus {
	switch {
	case confidence >= statusVerifiedMin:
		return model.StatusVerified
	case confidence >= statusReviewMin:
		return model.StatusReview
	default:
		return model.StatusRejected
	}
}

func sourceByID(sources []model.Source, id string) (model.Source, bool) {
	for _, s := range sources {
		if s.SourceID == id {
			return s, true
		}
	}
	return model.Source{}, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
