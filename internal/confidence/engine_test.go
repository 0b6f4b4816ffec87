package confidence

import (
	"math"
	"strings"
	"testing"

	"github.com/ksenkov/verdikt/internal/model"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultWeights(), 10)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func ptr(f float64) *float64 { return &f }

func TestNewEngineWeightValidation(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{"defaults", DefaultWeights(), false},
		{"custom valid", Weights{Semantic: 0.4, Retrieval: 0.3, CitationCoverage: 0.2, OverallCoverage: 0.1}, false},
		{"within epsilon", Weights{Semantic: 0.505, Retrieval: 0.25, CitationCoverage: 0.15, OverallCoverage: 0.10}, false},
		{"sum too low", Weights{Semantic: 0.4, Retrieval: 0.2, CitationCoverage: 0.1, OverallCoverage: 0.1}, true},
		{"sum too high", Weights{Semantic: 0.6, Retrieval: 0.3, CitationCoverage: 0.2, OverallCoverage: 0.1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.weights, 10)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScoreSentenceFullSupport(t *testing.T) {
	e := newEngine(t)
	src := model.Source{
		SourceID:       "s1",
		Text:           "Nach § 823 BGB ist der Schädiger zum Ersatz verpflichtet.",
		RetrievalScore: ptr(0.9),
	}
	s := model.Sentence{
		Text:      "Die Haftung folgt aus § 823 BGB.",
		Citations: []string{"§ 823 BGB"},
	}
	match := &model.Match{SourceID: "s1", Similarity: 0.95}

	got := e.ScoreSentence(s, match, []model.Source{src}, 1.0)

	want := 0.50*0.95 + 0.25*0.9 + 0.15*1.0 + 0.10*1.0
	if math.Abs(got.Confidence-want) > 1e-9 {
		t.Errorf("Confidence = %v, want %v", got.Confidence, want)
	}
	if got.Status != model.StatusVerified {
		t.Errorf("Status = %v, want verified", got.Status)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", got.Warnings)
	}
	if len(got.Explanations) == 0 {
		t.Error("expected explanations")
	}
}

func TestScoreSentenceNoMatch(t *testing.T) {
	e := newEngine(t)
	s := model.Sentence{Text: "Diese Behauptung findet keine Stütze in den Quellen."}

	got := e.ScoreSentence(s, nil, nil, 1.0)

	// semantic 0, neutral retrieval, full citation coverage (no citations).
	want := 0.25*0.5 + 0.15*1.0 + 0.10*1.0
	if math.Abs(got.Confidence-want) > 1e-9 {
		t.Errorf("Confidence = %v, want %v", got.Confidence, want)
	}
	if got.Status != model.StatusRejected {
		t.Errorf("Status = %v, want rejected", got.Status)
	}
	if !hasWarning(got.Warnings, "no supporting source") {
		t.Errorf("Warnings = %v, want no-match warning", got.Warnings)
	}
}

func TestScoreSentenceCitationsWithoutMatchScoreZeroCoverage(t *testing.T) {
	e := newEngine(t)
	s := model.Sentence{
		Text:      "Der Anspruch ergibt sich aus § 999 BGB.",
		Citations: []string{"§ 999 BGB"},
	}

	got := e.ScoreSentence(s, nil, nil, 0.0)

	want := 0.25 * 0.5
	if math.Abs(got.Confidence-want) > 1e-9 {
		t.Errorf("Confidence = %v, want %v", got.Confidence, want)
	}
}

func TestScoreSentenceCitationCoverageFraction(t *testing.T) {
	e := newEngine(t)
	src := model.Source{SourceID: "s1", Text: "hier steht nur etwas zu § 433 bgb."}
	s := model.Sentence{
		Text:      "Es gelten § 433 BGB und § 985 BGB.",
		Citations: []string{"§ 433 BGB", "§ 985 BGB"},
	}
	match := &model.Match{SourceID: "s1", Similarity: 0.8}

	got := e.ScoreSentence(s, match, []model.Source{src}, 0.5)

	// Case-insensitive: one of two citations found.
	want := 0.50*0.8 + 0.25*0.5 + 0.15*0.5 + 0.10*0.5
	if math.Abs(got.Confidence-want) > 1e-9 {
		t.Errorf("Confidence = %v, want %v", got.Confidence, want)
	}
}

func TestScoreSentenceUncoveredCitationWarning(t *testing.T) {
	e := newEngine(t)
	src := model.Source{
		SourceID: "s1",
		Text:     "Der Verkäufer haftet nach § 433 BGB für die Übergabe der Sache.",
	}
	s := model.Sentence{
		Text:      "Der Anspruch folgt aus § 999 BGB.",
		Citations: []string{"§ 999 BGB"},
	}
	match := &model.Match{SourceID: "s1", Similarity: 0.9}

	got := e.ScoreSentence(s, match, []model.Source{src}, 0.0)

	if !hasWarning(got.Warnings, "§ 999 BGB not found in any source") {
		t.Errorf("Warnings = %v, want uncovered-citation warning", got.Warnings)
	}

	// Without any match the citation is still uncovered and still warned.
	unmatched := e.ScoreSentence(s, nil, []model.Source{src}, 0.0)
	if !hasWarning(unmatched.Warnings, "§ 999 BGB not found in any source") {
		t.Errorf("Warnings = %v, want uncovered-citation warning", unmatched.Warnings)
	}
}

func TestScoreSentenceNeutralRetrievalWhenUnscored(t *testing.T) {
	e := newEngine(t)
	src := model.Source{SourceID: "s1", Text: "Quelle ohne Score."}
	s := model.Sentence{Text: "Ein hinreichend langer Satz ohne Zitate."}
	match := &model.Match{SourceID: "s1", Similarity: 0.9}

	got := e.ScoreSentence(s, match, []model.Source{src}, 1.0)

	want := 0.50*0.9 + 0.25*0.5 + 0.15*1.0 + 0.10*1.0
	if math.Abs(got.Confidence-want) > 1e-9 {
		t.Errorf("Confidence = %v, want %v", got.Confidence, want)
	}
}

func TestScoreSentenceShortSentenceWarning(t *testing.T) {
	e := newEngine(t)
	s := model.Sentence{Text: "Ja."}

	got := e.ScoreSentence(s, nil, nil, 1.0)

	if !hasWarning(got.Warnings, "minimum analyzable length") {
		t.Errorf("Warnings = %v, want short-sentence warning", got.Warnings)
	}
}

func TestScoreSentenceConfidenceBounds(t *testing.T) {
	e := newEngine(t)
	src := model.Source{SourceID: "s1", Text: "text", RetrievalScore: ptr(1.0)}
	s := model.Sentence{Text: "Ein ausreichend langer Beispielsatz."}
	match := &model.Match{SourceID: "s1", Similarity: 1.0}

	got := e.ScoreSentence(s, match, []model.Source{src}, 1.0)
	if got.Confidence < 0 || got.Confidence > 1 {
		t.Errorf("Confidence = %v, out of [0,1]", got.Confidence)
	}

	low := e.ScoreSentence(model.Sentence{Text: "Langer Satz mit Zitat § 1 GG.", Citations: []string{"§ 1 GG"}}, nil, nil, 0)
	if low.Confidence < 0 || low.Confidence > 1 {
		t.Errorf("Confidence = %v, out of [0,1]", low.Confidence)
	}
}

func TestOverallCoverage(t *testing.T) {
	e := newEngine(t)
	sources := []model.Source{
		{SourceID: "a", Text: "Regelung in § 433 BGB zum Kauf."},
		{SourceID: "b", Text: "Eigentumsherausgabe nach § 985 bgb."},
	}
	tests := []struct {
		name      string
		citations []string
		want      float64
	}{
		{"no citations", nil, 1.0},
		{"all covered", []string{"§ 433 BGB", "§ 985 BGB"}, 1.0},
		{"half covered", []string{"§ 433 BGB", "§ 280 BGB"}, 0.5},
		{"none covered", []string{"§ 280 BGB"}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.OverallCoverage(tt.citations, sources); got != tt.want {
				t.Errorf("OverallCoverage(%v) = %v, want %v", tt.citations, got, tt.want)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	if got := Aggregate(nil); got != 0 {
		t.Errorf("Aggregate(nil) = %v, want 0", got)
	}
	results := []model.SentenceResult{
		{Confidence: 0.9},
		{Confidence: 0.7},
		{Confidence: 0.5},
	}
	if got := Aggregate(results); math.Abs(got-0.7) > 1e-9 {
		t.Errorf("Aggregate() = %v, want 0.7", got)
	}
}

func TestLabelBoundaries(t *testing.T) {
	tests := []struct {
		confidence float64
		want       model.TrustLabel
	}{
		{0.95, model.LabelVerifiedHigh},
		{0.90, model.LabelVerifiedHigh},
		{0.89, model.LabelVerifiedModerate},
		{0.80, model.LabelVerifiedModerate},
		{0.79, model.LabelReviewRequired},
		{0.60, model.LabelReviewRequired},
		{0.59, model.LabelRejected},
		{0.0, model.LabelRejected},
	}
	for _, tt := range tests {
		if got := Label(tt.confidence); got != tt.want {
			t.Errorf("Label(%v) = %v, want %v", tt.confidence, got, tt.want)
		}
	}
}

func TestTrustLabelStatus(t *testing.T) {
	tests := []struct {
		label model.TrustLabel
		want  model.SentenceStatus
	}{
		{model.LabelVerifiedHigh, model.StatusVerified},
		{model.LabelVerifiedModerate, model.StatusVerified},
		{model.LabelReviewRequired, model.StatusReview},
		{model.LabelRejected, model.StatusRejected},
	}
	for _, tt := range tests {
		if got := tt.label.Status(); got != tt.want {
			t.Errorf("%v.Status() = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
