package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/ksenkov/verdikt/internal/model"
	"github.com/ksenkov/verdikt/internal/ratelimit"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *SummarizeResponse
	err       error
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func sampleResult() model.VerificationResult {
	return model.VerificationResult{
		VerificationID:    "v-1",
		OverallConfidence: 0.82,
		TrustLabel:        model.LabelVerifiedModerate,
		Sentences: []model.SentenceResult{
			{
				Sentence: model.Sentence{
					Text:      "Der Käufer kann Nacherfüllung verlangen.",
					Ordinal:   0,
					Citations: []string{"§ 439 BGB"},
				},
				Confidence: 0.91,
				Status:     model.StatusVerified,
			},
			{
				Sentence: model.Sentence{
					Text:      "Dies folgt aus § 433 BGB.",
					Ordinal:   1,
					Citations: []string{"§ 433 BGB"},
				},
				Confidence: 0.55,
				Status:     model.StatusReview,
			},
		},
		RetryCount: 1,
	}
}

func TestNewSummarizer_DisabledProvider(t *testing.T) {
	config := Config{
		Provider: "", // Empty = disabled
	}

	summarizer, err := NewSummarizer(config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summarizer.provider != nil {
		t.Error("Expected provider to be nil when disabled")
	}

	if summarizer.IsEnabled() {
		t.Error("Expected summarizer to be disabled")
	}

	if summarizer.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}
}

func TestSummarizer_GenerateSummary_Disabled(t *testing.T) {
	// Create summarizer with nil provider (disabled)
	summarizer := &Summarizer{
		provider: nil,
		config:   Config{},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), sampleResult())

	if err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}

	if summary != nil {
		t.Error("Expected nil summary when provider disabled")
	}
}

func TestSummarizer_GenerateSummary_ProviderUnavailable(t *testing.T) {
	mockProvider := &MockProvider{
		name:      "test-provider",
		available: false, // Provider not available
	}

	summarizer := &Summarizer{
		provider: mockProvider,
		config:   Config{StrictEvidence: true},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), sampleResult())

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	if summary == nil {
		t.Fatal("Expected summary object with warnings")
	}

	if summary.Enabled {
		t.Error("Expected summary to be marked as disabled")
	}

	if len(summary.Warnings) == 0 {
		t.Error("Expected warning about provider unavailability")
	}

	// Check warning message
	found := false
	for _, warning := range summary.Warnings {
		if strings.Contains(warning, "not available") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected warning to mention provider unavailability")
	}
}

func TestSummarizer_GenerateSummary_Success(t *testing.T) {
	mockProvider := &MockProvider{
		name:      "test-provider",
		available: true,
		response: &SummarizeResponse{
			Summary:        "Beide Sätze sind durch die Quellen gestützt.",
			CitedCitations: []string{"§ 439 BGB", "§ 433 BGB"},
			Model:          "test-model",
			TokensUsed:     150,
		},
	}

	summarizer := &Summarizer{
		provider: mockProvider,
		config: Config{
			Model:          "test-model",
			StrictEvidence: true,
		},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), sampleResult())

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary == nil {
		t.Fatal("Expected summary to be generated")
	}

	if !summary.Enabled {
		t.Error("Expected summary to be enabled")
	}

	if summary.Provider != "test-provider" {
		t.Errorf("Expected provider 'test-provider', got '%s'", summary.Provider)
	}

	if summary.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", summary.Model)
	}

	if !summary.StrictEvidence {
		t.Error("Expected strict evidence mode to be enabled")
	}

	if summary.SummaryMD != "Beide Sätze sind durch die Quellen gestützt." {
		t.Errorf("Expected summary text to match, got '%s'", summary.SummaryMD)
	}

	// Check warnings include token usage and citation verification
	foundTokens := false
	foundCitations := false
	for _, warning := range summary.Warnings {
		if strings.Contains(warning, "Tokens used") {
			foundTokens = true
		}
		if strings.Contains(warning, "Verified") && strings.Contains(warning, "citations") {
			foundCitations = true
		}
	}

	if !foundTokens {
		t.Error("Expected warning about tokens used")
	}

	if !foundCitations {
		t.Error("Expected warning about verified citations")
	}
}

func TestSummarizer_GenerateSummary_RateLimiterHonored(t *testing.T) {
	mockProvider := &MockProvider{
		name:      "test-provider",
		available: true,
		response:  &SummarizeResponse{Summary: "ok"},
	}

	summarizer := &Summarizer{
		provider: mockProvider,
		config:   Config{Model: "test-model"},
		limiter:  ratelimit.NewLimiter(summaryRequestsPerSecond, summaryBurst),
	}

	// A canceled context must surface through the limiter as a warning, not
	// as a verification failure.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := summarizer.GenerateSummary(ctx, sampleResult())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary == nil {
		t.Fatal("Expected summary object with warnings")
	}
	if summary.SummaryMD != "" {
		t.Errorf("Expected no summary text, got '%s'", summary.SummaryMD)
	}

	found := false
	for _, warning := range summary.Warnings {
		if strings.Contains(warning, "summary generation failed") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected rate-limit failure warning, got %v", summary.Warnings)
	}
}

func TestSummarizer_GenerateSummary_ProviderError(t *testing.T) {
	mockProvider := &MockProvider{
		name:      "test-provider",
		available: true,
		err:       &mockError{msg: "API rate limit exceeded"},
	}

	summarizer := &Summarizer{
		provider: mockProvider,
		config: Config{
			Model:          "test-model",
			StrictEvidence: true,
		},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), sampleResult())

	// Should not fail the verification, just return summary with warnings
	if err != nil {
		t.Errorf("Expected no error (graceful degradation), got %v", err)
	}

	if summary == nil {
		t.Fatal("Expected summary with error warning")
	}

	if !summary.Enabled {
		t.Error("Expected summary to be marked as enabled (but failed)")
	}

	if len(summary.Warnings) == 0 {
		t.Fatal("Expected warning about generation failure")
	}

	// Check warning mentions the error
	found := false
	for _, warning := range summary.Warnings {
		if strings.Contains(warning, "failed") && strings.Contains(warning, "rate limit") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected warning to mention error: %v", summary.Warnings)
	}
}

func TestRenderSeparateMarkdown_Disabled(t *testing.T) {
	summary := &model.LLMSummary{
		Enabled: false,
	}

	md := RenderSeparateMarkdown(summary)

	if md != "" {
		t.Error("Expected empty markdown when disabled")
	}
}

func TestRenderSeparateMarkdown_Nil(t *testing.T) {
	md := RenderSeparateMarkdown(nil)

	if md != "" {
		t.Error("Expected empty markdown when nil")
	}
}

func TestRenderSeparateMarkdown_Success(t *testing.T) {
	summary := &model.LLMSummary{
		Enabled:        true,
		Provider:       "openai",
		Model:          "gpt-4o-mini",
		StrictEvidence: true,
		SummaryMD:      "This is the generated summary content.",
		Warnings: []string{
			"Tokens used: 150",
			"Verified 5 citations against the allowlist",
		},
	}

	md := RenderSeparateMarkdown(summary)

	if md == "" {
		t.Fatal("Expected markdown to be generated")
	}

	// Check required sections
	requiredSections := []string{
		"# LLM Summary",
		"GENERATED CONTENT",
		"Provider",
		"openai",
		"Model",
		"gpt-4o-mini",
		"Strict Evidence Mode",
		"true",
		"This is the generated summary content.",
		"## Notes",
		"Tokens used: 150",
		"Verified 5 citations",
	}

	for _, section := range requiredSections {
		if !strings.Contains(md, section) {
			t.Errorf("Expected markdown to contain '%s'", section)
		}
	}

	// Check disclaimer is present
	if !strings.Contains(md, "determined independently") {
		t.Error("Expected disclaimer about independence from LLM")
	}
}

func TestRenderSeparateMarkdown_NoSummary(t *testing.T) {
	summary := &model.LLMSummary{
		Enabled:        true,
		Provider:       "test-provider",
		StrictEvidence: true,
		SummaryMD:      "", // Empty summary
	}

	md := RenderSeparateMarkdown(summary)

	if !strings.Contains(md, "No summary generated") {
		t.Error("Expected message about no summary")
	}
}

func TestBuildPrompt_BasicStructure(t *testing.T) {
	result := sampleResult()
	allowed := []string{"§ 439 BGB", "§ 433 BGB"}

	prompt := BuildPrompt(result, allowed)

	// Check required elements
	requiredElements := []string{
		"CRITICAL RULES",
		"MUST ONLY reference citations from this allowed list",
		"§ 439 BGB",
		"§ 433 BGB",
		"DO NOT infer, speculate",
		"Overall Confidence: 0.82",
		"Trust Label: verified_moderate",
		"Sentences Analyzed: 2",
		"Verified: 1, Needs Review: 1, Rejected: 0",
		"Retries: 1",
		"SUPPORT QUALITY, not correctness",
	}

	for _, element := range requiredElements {
		if !strings.Contains(prompt, element) {
			t.Errorf("Expected prompt to contain '%s'", element)
		}
	}

	// The weakest sentence should be listed first
	idx1 := strings.Index(prompt, "Dies folgt aus § 433 BGB.")
	idx2 := strings.Index(prompt, "Der Käufer kann Nacherfüllung verlangen.")
	if idx1 < 0 || idx2 < 0 {
		t.Fatal("Expected both sentences in the prompt")
	}
	if idx1 > idx2 {
		t.Error("Expected lowest-confidence sentence to be listed first")
	}
}

func TestBuildPrompt_NoCitations(t *testing.T) {
	result := model.VerificationResult{
		OverallConfidence: 0.20,
		TrustLabel:        model.LabelRejected,
	}

	prompt := BuildPrompt(result, []string{})

	if !strings.Contains(prompt, "No citations available") {
		t.Error("Expected message about no citations")
	}
}

func TestBuildPrompt_ManyCitations(t *testing.T) {
	// Create 25 citations
	allowed := make([]string, 25)
	for i := 0; i < 25; i++ {
		allowed[i] = "§ " + string(rune('a'+i)) + " BGB"
	}

	prompt := BuildPrompt(sampleResult(), allowed)

	// Should limit to 20 citations and show "... and X more"
	if !strings.Contains(prompt, "and 5 more citations") {
		t.Error("Expected truncation message for many citations")
	}

	// First citation should be present
	if !strings.Contains(prompt, allowed[0]) {
		t.Error("Expected first citation to be in prompt")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Provider != "" {
		t.Errorf("Expected provider to be empty (disabled), got '%s'", config.Provider)
	}

	if !config.StrictEvidence {
		t.Error("Expected strict evidence to be enabled by default (CRITICAL)")
	}

	if config.Timeout <= 0 {
		t.Error("Expected positive timeout")
	}

	if config.MaxTokens <= 0 {
		t.Error("Expected positive max tokens")
	}
}

func TestSummarizer_IsEnabled(t *testing.T) {
	// Disabled summarizer
	disabled := &Summarizer{
		provider: nil,
	}

	if disabled.IsEnabled() {
		t.Error("Expected IsEnabled() to return false when provider is nil")
	}

	// Enabled summarizer
	enabled := &Summarizer{
		provider: &MockProvider{name: "test"},
	}

	if !enabled.IsEnabled() {
		t.Error("Expected IsEnabled() to return true when provider exists")
	}
}

func TestSummarizer_ProviderName(t *testing.T) {
	// Disabled summarizer
	disabled := &Summarizer{
		provider: nil,
	}

	if disabled.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}

	// Enabled summarizer
	enabled := &Summarizer{
		provider: &MockProvider{name: "test-provider"},
	}

	if enabled.ProviderName() != "test-provider" {
		t.Errorf("Expected provider name 'test-provider', got '%s'", enabled.ProviderName())
	}
}

func TestCollectCitations(t *testing.T) {
	result := model.VerificationResult{
		Sentences: []model.SentenceResult{
			{Sentence: model.Sentence{Citations: []string{"§ 433 BGB", "§ 439 BGB"}}},
			{Sentence: model.Sentence{Citations: []string{"§ 433 BGB"}}}, // duplicate
			{Sentence: model.Sentence{Citations: nil}},
		},
	}

	citations := collectCitations(result)

	if len(citations) != 2 {
		t.Fatalf("Expected 2 distinct citations, got %d: %v", len(citations), citations)
	}
	if citations[0] != "§ 433 BGB" || citations[1] != "§ 439 BGB" {
		t.Errorf("Expected first-seen order, got %v", citations)
	}
}

func TestCheckCitations_StrictLeak(t *testing.T) {
	req := SummarizeRequest{
		AllowedCitations: []string{"§ 433 BGB"},
		ExtractCitations: func(text string) []string {
			return []string{"§ 433 BGB", "§ 812 BGB"}
		},
	}

	_, err := checkCitations(req, "Gestützt auf § 433 BGB und § 812 BGB.", true)
	if err == nil {
		t.Fatal("Expected citation leak error")
	}
	if !strings.Contains(err.Error(), "CITATION LEAK") {
		t.Errorf("Expected CITATION LEAK error, got %v", err)
	}
}

func TestCheckCitations_NonStrict(t *testing.T) {
	req := SummarizeRequest{
		AllowedCitations: []string{"§ 433 BGB"},
		ExtractCitations: func(text string) []string {
			return []string{"§ 812 BGB"}
		},
	}

	cited, err := checkCitations(req, "Gestützt auf § 812 BGB.", false)
	if err != nil {
		t.Fatalf("Expected no error in non-strict mode, got %v", err)
	}
	if len(cited) != 1 || cited[0] != "§ 812 BGB" {
		t.Errorf("Unexpected cited citations: %v", cited)
	}
}

func TestCheckCitations_FallbackScan(t *testing.T) {
	// Without an extractor, usage is detected by scanning for allowlist entries.
	req := SummarizeRequest{
		AllowedCitations: []string{"§ 433 BGB", "§ 439 BGB"},
	}

	cited, err := checkCitations(req, "Die Aussage stützt sich auf § 433 BGB.", true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(cited) != 1 || cited[0] != "§ 433 BGB" {
		t.Errorf("Unexpected cited citations: %v", cited)
	}
}

func TestJoinCitations_Empty(t *testing.T) {
	result := joinCitations([]string{})

	if !strings.Contains(result, "No citations available") {
		t.Error("Expected message about no citations")
	}
}

func TestJoinCitations_Few(t *testing.T) {
	citations := []string{
		"§ 433 BGB",
		"§ 439 BGB",
	}

	result := joinCitations(citations)

	for _, c := range citations {
		if !strings.Contains(result, c) {
			t.Errorf("Expected result to contain %s", c)
		}
	}
}

// Mock error type for testing
type mockError struct {
	msg string
}

func (e *mockError) Error() string {
	return e.msg
}
