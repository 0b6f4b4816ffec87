package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ksenkov/verdikt/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a summary of the verification result with strict
	// evidence mode
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Result is the verification result to summarize
	Result model.VerificationResult

	// AllowedCitations is the STRICT allowlist of citations the LLM can use.
	// This prevents hallucination - the LLM cannot reference any provision or
	// decision not in this list.
	AllowedCitations []string

	// ExtractCitations finds citations in generated text, usually the domain
	// module's extractor. When nil, cited citations are detected by scanning
	// the summary for allowlist entries and no leak check is possible.
	ExtractCitations func(text string) []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated summary text
	Summary string

	// CitedCitations are the citations the LLM actually used (for verification)
	CitedCitations []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictEvidence enforces the citation allowlist (should always be true)
	StrictEvidence bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "", // Disabled by default
		Model:          "",
		Timeout:        30,
		StrictEvidence: true, // CRITICAL: Always enforce
		MaxTokens:      1000,
	}
}

// BuildPrompt constructs the default prompt for summarization with strict evidence mode
func BuildPrompt(result model.VerificationResult, allowedCitations []string) string {
	prompt := fmt.Sprintf(`You are summarizing an answer verification report. The report measures how well each sentence of a legal answer is supported by the provided sources - it NEVER asserts legal truth or correctness.

CRITICAL RULES:
1. You MUST ONLY reference citations from this allowed list:
%s

2. DO NOT infer, speculate, or reference provisions or decisions beyond this list.
3. If support is weak or missing, state that explicitly.
4. Focus on SUPPORT QUALITY, not correctness. Use phrases like:
   - "The sentence is supported by the cited source..."
   - "Support is lacking for..."
5. Never say "this is legally correct" or "this is wrong" - only describe support.

Report Summary:
- Overall Confidence: %.2f
- Trust Label: %s
- Sentences Analyzed: %d
- Verified: %d, Needs Review: %d, Rejected: %d
- Retries: %d

Weakest Sentences:
`, joinCitations(allowedCitations), result.OverallConfidence, result.TrustLabel,
		len(result.Sentences),
		countStatus(result.Sentences, model.StatusVerified),
		countStatus(result.Sentences, model.StatusReview),
		countStatus(result.Sentences, model.StatusRejected),
		result.RetryCount)

	// Add the 3 lowest-confidence sentences
	for _, sr := range weakestSentences(result.Sentences, 3) {
		prompt += fmt.Sprintf("- [%.2f] %s\n", sr.Confidence, truncateText(sr.Sentence.Text, 120))
	}

	prompt += "\nProvide a 3-4 sentence summary focusing on support quality, not correctness."

	return prompt
}

// checkCitations extracts the citations the generated summary actually used
// and, in strict mode, rejects any citation outside the allowlist.
func checkCitations(req SummarizeRequest, summary string, strict bool) ([]string, error) {
	if req.ExtractCitations == nil {
		// No extractor: detect usage by allowlist scan. Leaks cannot be
		// detected this way, only usage.
		var cited []string
		for _, c := range req.AllowedCitations {
			if strings.Contains(summary, c) {
				cited = append(cited, c)
			}
		}
		return cited, nil
	}

	cited := dedup(req.ExtractCitations(summary))
	if strict {
		for _, c := range cited {
			if !contains(req.AllowedCitations, c) {
				return nil, fmt.Errorf("CITATION LEAK: LLM cited disallowed citation: %s", c)
			}
		}
	}
	return cited, nil
}

// Helper functions

func joinCitations(citations []string) string {
	if len(citations) == 0 {
		return "(No citations available)"
	}
	result := ""
	for i, c := range citations {
		if i >= 20 { // Limit to first 20 to avoid token bloat
			result += fmt.Sprintf("\n... and %d more citations", len(citations)-20)
			break
		}
		result += fmt.Sprintf("\n- %s", c)
	}
	return result
}

func countStatus(sentences []model.SentenceResult, status model.SentenceStatus) int {
	count := 0
	for _, s := range sentences {
		if s.Status == status {
			count++
		}
	}
	return count
}

func weakestSentences(sentences []model.SentenceResult, n int) []model.SentenceResult {
	sorted := make([]model.SentenceResult, len(sentences))
	copy(sorted, sentences)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence < sorted[j].Confidence
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func truncateText(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes]) + "..."
}

func dedup(items []string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		unique = append(unique, item)
	}
	return unique
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
