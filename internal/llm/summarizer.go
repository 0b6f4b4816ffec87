package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ksenkov/verdikt/internal/model"
	"github.com/ksenkov/verdikt/internal/ratelimit"
)

// Summary requests are throttled per provider.
const (
	summaryRequestsPerSecond = 2
	summaryBurst             = 2
)

// Summarizer generates optional LLM summaries of verification results. The
// summary is presentation-only: confidence scores and trust labels are
// computed before the summarizer runs and are never affected by it.
type Summarizer struct {
	provider Provider
	config   Config
	extract  func(string) []string
	limiter  *ratelimit.Limiter
}

// NewSummarizer creates a summarizer from configuration. An empty provider
// name yields a disabled summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	return &Summarizer{
		provider: provider,
		config:   config,
		limiter:  ratelimit.NewLimiter(summaryRequestsPerSecond, summaryBurst),
	}, nil
}

// SetCitationExtractor installs the domain citation extractor used to detect
// citation leaks in generated summaries.
func (s *Summarizer) SetCitationExtractor(fn func(text string) []string) {
	s.extract = fn
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled.
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary produces a summary of the verification result. Provider
// failures degrade to warnings on the returned summary; the verification
// itself never fails because of the LLM.
func (s *Summarizer) GenerateSummary(ctx context.Context, result model.VerificationResult) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	summary := &model.LLMSummary{
		Provider:       s.provider.Name(),
		Model:          s.config.Model,
		StrictEvidence: s.config.StrictEvidence,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Enabled = false
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("LLM provider %s is not available (check configuration and credentials)", s.provider.Name()))
		return summary, nil
	}

	summary.Enabled = true

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.provider.Name()); err != nil {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("LLM summary generation failed: %v", err))
			return summary, nil
		}
	}

	req := SummarizeRequest{
		Result:           result,
		AllowedCitations: collectCitations(result),
		ExtractCitations: s.extract,
		Model:            s.config.Model,
		MaxTokens:        s.config.MaxTokens,
	}

	resp, err := s.provider.Summarize(ctx, req)
	if err != nil {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("LLM summary generation failed: %v", err))
		return summary, nil
	}

	summary.SummaryMD = resp.Summary
	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.Warnings = append(summary.Warnings,
		fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
		fmt.Sprintf("Verified %d citations against the allowlist", len(resp.CitedCitations)))

	return summary, nil
}

// collectCitations gathers the distinct citations across all sentences,
// preserving first-seen order. This is the allowlist the LLM may reference.
func collectCitations(result model.VerificationResult) []string {
	var all []string
	for _, sr := range result.Sentences {
		all = append(all, sr.Sentence.Citations...)
	}
	return dedup(all)
}

// RenderSeparateMarkdown renders the LLM summary as a standalone markdown
// section, clearly separated from the deterministic verification output.
// Returns "" when the summary is nil or disabled.
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder

	b.WriteString("# LLM Summary\n\n")
	b.WriteString("> **GENERATED CONTENT** - This section was produced by a language model.\n")
	b.WriteString("> Confidence scores and trust labels were determined independently and are\n")
	b.WriteString("> not influenced by this text.\n\n")

	fmt.Fprintf(&b, "- **Provider**: %s\n", summary.Provider)
	fmt.Fprintf(&b, "- **Model**: %s\n", summary.Model)
	fmt.Fprintf(&b, "- **Strict Evidence Mode**: %t\n\n", summary.StrictEvidence)

	if summary.SummaryMD == "" {
		b.WriteString("No summary generated.\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
