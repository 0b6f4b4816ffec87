package model

import "time"

// SentenceStatus classifies the verification outcome of a single sentence.
type SentenceStatus string

const (
	StatusVerified SentenceStatus = "verified"
	StatusReview   SentenceStatus = "review"
	StatusRejected SentenceStatus = "rejected"
)

// TrustLabel is the discrete bucket summarizing overall confidence.
type TrustLabel string

const (
	LabelVerifiedHigh     TrustLabel = "verified_high"
	LabelVerifiedModerate TrustLabel = "verified_moderate"
	LabelReviewRequired   TrustLabel = "review_required"
	LabelRejected         TrustLabel = "rejected"
)

// Status derives the coarse sentence-level status from a trust label.
func (l TrustLabel) Status() SentenceStatus {
	switch l {
	case LabelVerifiedHigh, LabelVerifiedModerate:
		return StatusVerified
	case LabelReviewRequired:
		return StatusReview
	default:
		return StatusRejected
	}
}

// SentenceResult is the scored outcome for one sentence. It is derived
// deterministically from the sentence, the sources, and the configuration,
// and is immutable once produced.
type SentenceResult struct {
	Sentence     Sentence       `json:"sentence"`
	Confidence   float64        `json:"confidence"` // [0,1]
	Status       SentenceStatus `json:"status"`
	BestMatch    *Match         `json:"best_match,omitempty"`
	Explanations []string       `json:"explanations,omitempty"`
	Warnings     []string       `json:"warnings,omitempty"`
}

// Fingerprint is a content-identity hash for one source.
type Fingerprint struct {
	SourceID    string `json:"source_id"`
	Fingerprint string `json:"fingerprint"` // 64-hex-char SHA-256 of the source text
	Changed     bool   `json:"changed"`     // Differs from the last recorded hash (or no prior record)
}

// VerificationResult is the aggregate output of one verify-answer call.
type VerificationResult struct {
	VerificationID    string           `json:"verification_id"`
	OverallConfidence float64          `json:"overall_confidence"` // [0,1]
	TrustLabel        TrustLabel       `json:"trust_label"`
	OverallStatus     SentenceStatus   `json:"overall_status"`
	Sentences         []SentenceResult `json:"sentence_results"` // Ordinal order matching the answer
	Fingerprints      []Fingerprint    `json:"fingerprints,omitempty"`
	RetryCount        int              `json:"retry_count"` // Total attempts made minus one
	ProcessingTimeMs  float64          `json:"processing_time_ms"`
	CreatedAt         time.Time        `json:"created_at"`

	// LLM holds the optional strict-evidence summary. It is generated after
	// scoring and never affects the confidence or the trust label.
	LLM *LLMSummary `json:"llm,omitempty"`
}

// LLMSummary contains the optional LLM-generated explanation of a result.
type LLMSummary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"`
	Model          string   `json:"model,omitempty"`
	StrictEvidence bool     `json:"strict_evidence"`
	SummaryMD      string   `json:"summary_md,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}
