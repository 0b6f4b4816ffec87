package model

import "errors"

// Error taxonomy for the verification core. Callers classify failures with
// errors.Is; packages wrap these sentinels with context via fmt.Errorf and %w.
var (
	// ErrValidation marks malformed input to VerifyAnswer. Validation
	// failures happen before any processing and leave no side effects.
	ErrValidation = errors.New("invalid verification input")

	// ErrSegmentation marks a failure of the sentence-segmentation
	// capability. Infrastructure failures are never retried by the
	// confidence-driven retry loop.
	ErrSegmentation = errors.New("sentence segmentation failed")

	// ErrEmbedding marks a failure of the embedding capability. Fatal for
	// the current attempt: a failed embedding is not scored as zero
	// confidence, since that would be indistinguishable from a genuine
	// low-quality match.
	ErrEmbedding = errors.New("embedding computation failed")
)
