// Package fingerprint detects source-content drift between verification
// runs via content hashes.
package fingerprint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/ksenkov/verdikt/internal/model"
)

// History looks up the most recently recorded fingerprint per source.
type History interface {
	GetLatest(ctx context.Context, sourceID string) (fingerprint string, found bool, err error)
}

// Hash returns the SHA-256 hex fingerprint of a source text. The full
// digest is kept; truncation would trade collision resistance for nothing.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Tracker computes fingerprints and change flags against recorded history.
type Tracker struct {
	history History
}

// NewTracker builds a tracker over a fingerprint history.
func NewTracker(history History) *Tracker {
	return &Tracker{history: history}
}

// Track fingerprints each source and flags it as changed when no prior
// fingerprint exists or the recorded one differs. A history lookup failure
// counts as no prior record.
func (t *Tracker) Track(ctx context.Context, sources []model.Source) []model.Fingerprint {
	out := make([]model.Fingerprint, len(sources))
	for i, s := range sources {
		fp := Hash(s.Text)
		changed := true
		if t.history != nil {
			if prev, found, err := t.history.GetLatest(ctx, s.SourceID); err == nil && found {
				changed = prev != fp
			}
		}
		out[i] = model.Fingerprint{
			SourceID:    s.SourceID,
			Fingerprint: fp,
			Changed:     changed,
		}
	}
	return out
}
