package model

// Source represents one retrieved document snippet supplied as verification input.
// Sources are owned by the caller and never mutated by the verification core.
type Source struct {
	SourceID       string            `json:"source_id"`                 // Unique within a request
	Text           string            `json:"text"`                      // Snippet text (1-50,000 chars)
	RetrievalScore *float64          `json:"retrieval_score,omitempty"` // Upstream RAG confidence in [0,1], optional
	Metadata       map[string]string `json:"metadata,omitempty"`        // Opaque caller metadata
}

// Score returns the retrieval score, or the neutral default when the
// upstream retriever did not supply one.
func (s Source) Score() float64 {
	if s.RetrievalScore == nil {
		return NeutralRetrievalScore
	}
	return *s.RetrievalScore
}

// HasScore reports whether the caller supplied a retrieval score.
func (s Source) HasScore() bool {
	return s.RetrievalScore != nil
}

// NeutralRetrievalScore is used when a source carries no retrieval score.
// Absence of an upstream score should not be penalized to zero.
const NeutralRetrievalScore = 0.5

// Sentence is one segmented unit of the answer under verification.
type Sentence struct {
	Text      string   `json:"text"`
	Ordinal   int      `json:"ordinal_position"`          // 0-based order in the answer
	Citations []string `json:"citations_found,omitempty"` // First-occurrence order, duplicates preserved
}

// Match is the best semantic pairing between a sentence and a source.
// At most one match exists per sentence; absence is a valid state.
type Match struct {
	SourceID   string  `json:"source_id"`
	Similarity float64 `json:"similarity"`   // Cosine similarity clamped to [0,1]
	Snippet    string  `json:"text_snippet"` // Bounded-length prefix of the matched source
}
