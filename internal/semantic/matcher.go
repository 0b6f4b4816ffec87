// Package semantic pairs sentences with their best-supporting sources via
// embedding similarity.
package semantic

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/ksenkov/verdikt/internal/cache"
	"github.com/ksenkov/verdikt/internal/embed"
	"github.com/ksenkov/verdikt/internal/model"
)

const (
	// DefaultThreshold is the minimum similarity for a match.
	DefaultThreshold = 0.6

	// DefaultTopK bounds the internal candidate ranking.
	DefaultTopK = 5

	// similarityEpsilon is the window within which two similarities are
	// considered tied and deterministic tie-breaking applies.
	similarityEpsilon = 1e-9

	snippetRunes = 200
)

// Matcher computes best-match pairings between sentences and sources.
type Matcher struct {
	embedder embed.Embedder
	cache    cache.Cache // nil disables caching
	topK     int

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports embedding-cache effectiveness.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// NewMatcher creates a matcher. cache may be nil to disable caching.
func NewMatcher(embedder embed.Embedder, c cache.Cache, topK int) *Matcher {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Matcher{embedder: embedder, cache: c, topK: topK}
}

// Prewarm embeds and caches the given texts in one batched pass so later
// per-sentence matching hits the cache.
func (m *Matcher) Prewarm(ctx context.Context, texts []string) error {
	_, err := m.embedAll(ctx, texts)
	return err
}

// FindBestMatch returns the best source match for the sentence at or above
// the threshold, or nil when no source qualifies. Ties within a tiny
// similarity window resolve to the higher retrieval score, then the
// lexicographically lowest source ID.
func (m *Matcher) FindBestMatch(ctx context.Context, sentenceText string, sources []model.Source, threshold float64) (*model.Match, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	texts := make([]string, 0, len(sources)+1)
	texts = append(texts, sentenceText)
	for _, s := range sources {
		texts = append(texts, s.Text)
	}
	vectors, err := m.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}
	sentenceVec := l2Normalize(vectors[0])

	type candidate struct {
		source     model.Source
		similarity float64
	}
	candidates := make([]candidate, 0, len(sources))
	for i, s := range sources {
		sim := cosine(sentenceVec, l2Normalize(vectors[i+1]))
		if sim >= threshold {
			candidates = append(candidates, candidate{source: s, similarity: sim})
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		di := candidates[i].similarity - candidates[j].similarity
		if di > similarityEpsilon {
			return true
		}
		if di < -similarityEpsilon {
			return false
		}
		si, sj := candidates[i].source.Score(), candidates[j].source.Score()
		if si != sj {
			return si > sj
		}
		return candidates[i].source.SourceID < candidates[j].source.SourceID
	})
	if len(candidates) > m.topK {
		candidates = candidates[:m.topK]
	}
	best := candidates[0]
	return &model.Match{
		SourceID:   best.source.SourceID,
		Similarity: best.similarity,
		Snippet:    Snippet(best.source.Text),
	}, nil
}

// CacheStats returns hit/miss counters and the live entry count.
func (m *Matcher) CacheStats() Stats {
	s := Stats{Hits: m.hits.Load(), Misses: m.misses.Load()}
	if m.cache != nil {
		s.Entries = m.cache.Len()
	}
	return s
}

// embedAll returns one vector per text, serving cached vectors and fetching
// all misses in a single batched embedder call.
func (m *Matcher) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		if m.cache != nil {
			if vec, found := m.cache.Get(cache.Key(text)); found {
				vectors[i] = vec
				m.hits.Add(1)
				continue
			}
		}
		m.misses.Add(1)
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}
	if len(missTexts) == 0 {
		return vectors, nil
	}
	fetched, err := m.embedder.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, vec := range fetched {
		i := missIdx[j]
		vectors[i] = vec
		if m.cache != nil {
			m.cache.Set(cache.Key(texts[i]), vec, 0)
		}
	}
	return vectors, nil
}

// Snippet returns a bounded-length prefix of text, cut at a rune boundary.
func Snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetRunes {
		return text
	}
	return string(runes[:snippetRunes])
}
