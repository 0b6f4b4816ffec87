// Package sentence turns an answer into ordered, citation-annotated
// sentences ready for matching and scoring.
package sentence

import (
	"fmt"
	"strings"

	"github.com/ksenkov/verdikt/internal/domain"
	"github.com/ksenkov/verdikt/internal/lang"
	"github.com/ksenkov/verdikt/internal/model"
)

// Processor segments answers and attaches per-sentence citations.
type Processor struct {
	segmenter lang.Segmenter
	domain    domain.Domain
}

// NewProcessor builds a processor from a segmenter and a citation domain.
func NewProcessor(seg lang.Segmenter, d domain.Domain) *Processor {
	return &Processor{segmenter: seg, domain: d}
}

// Process segments the answer into sentences with 0-based ordinals and
// citations in first-occurrence order. Empty or whitespace-only input yields
// an empty list. Short sentences are kept; flagging them is the scorer's job.
func (p *Processor) Process(answer string) ([]model.Sentence, error) {
	if strings.TrimSpace(answer) == "" {
		return []model.Sentence{}, nil
	}
	normalized := lang.Normalize(answer)
	spans, err := p.segmenter.Segment(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSegmentation, err)
	}
	sentences := make([]model.Sentence, 0, len(spans))
	for _, sp := range spans {
		text := strings.TrimSpace(normalized[sp.Start:sp.End])
		if text == "" {
			continue
		}
		sentences = append(sentences, model.Sentence{
			Text:      text,
			Ordinal:   len(sentences),
			Citations: p.domain.ExtractCitations(text),
		})
	}
	return sentences, nil
}

// AnswerCitations extracts all citations from the full answer text in
// first-occurrence order, for answer-level coverage.
func (p *Processor) AnswerCitations(answer string) []string {
	return p.domain.ExtractCitations(lang.Normalize(answer))
}
