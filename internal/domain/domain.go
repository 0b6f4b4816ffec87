// Package domain provides pluggable citation extraction for verification
// inputs. A domain knows the citation syntax of its field and nothing else.
package domain

import (
	"fmt"
	"regexp"
	"sort"
)

// Domain extracts domain-specific citations from text.
type Domain interface {
	// Name returns the preset identifier.
	Name() string

	// ExtractCitations returns citations in first-occurrence order.
	// Duplicate mentions are preserved. Extraction never fails; text with
	// no citations yields an empty slice.
	ExtractCitations(text string) []string
}

// New resolves a domain preset by name.
func New(preset string) (Domain, error) {
	switch preset {
	case "legal.german", "":
		return NewGermanLegal(), nil
	case "generic":
		return NewGeneric(), nil
	default:
		return nil, fmt.Errorf("unknown domain preset: %s", preset)
	}
}

// extractWithPatterns runs all patterns over the text and resolves overlaps
// by keeping the longest match at each position.
func extractWithPatterns(text string, patterns []*regexp.Regexp) []string {
	type span struct {
		start, end int
		text       string
	}
	var found []span
	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			found = append(found, span{start: loc[0], end: loc[1], text: text[loc[0]:loc[1]]})
		}
	}
	if len(found) == 0 {
		return nil
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].start != found[j].start {
			return found[i].start < found[j].start
		}
		return found[i].end > found[j].end
	})
	citations := make([]string, 0, len(found))
	lastEnd := -1
	for _, s := range found {
		if s.start < lastEnd {
			continue
		}
		citations = append(citations, s.text)
		lastEnd = s.end
	}
	return citations
}
