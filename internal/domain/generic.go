package domain

import "regexp"

var genericPatterns = []*regexp.Regexp{
	// Bracketed reference markers: [1], [12]
	regexp.MustCompile(`\[\d+\]`),
	// Parenthetical author-year: (Miller 2019), (Miller et al. 2019)
	regexp.MustCompile(`\([A-Z][A-Za-z-]+(?:\s+et\s+al\.)?,?\s+\d{4}\)`),
}

// Generic recognizes bracketed markers and author-year references. It is the
// fallback for answers outside a configured specialty domain.
type Generic struct{}

// NewGeneric returns the generic domain.
func NewGeneric() *Generic {
	return &Generic{}
}

func (d *Generic) Name() string { return "generic" }

func (d *Generic) ExtractCitations(text string) []string {
	return extractWithPatterns(text, genericPatterns)
}
