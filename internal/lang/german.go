package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// germanAbbreviations are tokens whose trailing period does not end a
// sentence. Keys are stored without the final period, lowercased.
var germanAbbreviations = map[string]struct{}{
	"abs":    {},
	"art":    {},
	"nr":     {},
	"rn":     {},
	"s":      {},
	"vgl":    {},
	"ca":     {},
	"bzw":    {},
	"ggf":    {},
	"inkl":   {},
	"evtl":   {},
	"dr":     {},
	"prof":   {},
	"z.b":    {},
	"u.a":    {},
	"d.h":    {},
	"i.v.m":  {},
	"i.s.d":  {},
	"i.h.v":  {},
	"m.w.n":  {},
	"sog":    {},
	"etc":    {},
	"usw":    {},
	"ff":     {},
	"f":      {},
	"urt":    {},
	"beschl": {},
	"az":     {},
	"v":      {},
}

// GermanSegmenter is a rule-based sentence splitter tuned for German legal
// prose: abbreviation-aware, ordinal-number-aware, and tolerant of section
// signs at sentence starts.
type GermanSegmenter struct{}

// NewGermanSegmenter returns a segmenter for German text.
func NewGermanSegmenter() *GermanSegmenter {
	return &GermanSegmenter{}
}

// Segment splits text into sentence spans over the input bytes.
func (g *GermanSegmenter) Segment(text string) ([]Span, error) {
	var spans []Span
	start := 0
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '.' || r == '!' || r == '?' {
			end := i + size
			// Swallow a run of closing punctuation after the terminator.
			for end < len(text) {
				nr, ns := utf8.DecodeRuneInString(text[end:])
				if nr == '"' || nr == '\'' || nr == ')' || nr == ']' || nr == '“' || nr == '’' {
					end += ns
					continue
				}
				break
			}
			if g.isBoundary(text, i, r, end) {
				spans = append(spans, Span{Start: start, End: end})
				start = skipSpace(text, end)
				i = start
				continue
			}
		}
		i += size
	}
	if start < len(text) {
		if rest := strings.TrimSpace(text[start:]); rest != "" {
			spans = append(spans, Span{Start: start, End: len(text)})
		}
	}
	return spans, nil
}

// isBoundary decides whether the terminator at offset i ends a sentence.
// end points past the terminator and any trailing closing punctuation.
func (g *GermanSegmenter) isBoundary(text string, i int, term rune, end int) bool {
	if end >= len(text) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[end:])
	if !unicode.IsSpace(next) {
		return false
	}
	if term != '.' {
		return true
	}
	tok := tokenBefore(text, i)
	if tok == "" {
		return false
	}
	if _, ok := germanAbbreviations[strings.ToLower(tok)]; ok {
		return false
	}
	// "am 3. Januar", "1. Auflage": a short bare number is an ordinal.
	if isAllDigits(tok) && len(tok) <= 2 {
		return false
	}
	// Require a plausible sentence start after the whitespace.
	j := skipSpace(text, end)
	if j >= len(text) {
		return true
	}
	first, _ := utf8.DecodeRuneInString(text[j:])
	return unicode.IsUpper(first) || unicode.IsDigit(first) ||
		first == '§' || first == '"' || first == '„' || first == '('
}

// tokenBefore returns the word immediately preceding offset i, including
// internal periods so multi-dot abbreviations resolve as one token.
func tokenBefore(text string, i int) string {
	j := i
	for j > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:j])
		if unicode.IsSpace(r) || r == '(' || r == '"' || r == '„' {
			break
		}
		j -= size
	}
	return strings.TrimSuffix(text[j:i], ".")
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
