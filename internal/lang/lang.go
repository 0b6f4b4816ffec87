package lang

import "fmt"

// Span marks one sentence as byte offsets into the segmented text.
type Span struct {
	Start int // Inclusive
	End   int // Exclusive
}

// Segmenter splits text into ordered, non-overlapping sentence spans.
type Segmenter interface {
	Segment(text string) ([]Span, error)
}

// New returns the segmenter for a language code.
func New(language string) (Segmenter, error) {
	switch language {
	case "de", "":
		return NewGermanSegmenter(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", language)
	}
}
