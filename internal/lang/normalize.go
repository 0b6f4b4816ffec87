package lang

import "strings"

var normalizer = strings.NewReplacer(
	" ", " ",
	"„", "\"",
	"“", "\"",
	"”", "\"",
	"‘", "'",
	"’", "'",
	"«", "\"",
	"»", "\"",
	"–", "-",
	"—", "-",
	"…", "...",
	"§ §", "§§",
)

// Normalize unifies typographic variants common in German legal text so
// segmentation and citation patterns see a consistent form. Offsets into the
// normalized text are not valid against the input.
func Normalize(text string) string {
	text = normalizer.Replace(text)
	// "§823" and "§§433" appear in pasted text; patterns expect a space.
	var b strings.Builder
	b.Grow(len(text))
	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if r == '§' && i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9' {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
