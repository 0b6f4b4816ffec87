// Package sanitize flattens HTML source snippets to plain text before
// matching. Fingerprints are computed over the raw input, not the
// sanitized form, so markup changes still count as content changes.
package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// Clean returns the plain-text form of a source snippet. Non-HTML input
// passes through unchanged apart from whitespace collapsing being skipped.
func Clean(text string) string {
	if !looksLikeHTML(text) {
		return text
	}
	return ExtractText(text)
}

// ExtractText parses an HTML fragment and returns its visible text with
// whitespace collapsed. Script and style contents are dropped.
func ExtractText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(b.String()), " ")
}

// looksLikeHTML is a cheap tag heuristic; full parsing decides the rest.
func looksLikeHTML(text string) bool {
	open := strings.IndexByte(text, '<')
	if open < 0 {
		return false
	}
	end := strings.IndexByte(text[open:], '>')
	return end > 1
}
