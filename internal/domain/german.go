package domain

import "regexp"

// Statute codes and courts recognized in German legal citations.
const (
	lawCodes = `BGB|StGB|ZPO|StPO|GG|HGB|AktG|GmbHG|InsO|UrhG|PatG|VwGO|AO|EStG|ArbGG|KSchG|TzBfG`
	courts   = `BVerfG|BVerwG|BGH|BAG|BFH|BSG|VGH|OVG|OLG|LG|AG|ArbG|LAG|SG|VG|FG`
)

var germanPatterns = []*regexp.Regexp{
	// § 433, §§ 433 ff., § 280 Abs. 1 S. 2 BGB
	regexp.MustCompile(`§§?\s*\d+[a-z]?(?:\s+Abs\.\s*\d+)?(?:\s+S(?:\.|atz)\s*\d+)?(?:\s+(?:` + lawCodes + `))?`),
	// Art. 2 Abs. 1 GG
	regexp.MustCompile(`Art\.\s*\d+[a-z]?(?:\s+Abs\.\s*\d+)?(?:\s+(?:` + lawCodes + `))?`),
	// Abs. 3 standing alone (follow-up references)
	regexp.MustCompile(`Abs\.\s*\d+`),
	// BGH, Urteil vom 12.03.2020 - VIII ZR 123/19
	regexp.MustCompile(`(?:` + courts + `)\s*,?\s+(?:Urt(?:\.|eil)|Beschl(?:\.|uss))\.?\s+(?:v\.|vom)\s+\d{1,2}\.\d{1,2}\.\d{2,4}(?:\s*[-,]\s*[IVXLC\d]+\s*[A-Za-z]+\s*\d+/\d+)?`),
	// Bare court mentions
	regexp.MustCompile(`\b(?:` + courts + `)\b`),
	// Bare law-code mentions
	regexp.MustCompile(`\b(?:` + lawCodes + `)\b`),
}

// GermanLegal recognizes German statute, article, and court citations.
type GermanLegal struct{}

// NewGermanLegal returns the legal.german domain.
func NewGermanLegal() *GermanLegal {
	return &GermanLegal{}
}

func (d *GermanLegal) Name() string { return "legal.german" }

func (d *GermanLegal) ExtractCitations(text string) []string {
	return extractWithPatterns(text, germanPatterns)
}
