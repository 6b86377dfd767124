package services

import (
	"regexp"
)

// JargonExtractor pulls candidate legal terms out of section text.
// The heuristic is deliberately coarse: capitalized words of four or
// more letters, which in legal prose catches defined terms like
// "Indemnification" and "Arbitration" at the cost of some proper nouns.
type JargonExtractor struct {
	termRegex *regexp.Regexp
}

func NewJargonExtractor() *JargonExtractor {
	return &JargonExtractor{
		termRegex: regexp.MustCompile(`\b[A-Z][a-zA-Z]{3,}\b`),
	}
}

// ExtractTerms returns the candidate terms in first-appearance order
// with duplicates removed.
func (je *JargonExtractor) ExtractTerms(text string) []string {
	matches := je.termRegex.FindAllString(text, -1)

	seen := make(map[string]bool, len(matches))
	terms := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		terms = append(terms, m)
	}

	return terms
}
