package parser

import (
	"regexp"
	"strings"
)

var (
	factLine   = regexp.MustCompile(`^\d+[.)]\s`)
	factMarker = regexp.MustCompile(`^\d+[.)]\s*`)
)

// KeyFacts returns the numbered-list entries of text in document order.
// The original numbering is discarded; display labels are 1..N.
func KeyFacts(text string) []string {
	text = normalize(text)

	var facts []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if !factLine.MatchString(line) {
			continue
		}
		if fact := strings.TrimSpace(factMarker.ReplaceAllString(line, "")); fact != "" {
			facts = append(facts, fact)
		}
	}
	return facts
}
