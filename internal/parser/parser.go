// Package parser recovers structured study material from the semi-formatted
// text returned by the generation service.
//
// Every parser is a total function: it never panics and never returns an
// error. Input that matches none of a format's patterns yields an empty
// result, which callers treat as "show the raw text instead".
package parser

import (
	"regexp"
	"strings"
)

// bulletMarkers are the characters that open a bullet line
const bulletMarkers = "•-*"

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalize unifies line endings so every grammar can split on "\n"
func normalize(text string) string {
	return lineBreaks.Replace(text)
}

// splitBefore cuts text at every match start of re, keeping the match at the
// head of its segment. Text before the first match forms its own segment.
// Blank segments are dropped.
func splitBefore(text string, re *regexp.Regexp) []string {
	locs := re.FindAllStringIndex(text, -1)
	var segments []string
	start := 0
	for _, loc := range locs {
		if loc[0] > start {
			segments = append(segments, text[start:loc[0]])
		}
		start = loc[0]
	}
	segments = append(segments, text[start:])

	out := segments[:0]
	for _, s := range segments {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// splitAt cuts text at every match of re, discarding the matches themselves.
// Blank segments are dropped. The second result reports whether re matched.
func splitAt(text string, re *regexp.Regexp) ([]string, bool) {
	parts := re.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out, len(parts) > 1
}

// nonBlankLines returns the lines of text that contain more than whitespace
func nonBlankLines(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// stripBullet removes a leading bullet marker. ok is false when line does not
// start with one.
func stripBullet(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	for _, m := range bulletMarkers {
		if strings.HasPrefix(trimmed, string(m)) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, string(m))), true
		}
	}
	return "", false
}

// markersOnly reports whether s holds nothing but bullet markers and spaces,
// as left behind by horizontal rules or stray emphasis.
func markersOnly(s string) bool {
	return strings.Trim(s, bulletMarkers+" \t") == ""
}
