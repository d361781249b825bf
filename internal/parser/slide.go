package parser

import (
	"regexp"
	"strings"

	"github.com/pep299/leeai-studio/internal/model"
)

var slidePatterns = struct {
	marker *regexp.Regexp
	title  *regexp.Regexp
	bullet *regexp.Regexp
}{
	marker: regexp.MustCompile(`(?i)SLIDE:\s*\d+`),
	title:  regexp.MustCompile(`(?i)\bTITLE:[ \t]*(.+)`),
	bullet: regexp.MustCompile(`(?m)^[ \t]*[•\-*][ \t]*(.+)$`),
}

// Slides parses "SLIDE: n" blocks. A block must carry a TITLE: line; bullet
// lines keep document order. Text without slide markers is treated as a
// single block.
func Slides(text string) []model.Slide {
	text = normalize(text)

	blocks, _ := splitAt(text, slidePatterns.marker)
	var slides []model.Slide
	for _, block := range blocks {
		m := slidePatterns.title.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		if title == "" {
			continue
		}
		bullets := []string{}
		for _, b := range slidePatterns.bullet.FindAllStringSubmatch(block, -1) {
			if s := strings.TrimSpace(b[1]); !markersOnly(s) {
				bullets = append(bullets, s)
			}
		}
		slides = append(slides, model.Slide{Title: title, Bullets: bullets})
	}
	return slides
}
