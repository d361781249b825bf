package parser

import (
	"regexp"
	"strings"

	"github.com/pep299/leeai-studio/internal/model"
)

var infographicPatterns = struct {
	title    *regexp.Regexp
	subtitle *regexp.Regexp
	stat     *regexp.Regexp
	section  *regexp.Regexp
	takeaway *regexp.Regexp
}{
	title:    regexp.MustCompile(`(?i)\bTITLE:[ \t]*(.+)`),
	subtitle: regexp.MustCompile(`(?i)\bSUBTITLE:[ \t]*(.+)`),
	stat:     regexp.MustCompile(`(?i)\bSTAT:[ \t]*(.+?)[ \t]*\|[ \t]*(.+)`),
	section:  regexp.MustCompile(`(?i)\bSECTION:\s*`),
	takeaway: regexp.MustCompile(`(?i)\bTAKEAWAY:[ \t]*(.+)`),
}

// Infographic extracts every optional infographic field independently.
// Check the result with IsEmpty before rendering it.
func Infographic(text string) model.Infographic {
	text = normalize(text)

	info := model.Infographic{
		Title:    firstGroup(infographicPatterns.title, text),
		Subtitle: firstGroup(infographicPatterns.subtitle, text),
		Takeaway: firstGroup(infographicPatterns.takeaway, text),
		Stats:    []model.Stat{},
		Sections: []model.Section{},
	}

	for _, m := range infographicPatterns.stat.FindAllStringSubmatch(text, -1) {
		info.Stats = append(info.Stats, model.Stat{
			Label: strings.TrimSpace(m[1]),
			Value: strings.TrimSpace(m[2]),
		})
	}

	// The text ahead of the first SECTION: marker is header material.
	blocks := infographicPatterns.section.Split(text, -1)
	for _, block := range blocks[1:] {
		lines := nonBlankLines(block)
		if len(lines) == 0 {
			continue
		}
		title := strings.TrimSpace(lines[0])
		if title == "" {
			continue
		}
		bullets := []string{}
		for _, line := range lines[1:] {
			if b, ok := stripBullet(line); ok && !markersOnly(b) {
				bullets = append(bullets, b)
			}
		}
		info.Sections = append(info.Sections, model.Section{Title: title, Bullets: bullets})
	}

	return info
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
