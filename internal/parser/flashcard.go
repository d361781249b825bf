package parser

import (
	"regexp"
	"strings"

	"github.com/pep299/leeai-studio/internal/model"
)

var flashcardPatterns = struct {
	cardMarker *regexp.Regexp
	question   *regexp.Regexp
	answer     *regexp.Regexp
	boldQ      *regexp.Regexp
	boldA      *regexp.Regexp
}{
	cardMarker: regexp.MustCompile(`(?i)CARD:\s*\d+`),
	question:   regexp.MustCompile(`(?i)\bQ:`),
	answer:     regexp.MustCompile(`(?i)\nA:`),
	boldQ:      regexp.MustCompile(`(?i)\*\*Q:\*\*`),
	boldA:      regexp.MustCompile(`(?i)\*\*A:\*\*`),
}

// Flashcards parses "CARD: n / Q: / A:" blocks, falling back to
// "**Q:** ... **A:** ..." pairs when no card block yields a card.
func Flashcards(text string) []model.Card {
	text = normalize(text)

	cards := cardBlocks(text)
	if len(cards) == 0 {
		cards = boldPairs(text)
	}
	return cards
}

func cardBlocks(text string) []model.Card {
	blocks, marked := splitAt(text, flashcardPatterns.cardMarker)
	if !marked {
		return nil
	}

	var cards []model.Card
	for _, block := range blocks {
		qLoc := flashcardPatterns.question.FindStringIndex(block)
		if qLoc == nil {
			continue
		}
		rest := block[qLoc[1]:]
		aLoc := flashcardPatterns.answer.FindStringIndex(rest)
		if aLoc == nil {
			continue
		}
		q := strings.TrimSpace(rest[:aLoc[0]])
		a := strings.TrimSpace(rest[aLoc[1]:])
		if q == "" || a == "" {
			continue
		}
		cards = append(cards, model.Card{Question: q, Answer: a})
	}
	return cards
}

func boldPairs(text string) []model.Card {
	var cards []model.Card
	for _, seg := range splitBefore(text, flashcardPatterns.boldQ) {
		qLoc := flashcardPatterns.boldQ.FindStringIndex(seg)
		if qLoc == nil || qLoc[0] != 0 {
			continue
		}
		body := seg[qLoc[1]:]
		aLoc := flashcardPatterns.boldA.FindStringIndex(body)
		if aLoc == nil {
			continue
		}
		q := strings.TrimSpace(body[:aLoc[0]])
		a := strings.TrimSpace(body[aLoc[1]:])
		if q == "" || a == "" {
			continue
		}
		cards = append(cards, model.Card{Question: q, Answer: a})
	}
	return cards
}
