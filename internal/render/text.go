package render

import (
	"fmt"
	"strings"

	"github.com/pep299/leeai-studio/internal/model"
	"github.com/pep299/leeai-studio/internal/session"
)

// Text renders the static part of a view for a terminal. Interactive kinds
// only get a header line; their bodies come from CardText, QuestionText and
// SlideText as the session moves.
func Text(v View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", v.Icon, v.Tool)

	switch v.Kind {
	case KindFlashcards:
		fmt.Fprintf(&b, "%d cards\n", len(v.Cards))
	case KindQuiz:
		fmt.Fprintf(&b, "%d questions (%s)\n", len(v.MCQuestions)+len(v.SAQuestions), v.QuestionType)
	case KindSlides:
		fmt.Fprintf(&b, "%d slides\n", len(v.Slides))
	case KindInfographic:
		writeInfographic(&b, v.Infographic)
	case KindKeyFacts:
		fmt.Fprintf(&b, "%d Key Facts\n\n", len(v.Facts))
		for _, f := range v.Facts {
			fmt.Fprintf(&b, "%s  %s\n", f.Label, f.Text)
		}
	case KindConceptMap:
		for _, c := range v.Concepts {
			fmt.Fprintf(&b, "%s%s %s\n", strings.Repeat("  ", c.Depth), conceptBullet(c.Kind), c.Text)
		}
	default:
		b.WriteString(v.Raw)
		if !strings.HasSuffix(v.Raw, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func writeInfographic(b *strings.Builder, info *InfographicView) {
	if info.Title != "" {
		fmt.Fprintf(b, "%s\n", strings.ToUpper(info.Title))
	}
	if info.Subtitle != "" {
		fmt.Fprintf(b, "%s\n", info.Subtitle)
	}
	if len(info.Stats) > 0 {
		b.WriteByte('\n')
		for _, s := range info.Stats {
			fmt.Fprintf(b, "  %-8s %s\n", s.Value, s.Label)
		}
	}
	for _, s := range info.Sections {
		fmt.Fprintf(b, "\n■ %s\n", s.Title)
		for _, bullet := range s.Bullets {
			fmt.Fprintf(b, "  • %s\n", bullet)
		}
	}
	if info.Takeaway != "" {
		fmt.Fprintf(b, "\n💡 %s\n", info.Takeaway)
	}
}

func conceptBullet(k model.NodeKind) string {
	switch k {
	case model.KindRoot:
		return "◆"
	case model.KindBranch:
		return "▸"
	default:
		return "•"
	}
}

// CardText shows the face of the current flashcard
func CardText(card model.Card, s session.DeckState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d / %d", s.Index+1, len(s.Order))
	if s.Shuffled {
		b.WriteString("  (shuffled)")
	}
	b.WriteString("\n\n")
	if s.Flipped {
		fmt.Fprintf(&b, "ANSWER\n%s\n", card.Answer)
	} else {
		fmt.Fprintf(&b, "QUESTION\n%s\n", card.Question)
	}
	return b.String()
}

// QuestionText shows the current quiz question, with feedback once it is
// answered. A multiple-choice question without an answer key highlights
// nothing.
func QuestionText(v View, s session.QuizState) string {
	var b strings.Builder
	total := len(v.MCQuestions) + len(v.SAQuestions)
	fmt.Fprintf(&b, "%d / %d", s.Current+1, total)
	if len(v.MCQuestions) > 0 {
		fmt.Fprintf(&b, "  Score: %d", s.Score)
	}
	fmt.Fprintf(&b, "\n\nQuestion %d\n", s.Current+1)

	correct, answered := s.Answered[s.Current]
	if len(v.SAQuestions) > 0 {
		q := v.SAQuestions[s.Current]
		fmt.Fprintf(&b, "%s\n", q.Question)
		if answered {
			fmt.Fprintf(&b, "\nModel Answer\n%s\n", q.Answer)
		}
		return b.String()
	}

	q := v.MCQuestions[s.Current]
	fmt.Fprintf(&b, "%s\n\n", q.Question)
	for _, letter := range q.Letters() {
		mark := " "
		if answered && q.IsCorrect(letter) {
			mark = "✓"
		}
		fmt.Fprintf(&b, " %s %s) %s\n", mark, letter, q.Options[letter])
	}
	if answered {
		switch {
		case correct:
			b.WriteString("\n✓ Correct!\n")
		case q.HasAnswerKey():
			fmt.Fprintf(&b, "\n✗ Incorrect, answer: %s) %s\n", q.Correct, q.Options[q.Correct])
		default:
			b.WriteString("\n✗ Incorrect\n")
		}
	}
	return b.String()
}

// ResultText is the completion screen of a multiple-choice quiz
func ResultText(r session.Result) string {
	icon := "📚"
	if r.Passed {
		icon = "🎉"
	}
	return fmt.Sprintf("%s %d%%\n%d / %d correct\n%s\n", icon, r.Percent, r.Score, r.Total, r.Tier.Message())
}

// SlideText shows the current slide
func SlideText(slide SlideView, s session.NavState, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Slide %d / %d\n\n%s\n\n", s.Current+1, n, slide.Title)
	for _, bullet := range slide.Bullets {
		fmt.Fprintf(&b, "  • %s\n", bullet)
	}
	return b.String()
}
