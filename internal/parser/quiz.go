package parser

import (
	"regexp"
	"strings"

	"github.com/pep299/leeai-studio/internal/model"
)

var quizPatterns = struct {
	blockStart *regexp.Regexp
	qLine      *regexp.Regexp
	option     *regexp.Regexp
	correct    *regexp.Regexp
	question   *regexp.Regexp
	answer     *regexp.Regexp
}{
	blockStart: regexp.MustCompile(`(?im)^Q:`),
	qLine:      regexp.MustCompile(`(?i)^Q:\s*`),
	option:     regexp.MustCompile(`(?i)^([A-D])\)\s*(.+)`),
	correct:    regexp.MustCompile(`(?i)^CORRECT:\s*([A-D])`),
	question:   regexp.MustCompile(`(?i)\bQ:`),
	answer:     regexp.MustCompile(`(?i)\nANSWER:`),
}

// Quiz parses text with the grammar selected by qt. There is no detection of
// the format from the text itself.
func Quiz(text string, qt model.QuestionType) (mc []model.MCQuestion, sa []model.SAQuestion) {
	if qt.Normalize() == model.ShortAnswer {
		return nil, ShortAnswer(text)
	}
	return MultipleChoice(text), nil
}

// MultipleChoice parses "Q: / A) .. D) / CORRECT:" blocks. A block needs a
// question and at least two options. The correct letter is kept as written
// even when it names no option; see model.MCQuestion.HasAnswerKey.
func MultipleChoice(text string) []model.MCQuestion {
	text = normalize(text)

	var questions []model.MCQuestion
	for _, block := range splitBefore(text, quizPatterns.blockStart) {
		var (
			question string
			found    bool
			correct  string
			options  = make(map[string]string)
		)
		for _, raw := range strings.Split(block, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			if !found && quizPatterns.qLine.MatchString(line) {
				question = strings.TrimSpace(quizPatterns.qLine.ReplaceAllString(line, ""))
				found = true
			}
			if m := quizPatterns.option.FindStringSubmatch(line); m != nil {
				options[strings.ToUpper(m[1])] = strings.TrimSpace(m[2])
			}
			if m := quizPatterns.correct.FindStringSubmatch(line); m != nil {
				correct = strings.ToUpper(m[1])
			}
		}
		if question == "" || len(options) < 2 {
			continue
		}
		questions = append(questions, model.MCQuestion{
			Question: question,
			Options:  options,
			Correct:  correct,
		})
	}
	return questions
}

// ShortAnswer parses "Q: / ANSWER:" blocks
func ShortAnswer(text string) []model.SAQuestion {
	text = normalize(text)

	var questions []model.SAQuestion
	for _, block := range splitBefore(text, quizPatterns.blockStart) {
		qLoc := quizPatterns.question.FindStringIndex(block)
		if qLoc == nil {
			continue
		}
		rest := block[qLoc[1]:]
		aLoc := quizPatterns.answer.FindStringIndex(rest)
		if aLoc == nil {
			continue
		}
		q := strings.TrimSpace(rest[:aLoc[0]])
		a := strings.TrimSpace(rest[aLoc[1]:])
		if q == "" || a == "" {
			continue
		}
		questions = append(questions, model.SAQuestion{Question: q, Answer: a})
	}
	return questions
}
