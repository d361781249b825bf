package model

import (
	"fmt"
	"strings"
)

// ToolType identifies one of the generation targets offered in a notebook
type ToolType string

const (
	ToolAudioSummary ToolType = "Audio Summary"
	ToolVideoSummary ToolType = "Video Summary"
	ToolConceptMap   ToolType = "Concept Map"
	ToolStudyGuide   ToolType = "Study Guide"
	ToolFlashcards   ToolType = "Flashcards"
	ToolQuiz         ToolType = "Quiz"
	ToolInfographic  ToolType = "Infographic"
	ToolSlideDeck    ToolType = "Slide Deck"
	ToolKeyFacts     ToolType = "Key Facts"
)

// Tools lists every tool in the order the notebook shows them
var Tools = []ToolType{
	ToolAudioSummary,
	ToolVideoSummary,
	ToolConceptMap,
	ToolStudyGuide,
	ToolFlashcards,
	ToolQuiz,
	ToolInfographic,
	ToolSlideDeck,
	ToolKeyFacts,
}

func (t ToolType) String() string {
	return string(t)
}

// Known reports whether t is one of the nine tools
func (t ToolType) Known() bool {
	for _, tool := range Tools {
		if tool == t {
			return true
		}
	}
	return false
}

// IsStructured reports whether the tool output goes through a format parser.
// Audio, video and study guide output is shown as generic text.
func (t ToolType) IsStructured() bool {
	switch t {
	case ToolFlashcards, ToolQuiz, ToolSlideDeck, ToolInfographic, ToolKeyFacts, ToolConceptMap:
		return true
	}
	return false
}

// IsInteractive reports whether the tool output drives a state machine
func (t ToolType) IsInteractive() bool {
	return t == ToolFlashcards || t == ToolQuiz || t == ToolSlideDeck
}

// ParseToolType matches a tool name case-insensitively, also accepting
// hyphen/underscore separated forms such as "slide-deck".
func ParseToolType(name string) (ToolType, error) {
	norm := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(name))
	for _, tool := range Tools {
		if strings.EqualFold(string(tool), norm) {
			return tool, nil
		}
	}
	return "", fmt.Errorf("unknown tool type: %q", name)
}

// QuestionType selects the quiz grammar
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	ShortAnswer    QuestionType = "short-answer"
)

// Normalize maps anything other than short-answer to multiple-choice
func (q QuestionType) Normalize() QuestionType {
	if q == ShortAnswer {
		return ShortAnswer
	}
	return MultipleChoice
}

// AllowedQuizCounts are the question counts offered by the quiz settings
var AllowedQuizCounts = []int{5, 10, 15, 20}

// DefaultQuizCount is used when a quiz request carries no count
const DefaultQuizCount = 10

// GenerateRequest is the JSON body accepted by the generate and audio endpoints
type GenerateRequest struct {
	ToolType     ToolType `json:"toolType"`
	Context      string   `json:"context"`
	Count        *int     `json:"count,omitempty"`
	QuestionType string   `json:"questionType,omitempty"`

	// Regenerate skips any cached result and replaces it with a fresh one
	Regenerate bool `json:"regenerate,omitempty"`
}

// QuizCount returns the requested count or DefaultQuizCount
func (r GenerateRequest) QuizCount() int {
	if r.Count != nil && *r.Count > 0 {
		return *r.Count
	}
	return DefaultQuizCount
}

// Questions returns the normalised question type of the request
func (r GenerateRequest) Questions() QuestionType {
	return QuestionType(r.QuestionType).Normalize()
}
