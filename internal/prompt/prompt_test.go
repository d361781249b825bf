package prompt

import (
	"strings"
	"testing"

	"github.com/pep299/leeai-studio/internal/model"
)

func TestSystemQuiz(t *testing.T) {
	count := 15
	mc := System(model.GenerateRequest{ToolType: model.ToolQuiz, Count: &count})
	if !strings.Contains(mc, "exactly 15 multiple choice questions") {
		t.Errorf("Expected count in prompt, got %q", mc)
	}
	if !strings.Contains(mc, "CORRECT: [A/B/C/D]") {
		t.Errorf("Expected CORRECT line in prompt, got %q", mc)
	}

	sa := System(model.GenerateRequest{ToolType: model.ToolQuiz, QuestionType: "short-answer"})
	if !strings.Contains(sa, "exactly 10 short answer questions") {
		t.Errorf("Expected default count and short-answer grammar, got %q", sa)
	}
	if !strings.HasSuffix(sa, "Repeat for all 10 questions.") {
		t.Errorf("Unexpected prompt ending: %q", sa)
	}
}

func TestSystemTools(t *testing.T) {
	markers := map[model.ToolType]string{
		model.ToolFlashcards:  "CARD: 1",
		model.ToolSlideDeck:   "SLIDE: 1",
		model.ToolInfographic: "STAT: [label] | [value]",
		model.ToolKeyFacts:    "1. [fact",
		model.ToolConceptMap:  "    NODE: [concept]",
	}
	for tool, marker := range markers {
		if p := System(model.GenerateRequest{ToolType: tool}); !strings.Contains(p, marker) {
			t.Errorf("%s: expected %q in prompt", tool, marker)
		}
	}

	generic := System(model.GenerateRequest{ToolType: "Mind Map"})
	if generic != "You are an expert educator. Process the following content and generate a helpful Mind Map." {
		t.Errorf("Unexpected generic prompt: %q", generic)
	}
}

func TestUser(t *testing.T) {
	if got := User(model.ToolFlashcards, "  \n"); !strings.Contains(got, "helpful example Flashcards") {
		t.Errorf("Expected example request for blank context, got %q", got)
	}
	if got := User(model.ToolFlashcards, "cells"); got != "Here is the content to work with:\n\ncells" {
		t.Errorf("Unexpected user prompt %q", got)
	}
	if got := NarrationUser(""); strings.Contains(got, "\n") {
		t.Errorf("Expected single-line fallback narration prompt, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Expected untouched text, got %q", got)
	}
	if got := Truncate("abcdefghij", 4); got != "abcd"+TruncationNote {
		t.Errorf("Expected cut with note, got %q", got)
	}
	if got := Truncate("héllo wörld", 5); got != "héllo"+TruncationNote {
		t.Errorf("Expected rune-safe cut, got %q", got)
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Errorf("Expected zero limit to disable truncation, got %q", got)
	}
	if got := CapScript("abcdef", 3); got != "abc" {
		t.Errorf("Expected capped script without note, got %q", got)
	}
}

func TestTranscript(t *testing.T) {
	history := []string{ChatTurn(RoleUser, "hi"), ChatTurn(RoleTutor, "hello"), ChatTurn(RoleUser, "what is DNA?")}
	want := "User: hi\nAI Tutor: hello\nUser: what is DNA?\nAI Tutor: "
	if got := Transcript(history); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
