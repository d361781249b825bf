// Package prompt builds the system and user prompts sent to the text model.
// Each tool prompt pins the output to the grammar its parser reads.
package prompt

import (
	"fmt"
	"strings"

	"github.com/pep299/leeai-studio/internal/model"
)

// TruncationNote is appended to context cut at the configured limit
const TruncationNote = "\n\n[...content truncated for length...]"

var toolPrompts = map[model.ToolType]string{
	model.ToolAudioSummary: "You are an expert content creator. Generate a clear, engaging audio script (spoken-word narration) that summarizes the following content. " +
		"Use a conversational tone, natural pauses, and make it easy to follow by ear. Format with [INTRO], [MAIN POINTS], and [OUTRO] sections.",

	model.ToolVideoSummary: "You are an expert video scriptwriter. Create a storyboard script. Use EXACTLY this format:\n\n" +
		"SCENE: 1\nVISUAL: [what appears on screen]\nNARRATION: [spoken words]\n\nSCENE: 2\n...\n\n" +
		"Create 6-10 scenes covering the content.",

	model.ToolConceptMap: "You are an expert educator. Create a concept map using EXACTLY this format:\n\n" +
		"ROOT: [main topic]\n  BRANCH: [subtopic 1]\n    NODE: [concept]\n    NODE: [concept]\n" +
		"  BRANCH: [subtopic 2]\n    NODE: [concept]\n    NODE: [concept]\n\n" +
		"Use indentation (2 spaces) to show hierarchy. Cover all key ideas.",

	model.ToolStudyGuide: "You are an expert tutor. Create a comprehensive study guide from the following content. " +
		"Include: an overview, key concepts with explanations, important definitions, key formulas or rules (if any), and a summary section. " +
		"Use clear headings and bullet points.",

	model.ToolFlashcards: "You are an expert educator. Generate exactly 10 flashcards. Use EXACTLY this format with no extra text:\n\n" +
		"CARD: 1\nQ: [question]\nA: [answer]\n\nCARD: 2\nQ: [question]\nA: [answer]\n\nContinue through CARD: 10.",

	model.ToolInfographic: "Create infographic content using EXACTLY this format:\n\n" +
		"TITLE: [main title]\nSUBTITLE: [one-line subtitle]\n\n" +
		"STAT: [label] | [value or short fact]\nSTAT: [label] | [value]\nSTAT: [label] | [value]\n\n" +
		"SECTION: [section title]\n• [short bullet]\n• [short bullet]\n• [short bullet]\n\n" +
		"SECTION: [section title]\n• [short bullet]\n• [short bullet]\n\n" +
		"TAKEAWAY: [one key message]",

	model.ToolSlideDeck: "Create a slide deck. Use EXACTLY this format:\n\n" +
		"SLIDE: 1\nTITLE: [slide title]\n• [bullet point]\n• [bullet point]\n• [bullet point]\n\n" +
		"SLIDE: 2\nTITLE: [slide title]\n• [bullet point]\n\n" +
		"Create 6-8 slides: title slide, content slides, conclusion.",

	model.ToolKeyFacts: "Extract exactly 12 key facts as a numbered list. Use EXACTLY this format:\n\n" +
		"1. [fact in one clear sentence]\n2. [fact]\n3. [fact]\n\n" +
		"Continue through 12. Each fact must be self-contained and specific.",
}

// System returns the system prompt for a generation request. Quiz prompts
// depend on the requested count and question type; tools without a
// dedicated prompt get a generic one naming the tool.
func System(req model.GenerateRequest) string {
	if req.ToolType == model.ToolQuiz {
		return quiz(req.QuizCount(), req.Questions())
	}
	if p, ok := toolPrompts[req.ToolType]; ok {
		return p
	}
	return fmt.Sprintf("You are an expert educator. Process the following content and generate a helpful %s.", req.ToolType)
}

func quiz(count int, qt model.QuestionType) string {
	var b strings.Builder
	b.WriteString("You are an expert quiz maker. ")
	if qt == model.ShortAnswer {
		fmt.Fprintf(&b, "Generate exactly %d short answer questions. ", count)
		b.WriteString("Use EXACTLY this format:\n\nQ: [question text]\nANSWER: [concise answer]\n\nQ: [next question]\nANSWER: [answer]\n\n")
	} else {
		fmt.Fprintf(&b, "Generate exactly %d multiple choice questions. ", count)
		b.WriteString("Use EXACTLY this format:\n\nQ: [question text]\nA) [option]\nB) [option]\nC) [option]\nD) [option]\nCORRECT: [A/B/C/D]\n\nQ: [next question]\n...\n\n")
	}
	fmt.Fprintf(&b, "Repeat for all %d questions.", count)
	return b.String()
}

// User wraps the (already truncated) context, or asks for a general example
// when there is none.
func User(tool model.ToolType, context string) string {
	if strings.TrimSpace(context) == "" {
		return fmt.Sprintf("There is no specific content provided. Generate a helpful example %s on a general educational topic.", tool)
	}
	return "Here is the content to work with:\n\n" + context
}

// NarrationSystem instructs the model to write a plain spoken script
const NarrationSystem = "You are an expert narrator. Write a natural, engaging spoken-word summary " +
	"of the following content (2-3 minutes when read aloud, ~400 words max). " +
	"Use plain conversational sentences only: no bullet points, no markdown, no stage directions, " +
	"no text in brackets or parentheses. Just the words to be spoken."

// NarrationUser is User for the audio script
func NarrationUser(context string) string {
	if strings.TrimSpace(context) == "" {
		return "Create a short spoken educational summary on an interesting general learning topic."
	}
	return "Summarize this content as a spoken narration:\n\n" + context
}

// Truncate cuts s to limit characters and appends TruncationNote. A limit of
// zero or less disables truncation.
func Truncate(s string, limit int) string {
	if cut, ok := cutRunes(s, limit); ok {
		return cut + TruncationNote
	}
	return s
}

// CapScript cuts a narration script to limit characters without a note,
// keeping it under the speech provider's input limit.
func CapScript(s string, limit int) string {
	cut, _ := cutRunes(s, limit)
	return cut
}

func cutRunes(s string, limit int) (string, bool) {
	if limit <= 0 || len(s) <= limit {
		return s, false
	}
	r := []rune(s)
	if len(r) <= limit {
		return s, false
	}
	return string(r[:limit]), true
}

// ChatTurn formats one line of the tutor transcript
func ChatTurn(role, text string) string {
	return role + ": " + text
}

const (
	RoleUser  = "User"
	RoleTutor = "AI Tutor"
)

// Transcript joins history lines and leaves the tutor's turn open
func Transcript(history []string) string {
	return strings.Join(history, "\n") + "\n" + RoleTutor + ": "
}
