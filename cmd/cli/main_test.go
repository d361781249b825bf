package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"

	"github.com/pep299/leeai-studio/internal/model"
)

var toolOutputs = map[model.ToolType]string{
	model.ToolKeyFacts:   "Here you go\n1. Water boils at 100C\n2. Ice floats",
	model.ToolFlashcards: "CARD: 1\nQ: 2+2?\nA: 4\nCARD: 2\nQ: 3+3?\nA: 6",
	model.ToolQuiz:       "Q: A or B?\nA) a\nB) b\nCORRECT: A",
	model.ToolSlideDeck:  "SLIDE: 1\nTITLE: Introduction\n• First point\n\nSLIDE: 2\nTITLE: Details\n- Alpha\n\nSLIDE: 3\nTITLE: Summary\n- Omega",
	model.ToolStudyGuide: "Study the cell.",
}

// newBackend serves canned tool output and records the last request
func newBackend(t *testing.T, last *model.GenerateRequest) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/leeai/generate", func(w http.ResponseWriter, r *http.Request) {
		var req model.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if last != nil {
			*last = req
		}
		if req.ToolType == model.ToolConceptMap {
			http.Error(w, "Gemini error: quota", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(toolOutputs[req.ToolType]))
	})
	mux.HandleFunc("/api/leeai/audio", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3 narration"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func withStdin(t *testing.T, input string) {
	t.Helper()
	old := stdin
	stdin = strings.NewReader(input)
	t.Cleanup(func() { stdin = old })
}

func TestRunFlags(t *testing.T) {
	tcs := []struct {
		name       string
		args       []string
		wantStatus int
		wantOut    string
	}{
		{name: "version", args: []string{"-version"}, wantStatus: 0, wantOut: "LeeAI Studio CLI"},
		{name: "help", args: []string{"-help"}, wantStatus: 0, wantOut: "Slide Deck"},
		{name: "missing tool", args: []string{"-text", "cells"}, wantStatus: 1},
		{name: "unknown tool", args: []string{"-tool", "podcast", "-text", "cells"}, wantStatus: 1},
		{name: "no sources", args: []string{"-tool", "key-facts"}, wantStatus: 1},
		{name: "bad quiz count", args: []string{"-tool", "quiz", "-count", "7", "-text", "cells"}, wantStatus: 1},
		{name: "unknown flag", args: []string{"-nope"}, wantStatus: 1},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			var got int
			out := testboil.CaptureStdout(t, func(t *testing.T) {
				got = run(tc.args)
			})
			testboil.FailTestIfDiff(t, got, tc.wantStatus)
			if tc.wantOut != "" {
				testboil.AssertStringContains(t, out, tc.wantOut)
			}
		})
	}
}

func TestRunKeyFacts(t *testing.T) {
	var last model.GenerateRequest
	server := newBackend(t, &last)
	withStdin(t, "")

	var got int
	out := testboil.CaptureStdout(t, func(t *testing.T) {
		got = run([]string{"-server", server.URL, "-tool", "key-facts", "-text", "Water facts"})
	})

	testboil.FailTestIfDiff(t, got, 0)
	testboil.AssertStringContains(t, out, "2 Key Facts")
	testboil.AssertStringContains(t, out, "01  Water boils at 100C")
	testboil.AssertStringContains(t, out, "02  Ice floats")
	testboil.FailTestIfDiff(t, last.Context, "[Source 1: Pasted text]\nWater facts")
	if last.Count != nil {
		t.Errorf("Expected no count for key facts, got %d", *last.Count)
	}
	if last.Regenerate {
		t.Error("Expected cached results to be allowed by default")
	}
}

func TestRunRegenerate(t *testing.T) {
	var last model.GenerateRequest
	server := newBackend(t, &last)

	var got int
	testboil.CaptureStdout(t, func(t *testing.T) {
		got = run([]string{"-server", server.URL, "-tool", "key-facts", "-text", "Water facts", "-regenerate"})
	})

	testboil.FailTestIfDiff(t, got, 0)
	testboil.FailTestIfDiff(t, last.Regenerate, true)
}

func TestRunCombinesSources(t *testing.T) {
	var last model.GenerateRequest
	server := newBackend(t, &last)
	withStdin(t, "")

	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte("# Notes\nMitochondria"), 0o644); err != nil {
		t.Fatal(err)
	}

	var got int
	testboil.CaptureStdout(t, func(t *testing.T) {
		got = run([]string{"-server", server.URL, "-tool", "Study Guide", "-text", "Cells", "-file", path})
	})

	testboil.FailTestIfDiff(t, got, 0)
	want := "[Source 1: Pasted text]\nCells\n\n---\n\n[Source 2: notes.md]\n# Notes\nMitochondria"
	testboil.FailTestIfDiff(t, last.Context, want)
}

func TestRunFlashcards(t *testing.T) {
	server := newBackend(t, nil)
	withStdin(t, "f\nn\nq\nf\n")

	var got int
	out := testboil.CaptureStdout(t, func(t *testing.T) {
		got = run([]string{"-server", server.URL, "-tool", "flashcards", "-text", "Sums"})
	})

	testboil.FailTestIfDiff(t, got, 0)
	testboil.AssertStringContains(t, out, "2 cards")
	testboil.AssertStringContains(t, out, "1 / 2\n\nQUESTION\n2+2?")
	testboil.AssertStringContains(t, out, "1 / 2\n\nANSWER\n4")
	testboil.AssertStringContains(t, out, "2 / 2\n\nQUESTION\n3+3?")
	if strings.Contains(out, "ANSWER\n6") {
		t.Error("Expected commands after q to be ignored")
	}
}

func TestRunQuiz(t *testing.T) {
	var last model.GenerateRequest
	server := newBackend(t, &last)
	withStdin(t, "x\nb\nn\nr\n")

	var got int
	out := testboil.CaptureStdout(t, func(t *testing.T) {
		got = run([]string{"-server", server.URL, "-tool", "quiz", "-count", "5", "-text", "Letters"})
	})

	testboil.FailTestIfDiff(t, got, 0)
	testboil.AssertStringContains(t, out, "a-d answer")
	testboil.AssertStringContains(t, out, "✗ Incorrect, answer: A) a")
	testboil.AssertStringContains(t, out, "0 / 1 correct")
	testboil.AssertStringContains(t, out, "1 / 1  Score: 0\n\nQuestion 1")
	if last.Count == nil || *last.Count != 5 {
		t.Errorf("Expected count 5 in request, got %v", last.Count)
	}
	testboil.FailTestIfDiff(t, last.QuestionType, "multiple-choice")
}

func TestRunSlides(t *testing.T) {
	server := newBackend(t, nil)
	withStdin(t, "n\ng 3\ng 9\ng x\np\n")

	var got int
	out := testboil.CaptureStdout(t, func(t *testing.T) {
		got = run([]string{"-server", server.URL, "-tool", "slide-deck", "-text", "Deck"})
	})

	testboil.FailTestIfDiff(t, got, 0)
	testboil.AssertStringContains(t, out, "3 slides")
	testboil.AssertStringContains(t, out, "Slide 1 / 3\n\nIntroduction")
	testboil.AssertStringContains(t, out, "Slide 2 / 3\n\nDetails")
	testboil.AssertStringContains(t, out, "Slide 3 / 3\n\nSummary")
	testboil.AssertStringContains(t, out, "usage: g <slide number>")
}

func TestRunAudio(t *testing.T) {
	server := newBackend(t, nil)
	dst := filepath.Join(t.TempDir(), "summary.mp3")

	var got int
	out := testboil.CaptureStdout(t, func(t *testing.T) {
		got = run([]string{"-server", server.URL, "-tool", "audio summary", "-text", "Narrate", "-out", dst})
	})

	testboil.FailTestIfDiff(t, got, 0)
	testboil.AssertStringContains(t, out, "Audio summary saved to "+dst)
	audio, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("Expected audio file: %v", err)
	}
	testboil.FailTestIfDiff(t, string(audio), "ID3 narration")
}

func TestRunServerError(t *testing.T) {
	server := newBackend(t, nil)

	var got int
	testboil.CaptureStdout(t, func(t *testing.T) {
		got = run([]string{"-server", server.URL, "-tool", "concept map", "-text", "Map it"})
	})
	testboil.FailTestIfDiff(t, got, 1)
}
