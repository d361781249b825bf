package session

import (
	"testing"

	"github.com/pep299/leeai-studio/internal/model"
)

func mcQuestions(correct ...string) MCSet {
	set := make(MCSet, 0, len(correct))
	for _, c := range correct {
		set = append(set, model.MCQuestion{
			Question: "question",
			Options:  map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
			Correct:  c,
		})
	}
	return set
}

func TestQuizAnswerLocks(t *testing.T) {
	q := mcQuestions("B")
	s := NewQuizState()

	s = s.Step(q, QuizEvent{Kind: QuizAnswer, Answer: "A"})
	if s.Score != 0 {
		t.Errorf("Expected score 0 after wrong answer, got %d", s.Score)
	}
	if correct, ok := s.Answered[0]; !ok || correct {
		t.Errorf("Expected question 0 recorded as wrong, got %v (present=%v)", correct, ok)
	}

	s = s.Step(q, QuizEvent{Kind: QuizAnswer, Answer: "B"})
	if s.Score != 0 {
		t.Errorf("Expected locked answer to ignore a second attempt, got score %d", s.Score)
	}
}

func TestQuizCorrectAnswerScores(t *testing.T) {
	q := mcQuestions("B")
	s := NewQuizState().Step(q, QuizEvent{Kind: QuizAnswer, Answer: "b"})
	if s.Score != 1 {
		t.Errorf("Expected score 1, got %d", s.Score)
	}
	if !s.Answered[0] {
		t.Error("Expected question 0 recorded as correct")
	}
}

func TestQuizInvalidLetterIgnored(t *testing.T) {
	q := MCSet{{Question: "?", Options: map[string]string{"A": "x", "B": "y"}, Correct: "A"}}
	s := NewQuizState().Step(q, QuizEvent{Kind: QuizAnswer, Answer: "D"})
	if s.IsAnswered(0) {
		t.Error("Expected a letter outside the options to be ignored")
	}
}

func TestQuizMissingAnswerKeyNeverScores(t *testing.T) {
	q := MCSet{{Question: "?", Options: map[string]string{"A": "x", "B": "y"}, Correct: "D"}}
	for _, letter := range []string{"A", "B"} {
		s := NewQuizState().Step(q, QuizEvent{Kind: QuizAnswer, Answer: letter})
		if s.Score != 0 || !s.IsAnswered(0) {
			t.Errorf("Expected %s to lock without scoring, got %+v", letter, s)
		}
	}
}

func TestQuizNextRequiresAnswer(t *testing.T) {
	q := mcQuestions("A", "A")
	s := NewQuizState().Step(q, QuizEvent{Kind: QuizNext})
	if s.Current != 0 {
		t.Errorf("Expected next to wait for an answer, got current %d", s.Current)
	}
}

func TestQuizPrevKeepsAnswers(t *testing.T) {
	q := mcQuestions("A", "B")
	s := NewQuizState()
	s = s.Step(q, QuizEvent{Kind: QuizAnswer, Answer: "A"})
	s = s.Step(q, QuizEvent{Kind: QuizNext})
	s = s.Step(q, QuizEvent{Kind: QuizPrev})
	if s.Current != 0 {
		t.Fatalf("Expected current 0, got %d", s.Current)
	}
	if !s.IsAnswered(0) || s.Score != 1 {
		t.Errorf("Expected revisited question to stay resolved, got %+v", s)
	}
	s = s.Step(q, QuizEvent{Kind: QuizPrev})
	if s.Current != 0 {
		t.Errorf("Expected prev at the first question to be a no-op, got %d", s.Current)
	}
	// already answered, so next is allowed straight away
	s = s.Step(q, QuizEvent{Kind: QuizNext})
	if s.Current != 1 {
		t.Errorf("Expected current 1, got %d", s.Current)
	}
}

func TestQuizResult(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		correct int
		percent int
		tier    Tier
		passed  bool
	}{
		{"perfect", 5, 5, 100, TierExcellent, true},
		{"good", 10, 7, 70, TierGood, true},
		{"rounded up", 3, 2, 67, TierKeepStudying, false},
		{"just under excellent", 20, 17, 85, TierGood, true},
		{"excellent", 10, 9, 90, TierExcellent, true},
		{"zero", 5, 0, 0, TierKeepStudying, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := make([]string, tt.n)
			for i := range keys {
				keys[i] = "A"
			}
			quiz := NewQuiz(mcQuestions(keys...))
			for i := 0; i < tt.n; i++ {
				if _, ok := quiz.Result(); ok {
					t.Fatal("Expected no result before the quiz is done")
				}
				if i < tt.correct {
					quiz.Answer("A")
				} else {
					quiz.Answer("C")
				}
				quiz.Next()
			}

			res, ok := quiz.Result()
			if !ok {
				t.Fatal("Expected a result once done")
			}
			if res.Score != tt.correct || res.Total != tt.n {
				t.Errorf("Expected %d/%d, got %d/%d", tt.correct, tt.n, res.Score, res.Total)
			}
			if res.Percent != tt.percent {
				t.Errorf("Expected %d%%, got %d%%", tt.percent, res.Percent)
			}
			if res.Tier != tt.tier {
				t.Errorf("Expected tier %q, got %q", tt.tier, res.Tier)
			}
			if res.Passed != tt.passed {
				t.Errorf("Expected passed=%v, got %v", tt.passed, res.Passed)
			}
		})
	}
}

func TestQuizDoneIgnoresInput(t *testing.T) {
	q := mcQuestions("A")
	s := NewQuizState()
	s = s.Step(q, QuizEvent{Kind: QuizAnswer, Answer: "A"})
	s = s.Step(q, QuizEvent{Kind: QuizNext})
	if !s.Done {
		t.Fatal("Expected quiz to be done after the last question")
	}
	after := s.Step(q, QuizEvent{Kind: QuizPrev})
	if after.Current != 0 || !after.Done {
		t.Errorf("Expected finished quiz to ignore prev, got %+v", after)
	}

	restarted := s.Step(q, QuizEvent{Kind: QuizRestart})
	if restarted.Done || restarted.Score != 0 || restarted.Current != 0 || len(restarted.Answered) != 0 {
		t.Errorf("Expected restart to reset state, got %+v", restarted)
	}
	if !s.Done || s.Score != 1 {
		t.Errorf("Expected receiver unchanged, got %+v", s)
	}
}

func TestShortAnswerSession(t *testing.T) {
	q := SASet{{Question: "q1", Answer: "a1"}, {Question: "q2", Answer: "a2"}}
	quiz := NewQuiz(q)

	if s := quiz.Answer("A"); s.IsAnswered(0) {
		t.Error("Expected short-answer questions to ignore letter answers")
	}
	if s := quiz.Next(); s.Current != 0 {
		t.Error("Expected next to wait for a reveal")
	}

	s := quiz.Reveal()
	if !s.Answered[0] || s.Score != 0 {
		t.Errorf("Expected reveal to resolve without scoring, got %+v", s)
	}
	quiz.Next()
	quiz.Reveal()
	s = quiz.Next()
	if !s.Done {
		t.Error("Expected session done after the last reveal")
	}
	if _, ok := quiz.Result(); ok {
		t.Error("Expected no result for a self-graded session")
	}
}

func TestMultipleChoiceRevealIgnored(t *testing.T) {
	s := NewQuizState().Step(mcQuestions("A"), QuizEvent{Kind: QuizReveal})
	if s.IsAnswered(0) {
		t.Error("Expected reveal to be ignored for multiple-choice questions")
	}
}

func TestQuizSnapshotIsolation(t *testing.T) {
	quiz := NewQuiz(mcQuestions("A", "A"))
	snap := quiz.State()
	snap.Answered[0] = true
	if quiz.State().IsAnswered(0) {
		t.Error("Expected snapshot changes not to leak into the session")
	}
}

func TestTierMessage(t *testing.T) {
	if TierExcellent.Message() != "Excellent work!" {
		t.Errorf("Unexpected message %q", TierExcellent.Message())
	}
	if TierKeepStudying.Message() == TierGood.Message() {
		t.Error("Expected distinct messages per tier")
	}
}
