package session

import (
	"math"
	"strings"
	"sync"

	"github.com/pep299/leeai-studio/internal/model"
)

// Questions is the question set a quiz session runs over
type Questions interface {
	Len() int
	// Grade checks answer against question i. ok is false when answer is not
	// one of the question's options.
	Grade(i int, answer string) (correct, ok bool)
	// SelfGraded reports whether questions are revealed instead of answered
	SelfGraded() bool
}

// MCSet is a multiple-choice question set
type MCSet []model.MCQuestion

func (q MCSet) Len() int         { return len(q) }
func (q MCSet) SelfGraded() bool { return false }

func (q MCSet) Grade(i int, answer string) (bool, bool) {
	if i < 0 || i >= len(q) {
		return false, false
	}
	letter := strings.ToUpper(strings.TrimSpace(answer))
	if _, ok := q[i].Options[letter]; !ok {
		return false, false
	}
	return q[i].IsCorrect(letter), true
}

// SASet is a short-answer question set. Answers are revealed, never graded.
type SASet []model.SAQuestion

func (q SASet) Len() int                       { return len(q) }
func (q SASet) SelfGraded() bool               { return true }
func (q SASet) Grade(int, string) (bool, bool) { return false, false }

// QuizEventKind enumerates quiz inputs
type QuizEventKind int

const (
	QuizAnswer QuizEventKind = iota + 1
	QuizReveal
	QuizNext
	QuizPrev
	QuizRestart
)

// QuizEvent is an input to the quiz machine. Answer is only read for
// QuizAnswer.
type QuizEvent struct {
	Kind   QuizEventKind
	Answer string
}

// QuizState is a quiz session. Answered maps a question index to whether
// it was answered correctly; short-answer reveals record true.
type QuizState struct {
	Current  int
	Score    int
	Answered map[int]bool
	Done     bool
}

// NewQuizState returns the initial quiz state
func NewQuizState() QuizState {
	return QuizState{Answered: map[int]bool{}}
}

// IsAnswered reports whether question i has been resolved
func (s QuizState) IsAnswered(i int) bool {
	_, ok := s.Answered[i]
	return ok
}

// Step applies ev and returns the next state; s is not modified.
func (s QuizState) Step(q Questions, ev QuizEvent) QuizState {
	n := q.Len()
	if n == 0 {
		return s
	}
	if ev.Kind == QuizRestart {
		return NewQuizState()
	}
	if s.Done {
		return s
	}

	switch ev.Kind {
	case QuizAnswer:
		if q.SelfGraded() || s.IsAnswered(s.Current) {
			return s
		}
		correct, ok := q.Grade(s.Current, ev.Answer)
		if !ok {
			return s
		}
		s.Answered = s.record(correct)
		if correct {
			s.Score++
		}
	case QuizReveal:
		if !q.SelfGraded() || s.IsAnswered(s.Current) {
			return s
		}
		s.Answered = s.record(true)
	case QuizNext:
		if !s.IsAnswered(s.Current) {
			return s
		}
		if s.Current < n-1 {
			s.Current++
		} else {
			s.Done = true
		}
	case QuizPrev:
		if s.Current > 0 {
			s.Current--
		}
	}
	return s
}

func (s QuizState) record(v bool) map[int]bool {
	m := cloneAnswers(s.Answered)
	m[s.Current] = v
	return m
}

func cloneAnswers(src map[int]bool) map[int]bool {
	m := make(map[int]bool, len(src)+1)
	for k, v := range src {
		m[k] = v
	}
	return m
}

// Tier is the qualitative band of a finished quiz
type Tier string

const (
	TierExcellent    Tier = "excellent"
	TierGood         Tier = "good"
	TierKeepStudying Tier = "keep studying"
)

// PassPercent is the score at or above which a quiz counts as passed
const PassPercent = 70

func tierFor(percent int) Tier {
	switch {
	case percent >= 90:
		return TierExcellent
	case percent >= PassPercent:
		return TierGood
	default:
		return TierKeepStudying
	}
}

// Message is the line shown under the score
func (t Tier) Message() string {
	switch t {
	case TierExcellent:
		return "Excellent work!"
	case TierGood:
		return "Good job, keep it up!"
	default:
		return "Keep studying, you'll get there!"
	}
}

// Result summarises a finished multiple-choice quiz
type Result struct {
	Score   int  `json:"score"`
	Total   int  `json:"total"`
	Percent int  `json:"percent"`
	Tier    Tier `json:"tier"`
	Passed  bool `json:"passed"`
}

// Result returns the completion summary. ok is false until the quiz is done,
// and always for self-graded sets.
func (s QuizState) Result(q Questions) (Result, bool) {
	n := q.Len()
	if !s.Done || n == 0 || q.SelfGraded() {
		return Result{}, false
	}
	pct := int(math.Round(float64(s.Score) / float64(n) * 100))
	return Result{
		Score:   s.Score,
		Total:   n,
		Percent: pct,
		Tier:    tierFor(pct),
		Passed:  pct >= PassPercent,
	}, true
}

// Quiz drives a QuizState over a question set. It is safe for concurrent use.
type Quiz struct {
	mu        sync.Mutex
	questions Questions
	state     QuizState
}

// NewQuiz starts a session over questions
func NewQuiz(questions Questions) *Quiz {
	return &Quiz{questions: questions, state: NewQuizState()}
}

// Questions returns the set the session runs over
func (q *Quiz) Questions() Questions { return q.questions }

// State returns a snapshot of the session
func (q *Quiz) State() QuizState {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.state
	s.Answered = cloneAnswers(s.Answered)
	return s
}

// Send applies ev and returns the resulting state
func (q *Quiz) Send(ev QuizEvent) QuizState {
	q.mu.Lock()
	q.state = q.state.Step(q.questions, ev)
	q.mu.Unlock()
	return q.State()
}

func (q *Quiz) Answer(letter string) QuizState {
	return q.Send(QuizEvent{Kind: QuizAnswer, Answer: letter})
}
func (q *Quiz) Reveal() QuizState  { return q.Send(QuizEvent{Kind: QuizReveal}) }
func (q *Quiz) Next() QuizState    { return q.Send(QuizEvent{Kind: QuizNext}) }
func (q *Quiz) Prev() QuizState    { return q.Send(QuizEvent{Kind: QuizPrev}) }
func (q *Quiz) Restart() QuizState { return q.Send(QuizEvent{Kind: QuizRestart}) }

// Result returns the completion summary, see QuizState.Result
func (q *Quiz) Result() (Result, bool) {
	return q.State().Result(q.questions)
}
