package model

import (
	"encoding"
	"fmt"
	"sort"
)

// Card is one flashcard
type Card struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// MCQuestion is a multiple-choice quiz question.
// Options maps an upper-case letter (A-D) to its text.
type MCQuestion struct {
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
	Correct  string            `json:"correct"`
}

// Letters returns the option letters in alphabetical order
func (q MCQuestion) Letters() []string {
	letters := make([]string, 0, len(q.Options))
	for letter := range q.Options {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	return letters
}

// HasAnswerKey reports whether the correct letter names one of the options.
// A question without an answer key can be answered but never scores.
func (q MCQuestion) HasAnswerKey() bool {
	_, ok := q.Options[q.Correct]
	return ok
}

// IsCorrect reports whether letter is the keyed answer
func (q MCQuestion) IsCorrect(letter string) bool {
	return q.HasAnswerKey() && letter == q.Correct
}

// SAQuestion is a self-graded short-answer question
type SAQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Slide is one slide of a deck
type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// Stat is a headline figure of an infographic
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is a titled bullet group of an infographic
type Section struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// Infographic holds every optional field recovered from infographic text
type Infographic struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Stats    []Stat    `json:"stats"`
	Sections []Section `json:"sections"`
	Takeaway string    `json:"takeaway"`
}

// IsEmpty reports a degenerate infographic: no title and no sections
func (i Infographic) IsEmpty() bool {
	return i.Title == "" && len(i.Sections) == 0
}

// NodeKind classifies a concept map entry
type NodeKind int

const (
	KindRoot NodeKind = iota + 1
	KindBranch
	KindNode
)

var (
	nodeKindNames  = [...]string{KindRoot: "root", KindBranch: "branch", KindNode: "node"}
	nodeKindByName = map[string]NodeKind{
		"root":   KindRoot,
		"branch": KindBranch,
		"node":   KindNode,
	}
)

var (
	_ fmt.Stringer             = NodeKind(0)
	_ encoding.TextMarshaler   = NodeKind(0)
	_ encoding.TextUnmarshaler = (*NodeKind)(nil)
)

func (k NodeKind) isValid() bool {
	return k >= KindRoot && k <= KindNode
}

func (k NodeKind) String() string {
	if k.isValid() {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler
func (k NodeKind) MarshalText() ([]byte, error) {
	if !k.isValid() {
		return nil, fmt.Errorf("invalid node kind: %d", int(k))
	}
	return []byte(nodeKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *NodeKind) UnmarshalText(text []byte) error {
	v, ok := nodeKindByName[string(text)]
	if !ok {
		return fmt.Errorf("invalid node kind: %q", text)
	}
	*k = v
	return nil
}

// ConceptNode is one line of a concept map. Depth drives indentation only;
// parent links are not modelled.
type ConceptNode struct {
	Kind  NodeKind `json:"type"`
	Text  string   `json:"text"`
	Depth int      `json:"depth"`
}
