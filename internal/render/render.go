// Package render turns generated text into a view: the parsed structure for
// the tool plus the presentation details a client needs to draw it, or the
// verbatim fallback when the parser finds nothing.
package render

import (
	"fmt"

	"github.com/pep299/leeai-studio/internal/model"
	"github.com/pep299/leeai-studio/internal/parser"
	"github.com/pep299/leeai-studio/internal/session"
)

// Kind is the shape of a View
type Kind string

const (
	// KindFallback shows Raw verbatim because the parser found nothing
	KindFallback    Kind = "fallback"
	KindText        Kind = "text"
	KindFlashcards  Kind = "flashcards"
	KindQuiz        Kind = "quiz"
	KindSlides      Kind = "slides"
	KindInfographic Kind = "infographic"
	KindKeyFacts    Kind = "key-facts"
	KindConceptMap  Kind = "concept-map"
)

// ConceptIndent is the horizontal offset, in pixels, per concept depth level
const ConceptIndent = 24

var toolIcons = map[model.ToolType]string{
	model.ToolAudioSummary: "🎙️",
	model.ToolVideoSummary: "🎬",
	model.ToolConceptMap:   "🗺️",
	model.ToolStudyGuide:   "📖",
	model.ToolFlashcards:   "🃏",
	model.ToolQuiz:         "📝",
	model.ToolInfographic:  "📊",
	model.ToolSlideDeck:    "📑",
	model.ToolKeyFacts:     "💡",
}

// Icon returns the emoji shown next to a tool name
func Icon(tool model.ToolType) string {
	if icon, ok := toolIcons[tool]; ok {
		return icon
	}
	return "✨"
}

// SlideBackgrounds are the slide themes, indexed by session.NavState.Theme
var SlideBackgrounds = [session.ThemeCount]string{
	"linear-gradient(135deg, #071428, #06080e)",
	"linear-gradient(135deg, #081630, #06080e)",
	"linear-gradient(135deg, #060e24, #06080e)",
	"linear-gradient(135deg, #071220, #080b18)",
	"linear-gradient(135deg, #081530, #06080e)",
}

// SectionStyle colours one infographic section
type SectionStyle struct {
	Background string `json:"bg"`
	Border     string `json:"border"`
	Dot        string `json:"dot"`
}

// SectionStyles cycle by section index
var SectionStyles = []SectionStyle{
	{Background: "rgba(59,130,246,0.11)", Border: "rgba(59,130,246,0.26)", Dot: "#3b82f6"},
	{Background: "rgba(96,165,250,0.09)", Border: "rgba(96,165,250,0.24)", Dot: "#60a5fa"},
	{Background: "rgba(125,211,252,0.09)", Border: "rgba(125,211,252,0.22)", Dot: "#7dd3fc"},
	{Background: "rgba(147,197,253,0.09)", Border: "rgba(147,197,253,0.20)", Dot: "#93c5fd"},
	{Background: "rgba(56,189,248,0.09)", Border: "rgba(56,189,248,0.22)", Dot: "#38bdf8"},
}

// FactBackgrounds cycle by key-fact index
var FactBackgrounds = []string{
	"rgba(59,130,246,0.13)",
	"rgba(96,165,250,0.11)",
	"rgba(125,211,252,0.10)",
	"rgba(147,197,253,0.10)",
	"rgba(56,189,248,0.10)",
	"rgba(59,130,246,0.09)",
}

type SlideView struct {
	model.Slide
	Theme      int    `json:"theme"`
	Background string `json:"background"`
}

type SectionView struct {
	model.Section
	Style SectionStyle `json:"style"`
}

type InfographicView struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Stats    []model.Stat  `json:"stats"`
	Sections []SectionView `json:"sections"`
	Takeaway string        `json:"takeaway"`
}

// FactView is a key fact with its display label ("01", "02", ...)
type FactView struct {
	Label      string `json:"label"`
	Text       string `json:"text"`
	Background string `json:"background"`
}

type ConceptView struct {
	model.ConceptNode
	Indent int `json:"indent"`
}

// View is everything a client needs to present one generated result
type View struct {
	Tool        model.ToolType `json:"tool"`
	Kind        Kind           `json:"kind"`
	Icon        string         `json:"icon"`
	Interactive bool           `json:"interactive"`
	Raw         string         `json:"raw"`

	Cards        []model.Card          `json:"cards,omitempty"`
	QuestionType model.QuestionType    `json:"questionType,omitempty"`
	MCQuestions  []model.MCQuestion    `json:"mcQuestions,omitempty"`
	SAQuestions  []model.SAQuestion    `json:"saQuestions,omitempty"`
	Slides       []SlideView           `json:"slides,omitempty"`
	Infographic  *InfographicView      `json:"infographic,omitempty"`
	Facts        []FactView            `json:"facts,omitempty"`
	Concepts     []ConceptView         `json:"concepts,omitempty"`
	ConceptTree  []*parser.ConceptTree `json:"conceptTree,omitempty"`
}

// IsFallback reports whether the view shows raw text only
func (v View) IsFallback() bool {
	return v.Kind == KindFallback || v.Kind == KindText
}

// Build parses content for tool. Tools without a grammar get KindText; a
// structured tool whose parser finds nothing gets KindFallback.
func Build(tool model.ToolType, content string, qt model.QuestionType) View {
	v := View{
		Tool: tool,
		Kind: KindFallback,
		Icon: Icon(tool),
		Raw:  content,
	}

	switch tool {
	case model.ToolFlashcards:
		if cards := parser.Flashcards(content); len(cards) > 0 {
			v.Kind, v.Cards = KindFlashcards, cards
		}
	case model.ToolQuiz:
		qt = qt.Normalize()
		mc, sa := parser.Quiz(content, qt)
		if len(mc) > 0 || len(sa) > 0 {
			v.Kind, v.QuestionType = KindQuiz, qt
			v.MCQuestions, v.SAQuestions = mc, sa
		}
	case model.ToolSlideDeck:
		if slides := parser.Slides(content); len(slides) > 0 {
			v.Kind, v.Slides = KindSlides, slideViews(slides)
		}
	case model.ToolInfographic:
		if info := parser.Infographic(content); !info.IsEmpty() {
			v.Kind, v.Infographic = KindInfographic, infographicView(info)
		}
	case model.ToolKeyFacts:
		if facts := parser.KeyFacts(content); len(facts) > 0 {
			v.Kind, v.Facts = KindKeyFacts, factViews(facts)
		}
	case model.ToolConceptMap:
		if nodes := parser.ConceptMap(content); len(nodes) > 0 {
			v.Kind, v.Concepts = KindConceptMap, conceptViews(nodes)
			v.ConceptTree = parser.BuildConceptTree(nodes)
		}
	default:
		v.Kind = KindText
	}

	v.Interactive = tool.IsInteractive() && !v.IsFallback()
	return v
}

func slideViews(slides []model.Slide) []SlideView {
	out := make([]SlideView, len(slides))
	for i, s := range slides {
		theme := session.NavState{Current: i}.Theme()
		out[i] = SlideView{Slide: s, Theme: theme, Background: SlideBackgrounds[theme]}
	}
	return out
}

func infographicView(info model.Infographic) *InfographicView {
	sections := make([]SectionView, len(info.Sections))
	for i, s := range info.Sections {
		sections[i] = SectionView{Section: s, Style: SectionStyles[i%len(SectionStyles)]}
	}
	return &InfographicView{
		Title:    info.Title,
		Subtitle: info.Subtitle,
		Stats:    info.Stats,
		Sections: sections,
		Takeaway: info.Takeaway,
	}
}

func factViews(facts []string) []FactView {
	out := make([]FactView, len(facts))
	for i, f := range facts {
		out[i] = FactView{
			Label:      FactLabel(i),
			Text:       f,
			Background: FactBackgrounds[i%len(FactBackgrounds)],
		}
	}
	return out
}

// FactLabel is the zero-padded display number of the i-th fact
func FactLabel(i int) string {
	return fmt.Sprintf("%02d", i+1)
}

func conceptViews(nodes []model.ConceptNode) []ConceptView {
	out := make([]ConceptView, len(nodes))
	for i, n := range nodes {
		out[i] = ConceptView{ConceptNode: n, Indent: n.Depth * ConceptIndent}
	}
	return out
}
