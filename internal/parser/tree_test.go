package parser

import (
	"reflect"
	"testing"

	"github.com/pep299/leeai-studio/internal/model"
)

func texts(trees []*ConceptTree) []string {
	out := make([]string, 0, len(trees))
	for _, t := range trees {
		out = append(out, t.Node.Text)
	}
	return out
}

func TestBuildConceptTree(t *testing.T) {
	nodes := ConceptMap("ROOT: Biology\n  BRANCH: Cells\n    NODE: Nucleus\n    NODE: Membrane\n  BRANCH: Genetics\n    NODE: DNA\nEvolution\n    NODE: Drift")

	trees := BuildConceptTree(nodes)
	if len(trees) != 1 {
		t.Fatalf("Expected a single root, got %v", texts(trees))
	}

	root := trees[0]
	if want := []string{"Cells", "Genetics", "Evolution", "Drift"}; !reflect.DeepEqual(texts(root.Children), want) {
		t.Errorf("Expected root children %v, got %v", want, texts(root.Children))
	}
	if want := []string{"Nucleus", "Membrane"}; !reflect.DeepEqual(texts(root.Children[0].Children), want) {
		t.Errorf("Expected Cells children %v, got %v", want, texts(root.Children[0].Children))
	}
	if want := []string{"DNA"}; !reflect.DeepEqual(texts(root.Children[1].Children), want) {
		t.Errorf("Expected Genetics children %v, got %v", want, texts(root.Children[1].Children))
	}
}

func TestBuildConceptTreeWithoutRoot(t *testing.T) {
	nodes := []model.ConceptNode{
		{Kind: model.KindNode, Text: "orphan leaf", Depth: 2},
		{Kind: model.KindBranch, Text: "branch", Depth: 1},
		{Kind: model.KindNode, Text: "leaf", Depth: 2},
		{Kind: model.KindRoot, Text: "late root"},
		{Kind: model.KindRoot, Text: "second root"},
	}

	trees := BuildConceptTree(nodes)
	if want := []string{"orphan leaf", "branch", "late root", "second root"}; !reflect.DeepEqual(texts(trees), want) {
		t.Errorf("Expected top level %v, got %v", want, texts(trees))
	}
	if want := []string{"leaf"}; !reflect.DeepEqual(texts(trees[1].Children), want) {
		t.Errorf("Expected branch children %v, got %v", want, texts(trees[1].Children))
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	inputs := []string{
		"ROOT: A\n  BRANCH: B\n    NODE: C\nloose\n    NODE: D\n  BRANCH: E\nROOT: F\n    NODE: G",
		"    NODE: x\n  BRANCH: y\nz",
		"",
	}
	for _, in := range inputs {
		nodes := ConceptMap(in)
		got := Flatten(BuildConceptTree(nodes))
		if !reflect.DeepEqual(got, nodes) {
			t.Errorf("Expected %+v, got %+v", nodes, got)
		}
	}
}
