package parser

import "github.com/pep299/leeai-studio/internal/model"

// ConceptTree is a concept-map node with its attached children.
type ConceptTree struct {
	Node     model.ConceptNode `json:"node"`
	Children []*ConceptTree    `json:"children,omitempty"`
}

// BuildConceptTree rebuilds the hierarchy implied by a flat concept-map
// sequence. Nodes that have no parent in scope attach at the top level, so
// every input node appears exactly once in the result.
func BuildConceptTree(nodes []model.ConceptNode) []*ConceptTree {
	var (
		top    []*ConceptTree
		root   *ConceptTree
		branch *ConceptTree
	)
	attach := func(parent *ConceptTree, t *ConceptTree) {
		if parent == nil {
			top = append(top, t)
			return
		}
		parent.Children = append(parent.Children, t)
	}

	for _, n := range nodes {
		t := &ConceptTree{Node: n}
		switch {
		case n.Kind == model.KindRoot:
			top = append(top, t)
			root, branch = t, nil
		case n.Kind == model.KindBranch:
			attach(root, t)
			branch = t
		case n.Depth >= 2:
			switch {
			case branch != nil:
				attach(branch, t)
			default:
				attach(root, t)
			}
		default:
			attach(root, t)
			branch = nil
		}
	}
	return top
}

// Flatten walks trees in preorder. For a tree built by BuildConceptTree it
// returns the original sequence.
func Flatten(trees []*ConceptTree) []model.ConceptNode {
	var out []model.ConceptNode
	var walk func(*ConceptTree)
	walk = func(t *ConceptTree) {
		out = append(out, t.Node)
		for _, c := range t.Children {
			walk(c)
		}
	}
	for _, t := range trees {
		walk(t)
	}
	return out
}
