package parser

import (
	"regexp"
	"strings"

	"github.com/pep299/leeai-studio/internal/model"
)

var conceptPatterns = struct {
	root   *regexp.Regexp
	branch *regexp.Regexp
	node   *regexp.Regexp
}{
	root:   regexp.MustCompile(`(?i)^ROOT:\s*(\S.*)`),
	branch: regexp.MustCompile(`(?i)^\s{2}BRANCH:\s*(\S.*)`),
	node:   regexp.MustCompile(`(?i)^\s{4}NODE:\s*(\S.*)`),
}

// ConceptMap reads ROOT:/BRANCH:/NODE: lines into a flat, depth-tagged
// sequence. Indentation must be exact (none, two, four spaces); any other
// non-blank line becomes a depth-0 node.
func ConceptMap(text string) []model.ConceptNode {
	text = normalize(text)

	var nodes []model.ConceptNode
	for _, line := range nonBlankLines(text) {
		switch {
		case conceptPatterns.root.MatchString(line):
			nodes = append(nodes, conceptNode(model.KindRoot, 0, conceptPatterns.root, line))
		case conceptPatterns.branch.MatchString(line):
			nodes = append(nodes, conceptNode(model.KindBranch, 1, conceptPatterns.branch, line))
		case conceptPatterns.node.MatchString(line):
			nodes = append(nodes, conceptNode(model.KindNode, 2, conceptPatterns.node, line))
		default:
			nodes = append(nodes, model.ConceptNode{Kind: model.KindNode, Text: strings.TrimSpace(line)})
		}
	}
	return nodes
}

func conceptNode(kind model.NodeKind, depth int, re *regexp.Regexp, line string) model.ConceptNode {
	m := re.FindStringSubmatch(line)
	return model.ConceptNode{Kind: kind, Text: strings.TrimSpace(m[1]), Depth: depth}
}
