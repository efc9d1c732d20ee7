package passage

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mrlokans/annotator/internal/annotation"
)

// htmlNode adapts *html.Node to annotation.Node. The wrapper is a comparable
// value so handles to the same node compare equal.
type htmlNode struct {
	n *html.Node
}

var _ annotation.Node = htmlNode{}

func (h htmlNode) Children() []annotation.Node {
	var out []annotation.Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, htmlNode{n: c})
	}
	return out
}

func (h htmlNode) Text() (string, bool) {
	if h.n.Type != html.TextNode {
		return "", false
	}
	return h.n.Data, true
}

// ParseTree parses a rendered passage fragment and returns its root element.
func ParseTree(fragment string) (annotation.Node, error) {
	context := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, fmt.Errorf("parse passage: %w", err)
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return htmlNode{n: n}, nil
		}
	}
	return nil, fmt.Errorf("parse passage: no root element")
}

// NodeAtPath follows child indexes from root, the way a browser addresses a
// node relative to the passage element through childNodes.
func NodeAtPath(root annotation.Node, path []int) (annotation.Node, bool) {
	if root == nil {
		return nil, false
	}
	n := root
	for _, idx := range path {
		children := n.Children()
		if idx < 0 || idx >= len(children) {
			return nil, false
		}
		n = children[idx]
	}
	return n, true
}
