package annotation

import (
	"reflect"
	"strings"
	"unicode/utf8"
)

// NotFound is returned by ResolveOffset when the target node is not a text
// node under root.
const NotFound = -1

// Node is a handle into the tree a passage was rendered into. Text-bearing
// leaves return their content from Text with ok set; every other node returns
// ok false. Two handles refer to the same node when they compare equal, so
// implementations should use pointers or other comparable values. A handle of
// an uncomparable type never matches and resolves to NotFound.
type Node interface {
	Children() []Node
	Text() (text string, ok bool)
}

// SelectionRange is the live selection as reported by the host, with each
// endpoint given as a node and a rune offset inside that node.
type SelectionRange struct {
	StartNode   Node
	StartOffset int
	EndNode     Node
	EndOffset   int
	Text        string
}

// SelectionSource reads the host's current selection.
type SelectionSource interface {
	CurrentSelection() (SelectionRange, bool)
}

// SelectionSourceFunc adapts a function to SelectionSource.
type SelectionSourceFunc func() (SelectionRange, bool)

func (f SelectionSourceFunc) CurrentSelection() (SelectionRange, bool) {
	return f()
}

// SelectionResult is a selection translated to passage offsets.
type SelectionResult struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// ResolveOffset converts an offset inside target into an offset into the
// concatenated text of every text node under root, visited depth-first in
// document order. An offset past the end of target's text is NotFound.
func ResolveOffset(root, target Node, nodeOffset int) int {
	if root == nil || target == nil {
		return NotFound
	}
	running := 0
	found := NotFound
	walkText(root, func(n Node, text string) bool {
		length := utf8.RuneCountInString(text)
		if sameNode(n, target) {
			if nodeOffset >= 0 && nodeOffset <= length {
				found = running + nodeOffset
			}
			return false
		}
		running += length
		return true
	})
	return found
}

// sameNode compares handles without panicking on uncomparable dynamic types.
func sameNode(a, b Node) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	defer func() { _ = recover() }()
	return a == b
}

// walkText calls visit for every text node in pre-order until visit returns false.
func walkText(n Node, visit func(Node, string) bool) bool {
	if text, ok := n.Text(); ok {
		if !visit(n, text) {
			return false
		}
	}
	for _, child := range n.Children() {
		if !walkText(child, visit) {
			return false
		}
	}
	return true
}

// CaptureSelection reads the current selection from src and maps it onto root.
// It reports false when nothing usable is selected: no selection, only
// whitespace, or an endpoint outside root. The live selection is left as is;
// clearing it is up to the caller.
func CaptureSelection(root Node, src SelectionSource) (SelectionResult, bool) {
	if root == nil || src == nil {
		return SelectionResult{}, false
	}
	sel, ok := src.CurrentSelection()
	if !ok {
		return SelectionResult{}, false
	}
	text := strings.TrimSpace(sel.Text)
	if text == "" {
		return SelectionResult{}, false
	}

	start := ResolveOffset(root, sel.StartNode, sel.StartOffset)
	end := ResolveOffset(root, sel.EndNode, sel.EndOffset)
	if start == NotFound || end == NotFound {
		return SelectionResult{}, false
	}
	if start > end {
		start, end = end, start
	}
	return SelectionResult{Text: text, Start: start, End: end}, true
}
