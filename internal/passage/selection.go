package passage

import (
	"github.com/mrlokans/annotator/internal/annotation"
)

// Endpoint addresses one end of a browser Range: the child-index path from the
// passage element to the container node, and the offset inside it in UTF-16
// code units, as the DOM reports it.
type Endpoint struct {
	Path   []int `json:"path"`
	Offset int   `json:"offset"`
}

// RangePayload is a browser selection as posted by the reader page.
type RangePayload struct {
	Start Endpoint `json:"start"`
	End   Endpoint `json:"end"`
	Text  string   `json:"text"`
}

// Source returns a SelectionSource that resolves the payload against root.
// Endpoints whose path does not exist come back as nil nodes, which the
// offset mapper reports as not found.
func (p RangePayload) Source(root annotation.Node) annotation.SelectionSource {
	return annotation.SelectionSourceFunc(func() (annotation.SelectionRange, bool) {
		startNode, startOffset := p.Start.resolve(root)
		endNode, endOffset := p.End.resolve(root)
		return annotation.SelectionRange{
			StartNode:   startNode,
			StartOffset: startOffset,
			EndNode:     endNode,
			EndOffset:   endOffset,
			Text:        p.Text,
		}, true
	})
}

func (e Endpoint) resolve(root annotation.Node) (annotation.Node, int) {
	n, ok := NodeAtPath(root, e.Path)
	if !ok {
		return nil, annotation.NotFound
	}
	text, isText := n.Text()
	if !isText {
		return n, e.Offset
	}
	return n, utf16ToRuneOffset(text, e.Offset)
}

// utf16ToRuneOffset converts a UTF-16 offset into text to a rune offset.
// Offsets that split a surrogate pair or run past the end return NotFound.
func utf16ToRuneOffset(text string, units int) int {
	if units < 0 {
		return annotation.NotFound
	}
	seen := 0
	idx := 0
	for _, r := range text {
		if seen == units {
			return idx
		}
		if r >= 0x10000 {
			seen += 2
		} else {
			seen++
		}
		idx++
		if seen > units {
			return annotation.NotFound
		}
	}
	if seen == units {
		return idx
	}
	return annotation.NotFound
}
