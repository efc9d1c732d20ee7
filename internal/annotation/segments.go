package annotation

import (
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/annotator/internal/logging"
)

type SegmentKind string

const (
	SegmentPlain     SegmentKind = "plain"
	SegmentHighlight SegmentKind = "highlight"
)

// Segment is a contiguous run of passage text. Highlight segments carry the
// record that produced them; plain segments have a nil Annotation.
type Segment struct {
	Kind       SegmentKind `json:"kind"`
	Text       string      `json:"text"`
	Start      int         `json:"start"`
	End        int         `json:"end"`
	Annotation *Record     `json:"annotation,omitempty"`
}

func (s Segment) IsHighlight() bool {
	return s.Kind == SegmentHighlight
}

// Color returns the display colour token of a highlight segment.
func (s Segment) Color() string {
	if s.Annotation == nil {
		return ""
	}
	return s.Annotation.Color
}

// Tooltip returns the hover payload of a highlight segment.
func (s Segment) Tooltip() Tooltip {
	if s.Annotation == nil {
		return Tooltip{}
	}
	return s.Annotation.Tooltip
}

// RenderSegments splits text into plain and highlighted runs.
//
// Records may arrive in any order. Invalid records are skipped with a warning.
// When records overlap, the one that sorts first keeps the shared runes and the
// later one is clipped to what remains, or dropped if nothing remains. Joining
// the Text of the returned segments always reproduces text.
func RenderSegments(text string, records []Record) []Segment {
	if len(records) == 0 {
		return []Segment{plain(text, 0, utf8.RuneCountInString(text))}
	}

	log := logging.Component("annotation")
	runes := []rune(text)
	valid := make([]Record, 0, len(records))
	for _, r := range records {
		if err := Validate(r, len(runes)); err != nil {
			log.Warn().
				Err(err).
				Str("annotation_id", r.ID).
				Msg("skipping malformed annotation")
			continue
		}
		valid = append(valid, r)
	}

	segments := make([]Segment, 0, 2*len(valid)+1)
	cursor := 0
	for _, r := range SortRecords(valid) {
		if r.End <= cursor {
			continue
		}
		start := max(r.Start, cursor)
		if start > cursor {
			segments = append(segments, plain(string(runes[cursor:start]), cursor, start))
		}
		rec := r
		segments = append(segments, Segment{
			Kind:       SegmentHighlight,
			Text:       string(runes[start:r.End]),
			Start:      start,
			End:        r.End,
			Annotation: &rec,
		})
		cursor = r.End
	}

	if cursor < len(runes) || len(segments) == 0 {
		segments = append(segments, plain(string(runes[cursor:]), cursor, len(runes)))
	}
	return segments
}

// JoinSegments concatenates segment texts in order.
func JoinSegments(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

func plain(text string, start, end int) Segment {
	return Segment{Kind: SegmentPlain, Text: text, Start: start, End: end}
}
