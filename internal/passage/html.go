// Package passage renders annotation segments for a host (browser HTML or a
// terminal) and adapts the host's rendered tree back to annotation.Node so
// selections can be mapped to passage offsets.
package passage

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/mrlokans/annotator/internal/annotation"
	"github.com/mrlokans/annotator/internal/utils"
)

// The template must not emit whitespace between elements: every text node in
// the output is counted by the offset mapper.
const passageTemplate = `<div class="passage" data-passage="{{.LessonID}}">` +
	`{{range .Segments}}` +
	`{{if .Highlight}}` +
	`<mark class="{{.Class}}" data-annotation-id="{{.ID}}" data-start="{{.Start}}" data-end="{{.End}}" data-color="{{.Color}}" style="background-color: {{.Color}}" ` +
	`data-word="{{.Tooltip.Word}}" data-phonetic="{{.Tooltip.Phonetic}}" data-meaning="{{.Tooltip.Meaning}}" data-example="{{.Tooltip.Example}}" ` +
	`data-lookup="{{.LookupURL}}" title="{{.Title}}">{{.Text}}</mark>` +
	`{{else}}` +
	`<span data-start="{{.Start}}" data-end="{{.End}}">{{.Text}}</span>` +
	`{{end}}` +
	`{{end}}` +
	`</div>`

var tmpl = template.Must(template.New("passage").Parse(passageTemplate))

type htmlSegment struct {
	Highlight bool
	Class     string
	ID        string
	Text      string
	Start     int
	End       int
	Color     template.CSS
	Tooltip   annotation.Tooltip
	LookupURL string
	Title     string
}

// RenderHTML renders segments as a single passage element with one child per
// segment. Highlight elements carry their tooltip payload and lookup link as
// data attributes.
func RenderHTML(lessonID uint, segments []annotation.Segment) (template.HTML, error) {
	data := struct {
		LessonID uint
		Segments []htmlSegment
	}{LessonID: lessonID, Segments: make([]htmlSegment, len(segments))}

	for i, s := range segments {
		hs := htmlSegment{Text: s.Text, Start: s.Start, End: s.End}
		if s.IsHighlight() {
			color, err := utils.NormalizeColor(s.Color())
			if err != nil {
				color, _ = utils.NormalizeColor(utils.DefaultHighlightColor)
			}
			tip := s.Tooltip()
			hs.Highlight = true
			hs.Class = highlightClass(s.Color())
			hs.ID = s.Annotation.ID
			hs.Color = template.CSS(color)
			hs.Tooltip = tip
			hs.LookupURL = LookupURL(lookupWord(s))
			hs.Title = tooltipTitle(tip)
		}
		data.Segments[i] = hs
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render passage: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// LookupURL returns the dictionary endpoint a highlight links to.
func LookupURL(word string) string {
	return "/api/lookup?word=" + url.QueryEscape(word)
}

func lookupWord(s annotation.Segment) string {
	if w := s.Tooltip().Word; w != "" {
		return w
	}
	return s.Text
}

// highlightClass adds a palette class such as "vocab-green" so page styles
// can theme palette colours. Hex colours only get the inline style.
func highlightClass(token string) string {
	if !utils.IsPaletteColor(token) {
		return "vocab"
	}
	return "vocab vocab-" + strings.ToLower(strings.TrimSpace(token))
}

func tooltipTitle(t annotation.Tooltip) string {
	title := t.Word
	if t.Phonetic != "" {
		title += " " + t.Phonetic
	}
	if t.Meaning != "" {
		title += ": " + t.Meaning
	}
	return title
}
