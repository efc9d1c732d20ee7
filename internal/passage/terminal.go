package passage

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrlokans/annotator/internal/annotation"
	"github.com/mrlokans/annotator/internal/utils"
)

// TerminalOptions controls RenderTerminal.
type TerminalOptions struct {
	// Renderer defaults to lipgloss.DefaultRenderer().
	Renderer *lipgloss.Renderer
	// Footnotes appends numbered markers after each highlight and lists the
	// tooltip data below the passage.
	Footnotes bool
}

// RenderTerminal renders segments for a terminal, colouring each highlight
// with its annotation colour.
func RenderTerminal(segments []annotation.Segment, opts TerminalOptions) string {
	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	markerStyle := r.NewStyle().Faint(true)

	var body strings.Builder
	var notes []string
	for _, s := range segments {
		if !s.IsHighlight() {
			body.WriteString(s.Text)
			continue
		}

		color, err := utils.NormalizeColor(s.Color())
		if err != nil {
			color, _ = utils.NormalizeColor(utils.DefaultHighlightColor)
		}
		style := r.NewStyle().
			Background(lipgloss.Color(color)).
			Foreground(lipgloss.Color("#000000")).
			TabWidth(lipgloss.NoTabConversion)

		// lipgloss pads multi-line blocks, so style each line on its own.
		lines := strings.Split(s.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				body.WriteString("\n")
			}
			if line != "" {
				body.WriteString(style.Render(line))
			}
		}

		if opts.Footnotes {
			notes = append(notes, footnote(len(notes)+1, s))
			body.WriteString(markerStyle.Render(fmt.Sprintf("[%d]", len(notes))))
		}
	}

	if len(notes) == 0 {
		return body.String()
	}
	return body.String() + "\n\n" + strings.Join(notes, "\n")
}

func footnote(n int, s annotation.Segment) string {
	tip := s.Tooltip()
	word := tip.Word
	if word == "" {
		word = s.Text
	}

	line := fmt.Sprintf("[%d] %s", n, word)
	if tip.Phonetic != "" {
		line += " " + tip.Phonetic
	}
	if tip.Meaning != "" {
		line += " - " + tip.Meaning
	}
	if tip.Example != "" {
		line += fmt.Sprintf(" (e.g. %q)", tip.Example)
	}
	return line
}
