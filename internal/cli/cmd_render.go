package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/mrlokans/annotator/internal/annotation"
	"github.com/mrlokans/annotator/internal/entities"
	"github.com/mrlokans/annotator/internal/exporters"
	"github.com/mrlokans/annotator/internal/passage"
)

const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

type RenderCmd struct {
	flags *Flags

	// flags
	textPath        string
	annotationsPath string
	format          string
	footnotes       bool

	// renderer overrides colour detection in tests
	renderer *lipgloss.Renderer
}

// NewRenderCmd creates a new render command
func NewRenderCmd(flags *Flags) *RenderCmd {
	return &RenderCmd{flags: flags}
}

// Register adds the render command to the application
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Render a passage with its annotations",
		UsageText: "annotator render --text passage.txt [--annotations notes.yaml] [--format terminal|json|html|markdown]",
		Description: `Splits a passage into plain and highlighted segments offline.

Annotation files are YAML or JSON: a list of {id, start, end, color, tooltip}
records, offsets counted in characters. Overlapping annotations are clipped,
malformed ones are skipped with a warning.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "text",
				Aliases:     []string{"t"},
				Usage:       "path to the passage text file",
				Required:    true,
				Destination: &cmd.textPath,
			},
			&cli.StringFlag{
				Name:        "annotations",
				Aliases:     []string{"a"},
				Usage:       "path to the annotations file (YAML or JSON)",
				Destination: &cmd.annotationsPath,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format: terminal, json, html or markdown",
				Value:       FormatTerminal,
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "footnotes",
				Usage:       "list tooltip data below the passage (terminal format)",
				Value:       true,
				Destination: &cmd.footnotes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RenderCmd) run(ctx context.Context, c *cli.Command) error {
	raw, err := os.ReadFile(cmd.textPath)
	if err != nil {
		return fmt.Errorf("read text: %w", err)
	}
	if !utf8.Valid(raw) {
		return fmt.Errorf("read text: %s is not valid UTF-8", cmd.textPath)
	}

	var records []annotation.Record
	if cmd.annotationsPath != "" {
		data, err := os.ReadFile(cmd.annotationsPath)
		if err != nil {
			return fmt.Errorf("read annotations: %w", err)
		}
		records, err = ParseRecords(data)
		if err != nil {
			return err
		}
	}

	return cmd.render(c.Root().Writer, string(raw), records)
}

func (cmd *RenderCmd) render(w io.Writer, text string, records []annotation.Record) error {
	if w == nil {
		w = os.Stdout
	}
	segments := annotation.RenderSegments(text, records)

	switch cmd.format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Segments []annotation.Segment `json:"segments"`
		}{segments})
	case FormatHTML:
		fragment, err := passage.RenderHTML(0, segments)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, fragment)
		return err
	case FormatMarkdown:
		title := strings.TrimSuffix(filepath.Base(cmd.textPath), filepath.Ext(cmd.textPath))
		md, _, err := exporters.GenerateMarkdown(entities.Lesson{Title: title, Passage: text}, segments)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, md)
		return err
	case FormatTerminal, "":
		r := cmd.renderer
		if r == nil {
			r = lipgloss.NewRenderer(w)
		}
		out := passage.RenderTerminal(segments, passage.TerminalOptions{Renderer: r, Footnotes: cmd.footnotes})
		_, err := fmt.Fprintln(w, out)
		return err
	default:
		return fmt.Errorf("unknown format %q", cmd.format)
	}
}
