// Package exporters turns an annotated lesson into files readers keep
// outside the app.
package exporters

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/annotator/internal/annotation"
	"github.com/mrlokans/annotator/internal/entities"
)

type frontmatter struct {
	ContentType string   `yaml:"content_type"`
	Title       string   `yaml:"title"`
	Kind        string   `yaml:"kind,omitempty"`
	CreatedAt   string   `yaml:"created_at"`
	Words       int      `yaml:"words"`
	Tags        []string `yaml:"tags"`
	AudioURL    string   `yaml:"audio_url,omitempty"`
}

// ExportResult summarises one markdown export.
type ExportResult struct {
	Highlights int `json:"highlights"`
	Words      int `json:"words"`
}

// GenerateMarkdown renders a lesson as an Obsidian note: YAML frontmatter, the
// passage with highlighted runs wrapped in ==marks==, then a vocabulary list
// with one entry per annotation that survived rendering.
func GenerateMarkdown(lesson entities.Lesson, segments []annotation.Segment) (string, ExportResult, error) {
	vocab := vocabulary(segments)

	created := lesson.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	meta, err := yaml.Marshal(frontmatter{
		ContentType: "lesson_vocabulary",
		Title:       lesson.Title,
		Kind:        string(lesson.Kind),
		CreatedAt:   created.Format("2006-01-02"),
		Words:       len(vocab),
		Tags:        []string{"vocabulary", "lessons"},
		AudioURL:    lesson.AudioURL,
	})
	if err != nil {
		return "", ExportResult{}, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "---\n%s---\n\n", meta)
	fmt.Fprintf(&builder, "## Passage\n\n")

	result := ExportResult{Words: len(vocab)}
	for _, s := range segments {
		if !s.IsHighlight() {
			builder.WriteString(s.Text)
			continue
		}
		result.Highlights++
		builder.WriteString(markLines(s.Text))
	}

	if len(vocab) > 0 {
		fmt.Fprintf(&builder, "\n\n## Vocabulary\n\n")
		for _, r := range vocab {
			fmt.Fprintf(&builder, "- **%s**", r.Tooltip.Word)
			if r.Tooltip.Phonetic != "" {
				fmt.Fprintf(&builder, " %s", r.Tooltip.Phonetic)
			}
			if r.Tooltip.Meaning != "" {
				fmt.Fprintf(&builder, ": %s", r.Tooltip.Meaning)
			}
			builder.WriteString("\n")
			if r.Tooltip.Example != "" {
				fmt.Fprintf(&builder, "  > %s\n", r.Tooltip.Example)
			}
		}
	} else {
		builder.WriteString("\n")
	}

	return builder.String(), result, nil
}

// markLines wraps every non-empty line in ==...==; a mark cannot span lines.
func markLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "==" + line + "=="
		}
	}
	return strings.Join(lines, "\n")
}

// vocabulary returns one record per highlighted annotation in passage order.
// Records without a tooltip word fall back to the text they cover.
func vocabulary(segments []annotation.Segment) []annotation.Record {
	seen := make(map[string]bool)
	var out []annotation.Record
	for _, s := range segments {
		if !s.IsHighlight() || seen[s.Annotation.ID] {
			continue
		}
		seen[s.Annotation.ID] = true
		r := *s.Annotation
		if r.Tooltip.Word == "" {
			r.Tooltip.Word = s.Text
		}
		out = append(out, r)
	}
	return out
}
