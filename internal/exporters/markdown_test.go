package exporters

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/annotator/internal/annotation"
	"github.com/mrlokans/annotator/internal/entities"
)

func foxLesson() entities.Lesson {
	return entities.Lesson{
		Title:     `Foxes: "quick" ones`,
		Kind:      entities.LessonKindReading,
		Passage:   "The quick brown fox",
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestGenerateMarkdown(t *testing.T) {
	lesson := foxLesson()
	segments := annotation.RenderSegments(lesson.Passage, []annotation.Record{
		{ID: "1", Start: 4, End: 9, Tooltip: annotation.Tooltip{Word: "quick", Phonetic: "/kwɪk/", Meaning: "fast", Example: "a quick reply"}},
		{ID: "2", Start: 10, End: 15},
	})

	md, result, err := GenerateMarkdown(lesson, segments)

	require.NoError(t, err)
	assert.Equal(t, ExportResult{Highlights: 2, Words: 2}, result)
	assert.Contains(t, md, "The ==quick== ==brown== fox")
	assert.Contains(t, md, "- **quick** /kwɪk/: fast\n  > a quick reply\n")
	assert.Contains(t, md, "- **brown**\n")

	parts := strings.SplitN(md, "---\n", 3)
	require.Len(t, parts, 3)
	var meta frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &meta))
	assert.Equal(t, `Foxes: "quick" ones`, meta.Title)
	assert.Equal(t, "2024-03-01", meta.CreatedAt)
	assert.Equal(t, 2, meta.Words)
	assert.Equal(t, "reading", meta.Kind)
}

func TestGenerateMarkdown_ClippedAnnotationListedOnce(t *testing.T) {
	lesson := foxLesson()
	segments := annotation.RenderSegments(lesson.Passage, []annotation.Record{
		{ID: "a", Start: 4, End: 9, Tooltip: annotation.Tooltip{Word: "quick"}},
		{ID: "b", Start: 6, End: 12, Tooltip: annotation.Tooltip{Word: "ick br"}},
		{ID: "c", Start: 5, End: 8},
	})

	md, result, err := GenerateMarkdown(lesson, segments)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Words)
	assert.Contains(t, md, "The ==quick==== br==own fox")
	assert.NotContains(t, md, "**ui")
}

func TestGenerateMarkdown_NoAnnotations(t *testing.T) {
	lesson := foxLesson()

	md, result, err := GenerateMarkdown(lesson, annotation.RenderSegments(lesson.Passage, nil))

	require.NoError(t, err)
	assert.Zero(t, result.Words)
	assert.NotContains(t, md, "## Vocabulary")
	assert.True(t, strings.HasSuffix(md, "The quick brown fox\n"))
}

func TestMarkLines(t *testing.T) {
	assert.Equal(t, "==one==\n\n==two==", markLines("one\n\ntwo"))
	assert.Equal(t, "==word==", markLines("word"))
}
