package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/annotator/internal/annotation"
	"github.com/mrlokans/annotator/internal/entities"
	"github.com/mrlokans/annotator/internal/passage"
)

const foxPassage = "The quick brown fox"

func TestAnnotationsController_GetSegments(t *testing.T) {
	env := setupTestEnv(t, nil)
	lesson := env.createLesson(t, foxPassage)
	env.annotate(t, lesson.ID, 10, 15, "brown")
	env.annotate(t, lesson.ID, 4, 9, "quick")

	w := env.do("GET", "/api/lessons/"+itoa(lesson.ID)+"/segments", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp SegmentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, lesson.ID, resp.LessonID)
	require.Len(t, resp.Segments, 5)
	assert.Equal(t, "quick", resp.Segments[1].Text)
	assert.Equal(t, annotation.SegmentHighlight, resp.Segments[1].Kind)
	assert.Equal(t, "quick", resp.Segments[1].Annotation.Tooltip.Word)
	assert.Equal(t, foxPassage, annotation.JoinSegments(resp.Segments))
}

func TestAnnotationsController_GetSegments_UnknownLesson(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do("GET", "/api/lessons/42/segments", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnotationsController_GetPassage(t *testing.T) {
	env := setupTestEnv(t, nil)
	lesson := env.createLesson(t, foxPassage)
	env.annotate(t, lesson.ID, 4, 9, "quick")

	t.Run("renders fragment", func(t *testing.T) {
		w := env.do("GET", "/api/lessons/"+itoa(lesson.ID)+"/passage", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), `>quick</mark>`)
		assert.Empty(t, w.Header().Get("Content-Disposition"))
	})

	t.Run("download sets attachment name", func(t *testing.T) {
		w := env.do("GET", "/api/lessons/"+itoa(lesson.ID)+"/passage?download=1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="Foxes.html"`, w.Header().Get("Content-Disposition"))
	})
}

func TestAnnotationsController_ExportMarkdown(t *testing.T) {
	env := setupTestEnv(t, nil)
	lesson := env.createLesson(t, foxPassage)
	env.annotate(t, lesson.ID, 4, 9, "quick")

	w := env.do("GET", "/api/lessons/"+itoa(lesson.ID)+"/export", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="Foxes.md"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "The ==quick== brown fox")
	assert.Contains(t, w.Body.String(), "- **quick**")
}

func TestAnnotationsController_CaptureSelection(t *testing.T) {
	env := setupTestEnv(t, nil)
	lesson := env.createLesson(t, foxPassage)
	env.annotate(t, lesson.ID, 4, 9, "quick")
	path := "/api/lessons/" + itoa(lesson.ID) + "/selection"

	t.Run("maps selection inside plain run", func(t *testing.T) {
		// children: "The ", <mark>quick</mark>, " brown fox"
		w := env.do("POST", path, passage.RangePayload{
			Start: passage.Endpoint{Path: []int{2, 0}, Offset: 1},
			End:   passage.Endpoint{Path: []int{2, 0}, Offset: 6},
			Text:  "brown",
		})

		require.Equal(t, http.StatusOK, w.Code)
		var result annotation.SelectionResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, annotation.SelectionResult{Text: "brown", Start: 10, End: 15}, result)
	})

	t.Run("maps selection spanning a highlight", func(t *testing.T) {
		w := env.do("POST", path, passage.RangePayload{
			Start: passage.Endpoint{Path: []int{0, 0}, Offset: 0},
			End:   passage.Endpoint{Path: []int{2, 0}, Offset: 6},
			Text:  "The quick brown",
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"start":0`)
		assert.Contains(t, w.Body.String(), `"end":15`)
	})

	t.Run("unmappable selection returns no content", func(t *testing.T) {
		w := env.do("POST", path, passage.RangePayload{
			Start: passage.Endpoint{Path: []int{9, 0}, Offset: 0},
			End:   passage.Endpoint{Path: []int{2, 0}, Offset: 6},
			Text:  "brown",
		})

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("whitespace-only selection returns no content", func(t *testing.T) {
		w := env.do("POST", path, passage.RangePayload{
			Start: passage.Endpoint{Path: []int{0, 0}, Offset: 3},
			End:   passage.Endpoint{Path: []int{0, 0}, Offset: 4},
			Text:  " ",
		})

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestAnnotationsController_CreateAnnotation(t *testing.T) {
	t.Run("creates annotation with defaults", func(t *testing.T) {
		env := setupTestEnv(t, nil)
		lesson := env.createLesson(t, foxPassage)

		w := env.do("POST", "/api/lessons/"+itoa(lesson.ID)+"/annotations", map[string]any{
			"start": 4, "end": 9, "meaning": "fast",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		var a entities.Annotation
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
		assert.Equal(t, "quick", a.Word)
		assert.Equal(t, "#FFEB3B", a.Color)
		assert.Equal(t, "fast", a.Meaning)
	})

	t.Run("start at zero is accepted", func(t *testing.T) {
		env := setupTestEnv(t, nil)
		lesson := env.createLesson(t, foxPassage)

		w := env.do("POST", "/api/lessons/"+itoa(lesson.ID)+"/annotations", map[string]any{
			"start": 0, "end": 3, "color": "#abc",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"color":"#AABBCC"`)
	})

	t.Run("uses configured default colour", func(t *testing.T) {
		env := setupTestEnv(t, func(cfg *RouterConfig) { cfg.DefaultColor = "green" })
		lesson := env.createLesson(t, foxPassage)

		w := env.do("POST", "/api/lessons/"+itoa(lesson.ID)+"/annotations", map[string]any{
			"start": 4, "end": 9,
		})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"color":"#A5D6A7"`)
	})

	t.Run("counts offsets in runes", func(t *testing.T) {
		env := setupTestEnv(t, nil)
		lesson := env.createLesson(t, "Tôi đang học")

		w := env.do("POST", "/api/lessons/"+itoa(lesson.ID)+"/annotations", map[string]any{
			"start": 9, "end": 12,
		})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"word":"học"`)
	})

	tests := []struct {
		name         string
		body         map[string]any
		expectedCode int
		errorCode    string
	}{
		{"missing end", map[string]any{"start": 1}, http.StatusBadRequest, ""},
		{"empty range", map[string]any{"start": 5, "end": 5}, http.StatusUnprocessableEntity, "invalid_range"},
		{"reversed range", map[string]any{"start": 9, "end": 4}, http.StatusUnprocessableEntity, "invalid_range"},
		{"past end", map[string]any{"start": 16, "end": 40}, http.StatusUnprocessableEntity, "out_of_bounds"},
		{"negative start", map[string]any{"start": -1, "end": 3}, http.StatusUnprocessableEntity, "out_of_bounds"},
		{"unknown colour", map[string]any{"start": 4, "end": 9, "color": "chartreuse"}, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t, nil)
			lesson := env.createLesson(t, foxPassage)

			w := env.do("POST", "/api/lessons/"+itoa(lesson.ID)+"/annotations", tt.body)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.errorCode != "" {
				assert.Contains(t, w.Body.String(), `"code":"`+tt.errorCode+`"`)
			}
		})
	}

	t.Run("unknown lesson", func(t *testing.T) {
		env := setupTestEnv(t, nil)

		w := env.do("POST", "/api/lessons/77/annotations", map[string]any{"start": 0, "end": 1})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAnnotationsController_CreateAnnotation_Enrichment(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]any
		queueErr       error
		expectedStatus entities.LookupStatus
		expectEnqueued bool
	}{
		{"empty meaning is enqueued", map[string]any{"start": 4, "end": 9}, nil, entities.LookupPending, true},
		{"hand-written meaning is kept", map[string]any{"start": 4, "end": 9, "meaning": "fast"}, nil, entities.LookupNone, false},
		{"queue failure stays pending", map[string]any{"start": 4, "end": 9}, errors.New("queue closed"), entities.LookupPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &fakeQueue{err: tt.queueErr}
			env := setupTestEnv(t, func(cfg *RouterConfig) { cfg.EnrichmentQueue = queue })
			lesson := env.createLesson(t, foxPassage)

			w := env.do("POST", "/api/lessons/"+itoa(lesson.ID)+"/annotations", tt.body)

			require.Equal(t, http.StatusCreated, w.Code)
			var a entities.Annotation
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
			assert.Equal(t, tt.expectedStatus, a.LookupStatus)
			if tt.expectEnqueued {
				assert.Equal(t, []uint{a.ID}, queue.enqueued)
			} else {
				assert.Empty(t, queue.enqueued)
			}

			stored, err := env.annotations.GetAnnotationByID(a.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, stored.LookupStatus)
		})
	}

	t.Run("no queue leaves status empty", func(t *testing.T) {
		env := setupTestEnv(t, nil)
		lesson := env.createLesson(t, foxPassage)

		w := env.do("POST", "/api/lessons/"+itoa(lesson.ID)+"/annotations", map[string]any{"start": 4, "end": 9})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "lookup_status")
	})
}

func TestAnnotationsController_Overlaps(t *testing.T) {
	body := map[string]any{"start": 6, "end": 12}

	t.Run("allowed and clipped when rendering", func(t *testing.T) {
		env := setupTestEnv(t, nil)
		lesson := env.createLesson(t, foxPassage)
		env.annotate(t, lesson.ID, 4, 9, "quick")

		w := env.do("POST", "/api/lessons/"+itoa(lesson.ID)+"/annotations", body)
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do("GET", "/api/lessons/"+itoa(lesson.ID)+"/segments", nil)
		var resp SegmentsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		texts := make([]string, len(resp.Segments))
		for i, s := range resp.Segments {
			texts[i] = s.Text
		}
		assert.Equal(t, []string{"The ", "quick", " br", "own fox"}, texts)
	})

	t.Run("rejected when configured", func(t *testing.T) {
		env := setupTestEnv(t, func(cfg *RouterConfig) { cfg.RejectOverlaps = true })
		lesson := env.createLesson(t, foxPassage)
		env.annotate(t, lesson.ID, 4, 9, "quick")

		w := env.do("POST", "/api/lessons/"+itoa(lesson.ID)+"/annotations", body)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"overlap"`)

		w = env.do("POST", "/api/lessons/"+itoa(lesson.ID)+"/annotations", map[string]any{"start": 9, "end": 15})
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestAnnotationsController_ListAnnotations(t *testing.T) {
	env := setupTestEnv(t, nil)
	lesson := env.createLesson(t, foxPassage)
	env.annotate(t, lesson.ID, 10, 15, "brown")
	env.annotate(t, lesson.ID, 4, 9, "quick")

	w := env.do("GET", "/api/lessons/"+itoa(lesson.ID)+"/annotations", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var list []entities.Annotation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "brown", list[0].Word)

	w = env.do("GET", "/api/lessons/404/annotations", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnotationsController_UpdateAnnotation(t *testing.T) {
	env := setupTestEnv(t, nil)
	lesson := env.createLesson(t, foxPassage)
	a := env.annotate(t, lesson.ID, 4, 9, "quick")

	w := env.do("PATCH", "/api/annotations/"+itoa(a.ID), map[string]any{
		"phonetic": "/kwɪk/",
		"meaning":  "moving fast",
		"color":    "blue",
		"start":    0,
	})

	require.Equal(t, http.StatusOK, w.Code)
	stored, err := env.annotations.GetAnnotationByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "/kwɪk/", stored.Phonetic)
	assert.Equal(t, "moving fast", stored.Meaning)
	assert.Equal(t, "#90CAF9", stored.Color)
	assert.Equal(t, "quick", stored.Word)
	assert.Equal(t, 4, stored.Start)

	w = env.do("PATCH", "/api/annotations/"+itoa(a.ID), map[string]any{"color": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("PATCH", "/api/annotations/999", map[string]any{"meaning": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnotationsController_DeleteAnnotation(t *testing.T) {
	env := setupTestEnv(t, nil)
	lesson := env.createLesson(t, foxPassage)
	a := env.annotate(t, lesson.ID, 4, 9, "quick")

	w := env.do("DELETE", "/api/annotations/"+itoa(a.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do("GET", "/api/lessons/"+itoa(lesson.ID)+"/passage", nil)
	assert.False(t, strings.Contains(w.Body.String(), "<mark"))

	w = env.do("DELETE", "/api/annotations/"+itoa(a.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
