package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/annotator/internal/entities"
)

type LessonsController struct {
	store   LessonStore
	counter AnnotationCounter // nil omits annotation counts
}

func NewLessonsController(store LessonStore, counter AnnotationCounter) *LessonsController {
	return &LessonsController{store: store, counter: counter}
}

// LessonSummary is a lesson as listed, with the size of its vocabulary.
type LessonSummary struct {
	entities.Lesson
	AnnotationCount int64 `json:"annotation_count"`
}

type createLessonRequest struct {
	Title    string              `json:"title" binding:"required"`
	Kind     entities.LessonKind `json:"kind"`
	Passage  string              `json:"passage" binding:"required"`
	AudioURL string              `json:"audio_url"`
}

// normalizePassage converts line endings to "\n" so offsets taken from the
// browser, whose parser does the same, line up with the stored text.
func normalizePassage(passage string) string {
	passage = strings.ReplaceAll(passage, "\r\n", "\n")
	return strings.ReplaceAll(passage, "\r", "\n")
}

// ListLessons returns a page of lessons, newest first, with annotation counts
// GET /api/lessons
func (lc *LessonsController) ListLessons(c *gin.Context) {
	limit, offset := parsePagination(c)

	lessons, total, err := lc.store.ListLessons(limit, offset)
	if err != nil {
		respondInternalError(c, err, "list lessons")
		return
	}

	summaries := make([]LessonSummary, len(lessons))
	for i, lesson := range lessons {
		summaries[i].Lesson = lesson
		if lc.counter == nil {
			continue
		}
		count, err := lc.counter.CountByLesson(lesson.ID)
		if err != nil {
			respondInternalError(c, err, "count annotations")
			return
		}
		summaries[i].AnnotationCount = count
	}

	c.JSON(http.StatusOK, newPaginatedResponse(summaries, total, limit, offset))
}

// CreateLesson stores a new lesson
// POST /api/lessons
func (lc *LessonsController) CreateLesson(c *gin.Context) {
	var req createLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and passage are required")
		return
	}

	if req.Kind == "" {
		req.Kind = entities.LessonKindReading
	}
	if !req.Kind.Valid() {
		respondBadRequest(c, "kind must be reading or listening")
		return
	}

	lesson := &entities.Lesson{
		Title:    strings.TrimSpace(req.Title),
		Kind:     req.Kind,
		Passage:  normalizePassage(req.Passage),
		AudioURL: req.AudioURL,
	}
	if err := lc.store.CreateLesson(lesson); err != nil {
		respondInternalError(c, err, "create lesson")
		return
	}

	respondCreated(c, lesson)
}

// GetLesson returns a lesson with its annotations
// GET /api/lessons/:id
func (lc *LessonsController) GetLesson(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lesson, err := lc.store.GetLessonByID(id)
	if err != nil {
		respondStoreError(c, err, "lesson")
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// DeleteLesson removes a lesson and its annotations
// DELETE /api/lessons/:id
func (lc *LessonsController) DeleteLesson(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := lc.store.DeleteLesson(id); err != nil {
		respondStoreError(c, err, "lesson")
		return
	}

	respondSuccess(c, "lesson deleted")
}
