package http

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/annotator/internal/annotation"
	"github.com/mrlokans/annotator/internal/entities"
	"github.com/mrlokans/annotator/internal/exporters"
	"github.com/mrlokans/annotator/internal/logging"
	"github.com/mrlokans/annotator/internal/passage"
	"github.com/mrlokans/annotator/internal/utils"
)

// AnnotationsController serves the rendered passage of a lesson and the
// annotations placed on it.
type AnnotationsController struct {
	lessons        LessonStore
	store          AnnotationStore
	rejectOverlaps bool
	defaultColor   string
	enrichment     EnrichmentQueue // nil leaves empty tooltips as they are
}

func NewAnnotationsController(lessons LessonStore, store AnnotationStore, enrichment EnrichmentQueue, rejectOverlaps bool, defaultColor string) *AnnotationsController {
	if defaultColor == "" {
		defaultColor = utils.DefaultHighlightColor
	}
	return &AnnotationsController{
		lessons:        lessons,
		store:          store,
		rejectOverlaps: rejectOverlaps,
		defaultColor:   defaultColor,
		enrichment:     enrichment,
	}
}

type createAnnotationRequest struct {
	Start    *int   `json:"start" binding:"required"`
	End      *int   `json:"end" binding:"required"`
	Color    string `json:"color"`
	Word     string `json:"word"`
	Phonetic string `json:"phonetic"`
	Meaning  string `json:"meaning"`
	Example  string `json:"example"`
}

// updateAnnotationRequest edits the tooltip data and colour. The range is
// fixed once created.
type updateAnnotationRequest struct {
	Color    *string `json:"color"`
	Word     *string `json:"word"`
	Phonetic *string `json:"phonetic"`
	Meaning  *string `json:"meaning"`
	Example  *string `json:"example"`
}

// SegmentsResponse is the passage split into plain and highlighted runs.
type SegmentsResponse struct {
	LessonID uint                 `json:"lesson_id"`
	Segments []annotation.Segment `json:"segments"`
}

func (ac *AnnotationsController) loadSegments(c *gin.Context) (*entities.Lesson, []annotation.Segment, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, nil, false
	}

	lesson, err := ac.lessons.GetLessonByID(id)
	if err != nil {
		respondStoreError(c, err, "lesson")
		return nil, nil, false
	}

	return lesson, annotation.RenderSegments(lesson.Passage, entities.RecordsOf(lesson.Annotations)), true
}

// GetSegments returns the lesson passage as segments
// GET /api/lessons/:id/segments
func (ac *AnnotationsController) GetSegments(c *gin.Context) {
	lesson, segments, ok := ac.loadSegments(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, SegmentsResponse{LessonID: lesson.ID, Segments: segments})
}

// GetPassage returns the rendered passage fragment. With ?download=1 the
// fragment is served as an attachment named after the lesson.
// GET /api/lessons/:id/passage
func (ac *AnnotationsController) GetPassage(c *gin.Context) {
	lesson, segments, ok := ac.loadSegments(c)
	if !ok {
		return
	}

	fragment, err := passage.RenderHTML(lesson.ID, segments)
	if err != nil {
		respondInternalError(c, err, "render passage")
		return
	}

	if c.Query("download") != "" {
		c.Header("Content-Disposition", utils.AttachmentDisposition(lesson.Title, ".html"))
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fragment))
}

// ExportMarkdown returns the lesson as a markdown note with its vocabulary list
// GET /api/lessons/:id/export
func (ac *AnnotationsController) ExportMarkdown(c *gin.Context) {
	lesson, segments, ok := ac.loadSegments(c)
	if !ok {
		return
	}

	md, _, err := exporters.GenerateMarkdown(*lesson, segments)
	if err != nil {
		respondInternalError(c, err, "export markdown")
		return
	}

	c.Header("Content-Disposition", utils.AttachmentDisposition(lesson.Title, ".md"))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

// CaptureSelection maps a browser selection on the rendered passage to
// passage offsets. Selections that cannot be mapped get 204 No Content.
// POST /api/lessons/:id/selection
func (ac *AnnotationsController) CaptureSelection(c *gin.Context) {
	lesson, segments, ok := ac.loadSegments(c)
	if !ok {
		return
	}

	var payload passage.RangePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid selection payload")
		return
	}

	fragment, err := passage.RenderHTML(lesson.ID, segments)
	if err != nil {
		respondInternalError(c, err, "render passage")
		return
	}
	root, err := passage.ParseTree(string(fragment))
	if err != nil {
		respondInternalError(c, err, "parse passage")
		return
	}

	result, ok := annotation.CaptureSelection(root, payload.Source(root))
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListAnnotations returns the annotations of a lesson
// GET /api/lessons/:id/annotations
func (ac *AnnotationsController) ListAnnotations(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := ac.lessons.GetLessonByID(id); err != nil {
		respondStoreError(c, err, "lesson")
		return
	}

	list, err := ac.store.GetAnnotationsByLesson(id)
	if err != nil {
		respondInternalError(c, err, "list annotations")
		return
	}

	c.JSON(http.StatusOK, list)
}

// CreateAnnotation places a new annotation on a lesson passage
// POST /api/lessons/:id/annotations
func (ac *AnnotationsController) CreateAnnotation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req createAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "start and end are required")
		return
	}

	lesson, err := ac.lessons.GetLessonByID(id)
	if err != nil {
		respondStoreError(c, err, "lesson")
		return
	}

	color, err := ac.normalizeColor(req.Color)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	a := &entities.Annotation{
		LessonID: lesson.ID,
		Start:    *req.Start,
		End:      *req.End,
		Color:    color,
		Word:     strings.TrimSpace(req.Word),
		Phonetic: req.Phonetic,
		Meaning:  req.Meaning,
		Example:  req.Example,
	}

	candidate := a.ToRecord()
	if err := annotation.Validate(candidate, utf8.RuneCountInString(lesson.Passage)); err != nil {
		code := "invalid_range"
		if errors.Is(err, annotation.ErrOutOfBounds) {
			code = "out_of_bounds"
		}
		respondValidationError(c, code, err)
		return
	}
	if ac.rejectOverlaps {
		if err := annotation.CheckOverlap(entities.RecordsOf(lesson.Annotations), candidate); err != nil {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "overlap"})
			return
		}
	}
	if a.Word == "" {
		a.Word = string([]rune(lesson.Passage)[a.Start:a.End])
	}
	if ac.enrichment != nil && a.Meaning == "" {
		a.LookupStatus = entities.LookupPending
	}

	if err := ac.store.AddAnnotation(a); err != nil {
		respondInternalError(c, err, "create annotation")
		return
	}

	// A failed enqueue leaves the annotation pending for the scheduled sweep.
	if a.LookupStatus == entities.LookupPending {
		if err := ac.enrichment.EnqueueEnrichment(a.ID); err != nil {
			log := logging.Component("http")
			log.Warn().Err(err).Uint("annotation_id", a.ID).Msg("failed to enqueue enrichment")
		}
	}

	respondCreated(c, a)
}

// UpdateAnnotation edits the tooltip data or colour of an annotation
// PATCH /api/annotations/:id
func (ac *AnnotationsController) UpdateAnnotation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	a, err := ac.store.GetAnnotationByID(id)
	if err != nil {
		respondStoreError(c, err, "annotation")
		return
	}

	if req.Color != nil {
		color, err := ac.normalizeColor(*req.Color)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		a.Color = color
	}
	if req.Word != nil {
		a.Word = strings.TrimSpace(*req.Word)
	}
	if req.Phonetic != nil {
		a.Phonetic = *req.Phonetic
	}
	if req.Meaning != nil {
		a.Meaning = *req.Meaning
	}
	if req.Example != nil {
		a.Example = *req.Example
	}

	if err := ac.store.UpdateAnnotation(a); err != nil {
		respondInternalError(c, err, "update annotation")
		return
	}

	c.JSON(http.StatusOK, a)
}

// DeleteAnnotation removes an annotation
// DELETE /api/annotations/:id
func (ac *AnnotationsController) DeleteAnnotation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.store.DeleteAnnotation(id); err != nil {
		respondStoreError(c, err, "annotation")
		return
	}

	respondSuccess(c, "annotation deleted")
}

// normalizeColor validates a colour token and stores it as "#RRGGBB".
func (ac *AnnotationsController) normalizeColor(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		token = ac.defaultColor
	}
	return utils.NormalizeColor(token)
}
