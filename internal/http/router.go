package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	health := NewHealthController(cfg.Database, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	if cfg.LessonStore != nil {
		lessons := NewLessonsController(cfg.LessonStore, cfg.AnnotationStore)
		api.GET("/lessons", lessons.ListLessons)
		api.POST("/lessons", lessons.CreateLesson)
		api.GET("/lessons/:id", lessons.GetLesson)
		api.DELETE("/lessons/:id", lessons.DeleteLesson)

		if cfg.AnnotationStore != nil {
			annotations := NewAnnotationsController(cfg.LessonStore, cfg.AnnotationStore, cfg.EnrichmentQueue, cfg.RejectOverlaps, cfg.DefaultColor)
			api.GET("/lessons/:id/segments", annotations.GetSegments)
			api.GET("/lessons/:id/passage", annotations.GetPassage)
			api.GET("/lessons/:id/export", annotations.ExportMarkdown)
			api.POST("/lessons/:id/selection", annotations.CaptureSelection)
			api.GET("/lessons/:id/annotations", annotations.ListAnnotations)
			api.POST("/lessons/:id/annotations", annotations.CreateAnnotation)
			api.PATCH("/annotations/:id", annotations.UpdateAnnotation)
			api.DELETE("/annotations/:id", annotations.DeleteAnnotation)
		}
	}

	if cfg.DictionaryClient != nil {
		lookup := NewLookupController(cfg.DictionaryClient)
		api.GET("/lookup", lookup.Lookup)
	}

	return router
}
