package http

import (
	"github.com/mrlokans/annotator/internal/database"
	"github.com/mrlokans/annotator/internal/dictionary"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	Database         *database.Database
	LessonStore      LessonStore
	AnnotationStore  AnnotationStore
	DictionaryClient dictionary.Client // nil disables /api/lookup
	EnrichmentQueue  EnrichmentQueue   // nil disables background tooltip lookups

	// RejectOverlaps refuses annotations that intersect an existing one.
	RejectOverlaps bool
	DefaultColor   string

	// Application info
	Version string
}
