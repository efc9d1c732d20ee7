package http

import "github.com/mrlokans/annotator/internal/entities"

// LessonStore defines database operations for lesson management.
type LessonStore interface {
	CreateLesson(lesson *entities.Lesson) error
	GetLessonByID(id uint) (*entities.Lesson, error)
	ListLessons(limit, offset int) ([]entities.Lesson, int64, error)
	DeleteLesson(id uint) error
}

// AnnotationStore defines database operations for passage annotations.
type AnnotationStore interface {
	AddAnnotation(a *entities.Annotation) error
	GetAnnotationByID(id uint) (*entities.Annotation, error)
	GetAnnotationsByLesson(lessonID uint) ([]entities.Annotation, error)
	UpdateAnnotation(a *entities.Annotation) error
	DeleteAnnotation(id uint) error
	CountByLesson(lessonID uint) (int64, error)
}

// AnnotationCounter reports how many annotations a lesson carries.
type AnnotationCounter interface {
	CountByLesson(lessonID uint) (int64, error)
}

// EnrichmentQueue schedules a background dictionary lookup for an annotation.
type EnrichmentQueue interface {
	EnqueueEnrichment(annotationID uint) error
}
