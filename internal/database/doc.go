// Package database provides the data access layer for lessons and their annotations.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── lessons/         # Lesson CRUD
//	└── annotations/     # Annotation CRUD, scoped to a lesson
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./annotator.db")
//
//	lessonsRepo := lessons.NewRepository(db.DB)
//	annotationsRepo := annotations.NewRepository(db.DB)
//
//	lesson, err := lessonsRepo.GetLessonByID(7)
//	list, err := annotationsRepo.GetAnnotationsByLesson(lesson.ID)
//
// # Interface Implementations
//
//   - lessons.Repository: implements http.LessonStore
//   - annotations.Repository: implements http.AnnotationStore and tasks.AnnotationEnricher
package database
