// Package annotations provides database operations for passage annotations.
//
// This package implements http.AnnotationStore and tasks.AnnotationEnricher.
//
// # Usage
//
//	repo := annotations.NewRepository(db)
//	list, err := repo.GetAnnotationsByLesson(lessonID)
//	segments := annotation.RenderSegments(lesson.Passage, entities.RecordsOf(list))
package annotations

import (
	"gorm.io/gorm"

	"github.com/mrlokans/annotator/internal/entities"
)

// Repository handles all annotation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new annotations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddAnnotation creates a new annotation.
func (r *Repository) AddAnnotation(a *entities.Annotation) error {
	return r.db.Create(a).Error
}

// GetAnnotationByID retrieves a single annotation.
func (r *Repository) GetAnnotationByID(id uint) (*entities.Annotation, error) {
	var a entities.Annotation
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAnnotationsByLesson returns a lesson's annotations in the order they were created.
func (r *Repository) GetAnnotationsByLesson(lessonID uint) ([]entities.Annotation, error) {
	var list []entities.Annotation
	err := r.db.Where("lesson_id = ?", lessonID).Order("id ASC").Find(&list).Error
	return list, err
}

// UpdateAnnotation saves all fields of an annotation.
func (r *Repository) UpdateAnnotation(a *entities.Annotation) error {
	return r.db.Save(a).Error
}

// DeleteAnnotation removes an annotation.
func (r *Repository) DeleteAnnotation(id uint) error {
	result := r.db.Delete(&entities.Annotation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetPendingAnnotations returns annotations waiting for a dictionary lookup
// or due a retry, oldest first. A limit of 0 returns all of them.
func (r *Repository) GetPendingAnnotations(limit int) ([]entities.Annotation, error) {
	var list []entities.Annotation
	query := r.db.
		Where("lookup_status IN ?", []entities.LookupStatus{entities.LookupPending, entities.LookupFailed}).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&list).Error
	return list, err
}

// CountByLesson returns how many annotations a lesson has.
func (r *Repository) CountByLesson(lessonID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Annotation{}).Where("lesson_id = ?", lessonID).Count(&count).Error
	return count, err
}
