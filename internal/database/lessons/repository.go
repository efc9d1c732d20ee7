// Package lessons provides database operations for lessons.
//
// This package implements the LessonStore interface defined in internal/http/lessons.go.
//
// # Usage
//
//	repo := lessons.NewRepository(db)
//	lessons, total, err := repo.ListLessons(20, 0)
package lessons

import (
	"gorm.io/gorm"

	"github.com/mrlokans/annotator/internal/entities"
)

// Repository handles all lesson database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new lessons repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateLesson stores a new lesson.
func (r *Repository) CreateLesson(lesson *entities.Lesson) error {
	return r.db.Omit("Annotations").Create(lesson).Error
}

// GetLessonByID retrieves a lesson with its annotations in registration order.
func (r *Repository) GetLessonByID(id uint) (*entities.Lesson, error) {
	var lesson entities.Lesson
	err := r.db.Preload("Annotations", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListLessons returns lessons newest first. Annotations are not loaded.
func (r *Repository) ListLessons(limit, offset int) ([]entities.Lesson, int64, error) {
	var lessons []entities.Lesson
	var total int64

	if err := r.db.Model(&entities.Lesson{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&lessons).Error
	return lessons, total, err
}

// DeleteLesson soft deletes a lesson and removes its annotations.
func (r *Repository) DeleteLesson(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&entities.Annotation{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Lesson{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
