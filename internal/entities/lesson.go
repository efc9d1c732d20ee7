package entities

import (
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/annotator/internal/annotation"
)

type LessonKind string

const (
	LessonKindReading   LessonKind = "reading"
	LessonKindListening LessonKind = "listening"
)

// Valid reports whether k is a known lesson kind.
func (k LessonKind) Valid() bool {
	return k == LessonKindReading || k == LessonKindListening
}

// Lesson is a reading or listening exercise. Passage is the plain-text source
// every annotation offset refers to; it is never edited once annotations exist.
type Lesson struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"index;size:512" json:"title"`
	Kind        LessonKind     `gorm:"size:20;default:'reading'" json:"kind"`
	Passage     string         `gorm:"type:text" json:"passage"`
	AudioURL    string         `gorm:"size:2048" json:"audio_url,omitempty"` // listening lessons only
	Annotations []Annotation   `gorm:"foreignKey:LessonID" json:"annotations,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// LookupStatus tracks dictionary enrichment of an annotation's tooltip.
type LookupStatus string

const (
	LookupNone     LookupStatus = ""
	LookupPending  LookupStatus = "pending"
	LookupEnriched LookupStatus = "enriched"
	LookupNotFound LookupStatus = "not_found"
	LookupFailed   LookupStatus = "failed"
)

// Annotation is a vocabulary entry on the [Start, End) rune range of a lesson passage.
type Annotation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LessonID  uint      `gorm:"index" json:"lesson_id"`
	Start     int       `gorm:"column:start_offset" json:"start"`
	End       int       `gorm:"column:end_offset" json:"end"`
	Color     string    `gorm:"size:16" json:"color"`
	Word      string    `gorm:"size:256" json:"word"`
	Phonetic  string    `gorm:"size:256" json:"phonetic,omitempty"`
	Meaning   string    `gorm:"type:text" json:"meaning,omitempty"`
	Example   string    `gorm:"type:text" json:"example,omitempty"`
	// LookupStatus is empty when the tooltip was written by hand.
	LookupStatus LookupStatus `gorm:"size:20;index" json:"lookup_status,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}

func (Annotation) TableName() string {
	return "annotations"
}

// ToRecord converts the stored annotation into the renderer's input shape.
func (a Annotation) ToRecord() annotation.Record {
	return annotation.Record{
		ID:    strconv.FormatUint(uint64(a.ID), 10),
		Start: a.Start,
		End:   a.End,
		Color: a.Color,
		Tooltip: annotation.Tooltip{
			Word:     a.Word,
			Phonetic: a.Phonetic,
			Meaning:  a.Meaning,
			Example:  a.Example,
		},
	}
}

// RecordsOf converts a list of stored annotations.
func RecordsOf(annotations []Annotation) []annotation.Record {
	records := make([]annotation.Record, len(annotations))
	for i, a := range annotations {
		records[i] = a.ToRecord()
	}
	return records
}
