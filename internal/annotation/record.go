// Package annotation maps text selections to character offsets and splits a
// passage into plain and highlighted runs for display.
//
// All offsets are zero-based rune indexes into the passage text. Nothing in
// this package keeps state between calls: the passage and its annotation list
// belong to the caller.
//
// # Usage
//
//	segments := annotation.RenderSegments(lesson.Passage, records)
//	sel, ok := annotation.CaptureSelection(root, selectionSource)
package annotation

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInvalidRange = errors.New("annotation start must be before end")
	ErrOutOfBounds  = errors.New("annotation range outside passage")
	ErrOverlap      = errors.New("annotation overlaps an existing annotation")
)

// Tooltip is the hover payload shown for a highlighted word.
type Tooltip struct {
	Word     string `json:"word" yaml:"word"`
	Phonetic string `json:"phonetic,omitempty" yaml:"phonetic,omitempty"`
	Meaning  string `json:"meaning,omitempty" yaml:"meaning,omitempty"`
	Example  string `json:"example,omitempty" yaml:"example,omitempty"`
}

// Record is a vocabulary annotation tied to the [Start, End) rune range of a passage.
type Record struct {
	ID      string  `json:"id" yaml:"id"`
	Start   int     `json:"start" yaml:"start"`
	End     int     `json:"end" yaml:"end"`
	Color   string  `json:"color,omitempty" yaml:"color,omitempty"`
	Tooltip Tooltip `json:"tooltip" yaml:"tooltip"`
}

// Len returns the number of runes the record covers.
func (r Record) Len() int {
	return r.End - r.Start
}

// Validate checks the record against a passage of textLen runes.
func Validate(r Record, textLen int) error {
	if r.Len() <= 0 {
		return fmt.Errorf("%w: start=%d end=%d", ErrInvalidRange, r.Start, r.End)
	}
	if r.Start < 0 || r.End > textLen {
		return fmt.Errorf("%w: [%d,%d) not within [0,%d)", ErrOutOfBounds, r.Start, r.End, textLen)
	}
	return nil
}

// SortRecords returns a copy of records ordered by start, then end.
// Records with equal ranges keep their input order.
func SortRecords(records []Record) []Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})
	return sorted
}

// Overlaps reports whether the two ranges share at least one rune.
func Overlaps(a, b Record) bool {
	return a.Start < b.End && b.Start < a.End
}

// CheckOverlap returns ErrOverlap if candidate shares any rune with an existing record.
// Records with the same ID as the candidate are ignored so edits can be rechecked.
func CheckOverlap(existing []Record, candidate Record) error {
	for _, r := range existing {
		if r.ID != "" && r.ID == candidate.ID {
			continue
		}
		if Overlaps(r, candidate) {
			return fmt.Errorf("%w: [%d,%d) overlaps %q [%d,%d)",
				ErrOverlap, candidate.Start, candidate.End, r.ID, r.Start, r.End)
		}
	}
	return nil
}
