package dictionary

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the provider has no entry for a word.
var ErrNotFound = errors.New("word not found")

// Sense is one meaning of a word.
type Sense struct {
	PartOfSpeech string `json:"part_of_speech"`
	Definition   string `json:"definition"`
	Example      string `json:"example,omitempty"`
}

// LookupResult contains the result of a dictionary lookup. Phonetic, Meaning
// and Example hold the first available value and pre-fill annotation tooltips.
type LookupResult struct {
	Word     string  `json:"word"`
	Phonetic string  `json:"phonetic,omitempty"`
	Meaning  string  `json:"meaning,omitempty"`
	Example  string  `json:"example,omitempty"`
	AudioURL string  `json:"audio_url,omitempty"`
	Senses   []Sense `json:"senses,omitempty"`
}

// Client defines the interface for dictionary API providers.
type Client interface {
	Lookup(ctx context.Context, word string) (*LookupResult, error)
	Name() string
}
