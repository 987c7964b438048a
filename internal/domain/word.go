package domain

import (
	"errors"
	"time"
)

// Common validation errors for UnknownWord
var (
	ErrInvalidWordProfileID = errors.New("unknown word profile ID must be positive")
	ErrEmptyWord            = errors.New("unknown word cannot be empty")
)

// UnknownWord is an append-only record of a word the learner flagged
// while reading. The document and stage links are optional: a word can
// be flagged outside any particular stage. Records are never updated.
type UnknownWord struct {
	ID              int64     `json:"id"`
	ProfileID       int64     `json:"profile_id"`
	DocumentID      *int64    `json:"document_id,omitempty"`
	StageID         *int64    `json:"stage_id,omitempty"`
	Word            string    `json:"word"`
	ContextSentence string    `json:"context_sentence"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewUnknownWord creates a new UnknownWord for the given profile.
// documentID and stageID may be nil. Returns an error if validation fails.
func NewUnknownWord(
	profileID int64,
	documentID, stageID *int64,
	word, contextSentence string,
) (*UnknownWord, error) {
	w := &UnknownWord{
		ProfileID:       profileID,
		DocumentID:      documentID,
		StageID:         stageID,
		Word:            word,
		ContextSentence: contextSentence,
		CreatedAt:       time.Now().UTC(),
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}

	return w, nil
}

// Validate checks if the UnknownWord has valid data.
func (w *UnknownWord) Validate() error {
	if w.ProfileID <= 0 {
		return ErrInvalidWordProfileID
	}

	if w.Word == "" {
		return ErrEmptyWord
	}

	return nil
}
