package domain

import (
	"errors"
	"time"
)

// Common validation errors for Stage
var (
	ErrInvalidStageDocumentID = errors.New("stage document ID must be positive")
	ErrInvalidStageIndex      = errors.New("stage index must be >= 1")
	ErrEmptyStageTitle        = errors.New("stage title cannot be empty")
	ErrEmptyStageExcerpt      = errors.New("stage excerpt text cannot be empty")
)

// VocabItem is a single suggested vocabulary entry attached to a stage,
// with the definition written in the learner's native language.
type VocabItem struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// Stage is one ordered segment of a document's text: a title, a learning
// objective adapted to the learner, the exact excerpt, and suggested
// vocabulary. Stage indexes are 1-based and contiguous per document.
//
// The stage set of a document is always the output of the most recent
// successful planning run. Stages are destroyed and recreated as a unit,
// never patched incrementally.
type Stage struct {
	ID          int64       `json:"id"`
	DocumentID  int64       `json:"document_id"`
	StageIndex  int         `json:"stage_index"`
	Title       string      `json:"title"`
	Objective   string      `json:"objective"`
	ExcerptText string      `json:"excerpt_text"`
	Vocabulary  []VocabItem `json:"vocabulary"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewStage creates a new Stage for the given document.
// The ID is assigned by the store on insert.
// Returns an error if validation fails.
func NewStage(
	documentID int64,
	stageIndex int,
	title, objective, excerptText string,
	vocabulary []VocabItem,
) (*Stage, error) {
	if vocabulary == nil {
		vocabulary = []VocabItem{}
	}

	stage := &Stage{
		DocumentID:  documentID,
		StageIndex:  stageIndex,
		Title:       title,
		Objective:   objective,
		ExcerptText: excerptText,
		Vocabulary:  vocabulary,
		CreatedAt:   time.Now().UTC(),
	}

	if err := stage.Validate(); err != nil {
		return nil, err
	}

	return stage, nil
}

// Validate checks if the Stage has valid data.
// The 5-15 vocabulary size range is an expectation on the planning
// capability, not an invariant, so it is deliberately not enforced here.
func (s *Stage) Validate() error {
	if s.DocumentID <= 0 {
		return ErrInvalidStageDocumentID
	}

	if s.StageIndex < 1 {
		return ErrInvalidStageIndex
	}

	if s.Title == "" {
		return ErrEmptyStageTitle
	}

	if s.ExcerptText == "" {
		return ErrEmptyStageExcerpt
	}

	return nil
}
