package api

import (
	"time"

	"github.com/socrates-learning/socrates-api/internal/domain"
)

// Request DTOs

// CreateProfileRequest is the payload for creating a learner profile.
type CreateProfileRequest struct {
	Name           string `json:"name"            validate:"required"`
	Age            int    `json:"age"             validate:"required,gt=0"`
	EducationLevel string `json:"education_level"`
	EducationYear  string `json:"education_year"`
	Profession     string `json:"profession"`
	Nationality    string `json:"nationality"`
	NativeLanguage string `json:"native_language" validate:"required"`
}

// CornellNoteRequest is the payload for creating or replacing the note
// of a stage. Marker collections are JSON array documents serialized by
// the client; empty strings mean "no markers".
type CornellNoteRequest struct {
	Cues        string `json:"cues"`
	Notes       string `json:"notes"`
	Summary     string `json:"summary"`
	CueMarkers  string `json:"cue_markers"`
	NoteMarkers string `json:"note_markers"`
	Highlights  string `json:"highlights"`
}

// UnknownWordRequest is the payload for flagging a word on a stage.
type UnknownWordRequest struct {
	ProfileID       int64  `json:"profile_id"       validate:"required,gt=0"`
	Word            string `json:"word"             validate:"required"`
	ContextSentence string `json:"context_sentence"`
}

// ExplainWordRequest is the payload for the word-explanation proxy.
type ExplainWordRequest struct {
	ProfileID int64  `json:"profile_id" validate:"required,gt=0"`
	Word      string `json:"word"       validate:"required"`
	Context   string `json:"context"`
}

// Response DTOs

// DocumentResponse is the document representation without the raw text,
// used for uploads and listings where the full body would bloat the
// payload.
type DocumentResponse struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profile_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDocumentResponse maps a document to its list representation.
func NewDocumentResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:          doc.ID,
		ProfileID:   doc.ProfileID,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		CreatedAt:   doc.CreatedAt,
	}
}
