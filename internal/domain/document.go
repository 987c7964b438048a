package domain

import (
	"errors"
	"time"
)

// Common validation errors for Document
var (
	ErrInvalidDocumentProfileID = errors.New("document profile ID must be positive")
	ErrEmptyDocumentFilename    = errors.New("document filename cannot be empty")
	ErrEmptyDocumentText        = errors.New("document raw text cannot be empty")
)

// Document represents an uploaded text to be segmented into reading
// stages. The raw text is fixed at upload time; the pipeline never
// mutates it. A Document exclusively owns its stage set.
type Document struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profile_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	RawText     string    `json:"raw_text"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDocument creates a new Document for the given profile.
// The ID is assigned by the store on insert.
// Returns an error if validation fails.
func NewDocument(profileID int64, filename, contentType, rawText string) (*Document, error) {
	doc := &Document{
		ProfileID:   profileID,
		Filename:    filename,
		ContentType: contentType,
		RawText:     rawText,
		CreatedAt:   time.Now().UTC(),
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks if the Document has valid data.
func (d *Document) Validate() error {
	if d.ProfileID <= 0 {
		return ErrInvalidDocumentProfileID
	}

	if d.Filename == "" {
		return ErrEmptyDocumentFilename
	}

	if d.RawText == "" {
		return ErrEmptyDocumentText
	}

	return nil
}
