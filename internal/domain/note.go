package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// Common validation errors for CornellNote
var (
	ErrInvalidNoteStageID = errors.New("note stage ID must be positive")
	ErrInvalidNoteMarkers = errors.New("note marker collections must be valid JSON arrays")
)

// emptyJSONArray is the canonical value for an absent marker collection.
const emptyJSONArray = "[]"

// CornellNote is the single annotation record of a stage (at most one per
// stage, upsert semantics). The three marker collections are serialized
// independently by the frontend and stored opaquely as JSON arrays; the
// server only checks that they parse.
type CornellNote struct {
	ID      int64 `json:"id"`
	StageID int64 `json:"stage_id"`

	// Free-text Cornell method fields.
	Cues    string `json:"cues"`
	Notes   string `json:"notes"`
	Summary string `json:"summary"`

	// Marker collections, each a JSON array document.
	CueMarkers  string `json:"cue_markers"`
	NoteMarkers string `json:"note_markers"`
	Highlights  string `json:"highlights"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCornellNote creates a new CornellNote for the given stage, filling
// empty marker collections with "[]". Returns an error if validation fails.
func NewCornellNote(
	stageID int64,
	cues, notes, summary string,
	cueMarkers, noteMarkers, highlights string,
) (*CornellNote, error) {
	now := time.Now().UTC()
	note := &CornellNote{
		StageID:     stageID,
		Cues:        cues,
		Notes:       notes,
		Summary:     summary,
		CueMarkers:  normalizeMarkers(cueMarkers),
		NoteMarkers: normalizeMarkers(noteMarkers),
		Highlights:  normalizeMarkers(highlights),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the CornellNote has valid data.
func (n *CornellNote) Validate() error {
	if n.StageID <= 0 {
		return ErrInvalidNoteStageID
	}

	for _, markers := range []string{n.CueMarkers, n.NoteMarkers, n.Highlights} {
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(markers), &arr); err != nil {
			return ErrInvalidNoteMarkers
		}
	}

	return nil
}

// normalizeMarkers maps an absent marker collection to the empty array.
func normalizeMarkers(markers string) string {
	if markers == "" {
		return emptyJSONArray
	}
	return markers
}
