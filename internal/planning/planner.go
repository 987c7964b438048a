package planning

import (
	"context"

	"github.com/socrates-learning/socrates-api/internal/domain"
)

// MaxPlanTextChars bounds the raw text sent to the planning capability.
// Longer documents are truncated silently; the client does not summarize
// the remainder.
const MaxPlanTextChars = 15000

// PlannedStage is one segment of a planning result before persistence.
// Stage indexes are not part of the result: the worker assigns them
// 1..N in the order the stages are returned.
type PlannedStage struct {
	Title       string
	Objective   string
	ExcerptText string
	Vocabulary  []domain.VocabItem
}

// WordExplanation is the result of a single-word lookup.
type WordExplanation struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example"`
	Synonyms   []string `json:"synonyms"`
}

// Planner is the capability interface the worker depends on.
//
// Plan is a blocking call with no timeout imposed by the caller;
// bounding call duration, if desired, is the implementation's
// responsibility. Both operations report failures as ErrPlanningFailed.
type Planner interface {
	// Plan segments rawText into ordered reading stages adapted to the
	// given profile. The concatenation of the returned excerpts should
	// reconstruct (or closely approximate) the input text.
	Plan(ctx context.Context, profile *domain.Profile, rawText string) ([]PlannedStage, error)

	// Explain looks up a single word in the context sentence it was
	// found in, for the given profile. Stateless.
	Explain(ctx context.Context, profile *domain.Profile, word, wordContext string) (*WordExplanation, error)
}

// truncateForPlan cuts text to MaxPlanTextChars without splitting a
// UTF-8 sequence.
func truncateForPlan(text string) string {
	if len(text) <= MaxPlanTextChars {
		return text
	}
	cut := MaxPlanTextChars
	for cut > 0 && (text[cut]&0xC0) == 0x80 {
		cut--
	}
	return text[:cut]
}
