package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Prompt is a versioned text template. Version starts at 1 and increments
// by exactly one whenever the text changes; description edits leave it
// untouched. ParentID links a prompt to the prompt it was derived from.
type Prompt struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Text        string     `json:"text" db:"text"`
	Version     int        `json:"version" db:"version"`
	Description string     `json:"description,omitempty" db:"description"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// PromptInstance is one concrete rendering of a prompt. Immutable after
// creation. Context is an opaque payload stored and returned verbatim.
type PromptInstance struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	PromptID      uuid.UUID       `json:"prompt_id" db:"prompt_id"`
	FormattedText string          `json:"formatted_text" db:"formatted_text"`
	Context       json.RawMessage `json:"context,omitempty" db:"context"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
