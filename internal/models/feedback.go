package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Response is generated output recorded against one prompt instance.
// Metadata is an opaque payload stored and returned verbatim.
type Response struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	PromptInstanceID uuid.UUID       `json:"prompt_instance_id" db:"prompt_instance_id"`
	Content          string          `json:"content" db:"content"`
	Metadata         json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// Feedback is a scalar quality score in [0, 1] attached to one response.
type Feedback struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ResponseID uuid.UUID `json:"response_id" db:"response_id"`
	Score      float64   `json:"score" db:"score"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
