package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope is the structured operation request consumed by the dispatcher:
// an operation name plus its parameter mapping. Envelopes are consumed
// exactly once and never persisted.
type Envelope struct {
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// Raw serializes the envelope back to its wire form.
func (e Envelope) Raw() ([]byte, error) {
	return json.Marshal(e)
}

// CommandResult is the outcome of one processed envelope.
type CommandResult struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Reward    int       `json:"reward"`
	Feedback  string    `json:"feedback"`
	Duration  float64   `json:"duration_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// TableSnapshot is a read-only view of the current table contents.
type TableSnapshot struct {
	Name    string          `json:"name"`
	Path    string          `json:"path"`
	MaxRow  int             `json:"max_row"`
	MaxCol  int             `json:"max_col"`
	Rows    [][]interface{} `json:"rows"`
	Headers []interface{}   `json:"headers,omitempty"`
}