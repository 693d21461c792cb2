package model

import "time"

// StageRecord is a validated stage definition persisted by the server.
// Raw is the document as submitted; Normalized is the default-filled
// document re-emitted after validation. Records are never partially
// valid: a document that fails validation is not persisted.
type StageRecord struct {
	ID           string    `json:"id"` // instance id assigned at creation
	Name         string    `json:"name"`
	WorkflowID   string    `json:"workflow_id"`
	WorkflowType string    `json:"workflow_type,omitempty"`
	Raw          string    `json:"raw"`
	Normalized   string    `json:"normalized"` // JSON encoding of the normalized document
	CreatedAt    time.Time `json:"created_at"`
}
