// Package history is the agent's local state store: a journal of batch
// runs plus a small key/value config table (device id, auth token).
package history

import (
	"time"

	"github.com/google/uuid"
)

const (
	BatchStatusRunning   = "running"
	BatchStatusCompleted = "completed"
	BatchStatusAborted   = "aborted"
)

// Batch is one journal entry: a single run of the edit planner.
type Batch struct {
	ID              string    `json:"id"`
	Mode            string    `json:"mode"`
	DurationSeconds int       `json:"duration_seconds"`
	DurationFrames  int       `json:"duration_frames"`
	TotalFrames     int       `json:"total_frames"`
	FrameRate       float64   `json:"frame_rate"`
	AnchorFrame     int       `json:"anchor_frame"`
	ItemCount       int       `json:"item_count"`
	Simulated       bool      `json:"simulated"`
	Status          string    `json:"status"`
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewID returns a fresh batch identifier.
func NewID() string {
	return uuid.NewString()
}
