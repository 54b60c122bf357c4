package api

import (
	"time"

	"github.com/retime/retime-agent/internal/history"
	"github.com/retime/retime-agent/internal/timeline"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type StatusResponse struct {
	State           string         `json:"state"`
	PanelConnected  bool           `json:"panel_connected"`
	LastError       string         `json:"last_error,omitempty"`
	LastBatch       *BatchResponse `json:"last_batch,omitempty"`
	BatchesRecorded int            `json:"batches_recorded"`
}

type SettingsPayload struct {
	DurationSeconds int    `json:"duration_seconds"`
	DurationFrames  int    `json:"duration_frames"`
	RepositionMode  string `json:"reposition_mode"`
}

type PreviewRequest struct {
	Duration    timeline.DurationSpec `json:"duration"`
	Mode        string                `json:"mode"`
	ItemCount   int                   `json:"item_count"`
	FrameRate   float64               `json:"frame_rate"`
	AnchorFrame int                   `json:"anchor_frame"`
}

type PreviewResponse struct {
	TotalFrames int                  `json:"total_frames"`
	Placements  []timeline.Placement `json:"placements,omitempty"`
}

type SimOptions struct {
	ItemCount int     `json:"item_count"`
	FrameRate float64 `json:"frame_rate,omitempty"`
	Playhead  float64 `json:"playhead,omitempty"`
}

type ApplyRequest struct {
	Duration          timeline.DurationSpec `json:"duration"`
	Mode              string                `json:"mode"`
	IncludeBackground bool                  `json:"include_background,omitempty"`
	Simulate          bool                  `json:"simulate,omitempty"`
	Sim               *SimOptions           `json:"sim,omitempty"`
}

type ApplyResponse struct {
	BatchID string           `json:"batch_id"`
	Result  *timeline.Result `json:"result"`
}

type BatchResponse struct {
	ID              string  `json:"id"`
	Mode            string  `json:"mode"`
	DurationSeconds int     `json:"duration_seconds"`
	DurationFrames  int     `json:"duration_frames"`
	TotalFrames     int     `json:"total_frames"`
	FrameRate       float64 `json:"frame_rate"`
	AnchorFrame     int     `json:"anchor_frame"`
	ItemCount       int     `json:"item_count"`
	Simulated       bool    `json:"simulated"`
	Status          string  `json:"status"`
	Error           string  `json:"error,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type BatchesResponse struct {
	Batches []BatchResponse `json:"batches"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func BatchToResponse(b *history.Batch) BatchResponse {
	return BatchResponse{
		ID:              b.ID,
		Mode:            b.Mode,
		DurationSeconds: b.DurationSeconds,
		DurationFrames:  b.DurationFrames,
		TotalFrames:     b.TotalFrames,
		FrameRate:       b.FrameRate,
		AnchorFrame:     b.AnchorFrame,
		ItemCount:       b.ItemCount,
		Simulated:       b.Simulated,
		Status:          b.Status,
		Error:           b.Error,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}
