package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/retime/retime-agent/internal/history"
	"github.com/retime/retime-agent/internal/host"
	"github.com/retime/retime-agent/internal/logging"
	"github.com/retime/retime-agent/internal/settings"
	"github.com/retime/retime-agent/internal/timeline"
)

func previewHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PreviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		mode, err := timeline.ParseMode(req.Mode)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		frameRate := req.FrameRate
		if frameRate <= 0 {
			frameRate = 30.0
		}
		if err := req.Duration.Validate(frameRate); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		if req.ItemCount < 1 {
			WriteError(w, http.StatusBadRequest, "item_count must be at least 1", "BAD_REQUEST")
			return
		}

		totalFrames := req.Duration.TotalFrames(frameRate)
		placements, err := timeline.PlanPlacements(req.ItemCount, mode, req.AnchorFrame, totalFrames)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		WriteJSON(w, http.StatusOK, PreviewResponse{
			TotalFrames: totalFrames,
			Placements:  placements,
		})
	}
}

func applyHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ApplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		mode, err := timeline.ParseMode(req.Mode)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		if req.Duration.Seconds < 0 || req.Duration.Frames < 0 {
			WriteError(w, http.StatusBadRequest, timeline.ErrDurationTooShort.Error(), "BAD_REQUEST")
			return
		}

		var target timeline.Host
		if req.Simulate {
			sim, err := buildSim(req.Sim)
			if err != nil {
				WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
				return
			}
			target = sim
		} else {
			if cfg.Bridge == nil || !cfg.Bridge.Connected() {
				WriteError(w, http.StatusConflict, "host panel not connected", "NOT_CONNECTED")
				return
			}
			target = cfg.Bridge
		}

		if !cfg.applyMu.TryLock() {
			WriteError(w, http.StatusConflict, "a batch is already running", "BUSY")
			return
		}
		defer cfg.applyMu.Unlock()

		ctx := r.Context()

		items, err := target.SelectedItems(ctx, !req.IncludeBackground)
		if err != nil {
			WriteError(w, http.StatusBadGateway, err.Error(), "HOST_ERROR")
			return
		}
		if len(items) == 0 {
			WriteError(w, http.StatusBadRequest, timeline.ErrNoSelection.Error(), "BAD_REQUEST")
			return
		}

		batch := &history.Batch{
			ID:              history.NewID(),
			Mode:            mode.String(),
			DurationSeconds: req.Duration.Seconds,
			DurationFrames:  req.Duration.Frames,
			ItemCount:       len(items),
			Simulated:       req.Simulate,
			Status:          history.BatchStatusRunning,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		}
		if err := cfg.Repository.CreateBatch(ctx, batch); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to record batch", "INTERNAL_ERROR")
			return
		}

		logger := logging.WithBatchID(cfg.Logger, batch.ID)
		runner := timeline.NewRunner(target, logger)

		result, runErr := runner.Run(ctx, items, req.Duration, mode)
		if runErr != nil {
			// The journal row is updated with a fresh context: the
			// request context may already be canceled.
			if err := cfg.Repository.UpdateBatchStatus(context.WithoutCancel(ctx), batch.ID, history.BatchStatusAborted, runErr.Error()); err != nil {
				logger.Error("failed to record aborted batch", "error", err)
			}
			if isConfigError(runErr) {
				WriteError(w, http.StatusBadRequest, runErr.Error(), "BAD_REQUEST")
			} else {
				WriteError(w, http.StatusBadGateway, runErr.Error(), "HOST_ERROR")
			}
			return
		}

		if err := cfg.Repository.UpdateBatchResult(ctx, batch.ID, result.TotalFrames, result.FrameRate, result.AnchorFrame); err != nil {
			logger.Error("failed to record batch result", "error", err)
		}
		if err := cfg.Repository.UpdateBatchStatus(ctx, batch.ID, history.BatchStatusCompleted, ""); err != nil {
			logger.Error("failed to record completed batch", "error", err)
		}

		if !req.Simulate {
			rec := settings.Record{
				DurationSeconds: req.Duration.Seconds,
				DurationFrames:  req.Duration.Frames,
				RepositionMode:  mode,
			}
			if err := cfg.Settings.Save(rec); err != nil {
				// Settings persistence is best effort and never
				// surfaced to the user.
				logger.Warn("failed to save settings", "error", err)
			}
		}

		WriteJSON(w, http.StatusOK, ApplyResponse{BatchID: batch.ID, Result: result})
	}
}

func buildSim(opts *SimOptions) (*host.Sim, error) {
	if opts == nil || opts.ItemCount < 1 {
		return nil, errors.New("sim.item_count must be at least 1")
	}
	frameRate := opts.FrameRate
	if frameRate <= 0 {
		frameRate = 30.0
	}
	sim := host.NewSim(frameRate, opts.Playhead)
	sim.SeedItems(opts.ItemCount)
	return sim, nil
}

func isConfigError(err error) bool {
	return errors.Is(err, timeline.ErrDurationTooShort) ||
		errors.Is(err, timeline.ErrUnknownMode) ||
		errors.Is(err, timeline.ErrNoSelection)
}
