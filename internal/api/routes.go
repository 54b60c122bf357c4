package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/retime/retime-agent/internal/history"
	"github.com/retime/retime-agent/internal/settings"
	"github.com/retime/retime-agent/internal/timeline"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))
		r.Get("/settings", getSettingsHandler(cfg))
		r.Put("/settings", putSettingsHandler(cfg))
		r.Post("/preview", previewHandler(cfg))
		r.Post("/apply", applyHandler(cfg))
		r.Get("/batches", listBatchesHandler(cfg))
		r.Get("/batches/{id}", getBatchHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Version:  cfg.Version,
			UptimeS:  uptime,
			DeviceID: cfg.DeviceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batches, err := cfg.Repository.ListBatches(r.Context(), 50)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list batches", "INTERNAL_ERROR")
			return
		}

		resp := StatusResponse{
			State:           "idle",
			PanelConnected:  cfg.Bridge != nil && cfg.Bridge.Connected(),
			BatchesRecorded: len(batches),
		}
		if len(batches) > 0 {
			last := BatchToResponse(batches[0])
			resp.LastBatch = &last
			if batches[0].Status == history.BatchStatusRunning {
				resp.State = "applying"
			}
		}
		for _, b := range batches {
			if b.Status == history.BatchStatusAborted && b.Error != "" {
				resp.LastError = b.Error
				break
			}
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

func getSettingsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := cfg.Settings.Load()
		WriteJSON(w, http.StatusOK, SettingsPayload{
			DurationSeconds: rec.DurationSeconds,
			DurationFrames:  rec.DurationFrames,
			RepositionMode:  rec.RepositionMode.String(),
		})
	}
}

func putSettingsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SettingsPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		mode, err := timeline.ParseMode(req.RepositionMode)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		// Rate-independent precheck only: without a frame rate the real
		// minimum-duration rule cannot be evaluated here. Apply validates
		// again with the timeline's actual rate.
		if req.DurationSeconds < 0 || req.DurationFrames < 0 || req.DurationSeconds+req.DurationFrames < 1 {
			WriteError(w, http.StatusBadRequest, "duration must be at least one frame", "BAD_REQUEST")
			return
		}

		rec := settings.Record{
			DurationSeconds: req.DurationSeconds,
			DurationFrames:  req.DurationFrames,
			RepositionMode:  mode,
		}
		if err := cfg.Settings.Save(rec); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to save settings", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, req)
	}
}

func listBatchesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batches, err := cfg.Repository.ListBatches(r.Context(), 100)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list batches", "INTERNAL_ERROR")
			return
		}

		resp := BatchesResponse{Batches: make([]BatchResponse, len(batches))}
		for i, b := range batches {
			resp.Batches[i] = BatchToResponse(b)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getBatchHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		batch, err := cfg.Repository.GetBatch(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to get batch", "INTERNAL_ERROR")
			return
		}
		if batch == nil {
			WriteError(w, http.StatusNotFound, "batch not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, BatchToResponse(batch))
	}
}
