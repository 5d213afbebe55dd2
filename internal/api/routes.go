// Package api exposes the agent's local status surface: health,
// inference stats, and daily production progress.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vidforge/vidforge-agent/internal/inference"
	"github.com/vidforge/vidforge-agent/internal/store"
)

const recentArtifactsLimit = 10

// StatsSource is the slice of the inference package the API reads.
type StatsSource interface {
	Snapshot() map[string]inference.ModelStats
}

// Repository is the slice of the store the API reads.
type Repository interface {
	CountTotals(ctx context.Context) (store.Totals, error)
	ArtifactCountForDay(ctx context.Context, day string) (int, error)
	RecentArtifacts(ctx context.Context, limit int) ([]store.ArtifactRecord, error)
}

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Get("/stats", statsHandler(cfg))
	r.Get("/progress", progressHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

func statsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := cfg.Repository.CountTotals(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to read totals", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, StatsResponse{
			Totals: totals,
			Models: cfg.Stats.Snapshot(),
		})
	}
}

func progressHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		day := time.Now().UTC().Format("2006-01-02")

		produced, err := cfg.Repository.ArtifactCountForDay(ctx, day)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to count production", "INTERNAL_ERROR")
			return
		}
		recent, err := cfg.Repository.RecentArtifacts(ctx, recentArtifactsLimit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list artifacts", "INTERNAL_ERROR")
			return
		}

		percent := 0.0
		if cfg.DailyTarget > 0 {
			percent = float64(produced) / float64(cfg.DailyTarget) * 100
		}

		WriteJSON(w, http.StatusOK, ProgressResponse{
			Date:     day,
			Target:   cfg.DailyTarget,
			Produced: produced,
			Percent:  percent,
			Recent:   recent,
		})
	}
}
