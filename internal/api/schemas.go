package api

import (
	"github.com/vidforge/vidforge-agent/internal/inference"
	"github.com/vidforge/vidforge-agent/internal/store"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatsResponse struct {
	Totals store.Totals                    `json:"totals"`
	Models map[string]inference.ModelStats `json:"models"`
}

type ProgressResponse struct {
	Date     string                 `json:"date"`
	Target   int                    `json:"target"`
	Produced int                    `json:"produced"`
	Percent  float64                `json:"percent"`
	Recent   []store.ArtifactRecord `json:"recent,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
