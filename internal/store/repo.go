package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vidforge/vidforge-agent/internal/assemble"
	"github.com/vidforge/vidforge-agent/internal/script"
)

// ArtifactRecord is the read model for stored artifacts.
type ArtifactRecord struct {
	ID                 string    `json:"id"`
	ScriptID           string    `json:"script_id"`
	Platform           string    `json:"platform"`
	Niche              string    `json:"niche"`
	VideoPath          string    `json:"video_path"`
	ThumbnailPath      string    `json:"thumbnail_path,omitempty"`
	Resolution         string    `json:"resolution"`
	DurationSec        int       `json:"duration_sec"`
	SizeBytes          int64     `json:"size_bytes"`
	ProductionTimeMS   int64     `json:"production_time_ms"`
	QualityScore       int       `json:"quality_score"`
	AudioGenerated     bool      `json:"audio_generated"`
	BackgroundUsed     bool      `json:"background_used"`
	SubtitlesAdded     bool      `json:"subtitles_added"`
	OverlayCount       int       `json:"overlay_count"`
	ThumbnailGenerated bool      `json:"thumbnail_generated"`
	CreatedAt          time.Time `json:"created_at"`
}

// Totals summarises what the store holds.
type Totals struct {
	Scripts   int `json:"scripts"`
	Artifacts int `json:"artifacts"`
}

// SaveScript persists a script. Saving the same id again replaces the
// row, so orchestrator retries are idempotent.
func (d *DB) SaveScript(ctx context.Context, s *script.Script) error {
	hashtags, err := json.Marshal(s.Hashtags)
	if err != nil {
		return fmt.Errorf("failed to encode hashtags: %w", err)
	}
	overlays, err := json.Marshal(s.TextOverlays)
	if err != nil {
		return fmt.Errorf("failed to encode overlays: %w", err)
	}

	_, err = d.conn.ExecContext(ctx, `
		INSERT INTO scripts (
			id, niche, platform, duration, hook, body, call_to_action,
			hashtags, text_overlays, word_count, estimated_duration,
			quality_score, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			niche = excluded.niche,
			platform = excluded.platform,
			duration = excluded.duration,
			hook = excluded.hook,
			body = excluded.body,
			call_to_action = excluded.call_to_action,
			hashtags = excluded.hashtags,
			text_overlays = excluded.text_overlays,
			word_count = excluded.word_count,
			estimated_duration = excluded.estimated_duration,
			quality_score = excluded.quality_score`,
		s.ID, s.Niche, s.Platform, s.Duration, s.Hook, s.Body, s.CallToAction,
		string(hashtags), string(overlays), s.WordCount, s.EstimatedDuration,
		s.QualityScore, s.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save script %s: %w", s.ID, err)
	}
	return nil
}

// SaveArtifact persists an artifact, idempotently by id.
func (d *DB) SaveArtifact(ctx context.Context, a *assemble.VideoArtifact) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO artifacts (
			id, script_id, platform, niche, video_path, thumbnail_path,
			resolution, duration_sec, size_bytes, production_time_ms,
			quality_score, audio_generated, background_used,
			subtitles_added, overlay_count, thumbnail_generated, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			video_path = excluded.video_path,
			thumbnail_path = excluded.thumbnail_path,
			resolution = excluded.resolution,
			duration_sec = excluded.duration_sec,
			size_bytes = excluded.size_bytes,
			production_time_ms = excluded.production_time_ms,
			quality_score = excluded.quality_score,
			audio_generated = excluded.audio_generated,
			background_used = excluded.background_used,
			subtitles_added = excluded.subtitles_added,
			overlay_count = excluded.overlay_count,
			thumbnail_generated = excluded.thumbnail_generated`,
		a.ID, a.ScriptID, a.Platform, a.Niche, a.VideoPath, a.ThumbnailPath,
		a.Resolution, a.DurationSec, a.SizeBytes, a.ProductionTime.Milliseconds(),
		a.QualityScore, a.AudioGenerated, a.BackgroundUsed,
		a.SubtitlesAdded, a.OverlayCount, a.ThumbnailGenerated,
		a.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", a.ID, err)
	}
	return nil
}

// ArtifactCountForDay counts artifacts created on a UTC calendar day
// given as YYYY-MM-DD.
func (d *DB) ArtifactCountForDay(ctx context.Context, day string) (int, error) {
	var count int
	err := d.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM artifacts WHERE substr(created_at, 1, 10) = ?", day,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count artifacts for %s: %w", day, err)
	}
	return count, nil
}

// RecentArtifacts returns the newest artifacts, newest first.
func (d *DB) RecentArtifacts(ctx context.Context, limit int) ([]ArtifactRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, script_id, platform, niche, video_path, thumbnail_path,
			resolution, duration_sec, size_bytes, production_time_ms,
			quality_score, audio_generated, background_used,
			subtitles_added, overlay_count, thumbnail_generated, created_at
		FROM artifacts
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var records []ArtifactRecord
	for rows.Next() {
		var (
			r         ArtifactRecord
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.ScriptID, &r.Platform, &r.Niche, &r.VideoPath, &r.ThumbnailPath,
			&r.Resolution, &r.DurationSec, &r.SizeBytes, &r.ProductionTimeMS,
			&r.QualityScore, &r.AudioGenerated, &r.BackgroundUsed,
			&r.SubtitlesAdded, &r.OverlayCount, &r.ThumbnailGenerated, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact row: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountTotals reports the overall row counts.
func (d *DB) CountTotals(ctx context.Context) (Totals, error) {
	var t Totals
	if err := d.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM scripts").Scan(&t.Scripts); err != nil {
		return t, fmt.Errorf("failed to count scripts: %w", err)
	}
	if err := d.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM artifacts").Scan(&t.Artifacts); err != nil {
		return t, fmt.Errorf("failed to count artifacts: %w", err)
	}
	return t, nil
}
