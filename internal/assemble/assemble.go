// Package assemble turns a finished script into a stored video
// artifact through a fixed stage sequence: narration, background,
// subtitles, overlays, composition, thumbnail, storage.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vidforge/vidforge-agent/internal/media"
	"github.com/vidforge/vidforge-agent/internal/script"
)

const thumbnailOffsetSec = 3.0

const maxOverlays = 3

// FatalError marks an assembly failure with no usable artifact. Only
// the composition and storage stages produce it; everything before
// them degrades the artifact instead.
type FatalError struct {
	Stage string
	Err   error
}

func (e *FatalError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *FatalError) Unwrap() error { return e.Err }

// VideoArtifact describes one produced video and its sidecar files.
// The stage flags record which optional stages actually contributed,
// whether they were disabled or failed.
type VideoArtifact struct {
	ID             string        `json:"id"`
	ScriptID       string        `json:"script_id"`
	Platform       string        `json:"platform"`
	Niche          string        `json:"niche"`
	VideoPath      string        `json:"video_path"`
	ThumbnailPath  string        `json:"thumbnail_path,omitempty"`
	Resolution     string        `json:"resolution"`
	DurationSec    int           `json:"duration_sec"`
	SizeBytes      int64         `json:"size_bytes"`
	ProductionTime time.Duration `json:"production_time"`
	QualityScore   int           `json:"quality_score"`

	AudioGenerated     bool `json:"audio_generated"`
	BackgroundUsed     bool `json:"background_used"`
	SubtitlesAdded     bool `json:"subtitles_added"`
	OverlayCount       int  `json:"overlay_count"`
	ThumbnailGenerated bool `json:"thumbnail_generated"`

	CreatedAt time.Time `json:"created_at"`
}

// Stages selects which optional stages run. Composition and storage
// always run; a disabled background makes composition fail fatally
// since there is nothing to compose.
type Stages struct {
	Voice      bool
	Background bool
	Subtitles  bool
	Overlays   bool
	Thumbnail  bool
}

// AllStages enables every optional stage.
func AllStages() Stages {
	return Stages{Voice: true, Background: true, Subtitles: true, Overlays: true, Thumbnail: true}
}

// Config holds the assembler's configuration.
type Config struct {
	StorageDir    string
	WorkDir       string // empty = system temp dir
	MaxVoiceWords int
	Stages        Stages
	Logger        *slog.Logger
}

// Assembler runs the stage sequence for one script at a time. It is
// safe for concurrent use; every call works in its own scratch dir.
type Assembler struct {
	tools *media.Toolset
	cfg   Config
}

func NewAssembler(tools *media.Toolset, cfg Config) *Assembler {
	return &Assembler{tools: tools, cfg: cfg}
}

// Assemble produces and stores the video for one script. Non-fatal
// stage failures leave the matching stage flag unset on the artifact;
// a *FatalError means no artifact exists.
func (a *Assembler) Assemble(ctx context.Context, s *script.Script) (*VideoArtifact, error) {
	logger := a.cfg.Logger.With("script_id", s.ID, "platform", s.Platform)
	start := time.Now()

	scratch, err := os.MkdirTemp(a.cfg.WorkDir, "assemble-")
	if err != nil {
		return nil, &FatalError{Stage: "scratch", Err: err}
	}
	defer os.RemoveAll(scratch)

	degrade := func(stage string, err error) {
		logger.Warn("stage degraded", "stage", stage, "error", err)
	}

	profile := media.ProfileFor(s.Platform)
	duration := s.EstimatedDuration
	if duration <= 0 {
		duration = s.Duration
	}
	if duration <= 0 {
		duration = 30
	}

	// Narration.
	audioPath := ""
	if a.cfg.Stages.Voice {
		text := sanitizeForSpeech(s.Text(), a.cfg.MaxVoiceWords)
		if text == "" {
			degrade("voice", errors.New("no speakable text"))
		} else {
			p := filepath.Join(scratch, "voice.wav")
			if err := a.tools.Speech.Synthesize(ctx, text, p); err != nil {
				degrade("voice", err)
			} else {
				audioPath = p
			}
		}
	}

	// Background canvas.
	bgPath := ""
	if a.cfg.Stages.Background {
		p := filepath.Join(scratch, "background.mp4")
		spec := media.BackgroundSpec{Duration: float64(duration), Profile: profile}
		if err := a.tools.Encoder.RenderBackground(ctx, spec, p); err != nil {
			degrade("background", err)
		} else {
			bgPath = p
		}
	}

	// Subtitles.
	subPath := ""
	if a.cfg.Stages.Subtitles {
		p := filepath.Join(scratch, "subtitles.srt")
		if err := writeSRT(s.Text(), p); err != nil {
			degrade("subtitles", err)
		} else {
			subPath = p
		}
	}

	// Overlay cards, at most three.
	var overlayPaths []string
	switch {
	case !a.cfg.Stages.Overlays || len(s.TextOverlays) == 0:
	case a.tools.Overlays == nil:
		degrade("overlays", errors.New("overlay renderer unavailable"))
	default:
		texts := s.TextOverlays
		if len(texts) > maxOverlays {
			texts = texts[:maxOverlays]
		}
		failed := false
		for i, text := range texts {
			p := filepath.Join(scratch, fmt.Sprintf("overlay-%d.png", i))
			if err := a.tools.Overlays.RenderText(ctx, text, p); err != nil {
				if !failed {
					degrade("overlays", err)
					failed = true
				}
				continue
			}
			overlayPaths = append(overlayPaths, p)
		}
	}

	// Composition. No background means nothing to compose.
	if bgPath == "" {
		return nil, &FatalError{Stage: "compose", Err: errors.New("background video unavailable")}
	}
	composedPath := filepath.Join(scratch, "video.mp4")
	composeSpec := media.ComposeSpec{
		VideoPath:    bgPath,
		AudioPath:    audioPath,
		SubtitlePath: subPath,
		OverlayPaths: overlayPaths,
		Profile:      profile,
	}
	if err := a.tools.Encoder.Compose(ctx, composeSpec, composedPath); err != nil {
		return nil, &FatalError{Stage: "compose", Err: err}
	}

	// Thumbnail.
	thumbScratch := ""
	if a.cfg.Stages.Thumbnail {
		p := filepath.Join(scratch, "thumbnail.jpg")
		if err := a.tools.Encoder.Thumbnail(ctx, composedPath, p, thumbnailOffsetSec); err != nil {
			degrade("thumbnail", err)
		} else {
			thumbScratch = p
		}
	}

	// Storage. The video move is fatal on failure; a failed thumbnail
	// move degrades since the video itself is intact.
	stamp := time.Now().UTC().Format("20060102_150405")
	videoDst := filepath.Join(a.cfg.StorageDir, "videos", "processed", fmt.Sprintf("%s_%s.mp4", s.ID, stamp))
	if err := moveFile(composedPath, videoDst); err != nil {
		return nil, &FatalError{Stage: "store", Err: err}
	}

	thumbDst := ""
	if thumbScratch != "" {
		p := filepath.Join(a.cfg.StorageDir, "videos", "thumbnails", fmt.Sprintf("%s_%s.jpg", s.ID, stamp))
		if err := moveFile(thumbScratch, p); err != nil {
			degrade("thumbnail", err)
		} else {
			thumbDst = p
		}
	}

	var sizeBytes int64
	if info, err := os.Stat(videoDst); err == nil {
		sizeBytes = info.Size()
	}
	decodable := a.tools.Encoder.Decodable(ctx, videoDst)

	artifact := &VideoArtifact{
		ID:                 uuid.NewString(),
		ScriptID:           s.ID,
		Platform:           s.Platform,
		Niche:              s.Niche,
		VideoPath:          videoDst,
		ThumbnailPath:      thumbDst,
		Resolution:         profile.Size(),
		DurationSec:        duration,
		SizeBytes:          sizeBytes,
		ProductionTime:     time.Since(start),
		QualityScore:       artifactQuality(sizeBytes, decodable),
		AudioGenerated:     audioPath != "",
		BackgroundUsed:     bgPath != "",
		SubtitlesAdded:     subPath != "",
		OverlayCount:       len(overlayPaths),
		ThumbnailGenerated: thumbDst != "",
		CreatedAt:          time.Now().UTC(),
	}

	logger.Info("artifact assembled",
		"artifact_id", artifact.ID,
		"size_bytes", artifact.SizeBytes,
		"quality_score", artifact.QualityScore,
		"audio", artifact.AudioGenerated,
		"subtitles", artifact.SubtitlesAdded,
		"overlays", artifact.OverlayCount,
		"production_ms", artifact.ProductionTime.Milliseconds(),
	)
	return artifact, nil
}

// artifactQuality rates the stored file: a base of 50, a size bonus,
// and 30 more when the stream decodes cleanly. Capped at 100.
func artifactQuality(sizeBytes int64, decodable bool) int {
	score := 50
	switch {
	case sizeBytes > 10<<20:
		score += 20
	case sizeBytes > 5<<20:
		score += 10
	}
	if decodable {
		score += 30
	}
	if score > 100 {
		score = 100
	}
	return score
}

// moveFile renames src into place, falling back to copy-and-remove
// when the storage dir is on another filesystem.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
