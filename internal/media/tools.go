package media

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SpeechSynthesizer renders narration text to an audio file.
type SpeechSynthesizer interface {
	// Synthesize writes a WAV file at outPath for the given text.
	Synthesize(ctx context.Context, text, outPath string) error
}

// Encoder renders and composes video streams.
type Encoder interface {
	// RenderBackground writes an animated background clip at outPath.
	RenderBackground(ctx context.Context, spec BackgroundSpec, outPath string) error

	// Compose muxes the background, narration, subtitles and overlay
	// images into the final video at outPath.
	Compose(ctx context.Context, spec ComposeSpec, outPath string) error

	// Thumbnail extracts a single frame at the given offset in seconds.
	Thumbnail(ctx context.Context, videoPath, outPath string, offset float64) error

	// Decodable reports whether the file at path decodes cleanly.
	Decodable(ctx context.Context, path string) bool
}

// OverlayRenderer draws overlay text onto transparent images.
type OverlayRenderer interface {
	// RenderText writes a transparent PNG with the text at outPath.
	RenderText(ctx context.Context, text, outPath string) error
}

// BackgroundSpec describes the animated background to render.
type BackgroundSpec struct {
	Duration float64 // seconds
	Profile  Profile
}

// ComposeSpec describes the final composition inputs. Empty AudioPath
// means no narration track; empty SubtitlePath skips the burn-in.
type ComposeSpec struct {
	VideoPath    string
	AudioPath    string
	SubtitlePath string
	OverlayPaths []string
	Profile      Profile
}

// Config holds the toolset configuration. Empty paths mean auto-detect
// on PATH.
type Config struct {
	FFmpegPath  string
	EspeakPath  string
	ConvertPath string
	ToolTimeout time.Duration
	Logger      *slog.Logger
}

// Toolset bundles the resolved tool implementations handed to the
// assembler.
type Toolset struct {
	Speech   SpeechSynthesizer
	Encoder  Encoder
	Overlays OverlayRenderer
}

// NewToolset resolves the external binaries and returns production
// implementations. ffmpeg and espeak are required; a missing convert
// leaves Overlays nil and the assembler skips overlay cards.
func NewToolset(cfg Config) (*Toolset, error) {
	runner := NewRunner(cfg.ToolTimeout, cfg.Logger)

	ffmpeg, err := resolveTool(cfg.FFmpegPath, "ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("cannot locate ffmpeg: %w", err)
	}
	espeak, err := resolveTool(cfg.EspeakPath, "espeak", "espeak-ng")
	if err != nil {
		return nil, fmt.Errorf("cannot locate espeak: %w", err)
	}

	// Overlay cards are optional; a missing convert binary just means
	// videos ship without them.
	var overlays OverlayRenderer
	convert, err := resolveTool(cfg.ConvertPath, "convert", "magick")
	if err != nil {
		cfg.Logger.Warn("convert unavailable, overlay cards disabled", "error", err)
	} else {
		overlays = &Convert{bin: convert, runner: runner}
	}

	cfg.Logger.Info("media toolset initialised",
		"ffmpeg", ffmpeg,
		"espeak", espeak,
		"convert", convert,
	)

	return &Toolset{
		Speech:   &ESpeak{bin: espeak, runner: runner},
		Encoder:  &FFmpeg{bin: ffmpeg, runner: runner},
		Overlays: overlays,
	}, nil
}
