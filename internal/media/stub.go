package media

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// StubToolset returns tool implementations that write placeholder
// files instead of invoking external binaries. Used in tests and on
// hosts without the media tools installed.
func StubToolset(logger *slog.Logger) *Toolset {
	return &Toolset{
		Speech:   &StubSpeech{logger: logger},
		Encoder:  &StubEncoder{logger: logger},
		Overlays: &StubOverlays{logger: logger},
	}
}

type StubSpeech struct {
	logger *slog.Logger
}

func (s *StubSpeech) Synthesize(ctx context.Context, text, outPath string) error {
	s.logger.Info("speech stub: synthesis requested",
		"output", filepath.Base(outPath),
		"words", len(strings.Fields(text)),
	)
	return writePlaceholder(outPath)
}

type StubEncoder struct {
	logger *slog.Logger
}

func (e *StubEncoder) RenderBackground(ctx context.Context, spec BackgroundSpec, outPath string) error {
	e.logger.Info("encoder stub: background requested",
		"output", filepath.Base(outPath),
		"duration_s", spec.Duration,
	)
	return writePlaceholder(outPath)
}

func (e *StubEncoder) Compose(ctx context.Context, spec ComposeSpec, outPath string) error {
	e.logger.Info("encoder stub: composition requested",
		"output", filepath.Base(outPath),
		"overlays", len(spec.OverlayPaths),
		"has_audio", spec.AudioPath != "",
		"has_subtitles", spec.SubtitlePath != "",
	)
	return writePlaceholder(outPath)
}

func (e *StubEncoder) Thumbnail(ctx context.Context, videoPath, outPath string, offset float64) error {
	e.logger.Info("encoder stub: thumbnail requested",
		"input", filepath.Base(videoPath),
		"output", filepath.Base(outPath),
		"offset", offset,
	)
	return writePlaceholder(outPath)
}

// Decodable always reports false: placeholder bytes are not a stream.
func (e *StubEncoder) Decodable(ctx context.Context, path string) bool {
	return false
}

type StubOverlays struct {
	logger *slog.Logger
}

func (o *StubOverlays) RenderText(ctx context.Context, text, outPath string) error {
	o.logger.Info("overlay stub: text card requested",
		"output", filepath.Base(outPath),
		"text", text,
	)
	return writePlaceholder(outPath)
}

func writePlaceholder(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("stub"), 0644)
}
