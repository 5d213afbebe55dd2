package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	backgroundBaseColor   = "0x1a1a2e"
	backgroundAccentColor = "0x16213e"
	subtitleStyle         = "FontSize=24,PrimaryColour=&Hffffff,OutlineColour=&H000000,Outline=2"

	// Each overlay appears for 5 seconds, one every 10 seconds.
	overlayIntervalSec = 10
	overlayDisplaySec  = 5
)

// FFmpeg is the production Encoder implementation.
type FFmpeg struct {
	bin    string
	runner *Runner
}

func (f *FFmpeg) RenderBackground(ctx context.Context, spec BackgroundSpec, outPath string) error {
	res := f.runner.Exec(ctx, f.bin, buildBackgroundArgs(spec, outPath)...)
	if !res.IsSuccess() {
		return fmt.Errorf("ffmpeg background render exited %d: %s", res.ExitCode, res.StderrTail)
	}
	return nil
}

func (f *FFmpeg) Compose(ctx context.Context, spec ComposeSpec, outPath string) error {
	res := f.runner.Exec(ctx, f.bin, buildComposeArgs(spec, outPath)...)
	if !res.IsSuccess() {
		return fmt.Errorf("ffmpeg compose exited %d: %s", res.ExitCode, res.StderrTail)
	}
	return nil
}

func (f *FFmpeg) Thumbnail(ctx context.Context, videoPath, outPath string, offset float64) error {
	res := f.runner.Exec(ctx, f.bin, buildThumbnailArgs(videoPath, outPath, offset)...)
	if !res.IsSuccess() {
		return fmt.Errorf("ffmpeg thumbnail exited %d: %s", res.ExitCode, res.StderrTail)
	}
	return nil
}

func (f *FFmpeg) Decodable(ctx context.Context, path string) bool {
	res := f.runner.Exec(ctx, f.bin, "-v", "error", "-i", path, "-f", "null", "-")
	return res.IsSuccess()
}

// buildBackgroundArgs produces a dark base canvas with a small accent
// square sliding across it, the visual the pipeline uses when no stock
// footage is wired in.
func buildBackgroundArgs(spec BackgroundSpec, outPath string) []string {
	d := formatSeconds(spec.Duration)
	fps := strconv.Itoa(spec.Profile.FrameRate)

	main := fmt.Sprintf("color=c=%s:s=%s:d=%s:r=%s", backgroundBaseColor, spec.Profile.Size(), d, fps)
	accent := fmt.Sprintf("color=c=%s:s=200x200:d=%s:r=%s", backgroundAccentColor, d, fps)
	filter := fmt.Sprintf("[0:v][1:v]overlay=x='(main_w-overlay_w)*t/%s':y=(main_h-overlay_h)/2", d)

	return []string{
		"-y",
		"-f", "lavfi", "-i", main,
		"-f", "lavfi", "-i", accent,
		"-filter_complex", filter,
		"-c:v", "libx264",
		"-preset", spec.Profile.Preset,
		"-crf", strconv.Itoa(spec.Profile.CRF),
		outPath,
	}
}

func buildComposeArgs(spec ComposeSpec, outPath string) []string {
	args := []string{"-y", "-i", spec.VideoPath}

	audioIndex := -1
	if spec.AudioPath != "" {
		args = append(args, "-i", spec.AudioPath)
		audioIndex = 1
	}
	overlayBase := 1
	if audioIndex > 0 {
		overlayBase = 2
	}
	for _, p := range spec.OverlayPaths {
		args = append(args, "-i", p)
	}

	var filters []string
	last := "[0:v]"
	for i := range spec.OverlayPaths {
		out := fmt.Sprintf("[v%d]", i+1)
		from := i * overlayIntervalSec
		filters = append(filters, fmt.Sprintf(
			"%s[%d:v]overlay=x=(W-w)/2:y=50:enable='between(t,%d,%d)'%s",
			last, overlayBase+i, from, from+overlayDisplaySec, out,
		))
		last = out
	}
	if spec.SubtitlePath != "" {
		filters = append(filters, fmt.Sprintf(
			"%ssubtitles=%s:force_style='%s'[vout]",
			last, spec.SubtitlePath, subtitleStyle,
		))
		last = "[vout]"
	}

	if len(filters) > 0 {
		args = append(args, "-filter_complex", strings.Join(filters, ";"), "-map", last)
	} else {
		args = append(args, "-map", "0:v")
	}

	if audioIndex > 0 {
		args = append(args,
			"-map", fmt.Sprintf("%d:a", audioIndex),
			"-c:a", "aac",
			"-b:a", "128k",
			"-shortest",
		)
	} else {
		args = append(args, "-an")
	}

	args = append(args,
		"-c:v", "libx264",
		"-preset", spec.Profile.Preset,
		"-crf", strconv.Itoa(spec.Profile.CRF),
		"-r", strconv.Itoa(spec.Profile.FrameRate),
		outPath,
	)
	return args
}

func buildThumbnailArgs(videoPath, outPath string, offset float64) []string {
	return []string{
		"-y",
		"-ss", formatSeconds(offset),
		"-i", videoPath,
		"-vframes", "1",
		"-q:v", "2",
		outPath,
	}
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
