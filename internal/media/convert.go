package media

import (
	"context"
	"fmt"
)

// Convert renders overlay text cards with ImageMagick.
type Convert struct {
	bin    string
	runner *Runner
}

func (c *Convert) RenderText(ctx context.Context, text, outPath string) error {
	res := c.runner.Exec(ctx, c.bin, buildOverlayArgs(text, outPath)...)
	if !res.IsSuccess() {
		return fmt.Errorf("convert exited %d: %s", res.ExitCode, res.StderrTail)
	}
	return nil
}

func buildOverlayArgs(text, outPath string) []string {
	return []string{
		"-size", "800x100",
		"xc:transparent",
		"-font", "DejaVu-Sans-Bold",
		"-pointsize", "48",
		"-fill", "white",
		"-stroke", "black",
		"-strokewidth", "2",
		"-gravity", "center",
		"-annotate", "+0+0", text,
		outPath,
	}
}
