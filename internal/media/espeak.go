package media

import (
	"context"
	"fmt"
)

const (
	speechRateWPM = "160"
	speechVoice   = "en+f3"
)

// ESpeak synthesizes narration with the espeak command line tool.
type ESpeak struct {
	bin    string
	runner *Runner
}

func (e *ESpeak) Synthesize(ctx context.Context, text, outPath string) error {
	res := e.runner.Exec(ctx, e.bin,
		"-s", speechRateWPM,
		"-v", speechVoice,
		"-w", outPath,
		text,
	)
	if !res.IsSuccess() {
		return fmt.Errorf("espeak exited %d: %s", res.ExitCode, res.StderrTail)
	}
	return nil
}
