package assemble

import (
	"fmt"
	"math"
	"os"
	"strings"
)

const (
	subtitleWordsPerCue = 5
	subtitleCueSeconds  = 2.5
)

// buildSRT chunks the narration into fixed-cadence cues: five words
// per cue, two and a half seconds each.
func buildSRT(text string) string {
	words := strings.Fields(text)

	var b strings.Builder
	for i, idx := 0, 1; i < len(words); i, idx = i+subtitleWordsPerCue, idx+1 {
		end := i + subtitleWordsPerCue
		if end > len(words) {
			end = len(words)
		}
		start := float64(idx-1) * subtitleCueSeconds
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			idx,
			formatSRTTime(start),
			formatSRTTime(start+subtitleCueSeconds),
			strings.Join(words[i:end], " "),
		)
	}
	return b.String()
}

func writeSRT(text, path string) error {
	srt := buildSRT(text)
	if srt == "" {
		return fmt.Errorf("no subtitle text")
	}
	return os.WriteFile(path, []byte(srt), 0644)
}

// formatSRTTime renders seconds as HH:MM:SS,mmm.
func formatSRTTime(seconds float64) string {
	ms := int(math.Round(seconds * 1000))
	h := ms / 3600000
	ms %= 3600000
	m := ms / 60000
	ms %= 60000
	s := ms / 1000
	ms %= 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
