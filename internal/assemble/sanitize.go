package assemble

import (
	"regexp"
	"strings"
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	hashtagPattern = regexp.MustCompile(`#\w+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
)

// sanitizeForSpeech strips markup that should never be read aloud and
// caps the narration length. Returns "" when nothing speakable remains.
func sanitizeForSpeech(text string, maxWords int) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = hashtagPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")

	words := strings.Fields(text)
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
