package script

import "strings"

// Speaking rate used for duration estimation, in words per minute.
const speakingRateWPM = 155

var (
	hookWords       = []string{"did you know", "this will", "secret", "amazing", "incredible", "shocking"}
	ctaWords        = []string{"subscribe", "follow", "like", "comment", "share", "click", "visit"}
	engagementWords = []string{"you", "your", "question", "comment", "think", "experience"}
	valueWords      = []string{"learn", "discover", "find out", "reveal", "show", "teach", "help"}
)

// QualityScore rates script text from 0 to 100 with fixed-weight
// indicator checks. It is deterministic given the text.
func QualityScore(content string) int {
	lower := strings.ToLower(content)
	score := 0

	if containsAny(lower, hookWords) {
		score += 20
	}
	if containsAny(lower, ctaWords) {
		score += 20
	}

	engagement := 0
	for _, w := range engagementWords {
		if strings.Contains(lower, w) {
			engagement++
		}
	}
	score += min(engagement*5, 20)

	wc := wordCount(content)
	if wc >= 100 && wc <= 300 {
		score += 20
	}

	if containsAny(lower, valueWords) {
		score += 20
	}

	return min(score, 100)
}

// EstimateDuration converts script length to spoken seconds at the
// fixed speaking rate.
func EstimateDuration(content string) int {
	return wordCount(content) * 60 / speakingRateWPM
}

func wordCount(content string) int {
	return len(strings.Fields(content))
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
