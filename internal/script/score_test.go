package script

import (
	"strings"
	"testing"
)

// fullScoreText hits every indicator: hook vocabulary, CTA vocabulary,
// four engagement terms, value vocabulary, and a word count inside the
// 100-300 band.
func fullScoreText() string {
	base := "did you know your friends think about this experience subscribe now and learn more"
	padding := strings.Repeat("word ", 120)
	return base + " " + strings.TrimSpace(padding)
}

func TestQualityScore_EmptyTextIsZero(t *testing.T) {
	if got := QualityScore(""); got != 0 {
		t.Fatalf("score(\"\") = %d, want 0", got)
	}
}

func TestQualityScore_AllIndicatorsCapAt100(t *testing.T) {
	if got := QualityScore(fullScoreText()); got != 100 {
		t.Fatalf("score = %d, want exactly 100", got)
	}
}

func TestQualityScore_Bounded(t *testing.T) {
	inputs := []string{
		"",
		"short",
		fullScoreText(),
		strings.Repeat("subscribe secret learn you your think experience ", 200),
		"!!! ??? \n\n\t ###",
	}
	for _, in := range inputs {
		got := QualityScore(in)
		if got < 0 || got > 100 {
			t.Errorf("score(%.30q...) = %d, out of [0,100]", in, got)
		}
	}
}

func TestQualityScore_IndividualIndicators(t *testing.T) {
	cases := []struct {
		name string
		text string
		want int
	}{
		// "secret" alone: hook +20.
		{"hook only", "secret", 20},
		// "subscribe" alone: cta +20.
		{"cta only", "subscribe", 20},
		// "learn" alone: value +20.
		{"value only", "learn", 20},
		// one engagement term ("think"): +5.
		{"one engagement word", "think", 5},
		// "you" also matches inside "your": two engagement hits, +10.
		{"your matches you too", "your", 10},
		// 100 neutral words: length band +20.
		{"length band only", strings.TrimSpace(strings.Repeat("word ", 100)), 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := QualityScore(tc.text); got != tc.want {
				t.Errorf("score = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestQualityScore_EngagementCapped(t *testing.T) {
	// All six engagement terms present would be 30; contribution caps at 20.
	text := "you your question comment think experience"
	// "comment" is also CTA vocabulary: +20. Total = 20 + 20.
	if got := QualityScore(text); got != 40 {
		t.Fatalf("score = %d, want 40 (engagement capped at 20, comment doubles as cta)", got)
	}
}

func TestEstimateDuration(t *testing.T) {
	// 155 words at 155 wpm is exactly one minute.
	text := strings.TrimSpace(strings.Repeat("word ", 155))
	if got := EstimateDuration(text); got != 60 {
		t.Fatalf("duration = %d, want 60", got)
	}

	if got := EstimateDuration(""); got != 0 {
		t.Fatalf("duration(\"\") = %d, want 0", got)
	}

	// 310 words -> 120 seconds.
	text = strings.TrimSpace(strings.Repeat("word ", 310))
	if got := EstimateDuration(text); got != 120 {
		t.Fatalf("duration = %d, want 120", got)
	}
}
