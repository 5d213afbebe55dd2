package script

import "strings"

// section identifies where a parsed line belongs.
type section int

const (
	sectionBody section = iota
	sectionHook
	sectionCTA
	sectionVisualCues
	sectionOverlays
	sectionHashtags
	sectionMusic
)

// parseSections segments generated text into script sections. A line
// whose text matches a section header keyword opens that section; every
// other line is appended to whichever section is currently open, with
// the body open at the start. This is best-effort segmentation of
// free-form model output, not a grammar: header detection is by keyword
// and misrouted lines are expected occasionally.
func parseSections(content string, s *Script) {
	current := sectionBody

	var hook, body, cta []string

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if next, isHeader := matchHeader(line); isHeader {
			current = next
			continue
		}

		switch current {
		case sectionHook:
			hook = append(hook, line)
		case sectionCTA:
			cta = append(cta, line)
		case sectionVisualCues:
			s.VisualCues = append(s.VisualCues, line)
		case sectionOverlays:
			s.TextOverlays = append(s.TextOverlays, line)
		case sectionHashtags:
			s.Hashtags = append(s.Hashtags, line)
		case sectionMusic:
			s.MusicSuggestions = append(s.MusicSuggestions, line)
		default:
			body = append(body, line)
		}
	}

	s.Hook = strings.Join(hook, " ")
	s.Body = strings.Join(body, " ")
	s.CallToAction = strings.Join(cta, " ")
}

// matchHeader reports whether a line opens a new section. Match order
// matters: "text overlay" lines contain neither "visual" nor "hashtag",
// but a line mentioning both visual and overlay routes to visual cues.
func matchHeader(line string) (section, bool) {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "hook") || strings.Contains(lower, "opening"):
		return sectionHook, true
	case strings.Contains(lower, "cta") ||
		strings.Contains(lower, "call-to-action") ||
		strings.Contains(lower, "call to action"):
		return sectionCTA, true
	case strings.Contains(lower, "visual"):
		return sectionVisualCues, true
	case strings.Contains(lower, "overlay"):
		return sectionOverlays, true
	case strings.Contains(lower, "hashtag"):
		return sectionHashtags, true
	case strings.Contains(lower, "music") || strings.Contains(lower, "sound"):
		return sectionMusic, true
	}
	return sectionBody, false
}
