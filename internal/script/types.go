package script

import "time"

// ContentRequest describes one piece of content to produce. Requests
// are immutable once created.
type ContentRequest struct {
	Niche             string   `json:"niche"`
	Platform          string   `json:"platform"`
	ContentType       string   `json:"content_type"`
	Duration          int      `json:"duration"` // target seconds
	Style             string   `json:"style"`
	TargetAudience    string   `json:"target_audience"`
	TrendingKeywords  []string `json:"trending_keywords,omitempty"`
	AffiliateProducts []string `json:"affiliate_products,omitempty"`
}

// Script is a structured video script produced by the Composer. The
// metadata fields (WordCount, EstimatedDuration, QualityScore) are pure
// functions of the generated text; they are computed once at creation
// and never mutated afterwards.
type Script struct {
	ID       string `json:"id"`
	Niche    string `json:"niche"`
	Platform string `json:"platform"`
	Duration int    `json:"duration"`

	Hook         string `json:"hook"`
	Body         string `json:"body"`
	CallToAction string `json:"call_to_action"`

	VisualCues       []string `json:"visual_cues,omitempty"`
	TextOverlays     []string `json:"text_overlays,omitempty"`
	Hashtags         []string `json:"hashtags,omitempty"`
	MusicSuggestions []string `json:"music_suggestions,omitempty"`

	WordCount         int      `json:"word_count"`
	EstimatedDuration int      `json:"estimated_duration"` // seconds
	QualityScore      int      `json:"quality_score"`      // 0-100
	Keywords          []string `json:"keywords,omitempty"`
	AffiliateProducts []string `json:"affiliate_products,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Text returns the spoken portion of the script in narration order.
func (s *Script) Text() string {
	out := s.Hook
	if s.Body != "" {
		if out != "" {
			out += " "
		}
		out += s.Body
	}
	if s.CallToAction != "" {
		if out != "" {
			out += " "
		}
		out += s.CallToAction
	}
	return out
}
