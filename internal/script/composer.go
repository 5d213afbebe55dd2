// Package script turns content requests into structured video scripts
// using the inference cluster, with deterministic scoring of the result.
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidforge/vidforge-agent/internal/catalog"
)

// ErrGenerationFailed is returned when the backend produced no content.
// The composer does not retry; retry policy belongs to the orchestrator.
var ErrGenerationFailed = errors.New("script generation returned no content")

// Generator is the slice of the inference client the composer needs.
type Generator interface {
	Generate(ctx context.Context, prompt, model string) string
}

var platformSpecs = map[string]string{
	"tiktok":    "TikTok (vertical, 30-60 seconds, trending sounds, hashtags)",
	"youtube":   "YouTube (horizontal, 8-15 minutes, SEO optimized, engaging)",
	"instagram": "Instagram Reels (vertical, 30-90 seconds, visual appeal)",
	"facebook":  "Facebook (square/horizontal, 1-3 minutes, shareable)",
}

// Composer builds scripts from content requests.
type Composer struct {
	generator Generator
	catalog   *catalog.Catalog
	model     string
	logger    *slog.Logger
}

func NewComposer(generator Generator, cat *catalog.Catalog, model string, logger *slog.Logger) *Composer {
	return &Composer{
		generator: generator,
		catalog:   cat,
		model:     model,
		logger:    logger,
	}
}

// Compose generates a structured script for one request. An empty
// backend response is a soft failure: ErrGenerationFailed, no Script.
func (c *Composer) Compose(ctx context.Context, req ContentRequest) (*Script, error) {
	c.logger.Info("composing script", "niche", req.Niche, "platform", req.Platform)

	tmpl := c.catalog.TemplateFor(req.Niche)
	prompt := c.buildPrompt(req, tmpl)

	content := c.generator.Generate(ctx, prompt, c.model)
	if content == "" {
		return nil, ErrGenerationFailed
	}

	s := &Script{
		ID:                uuid.NewString(),
		Niche:             req.Niche,
		Platform:          req.Platform,
		Duration:          req.Duration,
		Keywords:          req.TrendingKeywords,
		AffiliateProducts: req.AffiliateProducts,
		CreatedAt:         time.Now().UTC(),
	}
	parseSections(content, s)

	s.WordCount = wordCount(content)
	s.EstimatedDuration = EstimateDuration(content)
	s.QualityScore = QualityScore(content)

	c.logger.Info("script composed",
		"script_id", s.ID,
		"word_count", s.WordCount,
		"estimated_duration_s", s.EstimatedDuration,
		"quality_score", s.QualityScore,
	)
	return s, nil
}

func (c *Composer) buildPrompt(req ContentRequest, tmpl catalog.Template) string {
	platform := platformSpecs[req.Platform]
	if platform == "" {
		platform = req.Platform
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a viral %s video script for the %s niche.\n\n", req.Platform, req.Niche)
	fmt.Fprintf(&b, "PLATFORM: %s\n", platform)
	fmt.Fprintf(&b, "DURATION: %d seconds\n", req.Duration)
	fmt.Fprintf(&b, "STYLE: %s\n", req.Style)
	fmt.Fprintf(&b, "TARGET AUDIENCE: %s\n\n", req.TargetAudience)

	b.WriteString("REQUIREMENTS:\n")
	b.WriteString("1. Hook viewers in the first 3 seconds\n")
	b.WriteString("2. Provide valuable, actionable information\n")
	b.WriteString("3. Include a strong call-to-action\n")
	fmt.Fprintf(&b, "4. Optimize for the %s algorithm\n", req.Platform)
	b.WriteString("5. Make it engaging and shareable\n\n")

	b.WriteString("STRUCTURE:\n")
	b.WriteString("- Hook (3 seconds): Attention-grabbing opening\n")
	b.WriteString("- Content (80% of video): Main value/information\n")
	b.WriteString("- CTA (10% of video): Clear call-to-action\n\n")

	fmt.Fprintf(&b, "TONE: %s\n", tmpl.Tone)
	fmt.Fprintf(&b, "NARRATIVE STRUCTURE: %s\n", tmpl.Structure)

	if len(req.TrendingKeywords) > 0 {
		fmt.Fprintf(&b, "\nTRENDING KEYWORDS TO INCLUDE: %s\n", strings.Join(req.TrendingKeywords, ", "))
	}
	if len(req.AffiliateProducts) > 0 {
		fmt.Fprintf(&b, "\nAFFILIATE PRODUCTS TO MENTION: %s\n", strings.Join(req.AffiliateProducts, ", "))
	}

	b.WriteString("\nGenerate a complete script with:\n")
	b.WriteString("1. Exact words to say\n")
	b.WriteString("2. Visual cues and directions\n")
	b.WriteString("3. Text overlays suggestions\n")
	b.WriteString("4. Hashtag recommendations\n")
	b.WriteString("5. Music/sound suggestions\n")

	return b.String()
}
