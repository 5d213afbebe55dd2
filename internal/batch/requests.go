package batch

import (
	"github.com/vidforge/vidforge-agent/internal/catalog"
	"github.com/vidforge/vidforge-agent/internal/script"
)

const (
	maxRequestKeywords = 3
	maxRequestProducts = 1
)

// Representative durations per platform, in seconds.
var platformDurations = map[string]int{
	"tiktok":    60,
	"youtube":   600,
	"instagram": 60,
	"facebook":  120,
}

const defaultDuration = 60

// wrrItem is one entry in a smooth weighted round robin rotation.
type wrrItem struct {
	name    string
	weight  int
	current int
}

// nextPick advances the rotation one step. With integer weights the
// pick counts over a full cycle match the weights exactly.
func nextPick(items []*wrrItem) string {
	total := 0
	var best *wrrItem
	for _, it := range items {
		it.current += it.weight
		total += it.weight
		if best == nil || it.current > best.current {
			best = it
		}
	}
	best.current -= total
	return best.name
}

// RequestSource produces content requests by rotating through the
// catalog's niche and platform weights. The rotation is deterministic,
// so long runs match the configured mix without randomness.
type RequestSource struct {
	catalog   *catalog.Catalog
	niches    []*wrrItem
	platforms []*wrrItem
}

func NewRequestSource(cat *catalog.Catalog) *RequestSource {
	return &RequestSource{
		catalog:   cat,
		niches:    wrrItems(cat.Niches),
		platforms: wrrItems(cat.Platforms),
	}
}

func wrrItems(ws []catalog.Weighted) []*wrrItem {
	items := make([]*wrrItem, len(ws))
	for i, w := range ws {
		weight := int(w.Weight*100 + 0.5)
		if weight < 1 {
			weight = 1
		}
		items[i] = &wrrItem{name: w.Name, weight: weight}
	}
	return items
}

// Next produces the next request in the rotation.
func (r *RequestSource) Next() script.ContentRequest {
	niche := nextPick(r.niches)
	platform := nextPick(r.platforms)

	duration, ok := platformDurations[platform]
	if !ok {
		duration = defaultDuration
	}

	keywords := r.catalog.KeywordsFor(niche)
	if len(keywords) > maxRequestKeywords {
		keywords = keywords[:maxRequestKeywords]
	}
	products := r.catalog.ProductsFor(niche)
	if len(products) > maxRequestProducts {
		products = products[:maxRequestProducts]
	}

	return script.ContentRequest{
		Niche:             niche,
		Platform:          platform,
		ContentType:       "video",
		Duration:          duration,
		Style:             "educational",
		TargetAudience:    "general",
		TrendingKeywords:  keywords,
		AffiliateProducts: products,
	}
}

// Take produces the next n requests.
func (r *RequestSource) Take(n int) []script.ContentRequest {
	requests := make([]script.ContentRequest, n)
	for i := range requests {
		requests[i] = r.Next()
	}
	return requests
}
