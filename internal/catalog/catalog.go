// Package catalog holds the static content configuration: per-niche
// script templates, trending keywords, affiliate products, and the
// weighted niche/platform distribution used to schedule production.
// The built-in catalog is embedded; an external YAML file can replace it.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// DefaultNiche is the deterministic fallback for unknown niches.
const DefaultNiche = "ai_technology"

// Template describes how scripts for one niche should be written.
type Template struct {
	HookPhrases []string `yaml:"hook_phrases"`
	Structure   string   `yaml:"structure"`
	Tone        string   `yaml:"tone"`
}

// Weighted is a name with a scheduling weight.
type Weighted struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

type Catalog struct {
	Templates map[string]Template `yaml:"templates"`
	Keywords  map[string][]string `yaml:"keywords"`
	Products  map[string][]string `yaml:"products"`
	Niches    []Weighted          `yaml:"niches"`
	Platforms []Weighted          `yaml:"platforms"`
}

// Load reads a catalog from a YAML file. An empty path loads the
// embedded built-in catalog.
func Load(path string) (*Catalog, error) {
	data := builtinCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if _, ok := c.Templates[DefaultNiche]; !ok {
		return nil, fmt.Errorf("catalog is missing the %q fallback template", DefaultNiche)
	}
	if len(c.Niches) == 0 || len(c.Platforms) == 0 {
		return nil, fmt.Errorf("catalog must define niche and platform weights")
	}

	return &c, nil
}

// TemplateFor returns the template for a niche. Unknown niches fall
// back to the default template, never randomly, so composition is
// reproducible.
func (c *Catalog) TemplateFor(niche string) Template {
	if t, ok := c.Templates[niche]; ok {
		return t
	}
	return c.Templates[DefaultNiche]
}

// KeywordsFor returns the trending keywords for a niche, or nil.
func (c *Catalog) KeywordsFor(niche string) []string {
	return c.Keywords[niche]
}

// ProductsFor returns the affiliate products for a niche, or nil.
func (c *Catalog) ProductsFor(niche string) []string {
	return c.Products[niche]
}

// NicheNames returns the configured niches sorted by descending weight,
// ties broken by name for determinism.
func (c *Catalog) NicheNames() []string {
	return sortedNames(c.Niches)
}

func sortedNames(ws []Weighted) []string {
	sorted := make([]Weighted, len(ws))
	copy(sorted, ws)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Weight != sorted[j].Weight {
			return sorted[i].Weight > sorted[j].Weight
		}
		return sorted[i].Name < sorted[j].Name
	})
	names := make([]string, len(sorted))
	for i, w := range sorted {
		names[i] = w.Name
	}
	return names
}
