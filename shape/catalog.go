package shape

import (
	"math/rand"
	"sort"
	"time"
)

// Type identifies a workflow element kind.
type Type string

const (
	Process  Type = "Process"
	Decision Type = "Decision"
	Data     Type = "Data"
	Terminal Type = "Terminal"
	Document Type = "Document"
)

// Config is the static presentation metadata for a shape type.
type Config struct {
	Type            Type    `json:"type"`
	Geometry        string  `json:"geometry"`
	BackgroundColor string  `json:"backgroundColor"`
	BorderColor     string  `json:"borderColor"`
	DefaultWidth    float64 `json:"defaultWidth,omitempty"`
	DefaultHeight   float64 `json:"defaultHeight,omitempty"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
}

var builtinConfigs = map[Type]Config{
	Process: {
		Type: Process, Geometry: "rectangle",
		BackgroundColor: "#3b82f6", BorderColor: "#1e40af",
		DefaultWidth: 140, DefaultHeight: 80,
		Description: "A step that transforms its input", Category: "flow",
	},
	Decision: {
		Type: Decision, Geometry: "diamond",
		BackgroundColor: "#ef4444", BorderColor: "#b91c1c",
		DefaultWidth: 120, DefaultHeight: 100,
		Description: "A branch on a condition", Category: "flow",
	},
	Data: {
		Type: Data, Geometry: "parallelogram",
		BackgroundColor: "#10b981", BorderColor: "#047857",
		DefaultWidth: 130, DefaultHeight: 70,
		Description: "Input or output data", Category: "io",
	},
	Terminal: {
		Type: Terminal, Geometry: "stadium",
		BackgroundColor: "#8b5cf6", BorderColor: "#6d28d9",
		DefaultWidth: 160, DefaultHeight: 80,
		Description: "Start or end of a workflow", Category: "flow",
	},
	Document: {
		Type: Document, Geometry: "document",
		BackgroundColor: "#f59e0b", BorderColor: "#d97706",
		DefaultWidth: 140, DefaultHeight: 90,
		Description: "A produced or consumed document", Category: "io",
	},
}

// Catalog is a lookup table of shape type configurations.
type Catalog struct {
	configs map[Type]Config
	rnd     *rand.Rand
}

// NewCatalog returns the built-in catalog seeded from the clock.
func NewCatalog() *Catalog {
	return NewCatalogWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewCatalogWithSource returns the built-in catalog drawing random types from src.
func NewCatalogWithSource(src rand.Source) *Catalog {
	return &Catalog{configs: builtinConfigs, rnd: rand.New(src)}
}

func (c *Catalog) Lookup(t Type) (Config, bool) {
	cfg, ok := c.configs[t]
	return cfg, ok
}

// Types returns every known type in name order.
func (c *Catalog) Types() []Type {
	types := make([]Type, 0, len(c.configs))
	for t := range c.configs {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// RandomType picks a type uniformly at random.
func (c *Catalog) RandomType() Type {
	types := c.Types()
	return types[c.rnd.Intn(len(types))]
}

func (c *Catalog) ByCategory(category string) []Config {
	var out []Config
	for _, t := range c.Types() {
		if cfg := c.configs[t]; cfg.Category == category {
			out = append(out, cfg)
		}
	}
	return out
}

// WithDefaults returns the configuration for t with non-zero override fields applied.
func (c *Catalog) WithDefaults(t Type, overrides Config) Config {
	cfg := c.configs[t]
	if overrides.Geometry != "" {
		cfg.Geometry = overrides.Geometry
	}
	if overrides.BackgroundColor != "" {
		cfg.BackgroundColor = overrides.BackgroundColor
	}
	if overrides.BorderColor != "" {
		cfg.BorderColor = overrides.BorderColor
	}
	if overrides.DefaultWidth != 0 {
		cfg.DefaultWidth = overrides.DefaultWidth
	}
	if overrides.DefaultHeight != 0 {
		cfg.DefaultHeight = overrides.DefaultHeight
	}
	if overrides.Description != "" {
		cfg.Description = overrides.Description
	}
	if overrides.Category != "" {
		cfg.Category = overrides.Category
	}
	return cfg
}
