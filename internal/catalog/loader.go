package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/naming"
)

// Sentinel errors for the catalog loader
var (
	ErrReadConfigFailed  = errors.New("failed to read catalog config")
	ErrParseConfigFailed = errors.New("failed to parse catalog config")
)

// Config represents the JSON configuration for cosmetic items
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Items []Def `json:"items"`
}

// Def represents a single item definition record in the JSON source.
// Only id and category are required; everything else has a fallback.
type Def struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"display_name,omitempty"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category"`
	IconRef     string            `json:"icon,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
	Pack        string            `json:"pack,omitempty"`
}

// OverridesConfig represents the JSON override source: id → partial property
// map, merged onto existing definitions after a load.
type OverridesConfig struct {
	Version   string                       `json:"version"`
	Overrides map[string]map[string]string `json:"overrides"`
}

// LoadResult counts the outcome of a catalog load.
type LoadResult struct {
	Loaded  int
	Skipped int
}

// LoadFile reads and parses a catalog JSON file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfigFailed, err)
	}
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseConfigFailed, err)
	}
	return &config, nil
}

// LoadOverridesFile reads and parses a property-override JSON file.
func LoadOverridesFile(path string) (*OverridesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfigFailed, err)
	}
	var config OverridesConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseConfigFailed, err)
	}
	return &config, nil
}

// Definitions converts the parsed records into domain items, applying
// defaults and skipping malformed records individually. A bad record never
// aborts the conversion; the counts land in the returned LoadResult.
func (c *Config) Definitions() ([]domain.Item, LoadResult) {
	items := make([]domain.Item, 0, len(c.Items))
	result := LoadResult{}
	log := slog.Default()

	for i, def := range c.Items {
		if def.ID == "" {
			log.Warn("Skipping item record with empty id", "index", i)
			result.Skipped++
			continue
		}
		if def.Category == "" {
			log.Warn("Skipping item record with empty category", "id", def.ID)
			result.Skipped++
			continue
		}

		item := domain.Item{
			ID:          def.ID,
			DisplayName: def.DisplayName,
			Description: def.Description,
			Category:    domain.Category(def.Category),
			IconRef:     def.IconRef,
			Props:       domain.NewProps(def.Properties),
			Pack:        def.Pack,
		}
		if item.DisplayName == "" {
			item.DisplayName = naming.DisplayNameFromID(item.ID)
		}
		if item.IconRef == "" {
			item.IconRef = FallbackIcon(item.Category)
		}
		if item.Pack == "" {
			item.Pack = domain.PackBase
		}

		items = append(items, item)
		result.Loaded++
	}

	return items, result
}

// ApplyOverrides merges every override record onto the catalog. Records for
// unknown ids are ignored by MergeProperties; the count of applied records is
// logged for operators diagnosing stale override sources.
func ApplyOverrides(cat *Catalog, cfg *OverridesConfig) {
	applied := 0
	for id, props := range cfg.Overrides {
		if _, ok := cat.Get(id); ok {
			applied++
		}
		cat.MergeProperties(id, props)
	}
	slog.Info("Catalog overrides applied",
		"total", len(cfg.Overrides), "applied", applied)
}

// FallbackIcon returns the category-specific icon used when a record does not
// declare one. Unknown categories share a generic fallback.
func FallbackIcon(cat domain.Category) string {
	switch cat {
	case domain.CategoryEffect:
		return "icons/effect_default"
	case domain.CategoryHeadwear:
		return "icons/headwear_default"
	case domain.CategoryCape:
		return "icons/cape_default"
	case domain.CategoryCompanion:
		return "icons/companion_default"
	case domain.CategoryGadget:
		return "icons/gadget_default"
	default:
		return "icons/item_default"
	}
}
