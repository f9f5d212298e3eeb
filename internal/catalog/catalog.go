// Package catalog loads and queries the component cost catalogue: per
// component-type replacement, repair, downtime, and O&M cost figures,
// optionally scoped by structural selectors over asset attributes (voltage
// ranges, line counts).
package catalog

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// Selector restricts a catalogue item to assets whose named attribute falls
// within [MinValue, MaxValue]. Nil bounds are open.
type Selector struct {
	Field    string   `yaml:"field" json:"field" validate:"required,oneof=max_voltage min_voltage lines capacity_mva"`
	MinValue *float64 `yaml:"min_value,omitempty" json:"min_value,omitempty"`
	MaxValue *float64 `yaml:"max_value,omitempty" json:"max_value,omitempty"`
}

// Matches reports whether the asset attributes satisfy the selector. An
// asset missing the selector's field does not match.
func (s *Selector) Matches(attrs map[string]float64) bool {
	v, ok := attrs[s.Field]
	if !ok {
		return false
	}
	if s.MinValue != nil && v < *s.MinValue {
		return false
	}
	if s.MaxValue != nil && v > *s.MaxValue {
		return false
	}
	return true
}

// Item is one catalogue entry. Items for the same component type are
// consulted in declared order; the first whose selector matches (or that
// has no selector) wins.
type Item struct {
	ComponentType    string    `yaml:"component_type" json:"component_type" validate:"required"`
	CapexUSD         float64   `yaml:"capex_usd" json:"capex_usd" validate:"gte=0"`
	RepairUSD        float64   `yaml:"repair_usd,omitempty" json:"repair_usd,omitempty" validate:"gte=0"`
	DowntimeUSDPerHr float64   `yaml:"downtime_usd_per_hr,omitempty" json:"downtime_usd_per_hr,omitempty" validate:"gte=0"`
	OpexUSDPerYear   float64   `yaml:"opex_usd_per_year,omitempty" json:"opex_usd_per_year,omitempty" validate:"gte=0"`
	Selector         *Selector `yaml:"selector,omitempty" json:"selector,omitempty"`
	BaseYear         int       `yaml:"base_year,omitempty" json:"base_year,omitempty" validate:"omitempty,gte=1900"`
	Region           string    `yaml:"region,omitempty" json:"region,omitempty"`
	Source           string    `yaml:"source,omitempty" json:"source,omitempty"`
}

// Costs converts the item to the domain cost breakdown.
func (i Item) Costs() domain.Costs {
	return domain.Costs{
		CapexUSD:         i.CapexUSD,
		RepairUSD:        i.RepairUSD,
		DowntimeUSDPerHr: i.DowntimeUSDPerHr,
		OpexUSDPerYear:   i.OpexUSDPerYear,
	}
}

// Catalog is an ordered cost catalogue with a by-type index.
type Catalog struct {
	items  []Item
	byType map[string][]Item
}

// catalogFile is the YAML document shape.
type catalogFile struct {
	Items []Item `yaml:"items"`
}

// Load reads and validates a catalogue from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(doc.Items)
}

// New builds a validated catalogue from items, preserving declared order.
func New(items []Item) (*Catalog, error) {
	v := validator.New()
	for i, item := range items {
		if err := v.Struct(item); err != nil {
			return nil, fmt.Errorf("catalog item %d (%s): %w", i, item.ComponentType, err)
		}
		if item.CapexUSD == 0 && item.RepairUSD == 0 && item.DowntimeUSDPerHr == 0 && item.OpexUSDPerYear == 0 {
			return nil, fmt.Errorf("catalog item %d (%s): at least one cost figure required", i, item.ComponentType)
		}
		if s := item.Selector; s != nil && s.MinValue != nil && s.MaxValue != nil && *s.MinValue >= *s.MaxValue {
			return nil, fmt.Errorf("catalog item %d (%s): selector min_value must be < max_value", i, item.ComponentType)
		}
	}

	c := &Catalog{
		items:  items,
		byType: make(map[string][]Item),
	}
	for _, item := range items {
		c.byType[item.ComponentType] = append(c.byType[item.ComponentType], item)
	}
	return c, nil
}

// Len returns the number of catalogue items.
func (c *Catalog) Len() int { return len(c.items) }

// Lookup resolves the cost breakdown for a component type against asset
// attributes. Items are consulted in declared order; unselectored items
// match unconditionally.
func (c *Catalog) Lookup(componentType string, attrs map[string]float64) (domain.Costs, bool) {
	for _, item := range c.byType[componentType] {
		if item.Selector == nil || item.Selector.Matches(attrs) {
			return item.Costs(), true
		}
	}
	return domain.Costs{}, false
}
