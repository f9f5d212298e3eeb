package domain

import "time"

// Band is the risk color band attached to a snapshot record.
type Band string

const (
	// BandNone marks nodes without curve data; the UI renders these in a
	// fixed neutral color, visually distinct from a genuine 0% risk.
	BandNone   Band = "none"
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// BandThresholds are the lower bounds of the medium and high bands:
// pof < Medium is low, Medium <= pof < High is medium, pof >= High is high.
type BandThresholds struct {
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// DefaultBandThresholds returns the thresholds every hazard uses today.
func DefaultBandThresholds() BandThresholds {
	return BandThresholds{Medium: 0.25, High: 0.51}
}

// Classify maps a PoF to its band. Band boundaries are inclusive on the
// upper side: exactly 0.25 is medium, exactly 0.51 is high.
func (t BandThresholds) Classify(pof float64) Band {
	switch {
	case pof < t.Medium:
		return BandLow
	case pof < t.High:
		return BandMedium
	default:
		return BandHigh
	}
}

// BandConfig holds the default thresholds plus optional per-hazard
// overrides. Thresholds are configuration, not constants: they currently
// default identically across hazards but may diverge.
type BandConfig struct {
	Default   BandThresholds            `json:"default"`
	PerHazard map[string]BandThresholds `json:"per_hazard,omitempty"`
}

// DefaultBandConfig returns a config with the standard thresholds and no
// per-hazard overrides.
func DefaultBandConfig() BandConfig {
	return BandConfig{Default: DefaultBandThresholds()}
}

// For returns the thresholds in effect for a hazard.
func (c BandConfig) For(hazard string) BandThresholds {
	if t, ok := c.PerHazard[hazard]; ok {
		return t
	}
	if c.Default == (BandThresholds{}) {
		return DefaultBandThresholds()
	}
	return c.Default
}

// SnapshotRecord is one flattened node of a hierarchical risk view. ID is
// the path-joined label chain from the root; ParentID links to the parent's
// ID, empty for the root.
type SnapshotRecord struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	ParentID      string  `json:"parent_id,omitempty"`
	ComponentType string  `json:"component_type"`
	PoF           float64 `json:"pof"`
	HasCurve      bool    `json:"has_curve"`
	Band          Band    `json:"band"`
}

// RiskSnapshot is the flattened, parent-linked record set for one root
// subtree at one time index, consumable by hierarchical (sunburst)
// rendering.
type RiskSnapshot struct {
	Hazard     string           `json:"hazard"`
	Variable   string           `json:"variable"`
	TimeIndex  int              `json:"time_index"`
	Records    []SnapshotRecord `json:"records"`
	ComputedAt time.Time        `json:"computed_at"`
}

// BuildSnapshot assembles the hierarchical risk view for one root at one
// time index. Every node is visited exactly once, pre-order, children in
// declared order. PoF is read from the node's grid-0 series at timeIndex
// (clamped to the series bounds); nodes without a usable series get pof=0
// with HasCurve=false and the neutral band.
//
// Record ids are unique as long as sibling labels are unique. Siblings
// sharing a label collide by design: the later sibling overwrites the
// former in id-keyed lookups. This mirrors the behavior of the existing
// consumers and is intentionally not disambiguated here.
func BuildSnapshot(root *Component, hazard, variable string, timeIndex int, bands BandConfig) *RiskSnapshot {
	thresholds := bands.For(hazard)
	snap := &RiskSnapshot{
		Hazard:     hazard,
		Variable:   variable,
		TimeIndex:  timeIndex,
		ComputedAt: clock.Now(),
	}

	var visit func(node *Component, parentID string)
	visit = func(node *Component, parentID string) {
		id := node.Label
		if parentID != "" {
			id = parentID + "/" + node.Label
		}

		rec := SnapshotRecord{
			ID:            id,
			Label:         node.Label,
			ParentID:      parentID,
			ComponentType: node.ComponentType,
			Band:          BandNone,
		}
		if series, ok := ExtractSeries(node, hazard, variable); ok {
			rec.PoF = series[clampIndex(timeIndex, len(series))]
			rec.HasCurve = true
			rec.Band = thresholds.Classify(rec.PoF)
		}
		snap.Records = append(snap.Records, rec)

		for _, child := range node.Subcomponents {
			visit(child, id)
		}
	}
	visit(root, "")

	return snap
}
