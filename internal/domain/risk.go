package domain

import (
	"sort"
	"time"
)

// Costs is the cost breakdown for one component type.
type Costs struct {
	CapexUSD         float64 `json:"capex_usd"`
	RepairUSD        float64 `json:"repair_usd,omitempty"`
	DowntimeUSDPerHr float64 `json:"downtime_usd_per_hr,omitempty"`
	OpexUSDPerYear   float64 `json:"opex_usd_per_year,omitempty"`
}

// Basis is the loss basis used for expected-loss computation: replacement
// capex plus the repair term when present. Downtime and opex need a
// duration model and are excluded from the probability-weighted basis.
func (c Costs) Basis() float64 {
	return c.CapexUSD + c.RepairUSD
}

// CostLookup resolves the cost breakdown for a component type, optionally
// consulting structural attributes (voltage, line count) for selector-based
// catalogue entries. ok is false when the catalogue has no entry.
type CostLookup func(componentType string, attrs map[string]float64) (Costs, bool)

// AssetLoss is one entry of a top-assets ranking.
type AssetLoss struct {
	Label string  `json:"label"`
	EAL   float64 `json:"eal"`
}

// RiskSummary is the headline economic rollup for one analysis.
type RiskSummary struct {
	Sector           string    `json:"sector"`
	Hazard           string    `json:"hazard"`
	TotalEAL         float64   `json:"total_expected_annual_loss"`
	ComponentsTotal  int       `json:"components_total_count"`
	ComponentsAtRisk int       `json:"components_at_risk_count"`
	PercentAtRisk    float64   `json:"percent_at_risk"`
	ComputedAt       time.Time `json:"computed_at"`
}

// nodeCosts resolves the loss basis for a node: an explicit replacement
// cost on the node wins, otherwise the catalogue is consulted by component
// type and attributes.
func nodeCosts(node *Component, lookup CostLookup) (Costs, bool) {
	if node.ReplacementCost > 0 {
		return Costs{CapexUSD: node.ReplacementCost}, true
	}
	if lookup == nil {
		return Costs{}, false
	}
	return lookup(node.ComponentType, node.Attributes)
}

// AggregateEAL folds PoF and cost across a subtree into an expected-loss
// time series of axisLen samples: at each step the sum over every node that
// has both a grid-0 PoF series and a cost entry of pof(t) * cost basis.
// Series shorter than the axis are clamped at their last sample. A tree
// with no cost-bearing nodes yields all zeros, not an error.
func AggregateEAL(root *Component, hazard, variable string, costs CostLookup, axisLen int) []float64 {
	out := make([]float64, axisLen)
	if axisLen == 0 {
		return out
	}
	_ = Walk(root, func(node *Component, _ []*Component) error {
		series, ok := ExtractSeries(node, hazard, variable)
		if !ok {
			return nil
		}
		c, ok := nodeCosts(node, costs)
		if !ok {
			return nil
		}
		basis := c.Basis()
		for t := range out {
			out[t] += series[clampIndex(t, len(series))] * basis
		}
		return nil
	})
	return out
}

// PercentAtRisk computes, per time step, the fraction of curve-bearing
// nodes whose PoF meets or exceeds the high-band threshold. Nodes without
// curves are excluded from the denominator entirely rather than counted as
// zero-risk. A subtree with no curves yields all zeros.
func PercentAtRisk(root *Component, hazard, variable string, axisLen int, highThreshold float64) []float64 {
	out := make([]float64, axisLen)
	if axisLen == 0 {
		return out
	}

	var withCurve [][]float64
	_ = Walk(root, func(node *Component, _ []*Component) error {
		if series, ok := ExtractSeries(node, hazard, variable); ok {
			withCurve = append(withCurve, series)
		}
		return nil
	})
	if len(withCurve) == 0 {
		return out
	}

	for t := range out {
		atRisk := 0
		for _, series := range withCurve {
			if series[clampIndex(t, len(series))] >= highThreshold {
				atRisk++
			}
		}
		out[t] = float64(atRisk) / float64(len(withCurve))
	}
	return out
}

// TopAssets ranks the n highest-expected-loss nodes of a subtree at time t,
// descending. Ties keep tree pre-order: the first-seen node wins. Nodes
// need both a curve and a cost entry to participate; fewer than n
// qualifying nodes shortens the result.
func TopAssets(root *Component, hazard, variable string, costs CostLookup, t, n int) []AssetLoss {
	if n <= 0 {
		return nil
	}
	var ranked []AssetLoss
	_ = Walk(root, func(node *Component, _ []*Component) error {
		series, ok := ExtractSeries(node, hazard, variable)
		if !ok {
			return nil
		}
		c, ok := nodeCosts(node, costs)
		if !ok {
			return nil
		}
		pof := series[clampIndex(t, len(series))]
		ranked = append(ranked, AssetLoss{Label: node.Label, EAL: pof * c.Basis()})
		return nil
	})

	// Stable sort preserves pre-order among equal losses.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].EAL > ranked[j].EAL })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Summarize compiles the headline risk summary for one subtree at one time
// index from its snapshot and EAL series.
func Summarize(sector string, snap *RiskSnapshot, eal []float64, bands BandConfig) RiskSummary {
	s := RiskSummary{
		Sector:     sector,
		ComputedAt: clock.Now(),
	}
	if snap == nil {
		return s
	}
	s.Hazard = snap.Hazard

	thresholds := bands.For(snap.Hazard)
	withCurve := 0
	for _, rec := range snap.Records {
		s.ComponentsTotal++
		if !rec.HasCurve {
			continue
		}
		withCurve++
		if rec.PoF >= thresholds.High {
			s.ComponentsAtRisk++
		}
	}
	if withCurve > 0 {
		s.PercentAtRisk = float64(s.ComponentsAtRisk) / float64(withCurve)
	}
	if len(eal) > 0 {
		s.TotalEAL = eal[clampIndex(snap.TimeIndex, len(eal))]
	}
	return s
}
