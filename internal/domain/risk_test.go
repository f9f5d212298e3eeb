package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostsBasis(t *testing.T) {
	c := Costs{CapexUSD: 100000, RepairUSD: 25000, DowntimeUSDPerHr: 500, OpexUSDPerYear: 12000}
	assert.Equal(t, 125000.0, c.Basis(), "downtime and opex need a duration model and stay out")
}

// ealTree has two costed leaves with flat trajectories and one curveless,
// costless node, so the expected loss at every step is
// 100000*0.1 + 50000*0.2 = 20000.
func ealTree() *Component {
	return &Component{
		UUID:          "sub-1",
		Label:         "Substation",
		ComponentType: "substation",
		Subcomponents: []*Component{
			func() *Component {
				n := testNode("xfmr-1", "Transformer", "Heat Stress", "tas",
					map[string]*CurveSample{"0": testCurve(0.1, 0.1)})
				n.ComponentType = "transformer"
				return n
			}(),
			func() *Component {
				n := testNode("brk-1", "Breaker", "Heat Stress", "tas",
					map[string]*CurveSample{"0": testCurve(0.2, 0.2)})
				n.ComponentType = "breaker"
				return n
			}(),
			{UUID: "ch-1", Label: "Control House", ComponentType: "building"},
		},
	}
}

func ealCosts(componentType string, _ map[string]float64) (Costs, bool) {
	switch componentType {
	case "transformer":
		return Costs{CapexUSD: 100000}, true
	case "breaker":
		return Costs{CapexUSD: 50000}, true
	default:
		return Costs{}, false
	}
}

func TestAggregateEAL(t *testing.T) {
	t.Run("sums pof times cost per step", func(t *testing.T) {
		eal := AggregateEAL(ealTree(), "Heat Stress", "tas", ealCosts, 2)
		require.Len(t, eal, 2)
		assert.InDelta(t, 20000, eal[0], 1e-9)
		assert.InDelta(t, 20000, eal[1], 1e-9)
	})

	t.Run("short series clamp at their last sample", func(t *testing.T) {
		eal := AggregateEAL(ealTree(), "Heat Stress", "tas", ealCosts, 5)
		require.Len(t, eal, 5)
		assert.InDelta(t, 20000, eal[4], 1e-9)
	})

	t.Run("explicit replacement cost beats the catalogue", func(t *testing.T) {
		tree := ealTree()
		tree.Subcomponents[0].ReplacementCost = 1000000
		eal := AggregateEAL(tree, "Heat Stress", "tas", ealCosts, 1)
		assert.InDelta(t, 1000000*0.1+50000*0.2, eal[0], 1e-9)
	})

	t.Run("no cost lookup yields zeros", func(t *testing.T) {
		eal := AggregateEAL(ealTree(), "Heat Stress", "tas", nil, 3)
		assert.Equal(t, []float64{0, 0, 0}, eal)
	})

	t.Run("zero axis yields an empty series", func(t *testing.T) {
		assert.Empty(t, AggregateEAL(ealTree(), "Heat Stress", "tas", ealCosts, 0))
	})
}

func TestPercentAtRisk(t *testing.T) {
	root := &Component{
		UUID:  "sub-1",
		Label: "Substation",
		Subcomponents: []*Component{
			testNode("a", "A", "Heat Stress", "tas", map[string]*CurveSample{"0": testCurve(0.1, 0.6)}),
			testNode("b", "B", "Heat Stress", "tas", map[string]*CurveSample{"0": testCurve(0.2, 0.52)}),
			testNode("c", "C", "Heat Stress", "tas", map[string]*CurveSample{"0": testCurve(0.55, 0.3)}),
			{UUID: "d", Label: "D"}, // no curve, excluded from the denominator
		},
	}

	t.Run("fraction of curve-bearing nodes at or above the threshold", func(t *testing.T) {
		out := PercentAtRisk(root, "Heat Stress", "tas", 2, 0.51)
		require.Len(t, out, 2)
		assert.InDelta(t, 1.0/3.0, out[0], 1e-9)
		assert.InDelta(t, 2.0/3.0, out[1], 1e-9)
	})

	t.Run("no curves yields zeros", func(t *testing.T) {
		bare := &Component{UUID: "x", Label: "X"}
		assert.Equal(t, []float64{0, 0}, PercentAtRisk(bare, "Heat Stress", "tas", 2, 0.51))
	})
}

func TestTopAssets(t *testing.T) {
	// Losses at t=0: Transformer 20000, Breaker 5000, Capacitor 30000.
	root := &Component{
		UUID:  "sub-1",
		Label: "Substation",
		Subcomponents: []*Component{
			func() *Component {
				n := testNode("a", "Transformer", "Heat Stress", "tas",
					map[string]*CurveSample{"0": testCurve(0.2, 0.2)})
				n.ReplacementCost = 100000
				return n
			}(),
			func() *Component {
				n := testNode("b", "Breaker", "Heat Stress", "tas",
					map[string]*CurveSample{"0": testCurve(0.1, 0.1)})
				n.ReplacementCost = 50000
				return n
			}(),
			func() *Component {
				n := testNode("c", "Capacitor", "Heat Stress", "tas",
					map[string]*CurveSample{"0": testCurve(0.3, 0.3)})
				n.ReplacementCost = 100000
				return n
			}(),
		},
	}

	t.Run("descending, truncated to n", func(t *testing.T) {
		top := TopAssets(root, "Heat Stress", "tas", nil, 0, 2)
		require.Len(t, top, 2)
		assert.Equal(t, "Capacitor", top[0].Label)
		assert.InDelta(t, 30000, top[0].EAL, 1e-9)
		assert.Equal(t, "Transformer", top[1].Label)
		assert.InDelta(t, 20000, top[1].EAL, 1e-9)
	})

	t.Run("ties keep pre-order", func(t *testing.T) {
		tied := &Component{
			UUID:  "r",
			Label: "R",
			Subcomponents: []*Component{
				func() *Component {
					n := testNode("a", "First", "Heat Stress", "tas",
						map[string]*CurveSample{"0": testCurve(0.1, 0.1)})
					n.ReplacementCost = 10000
					return n
				}(),
				func() *Component {
					n := testNode("b", "Second", "Heat Stress", "tas",
						map[string]*CurveSample{"0": testCurve(0.1, 0.1)})
					n.ReplacementCost = 10000
					return n
				}(),
			},
		}
		top := TopAssets(tied, "Heat Stress", "tas", nil, 0, 2)
		require.Len(t, top, 2)
		assert.Equal(t, "First", top[0].Label)
		assert.Equal(t, "Second", top[1].Label)
	})

	t.Run("fewer qualifying nodes than n", func(t *testing.T) {
		top := TopAssets(root, "Heat Stress", "tas", nil, 0, 10)
		assert.Len(t, top, 3)
	})

	t.Run("non-positive n", func(t *testing.T) {
		assert.Nil(t, TopAssets(root, "Heat Stress", "tas", nil, 0, 0))
	})
}

func TestSummarize(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })

	t.Run("headline rollup", func(t *testing.T) {
		snap := &RiskSnapshot{
			Hazard:    "Heat Stress",
			TimeIndex: 1,
			Records: []SnapshotRecord{
				{ID: "S", PoF: 0.6, HasCurve: true},
				{ID: "S/A", PoF: 0.3, HasCurve: true},
				{ID: "S/B", PoF: 0.55, HasCurve: true},
				{ID: "S/C"}, // no curve
			},
		}
		s := Summarize("Energy Grid", snap, []float64{10000, 20000}, DefaultBandConfig())

		assert.Equal(t, "Energy Grid", s.Sector)
		assert.Equal(t, "Heat Stress", s.Hazard)
		assert.Equal(t, 4, s.ComponentsTotal)
		assert.Equal(t, 2, s.ComponentsAtRisk)
		assert.InDelta(t, 2.0/3.0, s.PercentAtRisk, 1e-9, "curveless nodes stay out of the denominator")
		assert.InDelta(t, 20000, s.TotalEAL, 1e-9)
		assert.Equal(t, at, s.ComputedAt)
	})

	t.Run("nil snapshot", func(t *testing.T) {
		s := Summarize("Energy Grid", nil, []float64{10000}, DefaultBandConfig())
		assert.Equal(t, "Energy Grid", s.Sector)
		assert.Zero(t, s.TotalEAL)
		assert.Zero(t, s.ComponentsTotal)
	})
}
