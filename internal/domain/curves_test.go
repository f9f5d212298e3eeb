package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCurve builds a usable grid sample whose failure-curve values double as
// the PoF trajectory, as produced when a model is swept over a climate series.
func testCurve(series ...float64) *CurveSample {
	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	return &CurveSample{XValues: xs, FCValues: series}
}

func testNode(uuid, label string, hazard, variable string, grids map[string]*CurveSample) *Component {
	return &Component{
		UUID:  uuid,
		Label: label,
		Hazards: map[string]*HazardFragility{
			hazard: {
				FragilityModel:  ModelWeibull,
				ClimateVariable: variable,
				FragilityCurves: map[string]map[string]*CurveSample{variable: grids},
			},
		},
	}
}

func TestCurveSampleUsable(t *testing.T) {
	tests := []struct {
		name   string
		sample *CurveSample
		want   bool
	}{
		{"nil sample", nil, false},
		{"empty sample", &CurveSample{}, false},
		{"single point", &CurveSample{XValues: []float64{0}, FCValues: []float64{0}}, false},
		{"mismatched lengths", &CurveSample{XValues: []float64{0, 1, 2}, FCValues: []float64{0.1, 0.2}}, false},
		{"two points", &CurveSample{XValues: []float64{0, 1}, FCValues: []float64{0.1, 0.2}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sample.Usable())
		})
	}
}

func TestCurveSampleSeries(t *testing.T) {
	t.Run("precomputed trajectory wins", func(t *testing.T) {
		s := &CurveSample{
			XValues:       []float64{0, 1},
			FCValues:      []float64{0.1, 0.2},
			PoFTimeseries: []float64{0.3, 0.4},
		}
		assert.Equal(t, []float64{0.3, 0.4}, s.Series())
	})

	t.Run("falls back to curve values", func(t *testing.T) {
		s := &CurveSample{XValues: []float64{0, 1}, FCValues: []float64{0.1, 0.2}}
		assert.Equal(t, []float64{0.1, 0.2}, s.Series())
	})
}

func TestExtractSeries(t *testing.T) {
	t.Run("reads the primary grid", func(t *testing.T) {
		node := testNode("n1", "Transformer", "Heat Stress", "tas", map[string]*CurveSample{
			"0": testCurve(0.1, 0.2, 0.3),
			"1": testCurve(0.9, 0.9, 0.9),
		})
		series, ok := ExtractSeries(node, "Heat Stress", "tas")
		require.True(t, ok)
		assert.Equal(t, []float64{0.1, 0.2, 0.3}, series)
	})

	t.Run("absent when only other grids have data", func(t *testing.T) {
		node := testNode("n1", "Transformer", "Heat Stress", "tas", map[string]*CurveSample{
			"1": testCurve(0.9, 0.9),
		})
		_, ok := ExtractSeries(node, "Heat Stress", "tas")
		assert.False(t, ok)
	})

	t.Run("absent when the grid-0 sample is unusable", func(t *testing.T) {
		node := testNode("n1", "Transformer", "Heat Stress", "tas", map[string]*CurveSample{
			"0": {XValues: []float64{0}, FCValues: []float64{0}},
		})
		_, ok := ExtractSeries(node, "Heat Stress", "tas")
		assert.False(t, ok)
	})

	t.Run("absent without the hazard", func(t *testing.T) {
		node := &Component{UUID: "n1", Label: "Control House"}
		_, ok := ExtractSeries(node, "Heat Stress", "tas")
		assert.False(t, ok)
	})

	t.Run("absent for an unknown variable", func(t *testing.T) {
		node := testNode("n1", "Transformer", "Heat Stress", "tas", map[string]*CurveSample{
			"0": testCurve(0.1, 0.2),
		})
		_, ok := ExtractSeries(node, "Heat Stress", "hurs")
		assert.False(t, ok)
	})
}

func TestExtractAll(t *testing.T) {
	withData := testNode("leaf-1", "Transformer", "Heat Stress", "tas", map[string]*CurveSample{
		"0": testCurve(0.1, 0.2),
	})
	noData := &Component{UUID: "leaf-2", Label: "Control House"}
	unusable := testNode("leaf-3", "Breaker", "Heat Stress", "tas", map[string]*CurveSample{
		"0": {XValues: []float64{0}, FCValues: []float64{0}},
	})
	root := &Component{
		UUID:          "root-1",
		Label:         "Substation",
		Subcomponents: []*Component{withData, noData, unusable},
	}
	def := &HBOMDefinition{Components: []*Component{root}}

	out := ExtractAll(def, "Heat Stress")

	t.Run("only nodes with usable data appear", func(t *testing.T) {
		require.Len(t, out, 1)
		assert.Equal(t, []float64{0.1, 0.2}, out["leaf-1"]["tas"])
	})

	t.Run("no empty entries for curveless nodes", func(t *testing.T) {
		_, present := out["leaf-2"]
		assert.False(t, present)
		_, present = out["leaf-3"]
		assert.False(t, present)
		_, present = out["root-1"]
		assert.False(t, present)
	})

	t.Run("unknown hazard yields an empty set", func(t *testing.T) {
		assert.Empty(t, ExtractAll(def, "Drought"))
	})
}

func TestClampIndex(t *testing.T) {
	tests := []struct {
		t, n, want int
	}{
		{0, 12, 0},
		{11, 12, 11},
		{12, 12, 11},
		{999, 12, 11},
		{-1, 12, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampIndex(tt.t, tt.n), "clampIndex(%d, %d)", tt.t, tt.n)
	}
}
