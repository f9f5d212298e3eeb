package domain

// PrimaryGrid is the grid cell consulted by series extraction. Curves are
// computed for every cell in the area of interest, but consumers read only
// the first cell's series; this is a compatibility requirement, not an
// area-weighted aggregate.
const PrimaryGrid = "0"

// SeriesSet maps component uuid -> variable -> PoF trajectory.
type SeriesSet map[string]map[string][]float64

// ExtractSeries produces the PoF trajectory for one node under a hazard and
// intensity variable, reading the primary grid cell only. ok is false when
// no usable grid-0 sample exists; callers must treat that as "no data",
// which is distinct from an all-zero series.
func ExtractSeries(node *Component, hazard, variable string) ([]float64, bool) {
	hf := node.Hazards[hazard]
	if hf == nil {
		return nil, false
	}
	sample := hf.FragilityCurves[variable][PrimaryGrid]
	if !sample.Usable() {
		return nil, false
	}
	return sample.Series(), true
}

// ExtractAll walks every node of the definition exactly once (pre-order,
// depth-first) and collects the grid-0 PoF series for each variable present
// under the hazard. Nodes without usable curve data contribute no entry at
// all: "key absent" and "key present but empty" both mean "no data" to
// consumers, so the empty form is never emitted.
func ExtractAll(def *HBOMDefinition, hazard string) SeriesSet {
	out := make(SeriesSet)
	for _, root := range def.Components {
		// Visitor never errors, walk error is impossible here.
		_ = Walk(root, func(node *Component, _ []*Component) error {
			hf := node.Hazards[hazard]
			if hf == nil {
				return nil
			}
			for variable := range hf.FragilityCurves {
				series, ok := ExtractSeries(node, hazard, variable)
				if !ok {
					continue
				}
				byVar, exists := out[node.UUID]
				if !exists {
					byVar = make(map[string][]float64)
					out[node.UUID] = byVar
				}
				byVar[variable] = series
			}
			return nil
		})
	}
	return out
}

// clampIndex clamps t to a valid index of a series of length n. Requesting
// beyond the end reads the last sample; negative reads the first. n must be
// positive.
func clampIndex(t, n int) int {
	if t < 0 {
		return 0
	}
	if t >= n {
		return n - 1
	}
	return t
}
