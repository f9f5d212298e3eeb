package domain

import (
	"log/slog"
	"strconv"
)

// Computer evaluates fragility curves for whole HBOM trees against prepared
// climate data.
type Computer struct {
	Logger *slog.Logger

	// OnDefaulted is invoked whenever missing or invalid fragility
	// parameters are replaced by model defaults, so the substitution can
	// be counted as well as logged.
	OnDefaulted func(kind ModelKind, node *Component, params []string)
}

// NewComputer returns a Computer logging diagnostics to logger.
func NewComputer(logger *slog.Logger) *Computer {
	return &Computer{Logger: logger}
}

// ComputeForTree evaluates fragility curves for every component of the
// definition under one hazard. For each node with a model (inherit links
// resolved to the nearest concrete ancestor), the model is swept over every
// grid cell's climate series for each applicable variable, and the sampled
// curves are stored on the node. Derived PoF annotations are refreshed:
// per-variable maxima across grids, series-system rollup of children into
// parents (failure of any member fails the assembly), and a top-level PoF
// per node as the max across variables.
//
// The one hard error is a node inheriting with no concrete ancestor; all
// other data problems degrade to absent curves.
func (c *Computer) ComputeForTree(def *HBOMDefinition, hazard string, climate *ClimateData) error {
	for _, root := range def.Components {
		if _, err := c.computeNode(root, nil, hazard, climate); err != nil {
			return err
		}
	}
	return nil
}

func (c *Computer) computeNode(node *Component, ancestors []*Component, hazard string, climate *ClimateData) (map[string]float64, error) {
	own := map[string]float64{}

	hf, ok, err := ResolveFragility(node, ancestors, hazard)
	if err != nil {
		return nil, err
	}
	if ok && hf.FragilityModel.Concrete() {
		params, defaulted := NormalizeParams(hf.FragilityModel, hf.FragilityParams)
		if len(defaulted) > 0 {
			c.logDefaulted(hf.FragilityModel, node, defaulted)
		}

		// Curves attach to the node's own hazard entry even when the
		// model was inherited, so each compute pass re-resolves and a
		// template update propagates.
		store := node.Hazards[hazard]
		store.FragilityCurves = make(map[string]map[string]*CurveSample)

		for _, variable := range climate.Variables {
			if hf.ClimateVariable != "" && variable != hf.ClimateVariable {
				continue
			}
			grids := make(map[string]*CurveSample, len(climate.Grids))
			maxPoF := 0.0
			for gi, grid := range climate.Grids {
				sample := sweepCurve(hf.FragilityModel, params, grid.Climate[variable])
				grids[strconv.Itoa(gi)] = sample
				if sample.FinalPoF > maxPoF {
					maxPoF = sample.FinalPoF
				}
			}
			store.FragilityCurves[variable] = grids
			own[variable] = maxPoF
		}
	}

	// Children, then series-system rollup: the assembly survives only if
	// the node and every child survive, per variable.
	childStack := append(ancestors, node)
	childPoFs := make([]map[string]float64, 0, len(node.Subcomponents))
	for _, child := range node.Subcomponents {
		cp, err := c.computeNode(child, childStack, hazard, climate)
		if err != nil {
			return nil, err
		}
		childPoFs = append(childPoFs, cp)
	}

	combined := make(map[string]float64, len(own))
	for variable := range own {
		combined[variable] = own[variable]
	}
	for _, cp := range childPoFs {
		for variable := range cp {
			if _, seen := combined[variable]; !seen {
				combined[variable] = own[variable] // zero when absent
			}
		}
	}
	for variable := range combined {
		survival := 1 - own[variable]
		for _, cp := range childPoFs {
			survival *= 1 - cp[variable]
		}
		combined[variable] = clamp01(1 - survival)
	}

	node.PoFByVariable = combined
	top := 0.0
	for _, p := range combined {
		if p > top {
			top = p
		}
	}
	node.PoF = &top

	return combined, nil
}

// sweepCurve evaluates a normalized model over one climate series. An empty
// series yields a single-point placeholder, which is below the usability
// threshold and therefore reads as absent downstream.
func sweepCurve(kind ModelKind, params Params, series []float64) *CurveSample {
	if len(series) == 0 {
		return &CurveSample{XValues: []float64{0}, FCValues: []float64{0}}
	}
	x := make([]float64, len(series))
	copy(x, series)
	fc := make([]float64, len(series))
	for i, v := range series {
		fc[i] = clamp01(evalNormalized(kind, params, v))
	}
	return &CurveSample{
		XValues:  x,
		FCValues: fc,
		FinalPoF: fc[len(fc)-1],
	}
}

// ComputeTimeseries computes curves for the whole tree and then extracts,
// for every curve-bearing component, a per-variable PoF trajectory aligned
// to the climate time axis, taking the max across grid cells at each step.
// Note this is the server-side rollup; client-facing extraction reads grid
// "0" only (see ExtractSeries).
func (c *Computer) ComputeTimeseries(def *HBOMDefinition, hazard string, climate *ClimateData) (SeriesSet, error) {
	if err := c.ComputeForTree(def, hazard, climate); err != nil {
		return nil, err
	}

	out := make(SeriesSet)
	steps := len(climate.Times)
	for _, root := range def.Components {
		_ = Walk(root, func(node *Component, _ []*Component) error {
			hf := node.Hazards[hazard]
			if hf == nil || len(hf.FragilityCurves) == 0 {
				return nil
			}
			byVar := make(map[string][]float64, len(hf.FragilityCurves))
			for variable, grids := range hf.FragilityCurves {
				series := make([]float64, steps)
				for t := 0; t < steps; t++ {
					for _, sample := range grids {
						if t < len(sample.FCValues) && sample.FCValues[t] > series[t] {
							series[t] = sample.FCValues[t]
						}
					}
				}
				byVar[variable] = series
			}
			out[node.UUID] = byVar
			return nil
		})
	}

	if c.Logger != nil {
		c.Logger.Info("fragility time series extracted", "hazard", hazard, "components", len(out))
	}
	return out, nil
}

func (c *Computer) logDefaulted(kind ModelKind, node *Component, params []string) {
	if c.Logger != nil {
		c.Logger.Warn("fragility parameters defaulted",
			"model", string(kind),
			"component", node.Label,
			"uuid", node.UUID,
			"params", params,
		)
	}
	if c.OnDefaulted != nil {
		c.OnDefaulted(kind, node, params)
	}
}
