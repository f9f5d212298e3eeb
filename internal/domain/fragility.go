package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ModelKind identifies a parametric fragility model.
type ModelKind string

const (
	ModelWeibull   ModelKind = "weibull"
	ModelLognormal ModelKind = "lognormal"
	ModelLogistic  ModelKind = "logistic"
	ModelInherit   ModelKind = "inherit"
)

// Concrete reports whether the kind can be evaluated directly.
func (k ModelKind) Concrete() bool {
	switch k {
	case ModelWeibull, ModelLognormal, ModelLogistic:
		return true
	default:
		return false
	}
}

// Params holds fragility model parameters by name.
type Params map[string]float64

// ErrUnresolvedInheritance is returned when a node declares
// fragility_model "inherit" but no ancestor carries a concrete model.
// This indicates a malformed tree and is surfaced rather than defaulted,
// since a silent fallback would mask a data-authoring bug.
var ErrUnresolvedInheritance = errors.New("unresolved fragility inheritance")

// Documented defaults substituted for missing or non-positive parameters.
var modelDefaults = map[ModelKind]Params{
	ModelWeibull:   {"shape": 2, "scale": 100},
	ModelLognormal: {"median": 100, "dispersion": 0.3},
	ModelLogistic:  {"mid_point": 50, "slope": 0.5},
}

// Parameters that must be strictly positive for the model to be defined.
// Logistic parameters have no positivity requirement; they default only
// when absent.
var positiveParams = map[ModelKind][]string{
	ModelWeibull:   {"shape", "scale"},
	ModelLognormal: {"median", "dispersion"},
}

// NormalizeParams fills in defaults for missing parameters and for
// parameters that violate a positivity requirement. It returns the complete
// parameter set along with the (sorted) names of every substituted
// parameter, so callers can log and count the substitutions.
func NormalizeParams(kind ModelKind, params Params) (Params, []string) {
	defaults, ok := modelDefaults[kind]
	if !ok {
		return params, nil
	}

	// Lognormal curves are sometimes authored as (mu, sigma) of the
	// underlying normal instead of (median, dispersion). Honor that
	// parameterization as-is when it is complete and valid.
	if kind == ModelLognormal {
		mu, hasMu := params["mu"]
		sigma, hasSigma := params["sigma"]
		if hasMu && hasSigma && sigma > 0 {
			return Params{"mu": mu, "sigma": sigma}, nil
		}
	}

	mustBePositive := make(map[string]bool, 2)
	for _, name := range positiveParams[kind] {
		mustBePositive[name] = true
	}

	out := make(Params, len(defaults))
	var defaulted []string
	for name, def := range defaults {
		v, present := params[name]
		if !present || (mustBePositive[name] && v <= 0) {
			out[name] = def
			defaulted = append(defaulted, name)
			continue
		}
		out[name] = v
	}
	sort.Strings(defaulted)
	return out, defaulted
}

// Evaluate computes the failure probability for a hazard intensity x under
// the given model. It is pure and total: missing or invalid parameters fall
// back to defaults, unknown kinds (including "inherit", which callers must
// resolve first) evaluate to 0, and the result is clamped to [0,1].
func Evaluate(kind ModelKind, params Params, x float64) float64 {
	p, _ := NormalizeParams(kind, params)
	return evalNormalized(kind, p, x)
}

// evalNormalized evaluates with params already normalized, so callers
// sweeping a model over a long series normalize once up front.
func evalNormalized(kind ModelKind, p Params, x float64) float64 {
	var v float64
	switch kind {
	case ModelWeibull:
		v = weibullCDF(x, p["shape"], p["scale"])
	case ModelLognormal:
		if sigma, ok := p["sigma"]; ok {
			v = lognormalCDFMuSigma(x, p["mu"], sigma)
		} else {
			v = lognormalCDF(x, p["median"], p["dispersion"])
		}
	case ModelLogistic:
		v = logisticCDF(x, p["mid_point"], p["slope"])
	default:
		return 0
	}
	return clamp01(v)
}

// weibullCDF is 1 - exp(-(x/scale)^shape), 0 for non-positive x where the
// distribution is undefined.
func weibullCDF(x, shape, scale float64) float64 {
	if x <= 0 {
		return 0
	}
	return 1 - math.Exp(-math.Pow(x/scale, shape))
}

// lognormalCDF is Φ((ln x - ln median) / dispersion), 0 for non-positive x.
func lognormalCDF(x, median, dispersion float64) float64 {
	if x <= 0 {
		return 0
	}
	return stdNormalCDF((math.Log(x) - math.Log(median)) / dispersion)
}

func lognormalCDFMuSigma(x, mu, sigma float64) float64 {
	if x <= 0 {
		return 0
	}
	return stdNormalCDF((math.Log(x) - mu) / sigma)
}

func logisticCDF(x, midPoint, slope float64) float64 {
	return 1 / (1 + math.Exp(-slope*(x-midPoint)))
}

// stdNormalCDF is the standard normal CDF via the complementary error
// function, which stays accurate deep into both tails.
func stdNormalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// ResolveFragility returns the hazard fragility a node should evaluate with,
// following "inherit" links to the nearest ancestor carrying a concrete
// model. Ancestors are ordered root-first, as produced by Walk. The
// resolution is a lookup, not a copy: re-resolving after a template update
// picks up the new parameters.
//
// The returned entry is nil (with ok=false) when the node has no fragility
// for the hazard at all. ErrUnresolvedInheritance is returned when the node
// inherits but no ancestor resolves.
func ResolveFragility(node *Component, ancestors []*Component, hazard string) (*HazardFragility, bool, error) {
	hf := node.Hazards[hazard]
	if hf == nil || hf.FragilityModel == "" {
		return nil, false, nil
	}
	if hf.FragilityModel != ModelInherit {
		return hf, true, nil
	}

	// Nearest ancestor first.
	for i := len(ancestors) - 1; i >= 0; i-- {
		ahf := ancestors[i].Hazards[hazard]
		if ahf != nil && ahf.FragilityModel.Concrete() {
			return ahf, true, nil
		}
	}
	return nil, false, fmt.Errorf("component %q (%s): %w", node.Label, node.UUID, ErrUnresolvedInheritance)
}
