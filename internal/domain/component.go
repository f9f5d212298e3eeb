package domain

// Component is one node of an HBOM tree. A parent exclusively owns its
// subcomponents; the tree is acyclic and of finite depth.
type Component struct {
	UUID          string  `json:"uuid"`
	Label         string  `json:"label"`
	ComponentType string  `json:"component_type"`
	Aliases       []string `json:"aliases,omitempty"`

	// Attributes holds numeric asset attributes (max_voltage, lines, ...)
	// consulted by cost catalogue selectors.
	Attributes map[string]float64 `json:"attributes,omitempty"`

	Hazards       map[string]*HazardFragility `json:"hazards,omitempty"`
	Subcomponents []*Component                `json:"subcomponents,omitempty"`

	ReplacementCost float64 `json:"replacement_cost,omitempty"`

	// Derived annotations, recomputed on every compute pass. Never
	// authoritative: a stale value is overwritten, not trusted.
	PoF                *float64           `json:"pof,omitempty"`
	PoFByVariable      map[string]float64 `json:"pof_by_var,omitempty"`
	ExpectedAnnualLoss *float64           `json:"expected_annual_loss,omitempty"`
}

// HazardFragility describes how a component fails under one hazard.
type HazardFragility struct {
	FragilityModel  ModelKind `json:"fragility_model,omitempty"`
	FragilityParams Params    `json:"fragility_params,omitempty"`

	// ClimateVariable restricts the curve to a single intensity variable.
	// Empty means the curve applies to every variable of the hazard.
	ClimateVariable string `json:"climate_variable,omitempty"`

	// FragilityCurves maps variable name -> grid index ("0", "1", ...) ->
	// sampled curve.
	FragilityCurves map[string]map[string]*CurveSample `json:"fragility_curves,omitempty"`
}

// CurveSample is a sampled fragility curve for one grid cell. XValues holds
// the hazard intensity series and FCValues the failure probability at each
// sample; both always have equal length when usable. PoFTimeseries, when
// present, is a precomputed trajectory aligned to the ambient time axis.
type CurveSample struct {
	XValues       []float64 `json:"x_values"`
	FCValues      []float64 `json:"fc_values"`
	PoFTimeseries []float64 `json:"pof_timeseries,omitempty"`
	FinalPoF      float64   `json:"final_pof,omitempty"`
}

// Usable reports whether the sample carries enough data to be read as a
// series. Fewer than two points, or mismatched lengths, mean absent.
func (s *CurveSample) Usable() bool {
	return s != nil && len(s.XValues) >= 2 && len(s.XValues) == len(s.FCValues)
}

// Series returns the PoF trajectory for the sample: the embedded precomputed
// series when present, otherwise the sampled fc values (whose index is the
// ambient time axis, since curves are evaluated over climate time series).
func (s *CurveSample) Series() []float64 {
	if len(s.PoFTimeseries) > 0 {
		return s.PoFTimeseries
	}
	return s.FCValues
}

// HBOMDefinition is the root of an HBOM payload: one root component per
// facility or asset type within a sector.
type HBOMDefinition struct {
	Sector     string       `json:"sector"`
	Components []*Component `json:"components"`
}
