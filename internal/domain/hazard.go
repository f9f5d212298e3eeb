package domain

// HazardDefinition names the intensity variables a hazard provides. Base
// variables come from the climate data source; composite variables are
// derived downstream (e.g. heat index from temperature and humidity).
type HazardDefinition struct {
	Name               string
	DisplayName        string
	BaseVariables      []string
	CompositeVariables []string
	Description        string
}

// AllVariables returns base plus composite variables, base first.
func (h HazardDefinition) AllVariables() []string {
	out := make([]string, 0, len(h.BaseVariables)+len(h.CompositeVariables))
	out = append(out, h.BaseVariables...)
	out = append(out, h.CompositeVariables...)
	return out
}

// DefaultVariable is the variable assumed when a caller selects a hazard
// without naming one.
func (h HazardDefinition) DefaultVariable() string {
	if len(h.BaseVariables) > 0 {
		return h.BaseVariables[0]
	}
	return ""
}

// Hazard registry: single source of truth for hazard configuration.
// Adding a hazard means adding one definition here.
var hazardOrder = []string{"Heat Stress", "Drought", "Wind"}

var hazards = map[string]HazardDefinition{
	"Heat Stress": {
		Name:               "Heat Stress",
		DisplayName:        "Heat Stress",
		BaseVariables:      []string{"tas", "hurs"},
		CompositeVariables: []string{"hi"},
		Description:        "Temperature and humidity-based heat stress",
	},
	"Drought": {
		Name:          "Drought",
		DisplayName:   "Drought",
		BaseVariables: []string{"pr", "rsds", "sfcWind"},
		Description:   "Precipitation deficit and evapotranspiration",
	},
	"Wind": {
		Name:          "Wind",
		DisplayName:   "Extreme Wind",
		BaseVariables: []string{"sfcWind"},
		Description:   "Surface wind speed",
	},
}

// LookupHazard returns the definition for a hazard name.
func LookupHazard(name string) (HazardDefinition, bool) {
	def, ok := hazards[name]
	return def, ok
}

// ListHazards returns the known hazard names in declared order.
func ListHazards() []string {
	out := make([]string, len(hazardOrder))
	copy(out, hazardOrder)
	return out
}
