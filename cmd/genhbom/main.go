// Command genhbom generates a deterministic sample analysis request — an
// energy-grid HBOM tree plus a synthetic heat-stress climate payload — for
// local testing of the engine and its consumers. It uses the actual domain
// package so the fixture matches real engine behavior.
//
// Usage:
//
//	go run ./cmd/genhbom -out data/mock/substation_heat_stress.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
	"github.com/couchcryptid/climate-risk-engine/internal/engine"
)

const monthsOfData = 24

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/mock/substation_heat_stress.json", "output path for the analysis request fixture")
	flag.Parse()

	req := engine.AnalyzeRequest{
		Tree:     sampleTree(),
		Climate:  sampleClimate(),
		Hazard:   "Heat Stress",
		Variable: "tas",
		Facility: "Substation",
		TopN:     5,
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d components, %d timesteps)\n", *out, countNodes(req.Tree.Components), monthsOfData)
	return nil
}

func sampleTree() domain.HBOMDefinition {
	return domain.HBOMDefinition{
		Sector: "Energy Grid",
		Components: []*domain.Component{
			{
				UUID:          "sub-001",
				Label:         "Substation",
				ComponentType: "substation",
				Aliases:       []string{"Electrical Substation", "Sub"},
				Hazards: map[string]*domain.HazardFragility{
					"Heat Stress": {
						FragilityModel:  domain.ModelWeibull,
						FragilityParams: domain.Params{"shape": 4, "scale": 55},
					},
				},
				Subcomponents: []*domain.Component{
					{
						UUID:            "xfmr-001",
						Label:           "Power Transformer",
						ComponentType:   "transformer",
						Attributes:      map[string]float64{"max_voltage": 345},
						ReplacementCost: 2_500_000,
						Hazards: map[string]*domain.HazardFragility{
							"Heat Stress": {
								FragilityModel:  domain.ModelLognormal,
								FragilityParams: domain.Params{"median": 48, "dispersion": 0.25},
								ClimateVariable: "tas",
							},
						},
						Subcomponents: []*domain.Component{
							{
								UUID:          "bushing-001",
								Label:         "Bushing",
								ComponentType: "bushing",
								Hazards: map[string]*domain.HazardFragility{
									"Heat Stress": {FragilityModel: domain.ModelInherit},
								},
							},
							{
								UUID:            "radiator-001",
								Label:           "Radiator Bank",
								ComponentType:   "radiator",
								ReplacementCost: 180_000,
								Hazards: map[string]*domain.HazardFragility{
									"Heat Stress": {
										FragilityModel:  domain.ModelLogistic,
										FragilityParams: domain.Params{"mid_point": 42, "slope": 0.3},
										ClimateVariable: "tas",
									},
								},
							},
						},
					},
					{
						UUID:            "breaker-001",
						Label:           "Circuit Breaker",
						ComponentType:   "breaker",
						ReplacementCost: 95_000,
						Hazards: map[string]*domain.HazardFragility{
							"Heat Stress": {
								FragilityModel:  domain.ModelWeibull,
								FragilityParams: domain.Params{"shape": 3, "scale": 60},
								ClimateVariable: "tas",
							},
						},
					},
					{
						UUID:          "yard-001",
						Label:         "Control House",
						ComponentType: "control_house",
					},
				},
			},
		},
	}
}

// sampleClimate builds a warming monthly temperature/humidity series for
// two grid cells. The signal is a seasonal sine on top of a linear trend,
// deterministic so fixtures are reproducible.
func sampleClimate() *domain.ClimateData {
	base := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	times := make([]string, monthsOfData)
	tas0 := make([]float64, monthsOfData)
	tas1 := make([]float64, monthsOfData)
	hurs := make([]float64, monthsOfData)
	for i := 0; i < monthsOfData; i++ {
		times[i] = base.AddDate(0, i, 0).Format("2006-01-02")
		season := 12 * math.Sin(2*math.Pi*float64(i)/12)
		trend := 0.15 * float64(i)
		tas0[i] = 28 + season + trend
		tas1[i] = 26.5 + season + trend
		hurs[i] = 55 + 10*math.Cos(2*math.Pi*float64(i)/12)
	}

	return &domain.ClimateData{
		Variables: []string{"tas", "hurs"},
		Times:     times,
		Grids: []domain.GridData{
			{
				GridIndex: 0,
				Bounds:    domain.GridBounds{MinLat: 30.0, MaxLat: 30.25, MinLon: -97.25, MaxLon: -97.0},
				Climate:   map[string][]float64{"tas": tas0, "hurs": hurs},
			},
			{
				GridIndex: 1,
				Bounds:    domain.GridBounds{MinLat: 30.25, MaxLat: 30.5, MinLon: -97.25, MaxLon: -97.0},
				Climate:   map[string][]float64{"tas": tas1, "hurs": hurs},
			},
		},
	}
}

func countNodes(roots []*domain.Component) int {
	n := 0
	for _, root := range roots {
		_ = domain.Walk(root, func(*domain.Component, []*domain.Component) error {
			n++
			return nil
		})
	}
	return n
}
