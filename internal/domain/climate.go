package domain

// GridBounds is the bounding box of one spatial grid cell.
type GridBounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// GridData holds the climate series for one grid cell, already aggregated
// across ensemble members: variable name -> per-timestep values.
type GridData struct {
	GridIndex int                  `json:"grid_index"`
	Bounds    GridBounds           `json:"bounds"`
	Climate   map[string][]float64 `json:"climate"`
}

// ClimateData is the prepared climate payload handed to the engine. The
// Times axis is shared across all variables and grids; its length defines
// the valid range for any time index into a PoF series.
type ClimateData struct {
	Variables []string   `json:"variables"`
	Times     []string   `json:"times"`
	Grids     []GridData `json:"data"`
}
