// Package domain models Hazard-Building Object Model (HBOM) trees and the
// fragility computations that turn climate hazard intensity into component
// failure risk.
//
// # HBOM trees
//
// A facility is decomposed into a tree of components: a substation owns
// transformers, a transformer owns bushings and radiators, and so on. Each
// node optionally carries per-hazard fragility data. Trees arrive as the
// recursive JSON produced by the HBOM baseline service, are treated as
// immutable for the duration of an analysis, and are replaced wholesale when
// the sector or hazard selection changes.
//
// # Fragility models
//
// A fragility curve maps hazard intensity x to a probability of failure:
//
//	weibull:   0 for x <= 0, else 1 - exp(-(x/scale)^shape)
//	lognormal: 0 for x <= 0, else Φ((ln x - ln median) / dispersion)
//	logistic:  1 / (1 + exp(-slope * (x - mid_point)))
//	inherit:   resolved to the nearest ancestor with a concrete model
//
// Missing or non-positive parameters fall back to documented defaults
// (weibull shape=2 scale=100; lognormal median=100 dispersion=0.3; logistic
// mid_point=50 slope=0.5). The substitution is reported to the caller so it
// can be logged and counted; evaluation itself never fails.
//
// # Curve samples and grids
//
// Computed curves are stored per component, per hazard, per climate variable,
// per grid cell. Grid keys are decimal strings ("0", "1", ...) to match the
// JSON wire format. Client-facing series extraction reads only grid "0", the
// primary cell; this mirrors the behavior of the existing consumers and is
// deliberately not an area-weighted aggregate.
//
// A CurveSample with fewer than two points, or with mismatched x/fc lengths,
// is unusable and treated as absent. Absent data is distinct from a genuine
// zero probability and propagates as "no data" through banding and
// aggregation.
//
// # Risk banding
//
// Snapshot records carry a color band derived from PoF against configured
// thresholds: below 0.25 low, 0.25 to just under 0.51 medium, 0.51 and above
// high. Nodes without curve data band as "none" (rendered neutral/gray by the
// UI). Thresholds are configuration and may vary per hazard, though today all
// hazards share the defaults.
package domain
