// Package engine orchestrates one risk analysis end to end: index the HBOM
// tree, compute fragility curves against climate data, build the
// hierarchical snapshot, and fold costs into economic metrics.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
	"github.com/couchcryptid/climate-risk-engine/internal/observability"
)

// CostSource resolves cost breakdowns for component types.
type CostSource interface {
	Lookup(componentType string, attrs map[string]float64) (domain.Costs, bool)
}

// Publisher emits a completed risk summary to downstream consumers.
type Publisher interface {
	PublishSummary(ctx context.Context, summary domain.RiskSummary) error
}

// AnalyzeRequest carries one analysis: a composed HBOM tree, optionally the
// prepared climate data to (re)compute curves from, and the hazard /
// variable / time selection.
type AnalyzeRequest struct {
	Tree    domain.HBOMDefinition `json:"tree"`
	Climate *domain.ClimateData   `json:"climate,omitempty"`

	Hazard string `json:"hazard"`
	// Variable defaults to the hazard's primary intensity variable.
	Variable string `json:"variable,omitempty"`
	// Facility selects the root subtree by label, component type, or
	// alias. Empty means the first root.
	Facility  string `json:"facility,omitempty"`
	TimeIndex int    `json:"time_index"`
	// TopN defaults to the configured top-assets size.
	TopN int `json:"top_n,omitempty"`
}

// AnalyzeResult is the full outbound payload of one analysis. Snapshot is
// nil when the facility selector matched no root ("no snapshot", not an
// error).
type AnalyzeResult struct {
	Snapshot      *domain.RiskSnapshot `json:"snapshot,omitempty"`
	Series        domain.SeriesSet     `json:"series"`
	EAL           []float64            `json:"eal"`
	PercentAtRisk []float64            `json:"percent_at_risk"`
	TopAssets     []domain.AssetLoss   `json:"top_assets"`
	Summary       domain.RiskSummary   `json:"summary"`
}

// Engine runs analyses. It is safe for concurrent use: all state is either
// immutable configuration or per-request.
type Engine struct {
	costs     CostSource
	bands     domain.BandConfig
	topN      int
	logger    *slog.Logger
	metrics   *observability.Metrics
	publisher Publisher
	ready     atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithCostSource attaches a cost catalogue.
func WithCostSource(cs CostSource) Option {
	return func(e *Engine) { e.costs = cs }
}

// WithPublisher attaches a risk summary publisher.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// New creates an Engine with the given banding, default top-N size, and
// observability.
func New(bands domain.BandConfig, topN int, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Engine {
	e := &Engine{
		bands:   bands,
		topN:    topN,
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckReadiness returns nil once the engine has completed at least one
// analysis.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("engine has not completed any analysis yet")
	}
	return nil
}

// Analyze runs one full analysis. It is idempotent: identical inputs
// produce identical outputs, and repeated invocation is the expected
// calling pattern whenever hazard, variable, or time selection changes.
func (e *Engine) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResult, error) {
	start := time.Now()

	if req.Hazard == "" {
		e.metrics.AnalysisErrors.Inc()
		return nil, errors.New("hazard is required")
	}
	variable := req.Variable
	if variable == "" {
		def, ok := domain.LookupHazard(req.Hazard)
		if !ok {
			e.metrics.AnalysisErrors.Inc()
			return nil, fmt.Errorf("variable is required for unknown hazard %q", req.Hazard)
		}
		variable = def.DefaultVariable()
	}

	index, err := domain.NewIndex(&req.Tree)
	if err != nil {
		e.metrics.AnalysisErrors.Inc()
		return nil, fmt.Errorf("index tree: %w", err)
	}

	if req.Climate != nil {
		computer := domain.NewComputer(e.logger)
		computer.OnDefaulted = func(kind domain.ModelKind, _ *domain.Component, _ []string) {
			e.metrics.DefaultedParams.WithLabelValues(string(kind)).Inc()
		}
		if err := computer.ComputeForTree(&req.Tree, req.Hazard, req.Climate); err != nil {
			e.metrics.AnalysisErrors.Inc()
			return nil, fmt.Errorf("compute fragility: %w", err)
		}
	}

	result := &AnalyzeResult{
		Series: domain.ExtractAll(&req.Tree, req.Hazard),
	}

	root, ok := e.selectRoot(index, req.Facility)
	if !ok {
		// No matching subtree: emit series only, snapshot stays nil.
		e.logger.Warn("no root matched facility selector", "facility", req.Facility)
		result.Summary = domain.Summarize(req.Tree.Sector, nil, nil, e.bands)
		e.finish(ctx, result, start)
		return result, nil
	}

	axisLen := e.axisLength(req, root, variable)
	costLookup := e.costLookup()
	topN := req.TopN
	if topN <= 0 {
		topN = e.topN
	}

	result.Snapshot = domain.BuildSnapshot(root, req.Hazard, variable, req.TimeIndex, e.bands)
	result.EAL = domain.AggregateEAL(root, req.Hazard, variable, costLookup, axisLen)
	result.PercentAtRisk = domain.PercentAtRisk(root, req.Hazard, variable, axisLen, e.bands.For(req.Hazard).High)
	result.TopAssets = domain.TopAssets(root, req.Hazard, variable, costLookup, req.TimeIndex, topN)
	result.Summary = domain.Summarize(req.Tree.Sector, result.Snapshot, result.EAL, e.bands)

	e.observeSnapshot(result.Snapshot)
	e.finish(ctx, result, start)

	e.logger.Info("analysis complete",
		"hazard", req.Hazard,
		"variable", variable,
		"facility", root.Label,
		"nodes", len(result.Snapshot.Records),
		"total_eal", result.Summary.TotalEAL,
	)
	return result, nil
}

// selectRoot picks the analysis subtree: the facility selector when given,
// otherwise the first declared root.
func (e *Engine) selectRoot(index *domain.Index, facility string) (*domain.Component, bool) {
	if facility != "" {
		return index.FindRoot(facility)
	}
	roots := index.Roots()
	if len(roots) == 0 {
		return nil, false
	}
	return roots[0], true
}

// axisLength derives the ambient time axis: the climate axis when climate
// data was supplied, otherwise the longest extracted series under the root.
func (e *Engine) axisLength(req *AnalyzeRequest, root *domain.Component, variable string) int {
	if req.Climate != nil {
		return len(req.Climate.Times)
	}
	longest := 0
	_ = domain.Walk(root, func(node *domain.Component, _ []*domain.Component) error {
		if series, ok := domain.ExtractSeries(node, req.Hazard, variable); ok && len(series) > longest {
			longest = len(series)
		}
		return nil
	})
	return longest
}

func (e *Engine) costLookup() domain.CostLookup {
	if e.costs == nil {
		return nil
	}
	return e.costs.Lookup
}

func (e *Engine) observeSnapshot(snap *domain.RiskSnapshot) {
	e.metrics.SnapshotNodes.Observe(float64(len(snap.Records)))
	for _, rec := range snap.Records {
		if !rec.HasCurve {
			e.metrics.MissingCurves.Inc()
		}
	}
}

// finish records metrics, marks the engine ready, and publishes the summary
// best-effort.
func (e *Engine) finish(ctx context.Context, result *AnalyzeResult, start time.Time) {
	e.metrics.AnalysesTotal.Inc()
	e.metrics.AnalyzeDuration.Observe(time.Since(start).Seconds())
	e.ready.Store(true)

	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishSummary(ctx, result.Summary); err != nil {
		e.logger.Warn("publish risk summary failed", "error", err)
		return
	}
	e.metrics.SummariesPublished.Inc()
}
