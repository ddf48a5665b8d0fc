// Package analyzer composes the chip pipeline: distribution builder →
// metrics calculator → morphology classifier → prediction scorer.
package analyzer

import (
	"fmt"

	"ChipLens/internal/chip"
	"ChipLens/internal/model"
	"ChipLens/internal/strategy"
)

// Analyzer runs the full analysis pipeline with fixed engine parameters.
// It holds no state across calls and is safe for concurrent use; every
// result is a pure function of the bars passed in.
type Analyzer struct {
	params chip.Params
}

// New validates the engine parameters and returns an Analyzer. Invalid
// parameters fail here, at the boundary, rather than producing silently
// wrong histograms later.
func New(params chip.Params) (*Analyzer, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("engine params: %w", err)
	}
	return &Analyzer{params: params}, nil
}

// Params returns the engine parameters this analyzer was built with.
func (a *Analyzer) Params() chip.Params { return a.params }

// Analyze runs the pipeline over an ascending-date bar series. ok is false
// when the series is shorter than chip.MinBars; that is an expected
// condition, not an error.
func (a *Analyzer) Analyze(bars []model.Bar) (*model.Analysis, bool) {
	dist, ok := chip.Build(bars, a.params)
	if !ok {
		return nil, false
	}
	return a.assemble(bars, dist), true
}

// AnalyzeSeries is Analyze plus the per-day snapshot sequence and the
// compact per-session metrics series, for scrubber-style consumers. It is
// the only expensive path and still touches no shared state, so callers may
// run it on a background goroutine and discard stale results.
func (a *Analyzer) AnalyzeSeries(bars []model.Bar) (*model.Analysis, bool) {
	dist, snapshots, ok := chip.BuildSnapshots(bars, a.params)
	if !ok {
		return nil, false
	}
	result := a.assemble(bars, dist)
	result.Snapshots = snapshots
	result.Days = make([]model.DayMetrics, len(snapshots))
	for i, snap := range snapshots {
		day := model.Distribution{
			PriceLevels: dist.PriceLevels,
			Amounts:     snap.Amounts,
			MinPrice:    dist.MinPrice,
			MaxPrice:    dist.MaxPrice,
			BinWidth:    dist.BinWidth,
		}
		close := bars[i].Close
		dm := chip.Compute(&day, close)
		result.Days[i] = model.DayMetrics{
			Date:            snap.Date,
			Price:           close,
			PeakPrice:       chip.PeakPrice(day.PriceLevels, day.Amounts, close),
			AvgCost:         dm.AvgCost,
			ProfitRatio:     dm.ProfitRatio,
			TrappedRatio:    dm.TrappedRatio,
			Concentration90: dm.Concentration90,
			Concentration70: dm.Concentration70,
			Support:         dm.Support,
			Resistance:      dm.Resistance,
		}
	}
	return result, true
}

func (a *Analyzer) assemble(bars []model.Bar, dist *model.Distribution) *model.Analysis {
	last := bars[len(bars)-1]
	m := chip.Compute(dist, last.Close)
	m.Morphology, m.Tactic = strategy.Classify(
		m.Position, len(m.Peaks), m.Concentration90, m.ProfitRatio, m.TrappedRatio)
	return &model.Analysis{
		Date:         last.Date,
		Price:        last.Close,
		Distribution: dist,
		Metrics:      m,
		Prediction:   strategy.Predict(m, last.Close),
	}
}
