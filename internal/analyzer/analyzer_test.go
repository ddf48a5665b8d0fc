package analyzer

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChipLens/internal/chip"
	"ChipLens/internal/model"
)

func genBars(n int) []model.Bar {
	bars := make([]model.Bar, n)
	seed := uint64(7)
	next := func() float64 {
		seed = seed*6364136223846793005 + 1442695040888963407
		return float64(seed>>11) / float64(1<<53)
	}
	price := 50.0
	for i := range bars {
		change := (next() - 0.5) * 2
		open := price
		close := price + change
		bars[i] = model.Bar{
			Date:         fmt.Sprintf("2024-%02d-%02d", 1+i/28, 1+i%28),
			Open:         open,
			High:         math.Max(open, close) + next(),
			Low:          math.Min(open, close) - next(),
			Close:        close,
			Volume:       10000 + next()*5000,
			TurnoverRate: 1 + next()*3,
		}
		price = close
	}
	return bars
}

func TestNewRejectsInvalidParams(t *testing.T) {
	_, err := New(chip.Params{PriceBins: 1, DecayFactor: 0.97})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine params")
}

func TestAnalyzeInsufficientData(t *testing.T) {
	a, err := New(chip.DefaultParams())
	require.NoError(t, err)

	result, ok := a.Analyze(genBars(5))
	assert.False(t, ok)
	assert.Nil(t, result)
}

func TestAnalyzePipeline(t *testing.T) {
	a, err := New(chip.DefaultParams())
	require.NoError(t, err)

	bars := genBars(120)
	result, ok := a.Analyze(bars)
	require.True(t, ok)

	last := bars[len(bars)-1]
	assert.Equal(t, last.Date, result.Date)
	assert.Equal(t, last.Close, result.Price)

	require.NotNil(t, result.Distribution)
	assert.Len(t, result.Distribution.Amounts, 100)

	m := result.Metrics
	require.NotNil(t, m)
	assert.GreaterOrEqual(t, m.AvgCost, result.Distribution.MinPrice)
	assert.LessOrEqual(t, m.AvgCost, result.Distribution.MaxPrice)
	assert.NotEmpty(t, m.Morphology)
	assert.NotEmpty(t, m.Tactic)

	p := result.Prediction
	require.NotNil(t, p)
	assert.GreaterOrEqual(t, p.Score, -100.0)
	assert.LessOrEqual(t, p.Score, 100.0)
	assert.GreaterOrEqual(t, p.Confidence, 0.0)
	assert.LessOrEqual(t, p.Confidence, 100.0)
	assert.NotEmpty(t, p.Signal)
	assert.Greater(t, p.TargetPrice, 0.0)
	assert.Greater(t, p.StopLossPrice, 0.0)

	assert.Nil(t, result.Snapshots, "plain Analyze skips the per-day series")
	assert.Nil(t, result.Days)
}

func TestAnalyzeSeries(t *testing.T) {
	a, err := New(chip.DefaultParams())
	require.NoError(t, err)

	bars := genBars(60)
	result, ok := a.AnalyzeSeries(bars)
	require.True(t, ok)

	require.Len(t, result.Snapshots, len(bars))
	require.Len(t, result.Days, len(bars))
	for i, day := range result.Days {
		assert.Equal(t, bars[i].Date, day.Date)
		assert.Equal(t, bars[i].Close, day.Price)
		assert.Greater(t, day.PeakPrice, 0.0)
	}

	// The final session's snapshot is the aggregate distribution, so its
	// metrics must agree with the headline ones.
	lastDay := result.Days[len(result.Days)-1]
	assert.InDelta(t, result.Metrics.AvgCost, lastDay.AvgCost, 1e-6)
	assert.InDelta(t, result.Metrics.ProfitRatio, lastDay.ProfitRatio, 1e-6)
	assert.InDelta(t, result.Metrics.Concentration90, lastDay.Concentration90, 1e-6)
}

func TestAnalyzeDeterministic(t *testing.T) {
	a, err := New(chip.Params{PriceBins: 50, DecayFactor: 1.2, Method: chip.DecayTurnover})
	require.NoError(t, err)

	bars := genBars(40)
	r1, ok := a.Analyze(bars)
	require.True(t, ok)
	r2, ok := a.Analyze(bars)
	require.True(t, ok)

	assert.Equal(t, r1.Metrics.AvgCost, r2.Metrics.AvgCost)
	assert.Equal(t, r1.Prediction.Score, r2.Prediction.Score)
	assert.Equal(t, r1.Distribution.Amounts, r2.Distribution.Amounts)
}
