package chip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChipLens/internal/model"
)

// dist3 is a tiny hand-checkable histogram: bins at 10/20/30 holding
// 100/200/300 units.
func dist3() *model.Distribution {
	return &model.Distribution{
		PriceLevels: []float64{10, 20, 30},
		Amounts:     []float64{100, 200, 300},
		MinPrice:    5,
		MaxPrice:    35,
		BinWidth:    10,
	}
}

func TestComputeZeroTotalNeutralDefaults(t *testing.T) {
	d := &model.Distribution{
		PriceLevels: []float64{10, 20, 30},
		Amounts:     []float64{0, 0, 0},
		MinPrice:    5, MaxPrice: 35, BinWidth: 10,
	}
	m := Compute(d, 18)

	assert.Equal(t, 18.0, m.AvgCost)
	assert.Equal(t, 50.0, m.ProfitRatio)
	assert.Equal(t, 50.0, m.TrappedRatio)
	assert.Equal(t, 100.0, m.Concentration90)
	assert.Equal(t, 100.0, m.Concentration70)
	assert.Empty(t, m.Peaks)
	assert.Equal(t, model.PositionMiddle, m.Position)
	assert.Nil(t, m.Support)
	assert.Nil(t, m.Resistance)
}

func TestComputeRatiosAndAverageCosts(t *testing.T) {
	m := Compute(dist3(), 25)

	assert.InDelta(t, 23.3333, m.AvgCost, 1e-3)
	assert.InDelta(t, 50, m.ProfitRatio, 1e-9)  // 100+200 of 600 below 25
	assert.InDelta(t, 50, m.TrappedRatio, 1e-9) // 300 of 600 above 25

	require.NotNil(t, m.AvgCostProfit)
	assert.InDelta(t, 16.6667, *m.AvgCostProfit, 1e-3)
	require.NotNil(t, m.AvgCostTrapped)
	assert.InDelta(t, 30, *m.AvgCostTrapped, 1e-9)
}

func TestComputeBinAtCurrentPriceCountsForNeither(t *testing.T) {
	m := Compute(dist3(), 20)

	assert.InDelta(t, 100.0/600*100, m.ProfitRatio, 1e-9)
	assert.InDelta(t, 300.0/600*100, m.TrappedRatio, 1e-9)
	assert.Less(t, m.ProfitRatio+m.TrappedRatio, 100.0,
		"mass parked exactly at the current price belongs to neither side")
}

func TestComputePercentileInterpolation(t *testing.T) {
	d := &model.Distribution{
		PriceLevels: []float64{5, 15, 25, 35},
		Amounts:     []float64{100, 100, 100, 100},
		MinPrice:    0, MaxPrice: 40, BinWidth: 10,
	}
	total := 400.0

	assert.InDelta(t, 2, percentile(d, total, 0.05), 1e-9)
	assert.InDelta(t, 6, percentile(d, total, 0.15), 1e-9)
	assert.InDelta(t, 34, percentile(d, total, 0.85), 1e-9)
	assert.InDelta(t, 38, percentile(d, total, 0.95), 1e-9)

	m := Compute(d, 20)
	assert.InDelta(t, 36, m.Range90.High-m.Range90.Low, 1e-9)
	assert.InDelta(t, 28, m.Range70.High-m.Range70.Low, 1e-9)
	assert.InDelta(t, 36.0/20*100, m.Concentration90, 1e-9)
}

func TestComputeConcentrationNearZeroForSinglePoint(t *testing.T) {
	// All mass in one bin: the 5%..95% walk never leaves it.
	dist, ok := Build(flatBars(25, 50, 1000), Params{PriceBins: 20, DecayFactor: 1})
	require.True(t, ok)

	m := Compute(dist, 50)
	assert.InDelta(t, 0, m.Concentration90, 1e-6)
	assert.InDelta(t, 0, m.ProfitRatio, 1e-9)
	assert.InDelta(t, 0, m.TrappedRatio, 1e-9)
}

func TestComputeSupportResistance(t *testing.T) {
	m := Compute(dist3(), 25)

	require.NotNil(t, m.Support)
	assert.Equal(t, 20.0, *m.Support, "densest bin strictly below the price")
	require.NotNil(t, m.Resistance)
	assert.Equal(t, 30.0, *m.Resistance)

	// Price above the whole grid: nothing left to act as resistance.
	m = Compute(dist3(), 99)
	require.NotNil(t, m.Support)
	assert.Equal(t, 30.0, *m.Support)
	assert.Nil(t, m.Resistance)
}

func TestComputePeaks(t *testing.T) {
	d := &model.Distribution{
		PriceLevels: []float64{10, 20, 30, 40, 50},
		Amounts:     []float64{10, 50, 10, 40, 10},
		MinPrice:    5, MaxPrice: 55, BinWidth: 10,
	}
	m := Compute(d, 30)

	require.Len(t, m.Peaks, 2)
	assert.Equal(t, 20.0, m.Peaks[0].Price, "peaks sorted by amount descending")
	assert.Equal(t, 40.0, m.Peaks[1].Price)
}

func TestComputePeaksEdgeBinsExcluded(t *testing.T) {
	d := &model.Distribution{
		PriceLevels: []float64{10, 20, 30},
		Amounts:     []float64{100, 10, 10},
		MinPrice:    5, MaxPrice: 35, BinWidth: 10,
	}
	m := Compute(d, 20)
	assert.Empty(t, m.Peaks, "an edge bin has only one neighbor and never qualifies")
}

func TestComputePeaksThreshold(t *testing.T) {
	// A local maximum below 1.5x the mean is noise, not a peak.
	d := &model.Distribution{
		PriceLevels: []float64{10, 20, 30, 40, 50},
		Amounts:     []float64{90, 100, 90, 100, 90},
		MinPrice:    5, MaxPrice: 55, BinWidth: 10,
	}
	m := Compute(d, 30)
	assert.Empty(t, m.Peaks)
}

func TestComputePosition(t *testing.T) {
	d := dist3() // range 5..35

	assert.Equal(t, model.PositionLow, Compute(d, 10).Position)    // 16.7%
	assert.Equal(t, model.PositionMiddle, Compute(d, 20).Position) // 50%
	assert.Equal(t, model.PositionHigh, Compute(d, 33).Position)   // 93.3%
}

func TestComputeAvgCostWithinBounds(t *testing.T) {
	bars := mkBars(80)
	dist, ok := Build(bars, Params{PriceBins: 64, DecayFactor: 0.95})
	require.True(t, ok)

	m := Compute(dist, bars[len(bars)-1].Close)
	assert.GreaterOrEqual(t, m.AvgCost, dist.MinPrice)
	assert.LessOrEqual(t, m.AvgCost, dist.MaxPrice)
	assert.LessOrEqual(t, m.ProfitRatio+m.TrappedRatio, 100+1e-9)
}

func TestPeakPrice(t *testing.T) {
	assert.Equal(t, 20.0, PeakPrice([]float64{10, 20, 30}, []float64{1, 5, 2}, 0))
	assert.Equal(t, 7.0, PeakPrice([]float64{10, 20}, []float64{0, 0}, 7))
}
