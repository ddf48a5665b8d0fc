package chip

import "ChipLens/internal/model"

// BuildSnapshots computes the aggregate histogram plus one snapshot per
// session, each decayed relative to its own day. Snapshots share the
// full-series price grid so a scrubber can render them on a fixed axis.
// ok is false when the series is shorter than MinBars.
func BuildSnapshots(bars []model.Bar, p Params) (*model.Distribution, []model.Snapshot, bool) {
	if len(bars) < MinBars {
		return nil, nil, false
	}
	g := newGrid(bars, p.PriceBins)

	snapshots := make([]model.Snapshot, 0, len(bars))
	walk(bars, p, g, func(day int, state []float64) {
		amounts := append([]float64(nil), state...)
		snapshots = append(snapshots, model.Snapshot{
			Date:    bars[day].Date,
			Amounts: amounts,
			AvgCost: weightedAvg(g.levels, amounts, bars[day].Close),
		})
	})

	last := snapshots[len(snapshots)-1]
	dist := &model.Distribution{
		PriceLevels: g.levels,
		Amounts:     append([]float64(nil), last.Amounts...),
		MinPrice:    g.min,
		MaxPrice:    g.max,
		BinWidth:    g.width,
	}
	return dist, snapshots, true
}

// weightedAvg is the volume-weighted mean price of a histogram; fallback is
// used when the histogram holds no mass.
func weightedAvg(levels, amounts []float64, fallback float64) float64 {
	var sum, total float64
	for i, a := range amounts {
		sum += a * levels[i]
		total += a
	}
	if total <= 0 {
		return fallback
	}
	return sum / total
}
