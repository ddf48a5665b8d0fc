package chip

import (
	"math"
	"sort"

	"ChipLens/internal/model"
)

// peakThreshold filters local maxima: a bin only counts as a peak when its
// amount exceeds this multiple of the histogram mean.
const peakThreshold = 1.5

// maxPeaks caps the peak list by amount descending.
const maxPeaks = 3

// Compute derives the scalar descriptors for one histogram at the given
// current price. A histogram with no mass yields neutral defaults
// (50/50 ratios, avg cost at the current price, concentration 100, no
// peaks) rather than an error. Morphology and tactic are left for the
// classifier to fill in.
func Compute(dist *model.Distribution, currentPrice float64) *model.Metrics {
	var total float64
	for _, a := range dist.Amounts {
		total += a
	}
	if total <= 0 {
		return neutralMetrics(currentPrice)
	}

	m := &model.Metrics{}

	var costSum float64
	var profitMass, profitCost float64
	var trappedMass, trappedCost float64
	for i, a := range dist.Amounts {
		level := dist.PriceLevels[i]
		costSum += a * level
		switch {
		case level < currentPrice:
			profitMass += a
			profitCost += a * level
		case level > currentPrice:
			trappedMass += a
			trappedCost += a * level
		}
		// Bins exactly at the current price count toward neither side.
	}
	m.AvgCost = costSum / total
	m.ProfitRatio = profitMass / total * 100
	m.TrappedRatio = trappedMass / total * 100
	if profitMass > 0 {
		v := profitCost / profitMass
		m.AvgCostProfit = &v
	}
	if trappedMass > 0 {
		v := trappedCost / trappedMass
		m.AvgCostTrapped = &v
	}

	p5 := percentile(dist, total, 0.05)
	p15 := percentile(dist, total, 0.15)
	p85 := percentile(dist, total, 0.85)
	p95 := percentile(dist, total, 0.95)
	m.Range90 = model.PriceRange{Low: p5, High: p95}
	m.Range70 = model.PriceRange{Low: p15, High: p85}
	m.Concentration90 = concentration(p95-p5, m.AvgCost)
	m.Concentration70 = concentration(p85-p15, m.AvgCost)

	m.Support, m.Resistance = supportResistance(dist, currentPrice)
	m.Peaks = findPeaks(dist, total)
	m.Position = position(currentPrice, dist.MinPrice, dist.MaxPrice)

	return m
}

func neutralMetrics(currentPrice float64) *model.Metrics {
	return &model.Metrics{
		AvgCost:         currentPrice,
		ProfitRatio:     50,
		TrappedRatio:    50,
		Range90:         model.PriceRange{Low: currentPrice, High: currentPrice},
		Range70:         model.PriceRange{Low: currentPrice, High: currentPrice},
		Concentration90: 100,
		Concentration70: 100,
		Position:        model.PositionMiddle,
	}
}

// percentile walks the bins accumulating mass until it reaches frac of the
// total, interpolating linearly inside the bin that straddles the target.
// Bin i spans [min + i*width, min + (i+1)*width].
func percentile(dist *model.Distribution, total, frac float64) float64 {
	target := total * frac
	var cum float64
	for i, a := range dist.Amounts {
		if a > 0 && cum+a >= target {
			lo := dist.MinPrice + float64(i)*dist.BinWidth
			return lo + (target-cum)/a*dist.BinWidth
		}
		cum += a
	}
	return dist.MaxPrice
}

// concentration normalizes a mass-covering price range by the average cost;
// smaller means more consensus. The degenerate fallback mirrors the
// original model: no meaningful average cost reads as fully dispersed.
func concentration(priceRange, avgCost float64) float64 {
	if avgCost <= 0 {
		return 100
	}
	return priceRange / avgCost * 100
}

// supportResistance picks the most chip-dense bin strictly below and
// strictly above the current price. Either may be absent.
func supportResistance(dist *model.Distribution, currentPrice float64) (support, resistance *float64) {
	var supAmt, resAmt float64
	for i, a := range dist.Amounts {
		if a <= 0 {
			continue
		}
		level := dist.PriceLevels[i]
		if level < currentPrice && a > supAmt {
			supAmt = a
			v := level
			support = &v
		}
		if level > currentPrice && a > resAmt {
			resAmt = a
			v := level
			resistance = &v
		}
	}
	return support, resistance
}

// findPeaks returns the bins that exceed both neighbors and peakThreshold
// times the mean amount, keeping the top maxPeaks by amount. Edge bins have
// only one neighbor and never qualify.
func findPeaks(dist *model.Distribution, total float64) []model.Peak {
	mean := total / float64(len(dist.Amounts))
	var peaks []model.Peak
	for i := 1; i < len(dist.Amounts)-1; i++ {
		a := dist.Amounts[i]
		if a > dist.Amounts[i-1] && a > dist.Amounts[i+1] && a > peakThreshold*mean {
			peaks = append(peaks, model.Peak{Price: dist.PriceLevels[i], Amount: a})
		}
	}
	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Amount > peaks[j].Amount })
	if len(peaks) > maxPeaks {
		peaks = peaks[:maxPeaks]
	}
	return peaks
}

// PeakPrice returns the midpoint of the most chip-dense bin, or fallback
// when the histogram holds no mass.
func PeakPrice(levels, amounts []float64, fallback float64) float64 {
	best := fallback
	max := 0.0
	for i, a := range amounts {
		if a > max {
			max = a
			best = levels[i]
		}
	}
	return best
}

// position tags the current price inside [minPrice, maxPrice] with 30%/70%
// thresholds. A zero-width range reads as middle.
func position(currentPrice, minPrice, maxPrice float64) model.Position {
	if maxPrice <= minPrice {
		return model.PositionMiddle
	}
	pct := (currentPrice - minPrice) / (maxPrice - minPrice) * 100
	switch {
	case pct < 30:
		return model.PositionLow
	case pct > 70:
		return model.PositionHigh
	default:
		return model.PositionMiddle
	}
}

// PositionPercent is the raw range position in [0,100], used by reports.
func PositionPercent(currentPrice, minPrice, maxPrice float64) float64 {
	if maxPrice <= minPrice {
		return 50
	}
	pct := (currentPrice - minPrice) / (maxPrice - minPrice) * 100
	return math.Max(0, math.Min(100, pct))
}
