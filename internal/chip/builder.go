// Package chip implements the cost (chip) distribution engine: it estimates
// how much trading volume is currently held at each historical price level
// and derives statistical descriptors from that estimate. All functions are
// pure and safe for concurrent use.
package chip

import (
	"fmt"
	"math"

	"ChipLens/internal/model"
)

// MinBars is the minimum series length for a meaningful estimate. Shorter
// series produce an absent result, not an error: a newly listed instrument
// is an expected condition.
const MinBars = 20

// DecayMethod selects how older chips are attenuated.
type DecayMethod string

const (
	// DecayFixed multiplies the whole state by a constant factor per session.
	DecayFixed DecayMethod = "fixed"
	// DecayTurnover retains 1 - turnoverRate*A of the state per session,
	// where A adapts to how the day's turnover compares to the series mean.
	// Bars must carry a turnover rate for this method to be meaningful.
	DecayTurnover DecayMethod = "turnover"
)

// Shape selects how one bar's volume spreads across its price range.
type Shape string

const (
	ShapeTriangular Shape = "triangular" // peaked at the typical price
	ShapeUniform    Shape = "uniform"    // equal weight across in-range bins
)

// Params configures one distribution computation. The zero values of Method
// and Shape mean fixed decay and triangular distribution.
type Params struct {
	PriceBins   int
	DecayFactor float64 // fixed: per-day factor in (0,1]; turnover: base coefficient A
	Method      DecayMethod
	Shape       Shape
}

// DefaultParams returns the parameters the original analysis tool ships with.
func DefaultParams() Params {
	return Params{
		PriceBins:   100,
		DecayFactor: 0.97,
		Method:      DecayFixed,
		Shape:       ShapeTriangular,
	}
}

// Validate rejects parameter combinations that would produce silently wrong
// histograms. Callers are expected to fail fast on the returned error.
func (p Params) Validate() error {
	if p.PriceBins < 2 {
		return fmt.Errorf("price bins must be at least 2, got %d", p.PriceBins)
	}
	switch p.Method {
	case "", DecayFixed:
		if p.DecayFactor <= 0 || p.DecayFactor > 1 {
			return fmt.Errorf("decay factor must be in (0,1], got %g", p.DecayFactor)
		}
	case DecayTurnover:
		if p.DecayFactor <= 0 || p.DecayFactor > 2 {
			return fmt.Errorf("turnover coefficient must be in (0,2], got %g", p.DecayFactor)
		}
	default:
		return fmt.Errorf("unknown decay method %q", p.Method)
	}
	switch p.Shape {
	case "", ShapeTriangular, ShapeUniform:
	default:
		return fmt.Errorf("unknown distribution shape %q", p.Shape)
	}
	return nil
}

// grid is the fixed price axis of one computation: priceBins equal-width
// partitions of [minLow, maxHigh], each identified by its midpoint.
type grid struct {
	min    float64
	max    float64
	width  float64
	levels []float64
}

func newGrid(bars []model.Bar, bins int) grid {
	min, max := math.Inf(1), math.Inf(-1)
	for _, b := range bars {
		if b.Low < min {
			min = b.Low
		}
		if b.High > max {
			max = b.High
		}
	}
	width := (max - min) / float64(bins)
	levels := make([]float64, bins)
	for i := range levels {
		levels[i] = min + (float64(i)+0.5)*width
	}
	return grid{min: min, max: max, width: width, levels: levels}
}

// binOf returns the bin containing price, clamped to the grid. A zero-width
// grid (flat series) collapses everything into bin 0.
func (g grid) binOf(price float64) int {
	if g.width <= 0 {
		return 0
	}
	i := int(math.Floor((price - g.min) / g.width))
	if i < 0 {
		i = 0
	}
	if i >= len(g.levels) {
		i = len(g.levels) - 1
	}
	return i
}

// typicalPrice is the per-bar synthetic price biased toward the close; it
// centers the triangular weight distribution.
func typicalPrice(b model.Bar) float64 {
	return (b.High + b.Low + 2*b.Close) / 4
}

// addAmount distributes amount across the bins whose midpoints fall inside
// the bar's [low, high] range, weighted by the configured shape. Weights are
// normalized per bar so the distributed mass equals amount exactly. When the
// range covers no midpoint, or every weight degenerates to zero, the whole
// amount lands in the bin containing the typical price: mass is never lost.
func addAmount(dst []float64, g grid, b model.Bar, shape Shape, amount float64) {
	if amount == 0 {
		return
	}
	if b.High <= b.Low || g.width <= 0 {
		// Zero-range session: single price point, single bin.
		dst[g.binOf(b.Close)] += amount
		return
	}

	typical := typicalPrice(b)

	first := int(math.Ceil((b.Low-g.min)/g.width - 0.5))
	last := int(math.Floor((b.High-g.min)/g.width - 0.5))
	if first < 0 {
		first = 0
	}
	if last > len(g.levels)-1 {
		last = len(g.levels) - 1
	}
	if first > last {
		dst[g.binOf(typical)] += amount
		return
	}

	// maxDistance is 0 only when high == low, handled above.
	maxDistance := math.Max(typical-b.Low, b.High-typical)

	weights := make([]float64, last-first+1)
	var total float64
	for i := first; i <= last; i++ {
		w := 1.0
		if shape != ShapeUniform && maxDistance > 0 {
			w = 1 - math.Abs(g.levels[i]-typical)/maxDistance
			if w < 0 {
				w = 0
			}
		}
		weights[i-first] = w
		total += w
	}
	if total <= 0 {
		dst[g.binOf(typical)] += amount
		return
	}
	for i := first; i <= last; i++ {
		dst[i] += amount * weights[i-first] / total
	}
}

// buildDirect accumulates the aggregate histogram with the closed-form fixed
// decay: bar k in a series of n contributes volume * decayFactor^(n-k-1).
func buildDirect(bars []model.Bar, p Params, g grid) []float64 {
	amounts := make([]float64, p.PriceBins)
	n := len(bars)
	for k, b := range bars {
		age := n - k - 1
		addAmount(amounts, g, b, p.Shape, b.Volume*math.Pow(p.DecayFactor, float64(age)))
	}
	return amounts
}

// avgTurnover returns the mean turnover fraction across the series, with the
// same floor the original model uses to avoid dividing by zero.
func avgTurnover(bars []model.Bar) float64 {
	var sum float64
	for _, b := range bars {
		sum += b.TurnoverRate
	}
	avg := sum / float64(len(bars)) / 100
	if avg <= 1e-6 {
		avg = 0.01
	}
	return avg
}

// effectiveTurnover computes the day's chip-rotation fraction under the
// adaptive coefficient A = A0 * (1 + 0.3*(turnover/avgTurnover - 1)),
// clamped to [0.5, 2.0]; the result is clamped to [0, 1].
func effectiveTurnover(b model.Bar, a0, avg float64) float64 {
	turnover := b.TurnoverRate / 100
	a := a0 * (1 + 0.3*(turnover/avg-1))
	a = math.Max(0.5, math.Min(2.0, a))
	eff := turnover * a
	return math.Max(0, math.Min(1, eff))
}

// walk runs the incremental accumulation over the series, invoking visit
// with the running state after every session. The state is reused between
// calls; visitors must copy what they keep.
//
// For fixed decay this is numerically identical to rebuilding every prefix
// with buildDirect, in O(days*bins) instead of O(days^2*bins): the per-day
// multiplication compounds to exactly decayFactor^age.
func walk(bars []model.Bar, p Params, g grid, visit func(day int, state []float64)) {
	state := make([]float64, p.PriceBins)

	if p.Method == DecayTurnover {
		avg := avgTurnover(bars)
		for k, b := range bars {
			if k == 0 {
				// Seed with a unit of mass on the first session's range; the
				// turnover model tracks relative mass, not raw volume.
				addAmount(state, g, b, p.Shape, 1)
			} else {
				eff := effectiveTurnover(b, p.DecayFactor, avg)
				for i := range state {
					state[i] *= 1 - eff
				}
				addAmount(state, g, b, p.Shape, eff)
			}
			visit(k, state)
		}
		return
	}

	for k, b := range bars {
		if k > 0 {
			for i := range state {
				state[i] *= p.DecayFactor
			}
		}
		addAmount(state, g, b, p.Shape, b.Volume)
		visit(k, state)
	}
}

// Build computes the aggregate chip histogram for the whole series.
// ok is false when the series is shorter than MinBars.
func Build(bars []model.Bar, p Params) (*model.Distribution, bool) {
	if len(bars) < MinBars {
		return nil, false
	}
	g := newGrid(bars, p.PriceBins)

	var amounts []float64
	if p.Method == DecayTurnover {
		walk(bars, p, g, func(day int, state []float64) {
			if day == len(bars)-1 {
				amounts = append([]float64(nil), state...)
			}
		})
	} else {
		amounts = buildDirect(bars, p, g)
	}

	return &model.Distribution{
		PriceLevels: g.levels,
		Amounts:     amounts,
		MinPrice:    g.min,
		MaxPrice:    g.max,
		BinWidth:    g.width,
	}, true
}
