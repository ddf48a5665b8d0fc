package model

// Distribution is a chip histogram over a fixed equal-width price grid.
// It is computed once per call and never mutated afterwards.
type Distribution struct {
	PriceLevels []float64 `json:"price_levels"` // bin midpoints, ascending
	Amounts     []float64 `json:"amounts"`      // decayed, weight-distributed volume per bin
	MinPrice    float64   `json:"min_price"`
	MaxPrice    float64   `json:"max_price"`
	BinWidth    float64   `json:"bin_width"`
}

// Snapshot is the distribution state as of one session, on the same price
// grid as the parent Distribution. Used by scrubber-style consumers.
type Snapshot struct {
	Date    string    `json:"date"`
	Amounts []float64 `json:"amounts"`
	AvgCost float64   `json:"avg_cost"`
}
