package model

// Position classifies where the current price sits within the series range.
type Position string

const (
	PositionLow    Position = "low"    // below 30% of the range
	PositionMiddle Position = "middle"
	PositionHigh   Position = "high" // above 70% of the range
)

// Peak is one locally dominant price bin.
type Peak struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
}

// PriceRange brackets the chip mass between two interpolated percentiles.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Metrics holds the scalar descriptors derived from one distribution.
type Metrics struct {
	AvgCost         float64    `json:"avg_cost"`
	ProfitRatio     float64    `json:"profit_ratio"`  // percent of chips priced below the current price
	TrappedRatio    float64    `json:"trapped_ratio"` // percent of chips priced above the current price
	AvgCostProfit   *float64   `json:"avg_cost_profit,omitempty"`
	AvgCostTrapped  *float64   `json:"avg_cost_trapped,omitempty"`
	Range90         PriceRange `json:"range_90"` // P5..P95
	Range70         PriceRange `json:"range_70"` // P15..P85
	Concentration90 float64    `json:"concentration_90"`
	Concentration70 float64    `json:"concentration_70"`
	Support         *float64   `json:"support,omitempty"`
	Resistance      *float64   `json:"resistance,omitempty"`
	Peaks           []Peak     `json:"peaks,omitempty"` // at most 3, by amount descending
	Position        Position   `json:"position"`
	Morphology      Morphology `json:"morphology"`
	Tactic          Tactic     `json:"tactic"`
}

// DayMetrics is the compact per-session record of the daily analysis series.
type DayMetrics struct {
	Date            string   `json:"date"`
	Price           float64  `json:"price"`
	PeakPrice       float64  `json:"peak_price"`
	AvgCost         float64  `json:"avg_cost"`
	ProfitRatio     float64  `json:"profit_ratio"`
	TrappedRatio    float64  `json:"trapped_ratio"`
	Concentration90 float64  `json:"concentration_90"`
	Concentration70 float64  `json:"concentration_70"`
	Support         *float64 `json:"support,omitempty"`
	Resistance      *float64 `json:"resistance,omitempty"`
}
