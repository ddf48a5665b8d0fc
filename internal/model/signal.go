package model

// Morphology labels the overall shape of the chip distribution.
type Morphology string

const (
	MorphLowSingleDense   Morphology = "low_single_dense"
	MorphHighSingleDense  Morphology = "high_single_dense"
	MorphBottomConverging Morphology = "bottom_converging"
	MorphMultiPeak        Morphology = "multi_peak"
	MorphScattered        Morphology = "scattered"
)

// Tactic is the secondary interpretation tag attached to a morphology.
type Tactic string

const (
	TacticBottomAccumulation Tactic = "bottom_accumulation"
	TacticDistributionRisk   Tactic = "distribution_risk"
	TacticStrongConsensus    Tactic = "strong_consensus"
	TacticBasing             Tactic = "basing_pattern"
	TacticOverheadSupply     Tactic = "overhead_supply"
	TacticContestedLevels    Tactic = "contested_levels"
	TacticNoConsensus        Tactic = "no_consensus"
)

// Signal is the directional trading signal class.
type Signal string

const (
	SignalStrongBuy  Signal = "strong_buy"
	SignalBuy        Signal = "buy"
	SignalHold       Signal = "hold"
	SignalSell       Signal = "sell"
	SignalStrongSell Signal = "strong_sell"
)

// Prediction is the heuristic output of the scorer. It is advisory only:
// the rule weights behind it carry no backtested calibration.
type Prediction struct {
	Score         float64  `json:"score"`      // [-100, 100]
	Signal        Signal   `json:"signal"`
	Confidence    float64  `json:"confidence"` // [0, 100]
	Reasons       []string `json:"reasons"`
	TargetPrice   float64  `json:"target_price"`
	StopLossPrice float64  `json:"stop_loss_price"`
}

// Analysis is the composite result of one pipeline run over a bar series.
type Analysis struct {
	Symbol       string        `json:"symbol,omitempty"`
	Date         string        `json:"date"` // last session in the series
	Price        float64       `json:"price"`
	Distribution *Distribution `json:"distribution"`
	Metrics      *Metrics      `json:"metrics"`
	Prediction   *Prediction   `json:"prediction"`
	Snapshots    []Snapshot    `json:"snapshots,omitempty"` // per-day series only
	Days         []DayMetrics  `json:"days,omitempty"`      // per-day series only
}
