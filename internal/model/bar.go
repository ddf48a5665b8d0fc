package model

// Bar represents a single daily OHLCV session.
// Bars are expected to arrive pre-validated by the data-access layer:
// low <= open,close <= high and volume >= 0.
type Bar struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Close        float64 `json:"close"`
	Volume       float64 `json:"volume"`
	TurnoverRate float64 `json:"turnover_rate,omitempty"` // percent; only used by the turnover decay method
}
