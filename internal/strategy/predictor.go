package strategy

import (
	"fmt"
	"math"

	"ChipLens/internal/model"
)

// Rule weights and thresholds are carried over verbatim from the source
// heuristic model. They have no backtested calibration; Predict is a
// heuristic, not trading advice, and never fails.
const (
	targetAboveResistance = 1.05
	targetFallback        = 1.10
	stopBelowSupport      = 0.95
	stopFallback          = 0.90
)

// Predict scores the metrics into a bounded directional signal with a
// confidence value, ordered reasons, and heuristic price targets.
func Predict(m *model.Metrics, currentPrice float64) *model.Prediction {
	score := 0.0
	confidence := 50.0
	var reasons []string

	switch m.Morphology {
	case model.MorphLowSingleDense:
		score += 40
		confidence += 20
		reasons = append(reasons, "低位单峰密集，筹码高度集中，主力吸筹特征明显")
	case model.MorphHighSingleDense:
		if m.ProfitRatio > 80 {
			score -= 30
			reasons = append(reasons, "高位单峰密集且获利盘超过80%，存在派发风险")
		} else {
			score += 10
			reasons = append(reasons, "高位单峰密集，持仓共识较强")
		}
	case model.MorphBottomConverging:
		score += 25
		reasons = append(reasons, "筹码向底部聚集，下方支撑扎实")
	case model.MorphMultiPeak:
		score -= 10
		reasons = append(reasons, "多峰分布，上方存在套牢密集区")
	case model.MorphScattered:
		score -= 20
		reasons = append(reasons, "筹码发散，市场缺乏共识")
	}

	if m.ProfitRatio > 90 {
		score += 10
		reasons = append(reasons, "获利盘超过90%，上方几乎没有套牢阻力")
	}
	if m.ProfitRatio < 10 && m.Position == model.PositionLow {
		score += 15
		reasons = append(reasons, "低位且获利盘不足10%，抛压接近衰竭")
	}
	if m.TrappedRatio > 80 {
		score -= 20
		reasons = append(reasons, "套牢盘超过80%，反弹将面对沉重解套抛压")
	}

	if m.AvgCost > 0 {
		deviation := (currentPrice - m.AvgCost) / m.AvgCost * 100
		if deviation > 20 {
			score -= 10
			reasons = append(reasons, fmt.Sprintf("现价高于平均成本 %.1f%%，短线乖离偏大", deviation))
		} else if deviation < -20 {
			score += 15
			reasons = append(reasons, fmt.Sprintf("现价低于平均成本 %.1f%%，具备修复空间", -deviation))
		}
	}

	if m.Concentration90 < 10 {
		confidence += 15
		reasons = append(reasons, "90%筹码集中度极高，形态可信度提升")
	}

	score = clamp(score, -100, 100)
	confidence = clamp(confidence, 0, 100)

	target := currentPrice * targetFallback
	if m.Resistance != nil {
		target = *m.Resistance * targetAboveResistance
	}
	stop := currentPrice * stopFallback
	if m.Support != nil {
		stop = *m.Support * stopBelowSupport
	}

	return &model.Prediction{
		Score:         score,
		Signal:        signalFor(score),
		Confidence:    confidence,
		Reasons:       reasons,
		TargetPrice:   target,
		StopLossPrice: stop,
	}
}

func signalFor(score float64) model.Signal {
	switch {
	case score >= 40:
		return model.SignalStrongBuy
	case score >= 15:
		return model.SignalBuy
	case score <= -40:
		return model.SignalStrongSell
	case score <= -15:
		return model.SignalSell
	default:
		return model.SignalHold
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
