// Package strategy classifies chip-distribution shapes and scores them into
// a heuristic directional signal. Both halves are pure functions of the
// metrics record.
package strategy

import "ChipLens/internal/model"

// Classify assigns the morphology label and its tactical-interpretation tag.
// The decision list is ordered; the first match wins.
func Classify(position model.Position, peakCount int, concentration90, profitRatio, trappedRatio float64) (model.Morphology, model.Tactic) {
	var morph model.Morphology
	switch {
	case position == model.PositionLow && peakCount == 1 && concentration90 < 12:
		morph = model.MorphLowSingleDense
	case position == model.PositionHigh && peakCount == 1 && concentration90 < 18:
		morph = model.MorphHighSingleDense
	case concentration90 > 25:
		morph = model.MorphScattered
	case position == model.PositionLow && peakCount >= 2 && concentration90 < 20:
		morph = model.MorphBottomConverging
	case peakCount >= 2 && peakCount <= 4:
		morph = model.MorphMultiPeak
	default:
		morph = model.MorphScattered
	}
	return morph, tacticFor(morph, profitRatio, trappedRatio)
}

// tacticFor is a fixed lookup, not a derived computation: each morphology
// maps to one tag, split only by the profit/trapped thresholds below.
func tacticFor(morph model.Morphology, profitRatio, trappedRatio float64) model.Tactic {
	switch morph {
	case model.MorphLowSingleDense:
		return model.TacticBottomAccumulation
	case model.MorphHighSingleDense:
		if profitRatio > 80 {
			return model.TacticDistributionRisk
		}
		return model.TacticStrongConsensus
	case model.MorphBottomConverging:
		return model.TacticBasing
	case model.MorphMultiPeak:
		if trappedRatio > 60 {
			return model.TacticOverheadSupply
		}
		return model.TacticContestedLevels
	default:
		return model.TacticNoConsensus
	}
}
