package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ChipLens/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		position  model.Position
		peaks     int
		conc90    float64
		profit    float64
		trapped   float64
		wantMorph model.Morphology
		wantTact  model.Tactic
	}{
		{
			name:     "low single dense",
			position: model.PositionLow, peaks: 1, conc90: 11,
			wantMorph: model.MorphLowSingleDense, wantTact: model.TacticBottomAccumulation,
		},
		{
			name:     "low single peak but too dispersed",
			position: model.PositionLow, peaks: 1, conc90: 13,
			wantMorph: model.MorphScattered, wantTact: model.TacticNoConsensus,
		},
		{
			name:     "high single dense with heavy profit",
			position: model.PositionHigh, peaks: 1, conc90: 17, profit: 85,
			wantMorph: model.MorphHighSingleDense, wantTact: model.TacticDistributionRisk,
		},
		{
			name:     "high single dense moderate profit",
			position: model.PositionHigh, peaks: 1, conc90: 17, profit: 70,
			wantMorph: model.MorphHighSingleDense, wantTact: model.TacticStrongConsensus,
		},
		{
			name:     "dispersion beats converging",
			position: model.PositionLow, peaks: 2, conc90: 26,
			wantMorph: model.MorphScattered, wantTact: model.TacticNoConsensus,
		},
		{
			name:     "bottom converging",
			position: model.PositionLow, peaks: 2, conc90: 19,
			wantMorph: model.MorphBottomConverging, wantTact: model.TacticBasing,
		},
		{
			name:     "multi peak with overhead supply",
			position: model.PositionMiddle, peaks: 3, conc90: 20, trapped: 65,
			wantMorph: model.MorphMultiPeak, wantTact: model.TacticOverheadSupply,
		},
		{
			name:     "multi peak contested",
			position: model.PositionMiddle, peaks: 3, conc90: 20, trapped: 50,
			wantMorph: model.MorphMultiPeak, wantTact: model.TacticContestedLevels,
		},
		{
			name:     "too many peaks falls through",
			position: model.PositionMiddle, peaks: 5, conc90: 20,
			wantMorph: model.MorphScattered, wantTact: model.TacticNoConsensus,
		},
		{
			name:     "middle single peak defaults to scattered",
			position: model.PositionMiddle, peaks: 1, conc90: 15,
			wantMorph: model.MorphScattered, wantTact: model.TacticNoConsensus,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			morph, tact := Classify(tc.position, tc.peaks, tc.conc90, tc.profit, tc.trapped)
			assert.Equal(t, tc.wantMorph, morph)
			assert.Equal(t, tc.wantTact, tact)
		})
	}
}

func TestTacticForHighDenseBoundary(t *testing.T) {
	// Exactly 80% profit is still consensus, not distribution.
	assert.Equal(t, model.TacticStrongConsensus, tacticFor(model.MorphHighSingleDense, 80, 0))
	assert.Equal(t, model.TacticDistributionRisk, tacticFor(model.MorphHighSingleDense, 80.1, 0))
}
