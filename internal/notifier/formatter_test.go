package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ChipLens/internal/model"
)

func sampleAnalysis() *model.Analysis {
	sup, res := 9.8, 11.2
	return &model.Analysis{
		Date:  "2024-03-01",
		Price: 10.5,
		Metrics: &model.Metrics{
			AvgCost:         10,
			ProfitRatio:     62.5,
			TrappedRatio:    30.1,
			Concentration90: 11.4,
			Concentration70: 7.2,
			Support:         &sup,
			Resistance:      &res,
			Position:        model.PositionLow,
			Morphology:      model.MorphLowSingleDense,
			Tactic:          model.TacticBottomAccumulation,
		},
		Prediction: &model.Prediction{
			Score:         40,
			Signal:        model.SignalStrongBuy,
			Confidence:    85,
			Reasons:       []string{"低位单峰密集，筹码高度集中，主力吸筹特征明显"},
			TargetPrice:   11.76,
			StopLossPrice: 9.31,
		},
	}
}

func TestFormatSignalCard(t *testing.T) {
	card := FormatSignalCard("sh600000", sampleAnalysis())

	assert.Contains(t, card, "sh600000")
	assert.Contains(t, card, "2024-03-01")
	assert.Contains(t, card, "现价: 10.50")
	assert.Contains(t, card, "乖离 +5.0%")
	assert.Contains(t, card, "获利盘: 62.5%")
	assert.Contains(t, card, "支撑位: 9.80")
	assert.Contains(t, card, "压力位: 11.20")
	assert.Contains(t, card, "低位单峰密集 (主力吸筹)")
	assert.Contains(t, card, "🟢 强烈买入")
	assert.Contains(t, card, "评分 +40")
	assert.Contains(t, card, "目标价: 11.76")
	assert.Contains(t, card, "依据:")
	assert.Contains(t, card, "不构成投资建议")
}

func TestFormatSignalCardAbsentLevels(t *testing.T) {
	a := sampleAnalysis()
	a.Metrics.Support = nil
	a.Metrics.Resistance = nil
	a.Prediction.Reasons = nil

	card := FormatSignalCard("sz000001", a)

	assert.Contains(t, card, "支撑位: —")
	assert.Contains(t, card, "压力位: —")
	assert.NotContains(t, card, "依据:")
}
