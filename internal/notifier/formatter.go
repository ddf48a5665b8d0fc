package notifier

import (
	"fmt"
	"strings"

	"ChipLens/internal/model"
)

var morphologyLabels = map[model.Morphology]string{
	model.MorphLowSingleDense:   "低位单峰密集",
	model.MorphHighSingleDense:  "高位单峰密集",
	model.MorphBottomConverging: "底部聚集",
	model.MorphMultiPeak:        "多峰分布",
	model.MorphScattered:        "筹码发散",
}

var tacticLabels = map[model.Tactic]string{
	model.TacticBottomAccumulation: "主力吸筹",
	model.TacticDistributionRisk:   "派发风险",
	model.TacticStrongConsensus:    "共识较强",
	model.TacticBasing:             "筑底形态",
	model.TacticOverheadSupply:     "上方套牢压力",
	model.TacticContestedLevels:    "多空分歧",
	model.TacticNoConsensus:        "缺乏共识",
}

var signalLabels = map[model.Signal]string{
	model.SignalStrongBuy:  "🟢 强烈买入",
	model.SignalBuy:        "🟢 买入",
	model.SignalHold:       "⚪ 观望",
	model.SignalSell:       "🔴 卖出",
	model.SignalStrongSell: "🔴 强烈卖出",
}

// FormatSignalCard formats one analysis result into a Telegram-ready card.
func FormatSignalCard(symbol string, a *model.Analysis) string {
	m := a.Metrics
	p := a.Prediction

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>筹码分布分析</b> | %s | %s\n\n", symbol, a.Date))

	deviation := 0.0
	if m.AvgCost > 0 {
		deviation = (a.Price - m.AvgCost) / m.AvgCost * 100
	}
	b.WriteString(fmt.Sprintf("现价: %.2f | 平均成本: %.2f (乖离 %+.1f%%)\n", a.Price, m.AvgCost, deviation))
	b.WriteString(fmt.Sprintf("获利盘: %.1f%% | 套牢盘: %.1f%%\n", m.ProfitRatio, m.TrappedRatio))
	b.WriteString(fmt.Sprintf("90%%集中度: %.1f | 70%%集中度: %.1f\n", m.Concentration90, m.Concentration70))

	if m.Support != nil {
		b.WriteString(fmt.Sprintf("支撑位: %.2f", *m.Support))
	} else {
		b.WriteString("支撑位: —")
	}
	if m.Resistance != nil {
		b.WriteString(fmt.Sprintf(" | 压力位: %.2f\n", *m.Resistance))
	} else {
		b.WriteString(" | 压力位: —\n")
	}

	b.WriteString(fmt.Sprintf("形态: %s (%s)\n\n", morphologyLabels[m.Morphology], tacticLabels[m.Tactic]))

	b.WriteString(fmt.Sprintf("%s | 评分 %+.0f | 置信度 %.0f%%\n", signalLabels[p.Signal], p.Score, p.Confidence))
	b.WriteString(fmt.Sprintf("目标价: %.2f | 止损价: %.2f\n", p.TargetPrice, p.StopLossPrice))

	if len(p.Reasons) > 0 {
		b.WriteString("\n<b>依据:</b>\n")
		for _, r := range p.Reasons {
			b.WriteString(fmt.Sprintf("  • %s\n", r))
		}
	}

	b.WriteString("\n⚠️ 启发式模型，仅供参考，不构成投资建议")
	return b.String()
}
