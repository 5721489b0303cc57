package playbook

import (
	"cryptomomentum/internal/types"
)

// conviction assigns high/medium conviction percentages from (Sharpe, win
// rate, max drawdown) triples. Tiers are checked best-first, so the most
// conservative combination an asset fails down to wins.
func conviction(stats types.Statistics) types.Conviction {
	sharpe, winRate, maxDD := stats.SharpeRatio, stats.WinRate, stats.MaxDrawdown

	switch {
	case sharpe >= 4.0 && winRate >= 0.95 && maxDD <= 0.01:
		return types.Conviction{High: 0.95, Medium: 0.80,
			Rationale: "Very High conviction due to exceptional Sharpe ratio and clean performance"}
	case sharpe >= 2.0 && winRate >= 0.90 && maxDD <= 0.05:
		return types.Conviction{High: 0.90, Medium: 0.75,
			Rationale: "High conviction based on strong risk-adjusted returns"}
	case sharpe >= 1.5 && winRate >= 0.85 && maxDD <= 0.10:
		return types.Conviction{High: 0.85, Medium: 0.70,
			Rationale: "High conviction with good risk management"}
	case sharpe >= 1.0 && winRate >= 0.80:
		return types.Conviction{High: 0.80, Medium: 0.65,
			Rationale: "Medium-High conviction with acceptable risk profile"}
	case sharpe >= 0.5 && winRate >= 0.70:
		return types.Conviction{High: 0.75, Medium: 0.60,
			Rationale: "Medium conviction with moderate risk"}
	default:
		return types.Conviction{High: 0.70, Medium: 0.55,
			Rationale: "Lower conviction due to risk concerns"}
	}
}

// executionMode averages five thresholded 0-1 sub-factors into a confidence
// score that selects pullback-limit entries, the extension threshold, and
// the limit-order duration.
func executionMode(stats types.Statistics) types.ExecutionMode {
	sharpeFactor := 0.5
	if stats.SharpeRatio >= 2.0 {
		sharpeFactor = 1.0
	}

	winRateFactor := 0.4
	if stats.WinRate >= 0.80 {
		winRateFactor = 1.0
	} else if stats.WinRate >= 0.60 {
		winRateFactor = 0.8
	}

	drawdownFactor := 0.3
	if stats.MaxDrawdown <= 0.05 {
		drawdownFactor = 1.0
	} else if stats.MaxDrawdown <= 0.15 {
		drawdownFactor = 0.7
	}

	dataFactor := 0.5
	if stats.TradingDays >= 15 {
		dataFactor = 1.0
	} else if stats.TradingDays >= 10 {
		dataFactor = 0.8
	}

	profitFactor := 0.5
	if stats.ProfitFactor >= 3.0 {
		profitFactor = 1.0
	} else if stats.ProfitFactor >= 2.0 {
		profitFactor = 0.8
	}

	confidence := (sharpeFactor + winRateFactor + drawdownFactor + dataFactor + profitFactor) / 5

	threshold := 0.05
	if stats.MaxDrawdown <= 0.05 && stats.SharpeRatio >= 1.5 {
		threshold = 0.15
	} else if stats.MaxDrawdown <= 0.10 && stats.SharpeRatio >= 1.0 {
		threshold = 0.10
	}

	duration := 24
	if confidence >= 0.8 {
		duration = 72
	} else if confidence >= 0.6 {
		duration = 48
	}

	return types.ExecutionMode{
		SignalAtClose:      true,
		PullbackToMALong:   confidence >= 0.7,
		ExtendedThreshold:  threshold,
		LimitDurationHours: duration,
	}
}
