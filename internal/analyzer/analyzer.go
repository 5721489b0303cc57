// Package analyzer derives per-asset performance statistics from completed
// signal histories and ranks assets by profitability.
package analyzer

import (
	"math"
	"sort"

	"cryptomomentum/internal/types"
)

// tradingWeightEpsilon separates flat days from trading days.
const tradingWeightEpsilon = 1e-6

// Analysis pairs an asset's statistics with the signal history they were
// derived from.
type Analysis struct {
	Stats   types.Statistics
	Signals []types.DailySignal
}

// Analyze computes the statistics of one asset's signal history. Only days
// with |raw_weight| above epsilon count as trading days. Daily return on a
// trading day is raw_weight times the move from the series' first close,
// accumulated multiplicatively; drawdown is tracked on the cumulative path
// over trading days only.
func Analyze(asset string, signals []types.DailySignal) Analysis {
	stats := types.Statistics{Asset: asset, TotalDays: len(signals)}
	if len(signals) == 0 {
		stats.ProfitFactor = math.Inf(1)
		return Analysis{Stats: stats, Signals: signals}
	}

	first := signals[0].Price
	cumulative := 1.0
	maxCumulative := 1.0
	var returns []float64

	for _, s := range signals {
		if math.Abs(s.RawWeight) <= tradingWeightEpsilon {
			continue
		}
		stats.TradingDays++
		r := s.RawWeight * (s.Price - first) / first
		cumulative *= 1 + r
		returns = append(returns, r)

		if cumulative > maxCumulative {
			maxCumulative = cumulative
		}
		if dd := (maxCumulative - cumulative) / maxCumulative; dd > stats.MaxDrawdown {
			stats.MaxDrawdown = dd
		}
	}

	stats.TotalReturn = cumulative - 1
	for _, r := range returns {
		if r > stats.MaxReturn {
			stats.MaxReturn = r
		}
		if r < stats.MinReturn {
			stats.MinReturn = r
		}
	}

	var winSum, lossSum float64
	var wins, losses int
	for _, r := range returns {
		if r > 0 {
			winSum += r
			wins++
		} else if r < 0 {
			lossSum += r
			losses++
		}
	}
	if len(returns) > 0 {
		stats.WinRate = float64(wins) / float64(len(returns))
	}
	if wins > 0 {
		stats.AvgWin = winSum / float64(wins)
	}
	if losses > 0 {
		stats.AvgLoss = lossSum / float64(losses)
	}
	// Zero-loss histories have an infinite profit factor by policy, never a
	// NaN.
	if lossSum == 0 {
		stats.ProfitFactor = math.Inf(1)
	} else {
		stats.ProfitFactor = winSum / math.Abs(lossSum)
	}

	stats.SharpeRatio = sharpe(returns)
	return Analysis{Stats: stats, Signals: signals}
}

// sharpe is the daily Sharpe ratio: mean over sample standard deviation
// (Bessel's correction). Fewer than two returns or zero variance yields 0.
func sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)
	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance)
}

// Profitable filters analyses through the profitability gates, preserving
// input order.
func Profitable(analyses []Analysis) []Analysis {
	var out []Analysis
	for _, a := range analyses {
		if a.Stats.IsProfitable() {
			out = append(out, a)
		}
	}
	return out
}

// RankByReturn sorts analyses descending by total return. The sort is stable
// so ties keep input order.
func RankByReturn(analyses []Analysis) []Analysis {
	out := make([]Analysis, len(analyses))
	copy(out, analyses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Stats.TotalReturn > out[j].Stats.TotalReturn
	})
	return out
}

// RankBySharpe sorts analyses descending by Sharpe ratio, stable on ties.
func RankBySharpe(analyses []Analysis) []Analysis {
	out := make([]Analysis, len(analyses))
	copy(out, analyses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Stats.SharpeRatio > out[j].Stats.SharpeRatio
	})
	return out
}
