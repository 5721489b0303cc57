package portfolio

import (
	"math"

	"cryptomomentum/internal/types"
)

const daysPerYear = 365.25

// Metrics computes the run-level statistics of a completed equity curve.
// Sharpe is calculated over the non-zero finite daily returns and annualized
// by sqrt(365.25); degenerate variance yields 0, never NaN.
func Metrics(curve []types.EquityPoint) types.PortfolioMetrics {
	m := types.PortfolioMetrics{Days: len(curve)}
	if len(curve) == 0 {
		return m
	}

	final := curve[len(curve)-1].Equity
	m.TotalReturn = final - 1

	years := float64(len(curve)) / daysPerYear
	if years > 0 && final > 0 {
		m.CAGR = math.Pow(final, 1/years) - 1
	}

	var rets []float64
	for _, p := range curve {
		if p.DailyReturn != 0 && !math.IsNaN(p.DailyReturn) && !math.IsInf(p.DailyReturn, 0) {
			rets = append(rets, p.DailyReturn)
		}
	}
	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	if len(rets) > 0 {
		mean /= float64(len(rets))
	}
	sd := 0.0
	if len(rets) > 1 {
		variance := 0.0
		for _, r := range rets {
			d := r - mean
			variance += d * d
		}
		sd = math.Sqrt(variance / float64(len(rets)-1))
	}
	if sd > 0 {
		m.SharpeAnnualized = mean / sd * math.Sqrt(daysPerYear)
	}

	peak := math.Inf(-1)
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if dd := 1 - p.Equity/peak; dd > m.MaxDrawdown {
			m.MaxDrawdown = dd
		}
	}

	wins := 0
	for _, r := range rets {
		if r > 0 {
			wins++
		}
	}
	if len(rets) > 0 {
		m.WinRate = float64(wins) / float64(len(rets))
	}
	return m
}
