package playbook

import (
	"math"

	"cryptomomentum/internal/types"
)

const (
	baseRiskCap = 0.010
	minRiskCap  = 0.002
	maxRiskCap  = 0.025
)

// riskCap blends ten independent multiplicative adjustment factors into a
// per-asset risk cap. Each factor maps one continuous metric to a discrete
// multiplier via fixed breakpoints; the geometric mean of the ten keeps any
// single metric from dominating, and the result is clamped to
// [minRiskCap, maxRiskCap] and rounded to 0.1% precision.
func riskCap(stats types.Statistics, cv types.ComputedValues) float64 {
	sharpe := breakpoints(stats.SharpeRatio,
		bp{3.0, 1.5}, bp{2.0, 1.3}, bp{1.5, 1.1}, bp{1.0, 1.0}, bp{0.5, 0.8}).or(0.6)

	drawdown := breakpointsBelow(stats.MaxDrawdown,
		bp{0.02, 1.2}, bp{0.05, 1.0}, bp{0.10, 0.8}, bp{0.20, 0.6}).or(0.4)

	winRate := breakpoints(stats.WinRate,
		bp{0.80, 1.2}, bp{0.70, 1.1}, bp{0.60, 1.0}, bp{0.50, 0.9}).or(0.7)

	volatility := breakpointsBelow(cv.Volatility,
		bp{20, 1.1}, bp{40, 1.0}, bp{60, 0.9}, bp{80, 0.8}).or(0.6)

	returnMagnitude := breakpointsBelow(stats.TotalReturn,
		bp{10, 1.1}, bp{50, 1.0}, bp{200, 0.9}, bp{1000, 0.8}).or(0.6)

	sampleSize := breakpoints(float64(stats.TradingDays),
		bp{20, 1.1}, bp{15, 1.0}, bp{10, 0.9}, bp{5, 0.8}).or(0.7)

	profitFactor := breakpoints(stats.ProfitFactor,
		bp{5.0, 1.2}, bp{3.0, 1.1}, bp{2.0, 1.0}, bp{1.5, 0.9}, bp{1.0, 0.8}).or(0.6)

	rsSpread := breakpoints(math.Abs(cv.RSMAShort-cv.RSMALong),
		bp{0.10, 1.1}, bp{0.05, 1.0}, bp{0.02, 0.9}).or(0.8)

	extension := breakpointsBelow(cv.CurrentPrice/cv.MALong,
		bp{1.05, 1.1}, bp{1.10, 1.0}, bp{1.20, 0.9}, bp{1.30, 0.8}).or(0.6)

	atrRisk := breakpointsBelow(cv.ATR/cv.CurrentPrice,
		bp{0.02, 1.1}, bp{0.05, 1.0}, bp{0.10, 0.9}, bp{0.15, 0.8}).or(0.6)

	factors := []float64{
		sharpe, drawdown, winRate, volatility, returnMagnitude,
		sampleSize, profitFactor, rsSpread, extension, atrRisk,
	}
	logSum := 0.0
	for _, f := range factors {
		logSum += math.Log(f)
	}
	combined := math.Exp(logSum / float64(len(factors)))

	cap := baseRiskCap * combined
	if cap < minRiskCap {
		cap = minRiskCap
	}
	if cap > maxRiskCap {
		cap = maxRiskCap
	}
	return math.Round(cap*1000) / 1000
}

type bp struct {
	threshold  float64
	multiplier float64
}

type bpResult struct {
	value float64
	ok    bool
}

func (r bpResult) or(def float64) float64 {
	if r.ok {
		return r.value
	}
	return def
}

// breakpoints returns the multiplier of the first breakpoint whose threshold
// the metric meets or exceeds; thresholds must be listed descending.
func breakpoints(metric float64, bps ...bp) bpResult {
	for _, b := range bps {
		if metric >= b.threshold {
			return bpResult{value: b.multiplier, ok: true}
		}
	}
	return bpResult{}
}

// breakpointsBelow returns the multiplier of the first breakpoint whose
// threshold the metric is at or under; thresholds must be listed ascending.
func breakpointsBelow(metric float64, bps ...bp) bpResult {
	for _, b := range bps {
		if metric <= b.threshold {
			return bpResult{value: b.multiplier, ok: true}
		}
	}
	return bpResult{}
}
