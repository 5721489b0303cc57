package playbook

import (
	"math"

	"cryptomomentum/internal/types"
)

const (
	// stopATRMult fixes plan stops at 3 ATR below entry; profit targets are
	// expressed in R multiples of that distance.
	stopATRMult = 3.0
	atrPeriod   = 14
)

// computeValues turns the latest signal plus statistics into concrete order
// parameters under the given risk cap. It is a pure function; the builder
// runs it twice (a provisional pass feeds the risk-cap blend, the final pass
// uses the derived cap).
func computeValues(a AnalysisInput, mode types.ExecutionMode, riskCap, portfolioValue float64, minSignals int) types.ComputedValues {
	signals := a.Signals
	if len(signals) == 0 {
		return types.ComputedValues{}
	}

	latest := signals[len(signals)-1]
	price := latest.Price
	maLong := latest.MALong.Or(price)
	maShort := latest.MAShort.Or(price)
	rsShort := latest.RSMAShort.Or(1)
	rsLong := latest.RSMALong.Or(1)

	atr := closeATR(signals, atrPeriod)
	vol := annualizedVolatility(signals, atrPeriod)

	trend := price > maLong
	momentum := maShort > maLong
	rs := rsShort > rsLong
	score := 0
	for _, b := range []bool{trend, momentum, rs} {
		if b {
			score++
		}
	}
	all := score == 3
	// Kept in lockstep with the simulator's half-weight condition.
	partial := score >= minSignals && rs

	stopPrice := price - stopATRMult*atr
	riskPerShare := price - stopPrice
	maxByRisk := portfolioValue * riskCap / riskPerShare
	maxPositionPct := riskCap / math.Max(0.01, riskPerShare/price)
	maxByPosition := portfolioValue * math.Min(1, maxPositionPct) / price
	recommended := uint64(math.Floor(math.Min(maxByRisk, maxByPosition)))
	positionValue := float64(recommended) * price

	profitTarget := price + 2*riskPerShare
	scaleOut := uint64(float64(recommended) * 0.5)

	strength := 0.0
	if all {
		strength = 1.0
	} else if partial {
		strength = 0.5
	}

	isExtended := price > maLong*(1+mode.ExtendedThreshold)
	extendedPct := 0.0
	if isExtended {
		extendedPct = (price/maLong - 1) * 100
	}

	return types.ComputedValues{
		CurrentPrice: price,
		MALong:       maLong,
		MAShort:      maShort,
		RSMAShort:    rsShort,
		RSMALong:     rsLong,
		ATR:          atr,
		Volatility:   vol,

		TrendSignal:    trend,
		MomentumSignal: momentum,
		RSSignal:       rs,
		AllSignals:     all,
		PartialSignals: partial,
		SignalStrength: strength,

		StopPrice:           stopPrice,
		RiskPerShare:        riskPerShare,
		MaxSharesByRisk:     maxByRisk,
		MaxSharesByPosition: maxByPosition,
		RecommendedShares:   recommended,
		PositionValue:       positionValue,
		PositionPercent:     positionValue / portfolioValue,

		ProfitTarget:        profitTarget,
		ProfitTargetPercent: (profitTarget/price - 1) * 100,
		ScaleOutShares:      scaleOut,
		RemainingShares:     recommended - scaleOut,
		ScaleOutValue:       float64(scaleOut) * profitTarget,

		InitialStop:     stopPrice,
		StopLossPercent: (1 - stopPrice/price) * 100,
		TrailingStop:    stopPrice,
		StopDistanceATR: stopATRMult,

		PortfolioRisk:   float64(recommended) * riskPerShare / portfolioValue,
		RiskRewardRatio: (profitTarget - price) / riskPerShare,
		MaxLoss:         float64(recommended) * riskPerShare,
		MaxGain:         float64(recommended) * (profitTarget - price),

		IsExtended:      isExtended,
		PullbackPrice:   maLong,
		ExtendedPercent: extendedPct,
	}
}

// closeATR approximates ATR from a signal table, which carries closes only:
// the true range degrades to the absolute close-to-close move. With fewer
// than period ranges it averages what exists.
func closeATR(signals []types.DailySignal, period int) float64 {
	if len(signals) < 2 {
		return 0
	}
	ranges := make([]float64, 0, len(signals)-1)
	for i := 1; i < len(signals); i++ {
		ranges = append(ranges, math.Abs(signals[i].Price-signals[i-1].Price))
	}
	if len(ranges) < period {
		sum := 0.0
		for _, r := range ranges {
			sum += r
		}
		return sum / float64(len(ranges))
	}
	sum := 0.0
	for _, r := range ranges[len(ranges)-period:] {
		sum += r
	}
	return sum / float64(period)
}

// annualizedVolatility is the standard deviation of the last period log
// returns scaled by sqrt(252). Histories shorter than the period yield 0.
func annualizedVolatility(signals []types.DailySignal, period int) float64 {
	if len(signals) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(signals)-1)
	for i := 1; i < len(signals); i++ {
		returns = append(returns, math.Log(signals[i].Price/signals[i-1].Price))
	}
	if len(returns) < period {
		return 0
	}
	recent := returns[len(returns)-period:]
	mean := 0.0
	for _, r := range recent {
		mean += r
	}
	mean /= float64(period)
	variance := 0.0
	for _, r := range recent {
		d := r - mean
		variance += d * d
	}
	variance /= float64(period)
	return math.Sqrt(variance) * math.Sqrt(252)
}
