// Package signal turns aligned daily price series into per-asset daily
// signals: trend/momentum/relative-strength booleans, a 0-3 score, a raw
// directional weight and a stop level.
package signal

import (
	"time"

	"cryptomomentum/internal/indicators"
	"cryptomomentum/internal/series"
	"cryptomomentum/internal/types"
)

// Params are the fully-populated signal-engine parameters. Defaulting happens
// at the configuration boundary; nothing here is optional.
type Params struct {
	MAShort      int
	MALong       int
	StopLookback int
	ATRMult      float64
	VolMult      float64
	MinSignals   int
	ShortAlts    bool
}

// Engine computes daily signals for assets against a fixed baseline close
// series over a fixed aligned calendar. It holds no mutable state.
type Engine struct {
	params        Params
	dates         []time.Time
	baselineClose []float64
}

// NewEngine prepares an engine for one aligned calendar. baselineClose must
// be the baseline series projected onto dates.
func NewEngine(params Params, dates []time.Time, baselineClose []float64) *Engine {
	return &Engine{params: params, dates: dates, baselineClose: baselineClose}
}

// Compute produces the full signal history for one asset projected onto the
// engine's calendar. Every quantity on day i is a pure function of the
// aligned history up to and including day i, with one documented exception:
// the volatility stop fallback reads day i-1's rolling return std against day
// i's close.
func (e *Engine) Compute(asset *types.PriceSeries) []types.DailySignal {
	p := e.params
	close, high, low := series.Project(asset, e.dates)

	maShort := indicators.RollingMean(close, p.MAShort)
	maLong := indicators.RollingMean(close, p.MALong)

	// Relative-strength line against the baseline, and its MAs.
	rs := make([]float64, len(close))
	for i := range close {
		rs[i] = close[i] / e.baselineClose[i]
	}
	rsMAShort := indicators.RollingMean(rs, p.MAShort)
	rsMALong := indicators.RollingMean(rs, p.MALong)

	atr := indicators.RollingATR(high, low, close, p.StopLookback)
	retStd := indicators.RollingStd(indicators.DailyReturns(close), p.StopLookback)

	signals := make([]types.DailySignal, len(e.dates))
	for i := range e.dates {
		trendBull := maLong[i].Valid && close[i] > maLong[i].Value
		momBull := bothAbove(maShort[i], maLong[i])
		rsBull := bothAbove(rsMAShort[i], rsMALong[i])

		score := 0
		for _, b := range []bool{trendBull, momBull, rsBull} {
			if b {
				score++
			}
		}

		raw := 0.0
		switch {
		case score == 3:
			raw = 1.0
		case score >= p.MinSignals && rsBull:
			raw = 0.5
		case p.ShortAlts:
			// Strict 3/3 bear inverse of the bull tests.
			trendBear := maLong[i].Valid && close[i] < maLong[i].Value
			momBear := bothBelow(maShort[i], maLong[i])
			rsBear := bothBelow(rsMAShort[i], rsMALong[i])
			if trendBear && momBear && rsBear {
				raw = -1.0
			}
		}

		var stop types.Float
		switch {
		case atr[i].Valid && atr[i].Value > 0:
			stop = types.F(close[i] - p.ATRMult*atr[i].Value)
		case i > 0 && retStd[i-1].Valid:
			stop = types.F(close[i] * (1 - p.VolMult*retStd[i-1].Value))
		}

		signals[i] = types.DailySignal{
			Date:      e.dates[i],
			Price:     close[i],
			MAShort:   maShort[i],
			MALong:    maLong[i],
			RS:        types.F(rs[i]),
			RSMAShort: rsMAShort[i],
			RSMALong:  rsMALong[i],
			TrendBull: trendBull,
			MomBull:   momBull,
			RSBull:    rsBull,
			Score:     score,
			RawWeight: raw,
			StopLevel: stop,
		}
	}
	return signals
}

// BaselineBear reports, per aligned day, whether the baseline itself is in a
// bear state: close below its long MA with the short MA also below the long
// MA. Days with undefined MAs are not bear.
func (e *Engine) BaselineBear() []bool {
	maShort := indicators.RollingMean(e.baselineClose, e.params.MAShort)
	maLong := indicators.RollingMean(e.baselineClose, e.params.MALong)
	out := make([]bool, len(e.baselineClose))
	for i := range out {
		out[i] = maShort[i].Valid && maLong[i].Valid &&
			e.baselineClose[i] < maLong[i].Value && maShort[i].Value < maLong[i].Value
	}
	return out
}

func bothAbove(a, b types.Float) bool {
	return a.Valid && b.Valid && a.Value > b.Value
}

func bothBelow(a, b types.Float) bool {
	return a.Valid && b.Valid && a.Value < b.Value
}
