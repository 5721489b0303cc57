// Package indicators implements the rolling-window calculations backing the
// signal engine. All functions are pure over fixed input slices and
// left-truncated: index i is undefined until i+1 >= window, and undefined
// values stay undefined rather than degrading to zero.
package indicators

import (
	"math"

	"cryptomomentum/internal/types"
)

// RollingMean computes the simple moving average of x over window w using a
// sliding sum. Entries before the window fills are undefined. A zero window
// yields an all-undefined result.
func RollingMean(x []float64, w int) []types.Float {
	out := make([]types.Float, len(x))
	if w <= 0 {
		return out
	}
	sum := 0.0
	for i := range x {
		sum += x[i]
		if i >= w {
			sum -= x[i-w]
		}
		if i+1 >= w {
			out[i] = types.F(sum / float64(w))
		}
	}
	return out
}

// RollingStd computes the population standard deviation of the trailing w
// elements of a return series, with the same left truncation as RollingMean.
func RollingStd(returns []float64, w int) []types.Float {
	out := make([]types.Float, len(returns))
	if w <= 0 {
		return out
	}
	for i := range returns {
		if i+1 < w {
			continue
		}
		s := returns[i+1-w : i+1]
		mean := 0.0
		for _, v := range s {
			mean += v
		}
		mean /= float64(len(s))
		variance := 0.0
		for _, v := range s {
			d := v - mean
			variance += d * d
		}
		variance /= float64(len(s))
		out[i] = types.F(math.Sqrt(variance))
	}
	return out
}

// TrueRange is the largest of |high-low|, |high-prevClose| and
// |low-prevClose|.
func TrueRange(high, low, prevClose float64) float64 {
	tr := math.Abs(high - low)
	if hc := math.Abs(high - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}

// RollingATR computes the trailing mean of daily true ranges over window w.
// Day 0 degrades to |high-low| (or 0 when high/low are absent); later days
// without high/low degrade to the absolute close-to-close move.
func RollingATR(high, low []types.Float, close []float64, w int) []types.Float {
	out := make([]types.Float, len(close))
	if w <= 0 {
		return out
	}
	trs := make([]float64, 0, len(close))
	sum := 0.0
	for i := range close {
		var tr float64
		switch {
		case i == 0:
			if high[i].Valid && low[i].Valid {
				tr = math.Abs(high[i].Value - low[i].Value)
			}
		case high[i].Valid && low[i].Valid:
			tr = TrueRange(high[i].Value, low[i].Value, close[i-1])
		default:
			tr = math.Abs(close[i] - close[i-1])
		}
		trs = append(trs, tr)
		sum += tr
		if i >= w {
			sum -= trs[i-w]
		}
		if i+1 >= w {
			out[i] = types.F(sum / float64(w))
		}
	}
	return out
}

// DailyReturns computes close-to-close fractional returns. The result has the
// same length as close, with a leading zero so that indices line up with the
// price series.
func DailyReturns(close []float64) []float64 {
	out := make([]float64, len(close))
	for i := 1; i < len(close); i++ {
		out[i] = (close[i] - close[i-1]) / close[i-1]
	}
	return out
}
