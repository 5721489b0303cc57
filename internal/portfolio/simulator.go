// Package portfolio aggregates per-asset signals into daily portfolio
// weights and advances a compounding equity curve, close to close.
package portfolio

import (
	"sort"
	"time"

	"cryptomomentum/internal/types"
)

// Simulate runs the day-by-day portfolio state machine over the aligned
// calendar. Day 0 is the baseline day: equity 1.0, no trades. For each later
// day, entries are decided on the prior close: yesterday's raw weight and
// stop level drive today's exposure, and a close below yesterday's stop
// forces that asset's weight to zero for the day. Qualifying long weights are
// normalized to sum to 1; if none qualify the portfolio holds cash. When
// hedgeWeight > 0 and the baseline was in a bear state yesterday, a short
// baseline position of that weight contributes -hedgeWeight * baselineReturn.
func Simulate(dates []time.Time, perAsset map[string][]types.DailySignal, baselineClose []float64, baselineBear []bool, hedgeWeight float64) []types.EquityPoint {
	// Deterministic asset order regardless of map iteration.
	names := make([]string, 0, len(perAsset))
	for name := range perAsset {
		names = append(names, name)
	}
	sort.Strings(names)

	curve := make([]types.EquityPoint, len(dates))
	if len(dates) == 0 {
		return curve
	}
	curve[0] = types.EquityPoint{Date: dates[0], Equity: 1.0, BaselineClose: baselineClose[0]}

	for i := 1; i < len(dates); i++ {
		type long struct {
			name   string
			weight float64
		}
		var longs []long
		longSum := 0.0
		for _, name := range names {
			sigs := perAsset[name]
			prev, now := sigs[i-1], sigs[i]

			w := prev.RawWeight
			if prev.StopLevel.Valid && now.Price < prev.StopLevel.Value {
				w = 0 // stopped out regardless of raw weight
			}
			if w > 0 {
				longs = append(longs, long{name: name, weight: w})
				longSum += w
			}
		}

		ret := 0.0
		if hedgeWeight > 0 && baselineBear[i-1] {
			baseRet := (baselineClose[i] - baselineClose[i-1]) / baselineClose[i-1]
			ret += -hedgeWeight * baseRet
		}

		positions := 0
		if longSum > 0 {
			positions = len(longs)
			for _, l := range longs {
				sigs := perAsset[l.name]
				assetRet := (sigs[i].Price - sigs[i-1].Price) / sigs[i-1].Price
				ret += (l.weight / longSum) * assetRet
			}
		}

		curve[i] = types.EquityPoint{
			Date:          dates[i],
			Equity:        curve[i-1].Equity * (1 + ret),
			DailyReturn:   ret,
			PositionCount: positions,
			BaselineClose: baselineClose[i],
		}
	}
	return curve
}
