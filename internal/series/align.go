package series

import (
	"sort"
	"time"

	"cryptomomentum/internal/types"
)

// MinHistoryMargin is added to the long moving-average window when deciding
// whether a series (or the aligned calendar) is long enough to backtest.
const MinHistoryMargin = 10

// MinRequiredDays returns the minimum usable history for the given long MA
// window.
func MinRequiredDays(maLong int) int {
	return maLong + MinHistoryMargin
}

// Screen splits assets into those with at least MinRequiredDays(maLong) raw
// rows and those excluded for being too short. Exclusion is per asset and not
// fatal: one short history must not truncate the shared calendar for the
// rest.
func Screen(assets []*types.PriceSeries, maLong int) (kept, excluded []*types.PriceSeries) {
	need := MinRequiredDays(maLong)
	for _, s := range assets {
		if s.Len() >= need {
			kept = append(kept, s)
		} else {
			excluded = append(excluded, s)
		}
	}
	return kept, excluded
}

// Intersect returns the sorted set of dates present in every input series.
func Intersect(all []*types.PriceSeries) []time.Time {
	if len(all) == 0 {
		return nil
	}
	counts := make(map[time.Time]int)
	for _, s := range all {
		for _, b := range s.Bars {
			counts[b.Date]++
		}
	}
	var dates []time.Time
	for d, n := range counts {
		if n == len(all) {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Align intersects the baseline and all asset calendars and validates the
// result length against maLong. It fails with an InsufficientHistoryError
// before any simulation starts; there are no partial results.
func Align(baseline *types.PriceSeries, assets []*types.PriceSeries, maLong int) ([]time.Time, error) {
	all := make([]*types.PriceSeries, 0, len(assets)+1)
	all = append(all, baseline)
	all = append(all, assets...)
	dates := Intersect(all)

	need := MinRequiredDays(maLong)
	if len(dates) < need {
		e := &InsufficientHistoryError{Required: need, Actual: len(dates)}
		if len(dates) > 0 {
			e.From = dates[0]
			e.To = dates[len(dates)-1]
		}
		return nil, e
	}
	return dates, nil
}

// Project maps a series onto the aligned calendar, returning columnar close,
// high and low slices in calendar order. Every aligned date is guaranteed
// present in the series by construction.
func Project(s *types.PriceSeries, dates []time.Time) (close []float64, high, low []types.Float) {
	idx := s.IndexByDate()
	close = make([]float64, len(dates))
	high = make([]types.Float, len(dates))
	low = make([]types.Float, len(dates))
	for i, d := range dates {
		b := s.Bars[idx[d]]
		close[i] = b.Close
		high[i] = b.High
		low[i] = b.Low
	}
	return close, high, low
}
