package types

import (
	"time"
)

// DateFormat is the calendar-day layout used across CSV files and logs.
const DateFormat = "2006-01-02"

// Bar is one daily OHLC row. Close is mandatory; open/high/low may be absent
// depending on the data source.
type Bar struct {
	Date  time.Time `json:"date"`
	Open  Float     `json:"open"`
	High  Float     `json:"high"`
	Low   Float     `json:"low"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered-by-date daily series for one asset. Dates are
// strictly increasing with no duplicates; the series is read-only once built.
type PriceSeries struct {
	Name string
	Bars []Bar
}

// Len returns the number of rows.
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// Dates returns the series' calendar as a new slice.
func (s *PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Date
	}
	return out
}

// Closes returns the close column as a new slice.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// IndexByDate maps each date to its row index.
func (s *PriceSeries) IndexByDate() map[time.Time]int {
	idx := make(map[time.Time]int, len(s.Bars))
	for i, b := range s.Bars {
		idx[b.Date] = i
	}
	return idx
}

// LastDate returns the most recent date in the series, or the zero time when
// the series is empty.
func (s *PriceSeries) LastDate() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Date
}
