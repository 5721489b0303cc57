package types

import (
	"time"
)

// DailySignal is the full per-asset, per-day output of the signal engine.
// Signals are created once per backtest run and are immutable afterwards.
type DailySignal struct {
	Date      time.Time `json:"date"`
	Price     float64   `json:"close"`
	MAShort   Float     `json:"ma_short"`
	MALong    Float     `json:"ma_long"`
	RS        Float     `json:"rs"`
	RSMAShort Float     `json:"rs_ma_short"`
	RSMALong  Float     `json:"rs_ma_long"`
	TrendBull bool      `json:"trend_bull"`
	MomBull   bool      `json:"mom_bull"`
	RSBull    bool      `json:"rs_bull"`
	Score     int       `json:"score"`
	RawWeight float64   `json:"raw_weight"`
	StopLevel Float     `json:"stop_level"`
}

// SignalColumns is the header of an exported signal table, in column order.
var SignalColumns = []string{
	"date", "close", "ma_short", "ma_long", "rs", "rs_ma_short", "rs_ma_long",
	"trend_bull", "mom_bull", "rs_bull", "score", "raw_weight", "stop_level",
}
