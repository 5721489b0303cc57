package types

import (
	"time"
)

// EquityPoint is one day of portfolio state. The equity curve starts at 1.0
// and is append-only: no point is revised after it is produced.
type EquityPoint struct {
	Date          time.Time `json:"date"`
	Equity        float64   `json:"equity"`
	DailyReturn   float64   `json:"port_ret"`
	PositionCount int       `json:"num_positions"`
	BaselineClose float64   `json:"baseline_close"`
}

// PortfolioMetrics are the run-level statistics of a completed equity curve.
type PortfolioMetrics struct {
	Days        int     `json:"days"`
	TotalReturn float64 `json:"total_return"`
	CAGR        float64 `json:"cagr"`
	// SharpeAnnualized is the daily Sharpe of non-zero returns scaled by
	// sqrt(365.25).
	SharpeAnnualized float64 `json:"sharpe_annualized"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	WinRate          float64 `json:"win_rate"`
}
