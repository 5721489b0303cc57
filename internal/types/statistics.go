package types

// Statistics aggregates one asset's signal history into backtest performance
// numbers. It is an immutable value object derived once per run.
type Statistics struct {
	Asset        string  `json:"asset"`
	TotalDays    int     `json:"total_days"`
	TradingDays  int     `json:"trading_days"`
	TotalReturn  float64 `json:"total_return"`
	MaxReturn    float64 `json:"max_return"`
	MinReturn    float64 `json:"min_return"`
	WinRate      float64 `json:"win_rate"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	ProfitFactor float64 `json:"profit_factor"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
}

// IsProfitable reports whether the strategy cleared all three profitability
// gates: positive total return, win rate above 50%, profit factor above 1.
func (s Statistics) IsProfitable() bool {
	return s.TotalReturn > 0 && s.WinRate > 0.5 && s.ProfitFactor > 1.0
}
