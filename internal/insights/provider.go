// Package insights produces free-text commentary for trade plans. The
// playbook builder depends only on the Provider interface; callers choose
// between the network-backed implementation and the deterministic offline
// one. Provider failures never propagate: callers fall back to Fallback.
package insights

// Metrics is the precomputed numeric input a provider summarizes. Providers
// receive numbers only; they never reach back into the simulation core.
type Metrics struct {
	Asset        string  `json:"asset"`
	TotalReturn  float64 `json:"total_return"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	WinRate      float64 `json:"win_rate"`      // percent
	MaxDrawdown  float64 `json:"max_drawdown"`  // percent
	TradingDays  int     `json:"trading_days"`
	ProfitFactor float64 `json:"profit_factor"`
	CurrentPrice float64 `json:"current_price"`
	MALong       float64 `json:"ma_long"`
	MAShort      float64 `json:"ma_short"`
	RSMAShort    float64 `json:"rs_ma_short"`
	RSMALong     float64 `json:"rs_ma_long"`
	ATR          float64 `json:"atr_14"`
	Volatility   float64 `json:"volatility"`
}

// Insights is the structured text a provider returns.
type Insights struct {
	Asset           string   `json:"asset"`
	TradingNotes    []string `json:"trading_notes"`
	RiskAssessment  string   `json:"risk_assessment"`
	Recommendations []string `json:"execution_recommendations"`
	MarketContext   string   `json:"market_context"`
}

// Provider summarizes precomputed metrics into trading commentary.
type Provider interface {
	Summarize(metrics Metrics) (Insights, error)
}

// Notes flattens insights into the single notes line embedded in a plan.
func (in Insights) Notes() string {
	out := ""
	for _, n := range in.TradingNotes {
		if out != "" {
			out += "; "
		}
		out += n
	}
	if in.RiskAssessment != "" {
		if out != "" {
			out += "; "
		}
		out += "Risk: " + in.RiskAssessment
	}
	for _, r := range in.Recommendations {
		if out != "" {
			out += "; "
		}
		out += r
	}
	if in.MarketContext != "" {
		if out != "" {
			out += "; "
		}
		out += "Context: " + in.MarketContext
	}
	return out
}
