package insights

// FallbackProvider derives commentary from the metrics alone. It is fully
// deterministic and never fails, which makes it the terminal fallback for
// every other provider.
type FallbackProvider struct{}

// NewFallbackProvider returns the deterministic offline provider.
func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{}
}

// Summarize maps metric bands to fixed commentary. Thresholds are against
// the same units the playbook uses: TotalReturn as a fraction, WinRate and
// MaxDrawdown as percents.
func (p *FallbackProvider) Summarize(m Metrics) (Insights, error) {
	out := Insights{
		Asset:         m.Asset,
		MarketContext: "Market analysis unavailable - using fallback metrics",
	}

	switch {
	case m.TotalReturn > 1000:
		out.TradingNotes = append(out.TradingNotes,
			"Exceptional momentum - consider scaling in gradually to manage volatility risk")
		out.RiskAssessment = "High return potential but extreme volatility risk"
	case m.TotalReturn > 100:
		out.TradingNotes = append(out.TradingNotes,
			"Strong momentum trend - monitor for continuation signals")
		out.RiskAssessment = "High return with moderate volatility"
	case m.TotalReturn > 10:
		out.TradingNotes = append(out.TradingNotes,
			"Solid performance - suitable for core portfolio allocation")
		out.RiskAssessment = "Moderate risk with good return potential"
	default:
		out.TradingNotes = append(out.TradingNotes,
			"Conservative performance - consider for risk management")
		out.RiskAssessment = "Low risk, modest returns"
	}

	switch {
	case m.SharpeRatio > 2:
		out.TradingNotes = append(out.TradingNotes,
			"Excellent risk-adjusted returns - increase position size")
		out.Recommendations = append(out.Recommendations,
			"Consider larger position size due to high Sharpe ratio")
	case m.SharpeRatio > 1:
		out.TradingNotes = append(out.TradingNotes,
			"Good risk-adjusted performance - maintain current sizing")
		out.Recommendations = append(out.Recommendations,
			"Standard position sizing appropriate")
	default:
		out.TradingNotes = append(out.TradingNotes,
			"Lower risk-adjusted returns - consider reducing position size")
		out.Recommendations = append(out.Recommendations,
			"Consider smaller position size due to lower Sharpe ratio")
	}

	if m.WinRate > 80 {
		out.TradingNotes = append(out.TradingNotes,
			"High win rate suggests strong signal quality")
	} else if m.WinRate < 50 {
		out.TradingNotes = append(out.TradingNotes,
			"Low win rate - review entry criteria and market conditions")
	}

	if m.MaxDrawdown > 20 {
		out.TradingNotes = append(out.TradingNotes,
			"High drawdown risk - implement strict stop losses")
		out.Recommendations = append(out.Recommendations,
			"Use tighter stop losses to manage drawdown risk")
	}

	return out, nil
}
