// Package playbook converts backtest statistics and the latest daily signal
// into position-sizing playbooks: risk-capped share counts, stop and target
// prices, and conviction tiers.
package playbook

import (
	"fmt"
	"sort"

	"cryptomomentum/internal/insights"
	"cryptomomentum/internal/types"
)

// AnalysisInput is one asset's completed backtest: its statistics and the
// signal history they came from.
type AnalysisInput struct {
	Stats   types.Statistics
	Signals []types.DailySignal
}

// Params are the fully-populated builder parameters.
type Params struct {
	// PortfolioValue is the assumed account size the share counts are
	// computed against.
	PortfolioValue float64
	// MinSignals mirrors the signal engine's half-weight gate so the plan's
	// partial-signal display matches the weight actually simulated.
	MinSignals int
}

// Builder derives trade plans. The notes provider is injected; when it fails
// the deterministic fallback supplies the text, so building never fails on
// account of commentary.
type Builder struct {
	params   Params
	provider insights.Provider
	fallback *insights.FallbackProvider
}

// NewBuilder returns a builder using the given insight provider. A nil
// provider means offline-only notes.
func NewBuilder(params Params, provider insights.Provider) *Builder {
	return &Builder{
		params:   params,
		provider: provider,
		fallback: insights.NewFallbackProvider(),
	}
}

// Build derives one asset's trade plan. The risk cap is derived in two
// passes: a provisional pass with the 1% base cap feeds the ten-factor
// blend, whose output sizes the final pass.
func (b *Builder) Build(a AnalysisInput) types.TradePlan {
	stats := a.Stats
	conv := conviction(stats)
	mode := executionMode(stats)

	provisional := computeValues(a, mode, baseRiskCap, b.params.PortfolioValue, b.params.MinSignals)
	cap := riskCap(stats, provisional)
	cv := computeValues(a, mode, cap, b.params.PortfolioValue, b.params.MinSignals)

	primary := "Go long EOD when 3/3 signals (trend + momentum + RS). Use signal-at-close execution only."
	alternative := "Market-on-close entry preferred due to liquidity constraints."
	if mode.PullbackToMALong {
		primary = fmt.Sprintf(
			"Go long EOD when 3/3 signals (trend + momentum + RS). Alt entry: limit buy at the long MA if price is extended (>%.0f%% above it) on signal day.",
			mode.ExtendedThreshold*100)
		alternative = "Staggered entry: 50% at signal close, 50% at the long-MA limit if extended."
	}

	return types.TradePlan{
		Asset: stats.Asset,
		EntryRules: types.EntryRules{
			Primary:     primary,
			Alternative: alternative,
			Conditions: types.SignalConditions{
				Trend:      "close > long MA",
				Momentum:   "short MA > long MA",
				RS:         "RS short MA > RS long MA",
				FullWeight: "3/3 signals = 1.00 raw weight",
				HalfWeight: fmt.Sprintf(">=%d/3 AND RS bullish = 0.50 raw weight", b.params.MinSignals),
			},
		},
		ExitRules: types.ExitRules{
			ProfitTaking: "Scale 50% at +2R (R = initial risk from entry to stop), then trail the rest",
			StopLoss:     "Initial stop: close - 3.0 x ATR14 (fallback: close x (1 - 2.5 x rolling_std14))",
			TrailingStop: "Ratchet stop to max(prior stop, close - 3.0 x ATR14) each day",
			HardExit:     "Hard exit if close < long MA or RS flips bearish",
		},
		PositionSizing: types.PositionSizing{
			FullWeight:     1.0,
			HalfWeight:     0.5,
			RiskCapPercent: cap * 100,
			RiskCalculation: fmt.Sprintf(
				"R = entry_price - stop_price; units = min(raw_weight_normalized x portfolio_value / entry_price, (%.1f%% x portfolio_value) / R). Risk per share: $%.2f, max by risk: %.0f, max by position: %.0f, recommended: %d",
				cap*100, cv.RiskPerShare, cv.MaxSharesByRisk, cv.MaxSharesByPosition, cv.RecommendedShares),
		},
		Conviction: conv,
		BacktestStats: types.BacktestStats{
			TotalReturnPercent: stats.TotalReturn * 100,
			SharpeRatio:        stats.SharpeRatio,
			WinRatePercent:     stats.WinRate * 100,
			MaxDrawdownPercent: stats.MaxDrawdown * 100,
			TradingDays:        stats.TradingDays,
			ExpectedReturn: fmt.Sprintf("+%.2f%%, Sharpe %.2f, Win %.1f%%, MaxDD %.2f%%, %d days",
				stats.TotalReturn*100, stats.SharpeRatio, stats.WinRate*100,
				stats.MaxDrawdown*100, stats.TradingDays),
		},
		Execution: mode,
		Computed:  cv,
		Notes:     b.notes(stats, cv),
	}
}

// TopPlans builds plans for the n most profitable assets, ranked by total
// return.
func (b *Builder) TopPlans(analyses []AnalysisInput, n int) []types.TradePlan {
	var profitable []AnalysisInput
	for _, a := range analyses {
		if a.Stats.IsProfitable() {
			profitable = append(profitable, a)
		}
	}
	sort.SliceStable(profitable, func(i, j int) bool {
		return profitable[i].Stats.TotalReturn > profitable[j].Stats.TotalReturn
	})
	if n > 0 && len(profitable) > n {
		profitable = profitable[:n]
	}
	plans := make([]types.TradePlan, 0, len(profitable))
	for _, a := range profitable {
		plans = append(plans, b.Build(a))
	}
	return plans
}

func (b *Builder) notes(stats types.Statistics, cv types.ComputedValues) string {
	m := insights.Metrics{
		Asset:        stats.Asset,
		TotalReturn:  stats.TotalReturn,
		SharpeRatio:  stats.SharpeRatio,
		WinRate:      stats.WinRate * 100,
		MaxDrawdown:  stats.MaxDrawdown * 100,
		TradingDays:  stats.TradingDays,
		ProfitFactor: stats.ProfitFactor,
		CurrentPrice: cv.CurrentPrice,
		MALong:       cv.MALong,
		MAShort:      cv.MAShort,
		RSMAShort:    cv.RSMAShort,
		RSMALong:     cv.RSMALong,
		ATR:          cv.ATR,
		Volatility:   cv.Volatility,
	}
	if b.provider != nil {
		if in, err := b.provider.Summarize(m); err == nil {
			return in.Notes()
		}
	}
	in, _ := b.fallback.Summarize(m)
	return in.Notes()
}
