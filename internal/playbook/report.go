package playbook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"cryptomomentum/internal/types"
)

// WritePlans writes the ranked playbook report, including the shared rule
// definitions that apply to every plan.
func WritePlans(w io.Writer, plans []types.TradePlan) {
	fmt.Fprintln(w, "Shared definitions (from the ruleset):")
	fmt.Fprintln(w, "  Signals")
	fmt.Fprintln(w, "    Trend: close > long MA")
	fmt.Fprintln(w, "    Momentum: short MA > long MA")
	fmt.Fprintln(w, "    RS (vs baseline): RS short MA > RS long MA")
	fmt.Fprintln(w, "  Position sizing")
	fmt.Fprintln(w, "    Full when 3/3 signals = 1.00 raw weight")
	fmt.Fprintln(w, "    Half when enough signals AND RS bullish = 0.50 raw weight")
	fmt.Fprintln(w, "    The portfolio normalizes across all raw>0 names daily; optional baseline-short hedge in baseline bear state")
	fmt.Fprintln(w, "  Stops / targets")
	fmt.Fprintln(w, "    Initial stop: close - 3.0 x ATR14 (fallback: close x (1 - 2.5 x rolling_std14))")
	fmt.Fprintln(w, "    Profit-taking: scale 50% at +2R, then trail the rest")
	fmt.Fprintln(w, "    Hard exit if close < long MA or RS flips bearish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Expected return below is a historical sample, not a forward projection.")
	fmt.Fprintln(w)

	for i, p := range plans {
		fmt.Fprintf(w, "%d) %s\n", i+1, p.Asset)
		fmt.Fprintf(w, "   Entry (primary): %s\n", p.EntryRules.Primary)
		if p.EntryRules.Alternative != "" {
			fmt.Fprintf(w, "   Alt entry: %s\n", p.EntryRules.Alternative)
		}
		fmt.Fprintf(w, "   Exit: %s\n", p.ExitRules.ProfitTaking)
		fmt.Fprintf(w, "   Stop: %s\n", p.ExitRules.StopLoss)
		fmt.Fprintf(w, "   Size: Full (3/3) or Half (partial+RS). Cap single-name risk at %.1f%% of equity.\n",
			p.PositionSizing.RiskCapPercent)
		fmt.Fprintf(w, "   Conviction: High (%.0f%%) on 3/3; Medium (%.0f%%) on partial+RS.\n",
			p.Conviction.High*100, p.Conviction.Medium*100)
		fmt.Fprintf(w, "   Expected: %s\n", p.BacktestStats.ExpectedReturn)
		fmt.Fprintf(w, "   Notes: %s\n\n", p.Notes)
	}
}

// WriteExecution writes the concrete order parameters of one plan.
func WriteExecution(w io.Writer, p types.TradePlan) {
	cv := p.Computed
	fmt.Fprintf(w, "Execution for %s\n", p.Asset)
	fmt.Fprintf(w, "  Price $%.2f, long MA $%.2f, short MA $%.2f, ATR14 $%.4f, vol %.1f%%\n",
		cv.CurrentPrice, cv.MALong, cv.MAShort, cv.ATR, cv.Volatility*100)
	fmt.Fprintf(w, "  Signals: trend=%v momentum=%v rs=%v all=%v partial=%v strength=%.0f%%\n",
		cv.TrendSignal, cv.MomentumSignal, cv.RSSignal, cv.AllSignals, cv.PartialSignals, cv.SignalStrength*100)
	fmt.Fprintf(w, "  Stop $%.2f (-%.1f%%), risk/share $%.4f\n", cv.StopPrice, cv.StopLossPercent, cv.RiskPerShare)
	fmt.Fprintf(w, "  Shares: by risk %.0f, by position %.0f, recommended %d (value $%.2f, %.1f%% of portfolio)\n",
		cv.MaxSharesByRisk, cv.MaxSharesByPosition, cv.RecommendedShares, cv.PositionValue, cv.PositionPercent*100)
	fmt.Fprintf(w, "  Target $%.2f (+%.1f%%): scale out %d, trail %d\n",
		cv.ProfitTarget, cv.ProfitTargetPercent, cv.ScaleOutShares, cv.RemainingShares)
	fmt.Fprintf(w, "  Risk: portfolio %.2f%%, R:R %.1f:1, max loss $%.2f, max gain $%.2f\n",
		cv.PortfolioRisk*100, cv.RiskRewardRatio, cv.MaxLoss, cv.MaxGain)
	fmt.Fprintf(w, "  Extended: %v (%.1f%% above long MA), pullback price $%.2f\n\n",
		cv.IsExtended, cv.ExtendedPercent, cv.PullbackPrice)
}

// SaveJSON writes plans to a pretty-printed JSON file.
func SaveJSON(plans []types.TradePlan, path string) error {
	data, err := json.MarshalIndent(plans, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
