package analyzer

import (
	"fmt"
	"io"

	"cryptomomentum/internal/types"
)

// WriteSummary writes the profitable-strategy report: the top performers by
// total return, by Sharpe ratio, and overall statistics.
func WriteSummary(w io.Writer, analyses []Analysis) {
	profitable := Profitable(analyses)
	if len(profitable) == 0 {
		fmt.Fprintln(w, "No profitable strategies found.")
		return
	}

	fmt.Fprintf(w, "Found %d profitable strategies out of %d total\n\n", len(profitable), len(analyses))

	fmt.Fprintln(w, "Top performing strategies (by total return)")
	writeTable(w, RankByReturn(profitable))

	fmt.Fprintln(w, "Top risk-adjusted strategies (by Sharpe ratio)")
	writeTable(w, RankBySharpe(profitable))

	var sumReturn, sumWinRate, sumSharpe float64
	for _, a := range profitable {
		sumReturn += a.Stats.TotalReturn
		sumWinRate += a.Stats.WinRate
		sumSharpe += a.Stats.SharpeRatio
	}
	n := float64(len(profitable))
	fmt.Fprintln(w, "Overall statistics")
	fmt.Fprintf(w, "  Strategies analyzed: %d\n", len(analyses))
	fmt.Fprintf(w, "  Profitable: %d (%.1f%%)\n", len(profitable), n/float64(len(analyses))*100)
	fmt.Fprintf(w, "  Average return (profitable): %.2f%%\n", sumReturn/n*100)
	fmt.Fprintf(w, "  Average win rate (profitable): %.1f%%\n", sumWinRate/n*100)
	fmt.Fprintf(w, "  Average Sharpe (profitable): %.2f\n\n", sumSharpe/n)
}

func writeTable(w io.Writer, ranked []Analysis) {
	fmt.Fprintf(w, "%-25s %-12s %-10s %-14s %-8s %-8s %-12s\n",
		"Asset", "Total Ret%", "Win Rate%", "Profit Factor", "Sharpe", "MaxDD%", "Trading Days")
	for _, a := range ranked {
		s := a.Stats
		fmt.Fprintf(w, "%-25s %-12.2f %-10.1f %-14.2f %-8.2f %-8.2f %-12d\n",
			s.Asset, s.TotalReturn*100, s.WinRate*100, s.ProfitFactor,
			s.SharpeRatio, s.MaxDrawdown*100, s.TradingDays)
	}
	fmt.Fprintln(w)
}

// WriteDetail writes one asset's summary and its trading-day signal rows.
func WriteDetail(w io.Writer, a Analysis) {
	s := a.Stats
	fmt.Fprintf(w, "%s analysis\n", s.Asset)
	fmt.Fprintf(w, "  Total Days: %d\n", s.TotalDays)
	fmt.Fprintf(w, "  Trading Days: %d\n", s.TradingDays)
	fmt.Fprintf(w, "  Total Return: %.2f%%\n", s.TotalReturn*100)
	fmt.Fprintf(w, "  Max Return: %.2f%%\n", s.MaxReturn*100)
	fmt.Fprintf(w, "  Min Return: %.2f%%\n", s.MinReturn*100)
	fmt.Fprintf(w, "  Win Rate: %.1f%%\n", s.WinRate*100)
	fmt.Fprintf(w, "  Avg Win: %.2f%%\n", s.AvgWin*100)
	fmt.Fprintf(w, "  Avg Loss: %.2f%%\n", s.AvgLoss*100)
	fmt.Fprintf(w, "  Profit Factor: %.2f\n", s.ProfitFactor)
	fmt.Fprintf(w, "  Max Drawdown: %.2f%%\n", s.MaxDrawdown*100)
	fmt.Fprintf(w, "  Sharpe Ratio: %.2f\n\n", s.SharpeRatio)

	fmt.Fprintf(w, "%-12s %-10s %-8s %-8s %-8s %-6s %-6s %-6s %-6s %-8s %-8s\n",
		"Date", "Close", "MA_S", "MA_L", "RS", "Trend", "Mom", "RS", "Score", "Weight", "Stop")
	for _, sig := range a.Signals {
		if sig.RawWeight == 0 {
			continue
		}
		fmt.Fprintf(w, "%-12s %-10.2f %-8.2f %-8.2f %-8.3f %-6v %-6v %-6v %-6d %-8.2f %-8.2f\n",
			sig.Date.Format(types.DateFormat), sig.Price,
			sig.MAShort.Or(0), sig.MALong.Or(0), sig.RS.Or(0),
			sig.TrendBull, sig.MomBull, sig.RSBull, sig.Score, sig.RawWeight, sig.StopLevel.Or(0))
	}
	fmt.Fprintln(w)
}
