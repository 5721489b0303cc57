package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cryptomomentum/internal/analyzer"
	"cryptomomentum/internal/types"
)

// Export writes the per-asset signal tables, the equity curve and the run
// summary into the configured signals directory.
func (r *Runner) Export(results *Results) error {
	dir := r.cfg.Data.SignalsDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create signals directory: %w", err)
	}

	for _, asset := range results.Assets {
		path := filepath.Join(dir, analyzer.SignalFilePrefix+asset+".csv")
		if err := WriteSignalsCSV(path, results.PerAsset[asset]); err != nil {
			return fmt.Errorf("export signals for %s: %w", asset, err)
		}
	}

	if err := WriteEquityCSV(filepath.Join(dir, "equity_curve.csv"), results.Curve); err != nil {
		return fmt.Errorf("export equity curve: %w", err)
	}

	if err := writeMetricsSummary(filepath.Join(dir, "metrics.txt"), results); err != nil {
		return fmt.Errorf("export metrics: %w", err)
	}
	return nil
}

// WriteSignalsCSV writes one asset's signal table. Undefined indicator values
// export as empty cells, never as zero.
func WriteSignalsCSV(path string, signals []types.DailySignal) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(types.SignalColumns); err != nil {
		return err
	}
	for _, s := range signals {
		rec := []string{
			s.Date.Format(types.DateFormat),
			strconv.FormatFloat(s.Price, 'f', -1, 64),
			s.MAShort.String(),
			s.MALong.String(),
			s.RS.String(),
			s.RSMAShort.String(),
			s.RSMALong.String(),
			strconv.FormatBool(s.TrendBull),
			strconv.FormatBool(s.MomBull),
			strconv.FormatBool(s.RSBull),
			strconv.Itoa(s.Score),
			strconv.FormatFloat(s.RawWeight, 'f', -1, 64),
			s.StopLevel.String(),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteEquityCSV writes the portfolio equity curve.
func WriteEquityCSV(path string, curve []types.EquityPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "equity", "port_ret", "num_positions", "baseline_close"}); err != nil {
		return err
	}
	for _, p := range curve {
		rec := []string{
			p.Date.Format(types.DateFormat),
			strconv.FormatFloat(p.Equity, 'f', -1, 64),
			strconv.FormatFloat(p.DailyReturn, 'f', -1, 64),
			strconv.Itoa(p.PositionCount),
			strconv.FormatFloat(p.BaselineClose, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeMetricsSummary(path string, results *Results) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m := results.Metrics
	fmt.Fprintf(f, "Run %s\n", results.RunID)
	fmt.Fprintf(f, "Assets: %d (excluded: %d)\n", len(results.Assets), len(results.Excluded))
	fmt.Fprintf(f, "Days: %d (%s to %s)\n", m.Days,
		results.Dates[0].Format(types.DateFormat),
		results.Dates[len(results.Dates)-1].Format(types.DateFormat))
	fmt.Fprintf(f, "Total return: %.2f%%\n", m.TotalReturn*100)
	fmt.Fprintf(f, "CAGR: %.2f%%\n", m.CAGR*100)
	fmt.Fprintf(f, "Sharpe (annualized): %.2f\n", m.SharpeAnnualized)
	fmt.Fprintf(f, "Max drawdown: %.2f%%\n", m.MaxDrawdown*100)
	fmt.Fprintf(f, "Win rate: %.2f%%\n", m.WinRate*100)
	return nil
}
