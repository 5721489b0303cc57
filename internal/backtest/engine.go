// Package backtest runs the full pipeline: load daily series, align them on
// a shared calendar, compute signals, simulate the portfolio and export the
// result tables.
package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cryptomomentum/internal/analyzer"
	"cryptomomentum/internal/config"
	"cryptomomentum/internal/logging"
	"cryptomomentum/internal/portfolio"
	"cryptomomentum/internal/recorder"
	"cryptomomentum/internal/series"
	"cryptomomentum/internal/signal"
	"cryptomomentum/internal/types"

	"github.com/google/uuid"
)

// Runner executes one backtest over the series found in the data directory.
type Runner struct {
	cfg    *config.Config
	rec    recorder.Recorder
	logger *logging.Logger
}

// Results is everything one run produced.
type Results struct {
	RunID    string
	Dates    []time.Time
	Assets   []string
	Excluded []string

	PerAsset     map[string][]types.DailySignal
	BaselineBear []bool

	Curve   []types.EquityPoint
	Metrics types.PortfolioMetrics

	Analyses []analyzer.Analysis
}

// NewRunner creates a runner. A nil recorder disables run persistence.
func NewRunner(cfg *config.Config, rec recorder.Recorder) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{
		cfg:    cfg,
		rec:    rec,
		logger: logging.NewComponentLogger("backtest"),
	}
}

// Run executes the pipeline end to end. A malformed or too-short asset file
// is excluded with a warning; a missing baseline or an aligned calendar
// shorter than the minimum is fatal.
func (r *Runner) Run() (*Results, error) {
	runID := uuid.New().String()
	cfg := r.cfg

	baseline, assets, excluded, err := r.loadSeries(cfg.Data.OutDir)
	if err != nil {
		return nil, err
	}

	kept, short := series.Screen(assets, cfg.Strategy.MALong)
	for _, s := range short {
		r.logger.LogAssetExcluded(s.Name, fmt.Sprintf("only %d rows, need %d", s.Len(), series.MinRequiredDays(cfg.Strategy.MALong)))
		excluded = append(excluded, s.Name)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("no assets with sufficient history in %s", cfg.Data.OutDir)
	}

	dates, err := series.Align(baseline, kept, cfg.Strategy.MALong)
	if err != nil {
		return nil, err
	}
	baselineClose, _, _ := series.Project(baseline, dates)

	r.logger.LogRun(runID, len(kept), len(dates))

	engine := signal.NewEngine(signal.Params{
		MAShort:      cfg.Strategy.MAShort,
		MALong:       cfg.Strategy.MALong,
		StopLookback: cfg.Strategy.StopLookback,
		ATRMult:      cfg.Strategy.ATRMult,
		VolMult:      cfg.Strategy.VolMult,
		MinSignals:   cfg.Strategy.MinSignals,
		ShortAlts:    cfg.Strategy.ShortAlts,
	}, dates, baselineClose)

	perAsset := make(map[string][]types.DailySignal, len(kept))
	names := make([]string, 0, len(kept))
	for _, s := range kept {
		signals := engine.Compute(s)
		perAsset[s.Name] = signals
		names = append(names, s.Name)

		full, half := 0, 0
		for _, sig := range signals {
			switch sig.RawWeight {
			case 1.0:
				full++
			case 0.5:
				half++
			}
		}
		r.logger.LogSignals(s.Name, len(signals), full, half)
	}
	sort.Strings(names)

	baselineBear := engine.BaselineBear()
	curve := portfolio.Simulate(dates, perAsset, baselineClose, baselineBear, cfg.Strategy.BaselineHedge)
	metrics := portfolio.Metrics(curve)
	r.logger.LogPortfolio(metrics.TotalReturn, metrics.CAGR, metrics.SharpeAnnualized, metrics.MaxDrawdown, metrics.WinRate)

	analyses := make([]analyzer.Analysis, 0, len(names))
	for _, name := range names {
		analyses = append(analyses, analyzer.Analyze(name, perAsset[name]))
	}

	results := &Results{
		RunID:        runID,
		Dates:        dates,
		Assets:       names,
		Excluded:     excluded,
		PerAsset:     perAsset,
		BaselineBear: baselineBear,
		Curve:        curve,
		Metrics:      metrics,
		Analyses:     analyses,
	}

	if err := r.Export(results); err != nil {
		return nil, err
	}
	r.record(results)

	return results, nil
}

// loadSeries reads every CSV in dir. The baseline is picked out by name;
// malformed files are excluded with a warning rather than failing the run.
func (r *Runner) loadSeries(dir string) (baseline *types.PriceSeries, assets []*types.PriceSeries, excluded []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read data directory: %w", err)
	}

	baselineName := strings.ToUpper(r.cfg.Data.BaselineName)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		path := filepath.Join(dir, name)
		s, err := series.ReadCSV(path)
		if err != nil {
			r.logger.LogAssetExcluded(strings.TrimSuffix(name, filepath.Ext(name)), err.Error())
			excluded = append(excluded, strings.TrimSuffix(name, filepath.Ext(name)))
			continue
		}
		if strings.ToUpper(s.Name) == baselineName {
			baseline = s
		} else {
			assets = append(assets, s)
		}
	}

	if baseline == nil {
		return nil, nil, nil, fmt.Errorf("baseline series %q not found in %s", r.cfg.Data.BaselineName, dir)
	}
	if len(assets) == 0 {
		return nil, nil, nil, fmt.Errorf("no asset series found in %s", dir)
	}
	return baseline, assets, excluded, nil
}

func (r *Runner) record(results *Results) {
	info := &recorder.RunInfo{
		RunID:      results.RunID,
		StartedAt:  time.Now().Unix(),
		Assets:     len(results.Assets),
		Excluded:   len(results.Excluded),
		Days:       len(results.Dates),
		MAShort:    r.cfg.Strategy.MAShort,
		MALong:     r.cfg.Strategy.MALong,
		MinSignals: r.cfg.Strategy.MinSignals,
		Hedge:      r.cfg.Strategy.BaselineHedge,
	}
	if err := r.rec.RecordRun(info); err != nil {
		r.logger.LogError("record_run", err, map[string]interface{}{"run_id": results.RunID})
		return
	}
	if err := r.rec.RecordPortfolio(results.RunID, results.Metrics); err != nil {
		r.logger.LogError("record_portfolio", err, map[string]interface{}{"run_id": results.RunID})
	}
	stats := make([]types.Statistics, 0, len(results.Analyses))
	for _, a := range results.Analyses {
		stats = append(stats, a.Stats)
	}
	if err := r.rec.RecordAssetStats(results.RunID, stats); err != nil {
		r.logger.LogError("record_asset_stats", err, map[string]interface{}{"run_id": results.RunID})
	}
}
