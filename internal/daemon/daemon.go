// Package daemon runs the full pipeline on a schedule: refresh OHLC data,
// backtest, analyze, and regenerate the trade playbooks.
package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cryptomomentum/internal/analyzer"
	"cryptomomentum/internal/backtest"
	"cryptomomentum/internal/config"
	"cryptomomentum/internal/insights"
	"cryptomomentum/internal/logging"
	"cryptomomentum/internal/ohlc"
	"cryptomomentum/internal/playbook"
	"cryptomomentum/internal/recorder"

	"github.com/robfig/cron/v3"
)

// fetchWindowDays is how far back each refresh looks; with resume enabled
// only missing days are actually downloaded.
const fetchWindowDays = 30

// Daemon orchestrates scheduled pipeline cycles.
type Daemon struct {
	cfg    *config.Config
	rec    recorder.Recorder
	logger *logging.Logger
}

// New creates a daemon. A nil recorder disables run persistence.
func New(cfg *config.Config, rec recorder.Recorder) *Daemon {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Daemon{
		cfg:    cfg,
		rec:    rec,
		logger: logging.NewComponentLogger("daemon"),
	}
}

// RunOnce executes one full cycle: fetch, backtest, analyze, playbooks,
// regime summary.
func (d *Daemon) RunOnce(ctx context.Context) error {
	started := time.Now()
	d.logger.Info("Cycle started")

	// Step 1: refresh OHLC data. End at yesterday; today's candle is still
	// forming.
	end := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -fetchWindowDays)
	dataCfg := d.cfg.Data
	dataCfg.Resume = true
	if err := ohlc.NewSyncer(dataCfg).Sync(ctx, start, end); err != nil {
		return fmt.Errorf("refresh ohlc data: %w", err)
	}

	// Step 2: backtest and export signal tables.
	results, err := backtest.NewRunner(d.cfg, d.rec).Run()
	if err != nil {
		return fmt.Errorf("run backtest: %w", err)
	}

	// Step 3: analysis summary over the exported tables.
	if err := d.writeAnalysis(); err != nil {
		return fmt.Errorf("write analysis: %w", err)
	}

	// Step 4: trade playbooks for the top profitable assets.
	if err := d.writePlaybooks(results); err != nil {
		return fmt.Errorf("write playbooks: %w", err)
	}

	// Step 5: baseline regime summary.
	if err := d.writeRegimeSummary(results); err != nil {
		return fmt.Errorf("write regime summary: %w", err)
	}

	d.logger.Infof("Cycle completed in %.1fs", time.Since(started).Seconds())
	return nil
}

// Run schedules RunOnce with the configured cron spec after an immediate
// first cycle. It blocks until the context is canceled. Cycle failures are
// logged and the schedule continues.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.RunOnce(ctx); err != nil {
		d.logger.LogError("cycle", err, nil)
	}

	c := cron.New()
	_, err := c.AddFunc(d.cfg.Schedule.CronSpec, func() {
		if err := d.RunOnce(ctx); err != nil {
			d.logger.LogError("cycle", err, nil)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", d.cfg.Schedule.CronSpec, err)
	}

	c.Start()
	d.logger.Infof("Scheduled with cron spec %q", d.cfg.Schedule.CronSpec)
	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()
	return ctx.Err()
}

func (d *Daemon) writeAnalysis() error {
	analyses, err := analyzer.AnalyzeDir(d.cfg.Data.SignalsDir, func(path string, err error) {
		d.logger.Warnf("skipping unreadable signal table %s: %v", path, err)
	})
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(d.cfg.Data.SignalsDir, "analysis.txt"))
	if err != nil {
		return err
	}
	defer f.Close()
	analyzer.WriteSummary(f, analyses)
	return nil
}

func (d *Daemon) writePlaybooks(results *backtest.Results) error {
	var provider insights.Provider
	if d.cfg.Insights.Enabled && d.cfg.Insights.APIKey != "" {
		provider = insights.NewOpenAIProvider(d.cfg.Insights.APIKey, d.cfg.Insights.Model, d.cfg.Insights.Timeout)
	}
	builder := playbook.NewBuilder(playbook.Params{
		PortfolioValue: d.cfg.Playbook.PortfolioValue,
		MinSignals:     d.cfg.Strategy.MinSignals,
	}, provider)

	inputs := make([]playbook.AnalysisInput, 0, len(results.Analyses))
	for _, a := range results.Analyses {
		inputs = append(inputs, playbook.AnalysisInput{Stats: a.Stats, Signals: a.Signals})
	}
	plans := builder.TopPlans(inputs, d.cfg.Playbook.TopN)

	for _, p := range plans {
		d.logger.LogPlaybook(p.Asset, p.PositionSizing.RiskCapPercent, p.Computed.RecommendedShares, p.Conviction.High)
	}

	if err := playbook.SaveJSON(plans, filepath.Join(d.cfg.Data.SignalsDir, "current_playbooks.json")); err != nil {
		return err
	}
	if err := d.rec.RecordPlans(results.RunID, plans); err != nil {
		d.logger.LogError("record_plans", err, map[string]interface{}{"run_id": results.RunID})
	}

	f, err := os.Create(filepath.Join(d.cfg.Data.SignalsDir, "playbooks.txt"))
	if err != nil {
		return err
	}
	defer f.Close()
	playbook.WritePlans(f, plans)
	return nil
}
