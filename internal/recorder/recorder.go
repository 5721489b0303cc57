// Package recorder persists backtest runs for later comparison. Runs are
// identified by UUID; a run groups its portfolio metrics, per-asset
// statistics and generated trade plans.
package recorder

import "cryptomomentum/internal/types"

// RunInfo describes one pipeline run.
type RunInfo struct {
	RunID      string
	StartedAt  int64 // unix seconds
	Assets     int
	Excluded   int
	Days       int
	MAShort    int
	MALong     int
	MinSignals int
	Hedge      float64
}

// Recorder persists run results for analysis.
type Recorder interface {
	RecordRun(info *RunInfo) error
	RecordPortfolio(runID string, m types.PortfolioMetrics) error
	RecordAssetStats(runID string, stats []types.Statistics) error
	RecordPlans(runID string, plans []types.TradePlan) error
	Close() error
}
