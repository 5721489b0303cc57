package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cryptomomentum/internal/types"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reporting queries can run while a backtest writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id      TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			assets      INTEGER,
			excluded    INTEGER,
			days        INTEGER,
			ma_short    INTEGER,
			ma_long     INTEGER,
			min_signals INTEGER,
			hedge       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS portfolio_metrics (
			run_id            TEXT NOT NULL,
			days              INTEGER,
			total_return      REAL,
			cagr              REAL,
			sharpe_annualized REAL,
			max_drawdown      REAL,
			win_rate          REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_portfolio_run ON portfolio_metrics(run_id)`,

		`CREATE TABLE IF NOT EXISTS asset_stats (
			run_id        TEXT NOT NULL,
			asset         TEXT NOT NULL,
			total_days    INTEGER,
			trading_days  INTEGER,
			total_return  REAL,
			max_return    REAL,
			min_return    REAL,
			win_rate      REAL,
			avg_win       REAL,
			avg_loss      REAL,
			profit_factor REAL,
			max_drawdown  REAL,
			sharpe_ratio  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_asset_run ON asset_stats(run_id)`,

		`CREATE TABLE IF NOT EXISTS trade_plans (
			run_id           TEXT NOT NULL,
			asset            TEXT NOT NULL,
			risk_cap_percent REAL,
			conviction_high  REAL,
			shares           INTEGER,
			stop_price       REAL,
			profit_target    REAL,
			plan_json        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plans_run ON trade_plans(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(info *RunInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	startedAt := info.StartedAt
	if startedAt == 0 {
		startedAt = time.Now().Unix()
	}
	_, err := r.db.Exec(`INSERT INTO runs
		(run_id, started_at, assets, excluded, days, ma_short, ma_long, min_signals, hedge)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		info.RunID, startedAt, info.Assets, info.Excluded, info.Days,
		info.MAShort, info.MALong, info.MinSignals, info.Hedge,
	)
	return err
}

func (r *SQLiteRecorder) RecordPortfolio(runID string, m types.PortfolioMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO portfolio_metrics
		(run_id, days, total_return, cagr, sharpe_annualized, max_drawdown, win_rate)
		VALUES (?,?,?,?,?,?,?)`,
		runID, m.Days, m.TotalReturn, m.CAGR, m.SharpeAnnualized, m.MaxDrawdown, m.WinRate,
	)
	return err
}

func (r *SQLiteRecorder) RecordAssetStats(runID string, stats []types.Statistics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO asset_stats
		(run_id, asset, total_days, trading_days, total_return, max_return, min_return,
		 win_rate, avg_win, avg_loss, profit_factor, max_drawdown, sharpe_ratio)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		if _, err := stmt.Exec(runID, s.Asset, s.TotalDays, s.TradingDays,
			s.TotalReturn, s.MaxReturn, s.MinReturn, s.WinRate,
			s.AvgWin, s.AvgLoss, s.ProfitFactor, s.MaxDrawdown, s.SharpeRatio); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordPlans(runID string, plans []types.TradePlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO trade_plans
		(run_id, asset, risk_cap_percent, conviction_high, shares, stop_price, profit_target, plan_json)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range plans {
		planJSON, err := json.Marshal(p)
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err := stmt.Exec(runID, p.Asset, p.PositionSizing.RiskCapPercent,
			p.Conviction.High, p.Computed.RecommendedShares,
			p.Computed.StopPrice, p.Computed.ProfitTarget, string(planJSON)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
