package ohlc

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cryptomomentum/internal/config"
	"cryptomomentum/internal/logging"
	"cryptomomentum/internal/types"
)

// Syncer keeps the per-asset CSV files up to date.
type Syncer struct {
	cfg    config.DataConfig
	client *Client
	logger *logging.Logger
}

// NewSyncer creates a syncer from the data configuration.
func NewSyncer(cfg config.DataConfig) *Syncer {
	return &Syncer{
		cfg:    cfg,
		client: NewClient(cfg.APIKey, cfg.RequestDelay),
		logger: logging.NewComponentLogger("ohlc"),
	}
}

// Sync downloads [start, end] for the baseline plus the top-N coins by
// market cap. A failure on one coin is logged and skipped; the baseline is
// fetched first and its failure is fatal.
func (s *Syncer) Sync(ctx context.Context, start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("end %s must be after start %s", end.Format(types.DateFormat), start.Format(types.DateFormat))
	}
	if err := os.MkdirAll(s.cfg.OutDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	baseline := MarketCoin{
		ID:     s.cfg.BaselineCoinID,
		Symbol: strings.ToLower(s.cfg.BaselineName),
		Name:   s.cfg.BaselineName,
	}

	top, err := s.client.FetchTopByMarketCap(ctx, s.cfg.VsCurrency, s.cfg.TopN)
	if err != nil {
		return err
	}

	coins := []MarketCoin{baseline}
	for _, c := range top {
		if c.ID != baseline.ID {
			coins = append(coins, c)
		}
	}

	if err := s.writeManifest(coins); err != nil {
		return err
	}

	// Baseline first: everything downstream aligns against it.
	baselinePath := filepath.Join(s.cfg.OutDir, strings.ToUpper(baseline.Symbol)+".csv")
	if err := s.updateCSV(ctx, baseline.ID, strings.ToUpper(baseline.Symbol), baselinePath, start, end); err != nil {
		return fmt.Errorf("fetch baseline %s: %w", baseline.ID, err)
	}

	for _, c := range coins[1:] {
		sym := strings.ToUpper(c.Symbol)
		path := filepath.Join(s.cfg.OutDir, fmt.Sprintf("%s_%s.csv", sym, c.ID))
		if err := s.updateCSV(ctx, c.ID, sym, path, start, end); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.LogError("fetch_coin", err, map[string]interface{}{"coin_id": c.ID, "symbol": sym})
		}
	}
	return nil
}

func (s *Syncer) writeManifest(coins []MarketCoin) error {
	data, err := json.MarshalIndent(coins, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.cfg.OutDir, "manifest.json"), data, 0644)
}

// updateCSV is idempotent: with resume enabled it appends only dates after
// the file's last row, otherwise it rewrites the file atomically.
func (s *Syncer) updateCSV(ctx context.Context, coinID, symbol, path string, start, end time.Time) error {
	effStart := start
	var lastDate time.Time
	if s.cfg.Resume {
		ld, err := readLastCSVDate(path)
		if err != nil {
			return err
		}
		if !ld.IsZero() {
			lastDate = ld
			effStart = ld.AddDate(0, 0, 1)
			if effStart.After(end) {
				s.logger.Debugf("%s up-to-date through %s; skipping", symbol, ld.Format(types.DateFormat))
				return nil
			}
		}
	}

	bars, err := s.client.FetchDailyBars(ctx, s.cfg.VsCurrency, coinID, effStart, endOfDay(end))
	if err != nil {
		return err
	}
	if !lastDate.IsZero() {
		filtered := bars[:0]
		for _, b := range bars {
			if b.Date.After(lastDate) {
				filtered = append(filtered, b)
			}
		}
		bars = filtered
	}
	if len(bars) == 0 {
		s.logger.Debugf("%s no new rows", symbol)
		return nil
	}

	s.logger.LogFetch(coinID, effStart.Format(types.DateFormat), end.Format(types.DateFormat), len(bars))

	if !lastDate.IsZero() {
		return appendBars(path, bars)
	}
	return writeBarsAtomic(path, bars)
}

func endOfDay(d time.Time) time.Time {
	return d.Add(24*time.Hour - time.Second)
}

func appendBars(path string, bars []DailyBar) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, b := range bars {
		if _, err := fmt.Fprintf(f, "%s,%.8f,%.8f,%.8f,%.8f\n",
			b.Date.Format(types.DateFormat), b.Open, b.High, b.Low, b.Close); err != nil {
			return err
		}
	}
	return nil
}

func writeBarsAtomic(path string, bars []DailyBar) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ohlc-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := fmt.Fprintln(tmp, "date,open,high,low,close"); err != nil {
		tmp.Close()
		return err
	}
	for _, b := range bars {
		if _, err := fmt.Fprintf(tmp, "%s,%.8f,%.8f,%.8f,%.8f\n",
			b.Date.Format(types.DateFormat), b.Open, b.High, b.Low, b.Close); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// readLastCSVDate returns the last parsable date in the file, or zero time if
// the file does not exist.
func readLastCSVDate(path string) (time.Time, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	var last time.Time
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return time.Time{}, err
		}
		if len(rec) == 0 {
			continue
		}
		if d, err := time.Parse(types.DateFormat, strings.TrimSpace(rec[0])); err == nil {
			last = d
		}
	}
	return last, nil
}
