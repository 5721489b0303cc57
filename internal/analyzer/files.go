package analyzer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cryptomomentum/internal/types"
)

// SignalFilePrefix names exported per-asset signal tables:
// signals_<ASSET>.csv.
const SignalFilePrefix = "signals_"

// ReadSignalsCSV loads a previously exported signal table.
func ReadSignalsCSV(path string) ([]types.DailySignal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	var signals []types.DailySignal
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		s, err := parseSignal(rec, col)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		signals = append(signals, s)
	}
	return signals, nil
}

func parseSignal(rec []string, col map[string]int) (types.DailySignal, error) {
	cell := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var s types.DailySignal
	var err error
	if s.Date, err = time.Parse(types.DateFormat, cell("date")); err != nil {
		return s, err
	}
	if s.Price, err = strconv.ParseFloat(cell("close"), 64); err != nil {
		return s, err
	}
	optional := map[string]*types.Float{
		"ma_short":    &s.MAShort,
		"ma_long":     &s.MALong,
		"rs":          &s.RS,
		"rs_ma_short": &s.RSMAShort,
		"rs_ma_long":  &s.RSMALong,
		"stop_level":  &s.StopLevel,
	}
	for name, dst := range optional {
		if *dst, err = types.ParseFloat(cell(name)); err != nil {
			return s, err
		}
	}
	bools := map[string]*bool{
		"trend_bull": &s.TrendBull,
		"mom_bull":   &s.MomBull,
		"rs_bull":    &s.RSBull,
	}
	for name, dst := range bools {
		if *dst, err = strconv.ParseBool(cell(name)); err != nil {
			return s, err
		}
	}
	if s.Score, err = strconv.Atoi(cell("score")); err != nil {
		return s, err
	}
	if s.RawWeight, err = strconv.ParseFloat(cell("raw_weight"), 64); err != nil {
		return s, err
	}
	return s, nil
}

// AnalyzeDir analyzes every signals_*.csv table in dir. Unreadable files are
// reported through warn and skipped; they never fail the whole analysis.
func AnalyzeDir(dir string, warn func(path string, err error)) ([]Analysis, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var analyses []Analysis
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, SignalFilePrefix) || !strings.HasSuffix(name, ".csv") {
			continue
		}
		asset := strings.TrimSuffix(strings.TrimPrefix(name, SignalFilePrefix), ".csv")
		signals, err := ReadSignalsCSV(filepath.Join(dir, name))
		if err != nil {
			if warn != nil {
				warn(filepath.Join(dir, name), err)
			}
			continue
		}
		analyses = append(analyses, Analyze(asset, signals))
	}
	return analyses, nil
}
