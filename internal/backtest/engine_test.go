package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptomomentum/internal/analyzer"
	"cryptomomentum/internal/config"
)

func writeSeriesCSV(t *testing.T, dir, name string, closes []float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("date,open,high,low,close\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		d := start.AddDate(0, 0, i)
		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f,%.2f\n", d.Format("2006-01-02"), c, c*1.01, c*0.99, c)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte(b.String()), 0644))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Data.OutDir = t.TempDir()
	cfg.Data.SignalsDir = t.TempDir()
	cfg.Strategy.BaselineHedge = 0
	return cfg
}

func rampUp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	writeSeriesCSV(t, cfg.Data.OutDir, "BTC", rampUp(40, 100, 0))
	writeSeriesCSV(t, cfg.Data.OutDir, "UP", rampUp(40, 100, 1))
	writeSeriesCSV(t, cfg.Data.OutDir, "DOWN", rampUp(40, 100, -1))

	results, err := NewRunner(cfg, nil).Run()
	require.NoError(t, err)

	assert.NotEmpty(t, results.RunID)
	assert.Equal(t, []string{"DOWN", "UP"}, results.Assets)
	assert.Empty(t, results.Excluded)
	require.Len(t, results.Dates, 40)
	require.Len(t, results.Curve, 40)
	assert.InDelta(t, 1.0, results.Curve[0].Equity, 1e-12)

	// The monotone riser against a flat baseline goes fully long once the
	// long window fills; the faller stays flat without short_alts.
	up := results.PerAsset["UP"]
	require.Len(t, up, 40)
	assert.InDelta(t, 1.0, up[39].RawWeight, 1e-12)
	down := results.PerAsset["DOWN"]
	assert.Zero(t, down[39].RawWeight)

	// With only one long, equity compounds its daily returns.
	assert.Greater(t, results.Metrics.TotalReturn, 0.0)
	require.Len(t, results.Analyses, 2)
	assert.Equal(t, "DOWN", results.Analyses[0].Stats.Asset)
	assert.Equal(t, "UP", results.Analyses[1].Stats.Asset)
}

func TestRunExportsReadableTables(t *testing.T) {
	cfg := testConfig(t)
	writeSeriesCSV(t, cfg.Data.OutDir, "BTC", rampUp(40, 100, 0))
	writeSeriesCSV(t, cfg.Data.OutDir, "UP", rampUp(40, 100, 1))

	results, err := NewRunner(cfg, nil).Run()
	require.NoError(t, err)

	// Exported signal tables round-trip through the analyzer's reader.
	signals, err := analyzer.ReadSignalsCSV(filepath.Join(cfg.Data.SignalsDir, "signals_UP.csv"))
	require.NoError(t, err)
	require.Len(t, signals, 40)
	assert.Equal(t, results.PerAsset["UP"][39].Score, signals[39].Score)
	assert.InDelta(t, results.PerAsset["UP"][39].RawWeight, signals[39].RawWeight, 1e-12)
	assert.False(t, signals[0].MAShort.Valid)
	assert.True(t, signals[39].MALong.Valid)

	for _, name := range []string{"equity_curve.csv", "metrics.txt"} {
		_, err := os.Stat(filepath.Join(cfg.Data.SignalsDir, name))
		require.NoError(t, err, name)
	}
}

func TestRunExcludesMalformedAsset(t *testing.T) {
	cfg := testConfig(t)
	writeSeriesCSV(t, cfg.Data.OutDir, "BTC", rampUp(40, 100, 0))
	writeSeriesCSV(t, cfg.Data.OutDir, "UP", rampUp(40, 100, 1))

	// Dates out of order.
	bad := "date,open,high,low,close\n2024-01-02,1,1,1,1\n2024-01-01,1,1,1,1\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Data.OutDir, "BAD.csv"), []byte(bad), 0644))

	results, err := NewRunner(cfg, nil).Run()
	require.NoError(t, err)
	assert.Contains(t, results.Excluded, "BAD")
	assert.Equal(t, []string{"UP"}, results.Assets)
}

func TestRunExcludesShortHistory(t *testing.T) {
	cfg := testConfig(t)
	writeSeriesCSV(t, cfg.Data.OutDir, "BTC", rampUp(40, 100, 0))
	writeSeriesCSV(t, cfg.Data.OutDir, "UP", rampUp(40, 100, 1))
	writeSeriesCSV(t, cfg.Data.OutDir, "YOUNG", rampUp(5, 100, 1))

	results, err := NewRunner(cfg, nil).Run()
	require.NoError(t, err)
	assert.Contains(t, results.Excluded, "YOUNG")
	assert.Equal(t, []string{"UP"}, results.Assets)
}

func TestRunFailsWithoutBaseline(t *testing.T) {
	cfg := testConfig(t)
	writeSeriesCSV(t, cfg.Data.OutDir, "UP", rampUp(40, 100, 1))

	_, err := NewRunner(cfg, nil).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseline")
}

func TestRunFailsWhenAllAssetsTooShort(t *testing.T) {
	cfg := testConfig(t)
	writeSeriesCSV(t, cfg.Data.OutDir, "BTC", rampUp(40, 100, 0))
	writeSeriesCSV(t, cfg.Data.OutDir, "YOUNG", rampUp(5, 100, 1))

	_, err := NewRunner(cfg, nil).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sufficient history")
}
