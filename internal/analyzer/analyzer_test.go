package analyzer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptomomentum/internal/types"
)

// tradingSignals builds a history whose first day is flat and whose later
// days are fully long at the given prices.
func tradingSignals(first float64, prices ...float64) []types.DailySignal {
	out := []types.DailySignal{{Price: first, RawWeight: 0}}
	for _, p := range prices {
		out = append(out, types.DailySignal{Price: p, RawWeight: 1})
	}
	return out
}

func TestAnalyzeProfitFactor(t *testing.T) {
	// Returns vs first close: +2%, -1%, +3%, -2%.
	a := Analyze("X", tradingSignals(100, 102, 99, 103, 98))

	s := a.Stats
	assert.Equal(t, 5, s.TotalDays)
	assert.Equal(t, 4, s.TradingDays)
	assert.InDelta(t, 0.5, s.WinRate, 1e-12)
	assert.InDelta(t, 1.6667, s.ProfitFactor, 1e-4)
	assert.InDelta(t, 0.025, s.AvgWin, 1e-12)
	assert.InDelta(t, -0.015, s.AvgLoss, 1e-12)
	assert.InDelta(t, 0.03, s.MaxReturn, 1e-12)
	assert.InDelta(t, -0.02, s.MinReturn, 1e-12)

	// Cumulative: 1.02 * 0.99 * 1.03 * 0.98.
	assert.InDelta(t, 1.02*0.99*1.03*0.98-1, s.TotalReturn, 1e-12)
}

func TestAnalyzeInfiniteProfitFactorOnZeroLosses(t *testing.T) {
	a := Analyze("X", tradingSignals(100, 101, 102, 103))
	assert.True(t, math.IsInf(a.Stats.ProfitFactor, 1))
	assert.InDelta(t, 1.0, a.Stats.WinRate, 1e-12)
}

func TestAnalyzeMaxDrawdownOnCumulativePath(t *testing.T) {
	// Cumulative path over trading days: 1.2, 1.1, 1.3, 0.9.
	// Prices are chosen so each day's raw-weighted return produces that path.
	a := Analyze("X", tradingSignals(100, 120, 100.0*1.1/1.2, 100.0*1.3/1.1, 100.0*0.9/1.3))
	assert.InDelta(t, 0.3077, a.Stats.MaxDrawdown, 1e-4)
}

func TestAnalyzeSharpeDegenerate(t *testing.T) {
	// One trading day: undefined, reported as 0.
	one := Analyze("X", tradingSignals(100, 105))
	assert.Zero(t, one.Stats.SharpeRatio)

	// Identical returns: zero variance, reported as 0.
	flat := Analyze("X", tradingSignals(100, 105, 105, 105))
	assert.Zero(t, flat.Stats.SharpeRatio)
}

func TestAnalyzeEmptyHistory(t *testing.T) {
	a := Analyze("X", nil)
	assert.Zero(t, a.Stats.TradingDays)
	assert.True(t, math.IsInf(a.Stats.ProfitFactor, 1))
	assert.False(t, a.Stats.IsProfitable())
}

func TestAnalyzeSkipsFlatDays(t *testing.T) {
	signals := []types.DailySignal{
		{Price: 100, RawWeight: 0},
		{Price: 200, RawWeight: 1e-9}, // below epsilon, still flat
		{Price: 110, RawWeight: 1},
	}
	a := Analyze("X", signals)
	assert.Equal(t, 1, a.Stats.TradingDays)
	assert.InDelta(t, 0.10, a.Stats.TotalReturn, 1e-12)
}

func TestIsProfitableGates(t *testing.T) {
	ok := types.Statistics{TotalReturn: 0.1, WinRate: 0.6, ProfitFactor: 1.5}
	assert.True(t, ok.IsProfitable())

	for _, s := range []types.Statistics{
		{TotalReturn: -0.1, WinRate: 0.6, ProfitFactor: 1.5},
		{TotalReturn: 0.1, WinRate: 0.5, ProfitFactor: 1.5},
		{TotalReturn: 0.1, WinRate: 0.6, ProfitFactor: 1.0},
	} {
		assert.False(t, s.IsProfitable())
	}
}

func TestRankingsAreStable(t *testing.T) {
	analyses := []Analysis{
		{Stats: types.Statistics{Asset: "A", TotalReturn: 0.5, SharpeRatio: 1.0}},
		{Stats: types.Statistics{Asset: "B", TotalReturn: 0.5, SharpeRatio: 2.0}},
		{Stats: types.Statistics{Asset: "C", TotalReturn: 0.7, SharpeRatio: 1.0}},
	}

	byReturn := RankByReturn(analyses)
	require.Len(t, byReturn, 3)
	assert.Equal(t, "C", byReturn[0].Stats.Asset)
	// A and B tie on return; input order is preserved.
	assert.Equal(t, "A", byReturn[1].Stats.Asset)
	assert.Equal(t, "B", byReturn[2].Stats.Asset)

	bySharpe := RankBySharpe(analyses)
	assert.Equal(t, "B", bySharpe[0].Stats.Asset)
	assert.Equal(t, "A", bySharpe[1].Stats.Asset)
	assert.Equal(t, "C", bySharpe[2].Stats.Asset)
}
