package playbook

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptomomentum/internal/types"
)

func TestRiskCapStaysWithinBounds(t *testing.T) {
	cases := []struct {
		name  string
		stats types.Statistics
		cv    types.ComputedValues
	}{
		{
			name: "excellent",
			stats: types.Statistics{
				SharpeRatio: 5.0, MaxDrawdown: 0.01, WinRate: 0.95,
				TotalReturn: 5, TradingDays: 25, ProfitFactor: 6,
			},
			cv: types.ComputedValues{
				Volatility: 10, RSMAShort: 1.2, RSMALong: 1.0,
				CurrentPrice: 102, MALong: 100, ATR: 1,
			},
		},
		{
			name: "terrible",
			stats: types.Statistics{
				SharpeRatio: 0.1, MaxDrawdown: 0.5, WinRate: 0.3,
				TotalReturn: 2000, TradingDays: 3, ProfitFactor: 0.5,
			},
			cv: types.ComputedValues{
				Volatility: 150, RSMAShort: 1.0, RSMALong: 1.0,
				CurrentPrice: 150, MALong: 100, ATR: 30,
			},
		},
		{
			name:  "zero everything",
			stats: types.Statistics{},
			cv:    types.ComputedValues{CurrentPrice: 100, MALong: 100, ATR: 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cap := riskCap(tc.stats, tc.cv)
			assert.GreaterOrEqual(t, cap, minRiskCap)
			assert.LessOrEqual(t, cap, maxRiskCap)
			// Rounded to 0.1% precision.
			assert.InDelta(t, cap, math.Round(cap*1000)/1000, 1e-12)
		})
	}
}

func TestRiskCapOrdersGoodAboveBad(t *testing.T) {
	good := riskCap(
		types.Statistics{SharpeRatio: 3.5, MaxDrawdown: 0.01, WinRate: 0.9,
			TotalReturn: 0.5, TradingDays: 25, ProfitFactor: 6},
		types.ComputedValues{Volatility: 15, RSMAShort: 1.2, RSMALong: 1.0,
			CurrentPrice: 102, MALong: 100, ATR: 1},
	)
	bad := riskCap(
		types.Statistics{SharpeRatio: 0.2, MaxDrawdown: 0.4, WinRate: 0.4,
			TotalReturn: 3000, TradingDays: 4, ProfitFactor: 0.8},
		types.ComputedValues{Volatility: 120, RSMAShort: 1.0, RSMALong: 1.0,
			CurrentPrice: 140, MALong: 100, ATR: 25},
	)
	assert.Greater(t, good, bad)
	assert.Greater(t, good, baseRiskCap)
	assert.Less(t, bad, baseRiskCap)
}

func TestConvictionTiers(t *testing.T) {
	top := conviction(types.Statistics{SharpeRatio: 4.5, WinRate: 0.96, MaxDrawdown: 0.005})
	assert.InDelta(t, 0.95, top.High, 1e-12)
	assert.InDelta(t, 0.80, top.Medium, 1e-12)

	mid := conviction(types.Statistics{SharpeRatio: 1.2, WinRate: 0.82, MaxDrawdown: 0.2})
	assert.InDelta(t, 0.80, mid.High, 1e-12)

	low := conviction(types.Statistics{SharpeRatio: 0.1, WinRate: 0.4, MaxDrawdown: 0.6})
	assert.InDelta(t, 0.70, low.High, 1e-12)
	assert.InDelta(t, 0.55, low.Medium, 1e-12)
}

func TestExecutionModeConfidence(t *testing.T) {
	strong := executionMode(types.Statistics{
		SharpeRatio: 2.5, WinRate: 0.85, MaxDrawdown: 0.03,
		TradingDays: 20, ProfitFactor: 3.5,
	})
	// All five factors max out: confidence 1.0.
	assert.True(t, strong.PullbackToMALong)
	assert.InDelta(t, 0.15, strong.ExtendedThreshold, 1e-12)
	assert.Equal(t, 72, strong.LimitDurationHours)
	assert.True(t, strong.SignalAtClose)

	weak := executionMode(types.Statistics{
		SharpeRatio: 0.3, WinRate: 0.4, MaxDrawdown: 0.3,
		TradingDays: 5, ProfitFactor: 1.0,
	})
	// Factors 0.5+0.4+0.3+0.5+0.5 = 2.2, confidence 0.44.
	assert.False(t, weak.PullbackToMALong)
	assert.InDelta(t, 0.05, weak.ExtendedThreshold, 1e-12)
	assert.Equal(t, 24, weak.LimitDurationHours)
}

func demoSignals(n int, start, step float64) []types.DailySignal {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]types.DailySignal, n)
	for i := range out {
		price := start + float64(i)*step
		out[i] = types.DailySignal{
			Date:      base.AddDate(0, 0, i),
			Price:     price,
			MAShort:   types.F(price - 1),
			MALong:    types.F(price - 3),
			RSMAShort: types.F(1.05),
			RSMALong:  types.F(1.00),
			RawWeight: 1,
		}
	}
	return out
}

func TestComputeValuesSignalsAndSizing(t *testing.T) {
	a := AnalysisInput{
		Stats:   types.Statistics{Asset: "X", TradingDays: 20},
		Signals: demoSignals(20, 100, 1),
	}
	mode := types.ExecutionMode{ExtendedThreshold: 0.10}
	cv := computeValues(a, mode, 0.01, 100000, 2)

	latest := a.Signals[len(a.Signals)-1]
	assert.InDelta(t, latest.Price, cv.CurrentPrice, 1e-12)
	assert.True(t, cv.TrendSignal)
	assert.True(t, cv.MomentumSignal)
	assert.True(t, cv.RSSignal)
	assert.True(t, cv.AllSignals)
	assert.InDelta(t, 1.0, cv.SignalStrength, 1e-12)

	// Close-to-close ATR on a 1.0-step series is 1.0, stop 3 ATR below.
	assert.InDelta(t, 1.0, cv.ATR, 1e-9)
	assert.InDelta(t, cv.CurrentPrice-3.0, cv.StopPrice, 1e-9)
	assert.InDelta(t, 3.0, cv.RiskPerShare, 1e-9)

	// 2R target, half scale-out.
	assert.InDelta(t, cv.CurrentPrice+6.0, cv.ProfitTarget, 1e-9)
	assert.Equal(t, cv.RecommendedShares, cv.ScaleOutShares+cv.RemainingShares)
	assert.InDelta(t, 2.0, cv.RiskRewardRatio, 1e-9)

	// Risk cap: at most 1% of 100k at risk.
	assert.LessOrEqual(t, float64(cv.RecommendedShares)*cv.RiskPerShare, 1000.0+1e-9)
}

func TestComputeValuesPartialFollowsMinSignals(t *testing.T) {
	signals := demoSignals(20, 100, 1)
	// Kill momentum: short MA below long MA.
	last := &signals[len(signals)-1]
	last.MAShort = types.F(last.Price - 5)
	last.MALong = types.F(last.Price - 3)

	a := AnalysisInput{Stats: types.Statistics{Asset: "X"}, Signals: signals}
	mode := types.ExecutionMode{ExtendedThreshold: 0.10}

	relaxed := computeValues(a, mode, 0.01, 100000, 2)
	assert.False(t, relaxed.AllSignals)
	assert.True(t, relaxed.PartialSignals)
	assert.InDelta(t, 0.5, relaxed.SignalStrength, 1e-12)

	strict := computeValues(a, mode, 0.01, 100000, 3)
	assert.False(t, strict.PartialSignals)
	assert.Zero(t, strict.SignalStrength)
}

func TestComputeValuesEmptySignals(t *testing.T) {
	cv := computeValues(AnalysisInput{}, types.ExecutionMode{}, 0.01, 100000, 2)
	assert.Zero(t, cv.CurrentPrice)
	assert.Zero(t, cv.RecommendedShares)
}

func TestBuilderTopPlansFiltersAndRanks(t *testing.T) {
	mk := func(asset string, ret float64, profitable bool) AnalysisInput {
		winRate, pf := 0.6, 1.5
		if !profitable {
			winRate, pf = 0.3, 0.8
		}
		return AnalysisInput{
			Stats: types.Statistics{
				Asset: asset, TotalReturn: ret, WinRate: winRate,
				ProfitFactor: pf, TradingDays: 10, SharpeRatio: 1.0,
			},
			Signals: demoSignals(20, 100, 1),
		}
	}

	b := NewBuilder(Params{PortfolioValue: 100000, MinSignals: 2}, nil)
	plans := b.TopPlans([]AnalysisInput{
		mk("LOW", 0.1, true),
		mk("LOSER", 5.0, false),
		mk("HIGH", 0.9, true),
	}, 10)

	require.Len(t, plans, 2)
	assert.Equal(t, "HIGH", plans[0].Asset)
	assert.Equal(t, "LOW", plans[1].Asset)
	for _, p := range plans {
		assert.NotEmpty(t, p.Notes)
		assert.GreaterOrEqual(t, p.PositionSizing.RiskCapPercent, minRiskCap*100)
		assert.LessOrEqual(t, p.PositionSizing.RiskCapPercent, maxRiskCap*100)
	}

	capped := b.TopPlans([]AnalysisInput{
		mk("A", 0.1, true), mk("B", 0.2, true), mk("C", 0.3, true),
	}, 2)
	require.Len(t, capped, 2)
	assert.Equal(t, "C", capped[0].Asset)
}
