package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptomomentum/internal/types"
)

func TestRollingMeanLeftTruncation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	out := RollingMean(x, 3)
	require.Len(t, out, 5)

	assert.False(t, out[0].Valid)
	assert.False(t, out[1].Valid)
	require.True(t, out[2].Valid)
	assert.InDelta(t, 2.0, out[2].Value, 1e-12)
	assert.InDelta(t, 3.0, out[3].Value, 1e-12)
	assert.InDelta(t, 4.0, out[4].Value, 1e-12)
}

func TestRollingMeanWindowOne(t *testing.T) {
	x := []float64{3.5, 0, -1.25}
	out := RollingMean(x, 1)
	for i := range x {
		require.True(t, out[i].Valid)
		assert.InDelta(t, x[i], out[i].Value, 1e-12)
	}
}

func TestRollingMeanWindowEqualsLength(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	out := RollingMean(x, 5)
	for i := 0; i < 4; i++ {
		assert.False(t, out[i].Valid)
	}
	require.True(t, out[4].Valid)
	assert.InDelta(t, 3.0, out[4].Value, 1e-12)
}

func TestRollingMeanWindowLargerThanInput(t *testing.T) {
	out := RollingMean([]float64{1, 2, 3}, 4)
	for _, v := range out {
		assert.False(t, v.Valid)
	}
}

func TestRollingMeanZeroWindow(t *testing.T) {
	out := RollingMean([]float64{1, 2, 3}, 0)
	for _, v := range out {
		assert.False(t, v.Valid)
	}
}

func TestRollingStdPopulation(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.03, 0.00}
	out := RollingStd(returns, 2)

	assert.False(t, out[0].Valid)
	// Population std of {0.01, -0.02}: mean -0.005, deviations +-0.015.
	require.True(t, out[1].Valid)
	assert.InDelta(t, 0.015, out[1].Value, 1e-12)
	// {-0.02, 0.03}: mean 0.005, deviations +-0.025.
	assert.InDelta(t, 0.025, out[2].Value, 1e-12)
}

func TestRollingStdConstantSeriesIsZero(t *testing.T) {
	out := RollingStd([]float64{0.01, 0.01, 0.01}, 3)
	require.True(t, out[2].Valid)
	assert.InDelta(t, 0.0, out[2].Value, 1e-12)
}

func TestTrueRange(t *testing.T) {
	// Gap up: high-prevClose dominates.
	assert.InDelta(t, 5.0, TrueRange(15, 12, 10), 1e-12)
	// Gap down: prevClose-low dominates.
	assert.InDelta(t, 4.0, TrueRange(9, 6, 10), 1e-12)
	// Inside day: high-low dominates.
	assert.InDelta(t, 2.0, TrueRange(11, 9, 10), 1e-12)
}

func TestRollingATRDayZeroUsesHighLow(t *testing.T) {
	close := []float64{10, 11, 12}
	high := []types.Float{types.F(10.5), types.F(11.5), types.F(12.5)}
	low := []types.Float{types.F(9.5), types.F(10.5), types.F(11.5)}

	out := RollingATR(high, low, close, 2)
	assert.False(t, out[0].Valid)
	// TRs: day0 |10.5-9.5|=1, day1 max(1, 1.5, 0.5)=1.5, day2 1.5.
	require.True(t, out[1].Valid)
	assert.InDelta(t, 1.25, out[1].Value, 1e-12)
	assert.InDelta(t, 1.5, out[2].Value, 1e-12)
}

func TestRollingATRFallsBackToCloseMove(t *testing.T) {
	close := []float64{10, 11, 13}
	high := make([]types.Float, 3)
	low := make([]types.Float, 3)

	out := RollingATR(high, low, close, 2)
	// TRs degrade: day0 0 (no high/low), day1 |11-10|=1, day2 |13-11|=2.
	require.True(t, out[1].Valid)
	assert.InDelta(t, 0.5, out[1].Value, 1e-12)
	assert.InDelta(t, 1.5, out[2].Value, 1e-12)
}

func TestDailyReturnsLeadingZero(t *testing.T) {
	close := []float64{100, 110, 99}
	out := DailyReturns(close)
	require.Len(t, out, 3)
	assert.Zero(t, out[0])
	assert.InDelta(t, 0.10, out[1], 1e-12)
	assert.InDelta(t, -0.10, out[2], 1e-12)
}
