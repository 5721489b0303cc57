package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackIsDeterministic(t *testing.T) {
	p := NewFallbackProvider()
	m := Metrics{
		Asset: "X", TotalReturn: 150, SharpeRatio: 2.5,
		WinRate: 85, MaxDrawdown: 25, TradingDays: 12,
	}

	a, err := p.Summarize(m)
	require.NoError(t, err)
	b, err := p.Summarize(m)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFallbackBands(t *testing.T) {
	p := NewFallbackProvider()

	high, err := p.Summarize(Metrics{TotalReturn: 1500, SharpeRatio: 2.5, WinRate: 85, MaxDrawdown: 25})
	require.NoError(t, err)
	assert.Contains(t, high.RiskAssessment, "extreme volatility")
	// High Sharpe, high win rate, high drawdown each contribute a note.
	assert.GreaterOrEqual(t, len(high.TradingNotes), 4)
	assert.NotEmpty(t, high.Recommendations)

	low, err := p.Summarize(Metrics{TotalReturn: 0.5, SharpeRatio: 0.2, WinRate: 40, MaxDrawdown: 5})
	require.NoError(t, err)
	assert.Contains(t, low.RiskAssessment, "Low risk")
}

func TestNotesFlattening(t *testing.T) {
	in := Insights{
		TradingNotes:    []string{"note one", "note two"},
		RiskAssessment:  "risky",
		MarketContext:   "context",
		Recommendations: []string{"rec"},
	}
	notes := in.Notes()
	assert.Contains(t, notes, "note one; note two")
	assert.Contains(t, notes, "Risk: risky")
	assert.Contains(t, notes, "Context: context")
}
