package series

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptomomentum/internal/types"
)

func day(s string) time.Time {
	d, err := time.Parse(types.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func mkSeries(name string, start string, n int) *types.PriceSeries {
	s := &types.PriceSeries{Name: name}
	d := day(start)
	for i := 0; i < n; i++ {
		s.Bars = append(s.Bars, types.Bar{Date: d.AddDate(0, 0, i), Close: 100 + float64(i)})
	}
	return s
}

func TestReadHeaderDriven(t *testing.T) {
	csv := strings.Join([]string{
		"close,date,high,low,open",
		"100.5,2024-01-01,101,99,100",
		"102,2024-01-02,,,",
	}, "\n")

	s, err := Read(strings.NewReader(csv), "TEST")
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	assert.Equal(t, "TEST", s.Name)
	assert.Equal(t, day("2024-01-01"), s.Bars[0].Date)
	assert.InDelta(t, 100.5, s.Bars[0].Close, 1e-12)
	assert.True(t, s.Bars[0].High.Valid)
	assert.InDelta(t, 101, s.Bars[0].High.Value, 1e-12)

	// Empty optional cells parse as undefined, not zero.
	assert.False(t, s.Bars[1].High.Valid)
	assert.False(t, s.Bars[1].Low.Valid)
	assert.False(t, s.Bars[1].Open.Valid)
	assert.InDelta(t, 102, s.Bars[1].Close, 1e-12)
}

func TestReadRejectsMissingClose(t *testing.T) {
	_, err := Read(strings.NewReader("date,open\n2024-01-01,1\n"), "TEST")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close")
}

func TestReadRejectsNonIncreasingDates(t *testing.T) {
	csv := "date,close\n2024-01-02,100\n2024-01-02,101\n"
	_, err := Read(strings.NewReader(csv), "TEST")
	require.Error(t, err)

	var mre *MalformedRowError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, 3, mre.Line)
}

func TestReadRejectsBadClose(t *testing.T) {
	_, err := Read(strings.NewReader("date,close\n2024-01-01,abc\n"), "TEST")
	var mre *MalformedRowError
	require.True(t, errors.As(err, &mre))
}

func TestScreenSplitsByMinRequiredDays(t *testing.T) {
	long := mkSeries("LONG", "2024-01-01", 17)
	short := mkSeries("SHORT", "2024-01-01", 16)

	kept, excluded := Screen([]*types.PriceSeries{long, short}, 7)
	require.Len(t, kept, 1)
	require.Len(t, excluded, 1)
	assert.Equal(t, "LONG", kept[0].Name)
	assert.Equal(t, "SHORT", excluded[0].Name)
}

func TestIntersectIsSortedAndMaximal(t *testing.T) {
	a := mkSeries("A", "2024-01-01", 10)
	b := mkSeries("B", "2024-01-03", 10) // overlaps days 3..10 of a

	dates := Intersect([]*types.PriceSeries{a, b})
	require.Len(t, dates, 8)
	assert.Equal(t, day("2024-01-03"), dates[0])
	assert.Equal(t, day("2024-01-10"), dates[7])
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i].After(dates[i-1]))
	}
}

func TestAlignSucceedsOnSufficientOverlap(t *testing.T) {
	baseline := mkSeries("BTC", "2024-01-01", 30)
	a := mkSeries("A", "2024-01-05", 30)

	dates, err := Align(baseline, []*types.PriceSeries{a}, 7)
	require.NoError(t, err)
	// Overlap is 2024-01-05 .. 2024-01-30.
	assert.Len(t, dates, 26)
}

func TestAlignFailsOnShortOverlap(t *testing.T) {
	baseline := mkSeries("BTC", "2024-01-01", 20)
	a := mkSeries("A", "2024-01-15", 20) // only 6 overlapping days

	_, err := Align(baseline, []*types.PriceSeries{a}, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientHistory))

	var ihe *InsufficientHistoryError
	require.True(t, errors.As(err, &ihe))
	assert.Equal(t, 17, ihe.Required)
	assert.Equal(t, 6, ihe.Actual)
	assert.Equal(t, day("2024-01-15"), ihe.From)
	assert.Equal(t, day("2024-01-20"), ihe.To)
}

func TestProjectColumnsFollowCalendar(t *testing.T) {
	s := &types.PriceSeries{Name: "A", Bars: []types.Bar{
		{Date: day("2024-01-01"), Close: 10, High: types.F(11), Low: types.F(9)},
		{Date: day("2024-01-02"), Close: 12},
		{Date: day("2024-01-03"), Close: 14, High: types.F(15), Low: types.F(13)},
	}}
	dates := []time.Time{day("2024-01-01"), day("2024-01-03")}

	close, high, low := Project(s, dates)
	assert.Equal(t, []float64{10, 14}, close)
	assert.True(t, high[0].Valid)
	assert.True(t, high[1].Valid)
	assert.InDelta(t, 15, high[1].Value, 1e-12)
	assert.True(t, low[0].Valid)
}
