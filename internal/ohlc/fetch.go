package ohlc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// MarketCoin is one entry of the top-by-market-cap listing.
type MarketCoin struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	MarketCapRank *int   `json:"market_cap_rank"`
}

// DailyBar is one normalized daily candle.
type DailyBar struct {
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// chunkDays bounds each OHLC range request; CoinGecko caps daily-interval
// ranges at 180 days.
const chunkDays = 180

// FetchTopByMarketCap returns the top n coins ordered by market cap,
// paginating as needed.
func (c *Client) FetchTopByMarketCap(ctx context.Context, vs string, n int) ([]MarketCoin, error) {
	var out []MarketCoin
	for page := 1; len(out) < n; page++ {
		per := n - len(out)
		if per > 250 {
			per = 250
		}
		params := url.Values{
			"vs_currency": {vs},
			"order":       {"market_cap_desc"},
			"per_page":    {strconv.Itoa(per)},
			"page":        {strconv.Itoa(page)},
			"sparkline":   {"false"},
		}
		var batch []MarketCoin
		if err := c.getJSON(ctx, "/coins/markets", params, &batch); err != nil {
			return nil, fmt.Errorf("fetch markets page %d: %w", page, err)
		}
		var valid []MarketCoin
		for _, mc := range batch {
			if mc.ID != "" {
				valid = append(valid, mc)
			}
		}
		if len(valid) == 0 {
			break
		}
		out = append(out, valid...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rankOrMax(out[i]), rankOrMax(out[j])
		return ri < rj
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func rankOrMax(c MarketCoin) int {
	if c.MarketCapRank == nil {
		return int(^uint(0) >> 1)
	}
	return *c.MarketCapRank
}

// FetchDailyBars fetches [from, to] in chunks and normalizes the candles to
// one bar per UTC date, keeping the last candle of each date.
func (c *Client) FetchDailyBars(ctx context.Context, vs, coinID string, from, to time.Time) ([]DailyBar, error) {
	type rawCandle struct {
		tsMs        float64
		o, h, l, cl float64
	}

	var raws []rawCandle
	curFrom := from.Unix()
	toTS := to.Unix()
	for curFrom < toTS {
		curTo := curFrom + chunkDays*86400
		if curTo > toTS {
			curTo = toTS
		}
		params := url.Values{
			"vs_currency": {vs},
			"from":        {strconv.FormatInt(curFrom, 10)},
			"to":          {strconv.FormatInt(curTo, 10)},
			"interval":    {"daily"},
		}
		var rows [][]json.Number
		if err := c.getJSON(ctx, "/coins/"+coinID+"/ohlc/range", params, &rows); err != nil {
			return nil, fmt.Errorf("fetch ohlc for %s: %w", coinID, err)
		}
		for _, r := range rows {
			if len(r) < 5 {
				continue
			}
			ts, _ := r[0].Float64()
			o, _ := r[1].Float64()
			h, _ := r[2].Float64()
			l, _ := r[3].Float64()
			cl, _ := r[4].Float64()
			raws = append(raws, rawCandle{tsMs: ts, o: o, h: h, l: l, cl: cl})
		}
		curFrom = curTo + 1
	}

	sort.Slice(raws, func(i, j int) bool { return raws[i].tsMs < raws[j].tsMs })

	// Last candle per UTC date wins.
	var out []DailyBar
	for _, r := range raws {
		d := time.Unix(int64(r.tsMs/1000), 0).UTC().Truncate(24 * time.Hour)
		bar := DailyBar{Date: d, Open: r.o, High: r.h, Low: r.l, Close: r.cl}
		if n := len(out); n > 0 && out[n-1].Date.Equal(d) {
			out[n-1] = bar
		} else {
			out = append(out, bar)
		}
	}
	return out, nil
}
