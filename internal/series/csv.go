// Package series loads daily price series and aligns them onto the shared
// trading calendar the backtest runs on.
package series

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

// ReadCSV loads one asset's daily series from a CSV file with a
// date,open,high,low,close header (open/high/low cells may be empty). The
// asset name is the file stem. Dates must be strictly increasing.
func ReadCSV(path string) (*types.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Read(f, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		if mre, ok := err.(*MalformedRowError); ok {
			mre.Path = path
			return nil, mre
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Read parses a daily series from r. Column order is taken from the header;
// only date and close are required.
func Read(r io.Reader, name string) (*types.PriceSeries, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"date", "close"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	out := &types.PriceSeries{Name: name}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &MalformedRowError{Line: line, Err: err}
		}
		bar, err := parseBar(rec, col)
		if err != nil {
			return nil, &MalformedRowError{Line: line, Err: err}
		}
		if n := len(out.Bars); n > 0 && !bar.Date.After(out.Bars[n-1].Date) {
			return nil, &MalformedRowError{Line: line, Err: fmt.Errorf("dates not strictly increasing at %s", bar.Date.Format(types.DateFormat))}
		}
		out.Bars = append(out.Bars, bar)
	}
	return out, nil
}

func parseBar(rec []string, col map[string]int) (types.Bar, error) {
	cell := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date, err := time.Parse(types.DateFormat, cell("date"))
	if err != nil {
		return types.Bar{}, fmt.Errorf("parse date: %w", err)
	}
	closeV, err := strconv.ParseFloat(cell("close"), 64)
	if err != nil {
		return types.Bar{}, fmt.Errorf("parse close: %w", err)
	}
	open, err := types.ParseFloat(cell("open"))
	if err != nil {
		return types.Bar{}, fmt.Errorf("parse open: %w", err)
	}
	high, err := types.ParseFloat(cell("high"))
	if err != nil {
		return types.Bar{}, fmt.Errorf("parse high: %w", err)
	}
	low, err := types.ParseFloat(cell("low"))
	if err != nil {
		return types.Bar{}, fmt.Errorf("parse low: %w", err)
	}
	return types.Bar{Date: date, Open: open, High: high, Low: low, Close: closeV}, nil
}
