package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"cryptomomentum/internal/backtest"
	"cryptomomentum/internal/types"

	"github.com/cinar/indicator"
)

const (
	regimeRSIPeriod = 14
	regimeSMAShort  = 20
	regimeSMALong   = 50
)

// writeRegimeSummary writes a one-page baseline market regime snapshot:
// RSI, short and long SMAs and the hedge state the simulation ended in.
func (d *Daemon) writeRegimeSummary(results *backtest.Results) error {
	closes := make([]float64, len(results.Curve))
	for i, p := range results.Curve {
		closes[i] = p.BaselineClose
	}
	if len(closes) == 0 {
		return fmt.Errorf("empty equity curve")
	}

	last := len(closes) - 1
	price := closes[last]

	_, rsi := indicator.RsiPeriod(regimeRSIPeriod, closes)
	smaShort := indicator.Sma(regimeSMAShort, closes)
	smaLong := indicator.Sma(regimeSMALong, closes)

	bear := results.BaselineBear[last]

	f, err := os.Create(filepath.Join(d.cfg.Data.SignalsDir, "regime.txt"))
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "Baseline regime (%s) as of %s\n",
		d.cfg.Data.BaselineName, results.Dates[last].Format(types.DateFormat))
	fmt.Fprintf(f, "  Price: %.2f\n", price)
	fmt.Fprintf(f, "  RSI%d: %.1f\n", regimeRSIPeriod, rsi[last])
	fmt.Fprintf(f, "  SMA%d: %.2f (price %+.1f%%)\n", regimeSMAShort, smaShort[last], pctAbove(price, smaShort[last]))
	fmt.Fprintf(f, "  SMA%d: %.2f (price %+.1f%%)\n", regimeSMALong, smaLong[last], pctAbove(price, smaLong[last]))
	if bear {
		fmt.Fprintf(f, "  State: BEAR (hedge active at %.0f%% when configured)\n", d.cfg.Strategy.BaselineHedge*100)
	} else {
		fmt.Fprintf(f, "  State: NEUTRAL/BULL (no hedge)\n")
	}
	return nil
}

func pctAbove(price, ref float64) float64 {
	if ref == 0 {
		return 0
	}
	return (price/ref - 1) * 100
}
