// market/instruments.go
package market

import (
	"fmt"
	"math"
	"strings"
)

type InstrumentMeta struct {
	Name                string
	BaseCurrency        string
	QuoteCurrency       string
	PipLocation         int
	TradeUnitsPrecision int
	MinimumTradeSize    float64
	MarginRate          float64
}

// PipUnits converts the pip location exponent into the multiplier used to
// express a price delta in pips (EUR_USD: -4 -> 1e4, USD_JPY: -2 -> 1e2).
func (m InstrumentMeta) PipUnits() float64 {
	return math.Pow(10, float64(-m.PipLocation))
}

var Instruments = map[string]InstrumentMeta{
	"EUR_USD": {
		Name:                "EUR_USD",
		BaseCurrency:        "EUR",
		QuoteCurrency:       "USD",
		PipLocation:         -4,
		TradeUnitsPrecision: 0,
		MinimumTradeSize:    1,
		MarginRate:          0.02,
	},
	"GBP_USD": {
		Name:                "GBP_USD",
		BaseCurrency:        "GBP",
		QuoteCurrency:       "USD",
		PipLocation:         -4,
		TradeUnitsPrecision: 0,
		MinimumTradeSize:    1,
		MarginRate:          0.05,
	},
	"USD_JPY": {
		Name:                "USD_JPY",
		BaseCurrency:        "USD",
		QuoteCurrency:       "JPY",
		PipLocation:         -2,
		TradeUnitsPrecision: 0,
		MinimumTradeSize:    1,
		MarginRate:          0.02,
	},
	"EUR_JPY": {
		Name:                "EUR_JPY",
		BaseCurrency:        "EUR",
		QuoteCurrency:       "JPY",
		PipLocation:         -2,
		TradeUnitsPrecision: 0,
		MinimumTradeSize:    1,
		MarginRate:          0.03,
	},
	"BTC_USD": {
		Name:                "BTC_USD",
		BaseCurrency:        "BTC",
		QuoteCurrency:       "USD",
		PipLocation:         0,
		TradeUnitsPrecision: 4,
		MinimumTradeSize:    0.0001,
		MarginRate:          0.5,
	},
}

// PipTable maps an instrument name to its pip unit multiplier. Lookups
// during reconciliation go through this table so a config override or a
// broker-fetched table can replace the static defaults.
type PipTable map[string]float64

func DefaultPips() PipTable {
	t := make(PipTable, len(Instruments))
	for name, meta := range Instruments {
		t[name] = meta.PipUnits()
	}
	return t
}

func (t PipTable) Units(instrument string) (float64, error) {
	u, ok := t[instrument]
	if !ok {
		return 0, fmt.Errorf("market: no pip units for instrument %q", instrument)
	}
	return u, nil
}

// SpokenName turns "EUR_USD" into "EUR USD" for voice and chat messages.
func SpokenName(instrument string) string {
	return strings.ReplaceAll(instrument, "_", " ")
}
