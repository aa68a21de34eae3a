package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCandlesCSV reads OHLC candles from a CSV file with columns
// time,open,high,low,close[,volume]. A header row is optional. Times are
// RFC3339.
func LoadCandlesCSV(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var candles []Candle
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			return candles, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		c, err := parseCandleRow(row)
		if err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}
}

func parseCandleRow(row []string) (Candle, error) {
	if len(row) < 5 {
		return Candle{}, fmt.Errorf("bad row (need at least 5 cols time,open,high,low,close): %v", row)
	}

	t, err := time.Parse(time.RFC3339, strings.TrimSpace(row[0]))
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, strings.TrimSpace(row[0]))
		if err != nil {
			return Candle{}, fmt.Errorf("bad time %q: %w", row[0], err)
		}
	}

	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Candle{}, fmt.Errorf("bad value %q: %w", row[i+1], err)
		}
		vals[i] = v
	}

	c := Candle{
		Open:  vals[0],
		High:  vals[1],
		Low:   vals[2],
		Close: vals[3],
		Time:  t,
	}
	if len(row) > 5 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64); err == nil {
			c.Volume = v
		}
	}
	return c, nil
}
