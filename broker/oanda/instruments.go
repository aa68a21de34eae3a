package oanda

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rustyeddy/fxbot/market"
)

// PipTable fetches broker-authoritative pip locations for the given
// instruments and returns them as a pip-unit table. Only currency and crypto
// instruments carry a usable pip location.
func (c *Client) PipTable(ctx context.Context, instruments []string) (market.PipTable, error) {
	path := fmt.Sprintf("/v3/accounts/%s/instruments", c.AccountID)
	body, err := c.Get(ctx, path, map[string]string{
		"instruments": strings.Join(instruments, ","),
	})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp struct {
		Instruments []struct {
			Name        string `json:"name"`
			PipLocation int    `json:"pipLocation"`
			Tags        []struct {
				Name string `json:"name"`
			} `json:"tags"`
		} `json:"instruments"`
	}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("oanda: decode instruments: %w", err)
	}

	table := make(market.PipTable, len(resp.Instruments))
	for _, in := range resp.Instruments {
		if len(in.Tags) == 0 {
			continue
		}
		switch in.Tags[0].Name {
		case "CURRENCY", "CRYPTO":
			table[in.Name] = math.Pow(10, float64(-in.PipLocation))
		}
	}
	return table, nil
}

func (c *Client) pricing(ctx context.Context, instrument string) (bid, ask float64, err error) {
	path := fmt.Sprintf("/v3/accounts/%s/pricing", c.AccountID)
	body, err := c.Get(ctx, path, map[string]string{"instruments": instrument})
	if err != nil {
		return 0, 0, err
	}
	defer body.Close()

	var resp struct {
		Prices []struct {
			CloseoutBid string `json:"closeoutBid"`
			CloseoutAsk string `json:"closeoutAsk"`
		} `json:"prices"`
	}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return 0, 0, fmt.Errorf("oanda: decode pricing: %w", err)
	}
	if len(resp.Prices) == 0 {
		return 0, 0, fmt.Errorf("oanda: no pricing for %q", instrument)
	}
	return parseFloat(resp.Prices[0].CloseoutBid), parseFloat(resp.Prices[0].CloseoutAsk), nil
}

// Bid returns the current closeout bid for the instrument.
func (c *Client) Bid(ctx context.Context, instrument string) (float64, error) {
	bid, _, err := c.pricing(ctx, instrument)
	return bid, err
}

// Ask returns the current closeout ask for the instrument.
func (c *Client) Ask(ctx context.Context, instrument string) (float64, error) {
	ask, _, err := c.pricing(ctx, instrument)
	return ask, err
}
