package oanda

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rustyeddy/fxbot/broker"
)

// StreamTransactions connects to the account transaction stream and invokes
// handle once per transaction message, in arrival order. It returns when the
// stream ends, the context is done, or handle returns an error.
func (c *Client) StreamTransactions(
	ctx context.Context,
	handle func(broker.TransactionEvent) error,
) error {
	if c.AccountID == "" {
		return fmt.Errorf("oanda: missing AccountID")
	}

	// streaming endpoints live on the stream host, not the REST host
	stream := *c
	stream.BaseURL = strings.Replace(c.BaseURL, "//api-", "//stream-", 1)

	path := fmt.Sprintf("/v3/accounts/%s/transactions/stream", c.AccountID)
	body, err := stream.Get(ctx, path, nil)
	if err != nil {
		return err
	}
	defer body.Close()

	sc := bufio.NewScanner(body)
	// stream messages can be long; bump max token
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var tx apiTransaction
		if err := json.Unmarshal([]byte(line), &tx); err != nil {
			return fmt.Errorf("oanda: bad json: %w (line=%q)", err, trimForErr(line))
		}

		// HEARTBEAT messages exist; ignore them
		if strings.EqualFold(tx.Type, "HEARTBEAT") {
			continue
		}

		if err := handle(tx.event()); err != nil {
			return err
		}
	}

	if err := sc.Err(); err != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		return err
	}

	return nil
}

func trimForErr(s string) string {
	const n = 200
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
