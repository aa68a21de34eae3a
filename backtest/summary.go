package backtest

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/fxbot/journal"
	"github.com/rustyeddy/fxbot/market"
)

// Summary aggregates the profit and loss statistics of a set of closed
// trades.
type Summary struct {
	Trades    int
	Won       int
	Lost      int
	Long      int
	LongWon   int
	LongLost  int
	Short     int
	ShortWon  int
	ShortLost int

	TotalProfit float64
	TotalLoss   float64
	MeanProfit  float64
	MeanLoss    float64

	WinStreak  int
	LossStreak int
}

// Summarize walks the records in order and tallies wins, losses, streaks
// and totals. A trade with zero profit counts as a loss.
func Summarize(recs []journal.TradeRecord) Summary {
	var s Summary
	var wonRun, lostRun int

	for _, r := range recs {
		long := r.Side == string(market.Buy)
		if r.Profit > 0 {
			s.Won++
			s.TotalProfit += r.Profit
			if long {
				s.LongWon++
			} else {
				s.ShortWon++
			}
			wonRun++
			lostRun = 0
			if wonRun > s.WinStreak {
				s.WinStreak = wonRun
			}
		} else {
			s.Lost++
			s.TotalLoss += -r.Profit
			if long {
				s.LongLost++
			} else {
				s.ShortLost++
			}
			lostRun++
			wonRun = 0
			if lostRun > s.LossStreak {
				s.LossStreak = lostRun
			}
		}
	}

	s.Trades = s.Won + s.Lost
	s.Long = s.LongWon + s.LongLost
	s.Short = s.ShortWon + s.ShortLost
	if s.Won > 0 {
		s.MeanProfit = s.TotalProfit / float64(s.Won)
	}
	if s.Lost > 0 {
		s.MeanLoss = s.TotalLoss / float64(s.Lost)
	}
	return s
}

// Net is total profit minus total loss.
func (s Summary) Net() float64 { return s.TotalProfit - s.TotalLoss }

// WinRate is the fraction of trades that made money, 0 when there were no
// trades.
func (s Summary) WinRate() float64 {
	if s.Trades == 0 {
		return 0
	}
	return float64(s.Won) / float64(s.Trades)
}

// Report renders the summary as a fixed-width text block.
func (s Summary) Report(name, currency string) string {
	var b strings.Builder
	line := strings.Repeat("=", 44)

	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "***** REPORT -- %s *****\n", name)
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Returns: %.2f %s\n", s.Net(), currency)
	fmt.Fprintf(&b, "Total profit: %.2f %s\n", s.TotalProfit, currency)
	fmt.Fprintf(&b, "Mean profit: %.2f %s\n", s.MeanProfit, currency)
	fmt.Fprintf(&b, "Longest winning streak: %d\n", s.WinStreak)
	fmt.Fprintf(&b, "Total loss: %.2f %s\n", s.TotalLoss, currency)
	fmt.Fprintf(&b, "Mean loss: %.2f %s\n", s.MeanLoss, currency)
	fmt.Fprintf(&b, "Longest losing streak: %d\n", s.LossStreak)
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Trades: %d\n", s.Trades)
	fmt.Fprintf(&b, "    Won: %d\n", s.Won)
	fmt.Fprintf(&b, "    Lost: %d\n", s.Lost)
	fmt.Fprintf(&b, "Win rate: %.3f\n", s.WinRate())
	fmt.Fprintf(&b, "Long: %d (won %d, lost %d)\n", s.Long, s.LongWon, s.LongLost)
	fmt.Fprintf(&b, "Short: %d (won %d, lost %d)\n", s.Short, s.ShortWon, s.ShortLost)
	fmt.Fprintln(&b, line)
	return b.String()
}
