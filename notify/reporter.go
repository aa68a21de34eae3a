package notify

import (
	"context"
	"log"
	"time"
)

// Reporter fires the periodic Telegram summaries: a daily report at Hour
// o'clock and a weekly report at the same hour on Fridays. Each report
// fires at most once per day; the pending flags rearm at midnight.
type Reporter struct {
	Telegram *Telegram
	Hour     int

	daily  bool
	weekly bool
}

func NewReporter(tg *Telegram, hour int) *Reporter {
	return &Reporter{Telegram: tg, Hour: hour, daily: true, weekly: true}
}

// Tick evaluates the schedule against now.
func (r *Reporter) Tick(now time.Time) {
	if now.Hour() == 0 {
		r.daily = true
		if now.Weekday() == time.Friday {
			r.weekly = true
		}
	}
	if now.Hour() != r.Hour {
		return
	}
	if r.daily {
		if err := r.Telegram.DailyReport(now); err != nil {
			log.Printf("telegram: daily report: %v", err)
		} else {
			r.daily = false
		}
	}
	if r.weekly && now.Weekday() == time.Friday {
		monday := midnight(now).AddDate(0, 0, -4)
		if err := r.Telegram.WeeklyReport(monday, now); err != nil {
			log.Printf("telegram: weekly report: %v", err)
		} else {
			r.weekly = false
		}
	}
}

// Run ticks the schedule until the context is canceled.
func (r *Reporter) Run(ctx context.Context, every time.Duration) {
	tick := time.NewTicker(every)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			r.Tick(now)
		}
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
