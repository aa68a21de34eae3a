package journal

import (
	"database/sql"
	"time"
)

func scanTrade(row interface{ Scan(...any) error }) (TradeRecord, error) {
	var rec TradeRecord
	err := row.Scan(
		&rec.ID,
		&rec.Instrument,
		&rec.Account,
		&rec.EntryTime,
		&rec.ExitTime,
		&rec.Duration,
		&rec.Side,
		&rec.Size,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.Pips,
		&rec.StopPips,
		&rec.TakePips,
		&rec.Canceled,
		&rec.Profit,
	)
	return rec, err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(id int64) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE id = ?`, id)

	rec, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return TradeRecord{}, ErrNotFound
	}
	if err != nil {
		return TradeRecord{}, err
	}
	return rec, nil
}

// TradesBetween returns trades whose exit_time is within [start, end).
func (j *SQLite) TradesBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE exit_time >= ? AND exit_time < ?
		ORDER BY exit_time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TradesByDay returns trades that closed on the given calendar day (UTC).
func (j *SQLite) TradesByDay(day time.Time) ([]TradeRecord, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return j.TradesBetween(start, start.Add(24*time.Hour))
}
