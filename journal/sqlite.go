package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the ledger database at path. An unreachable
// or unwritable database is a startup-fatal condition for the caller.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) SaveTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Instrument, t.Account, t.EntryTime, t.ExitTime, t.Duration,
		t.Side, t.Size, t.EntryPrice, t.ExitPrice, t.Pips,
		t.StopPips, t.TakePips, t.Canceled, t.Profit,
	)
	return err
}

func (j *SQLite) RemoveTrade(id int64) error {
	_, err := j.db.Exec(`DELETE FROM trades WHERE id = ?`, id)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
