// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY,
	instrument TEXT NOT NULL,
	account TEXT NOT NULL,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME NOT NULL,
	duration INTEGER NOT NULL,
	side TEXT NOT NULL,
	size REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	trade_pips REAL NOT NULL,
	stop_loss_pips REAL NOT NULL,
	take_profit_pips REAL NOT NULL,
	canceled BOOLEAN NOT NULL,
	profit REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_exit_time ON trades(exit_time);
`

// tradeColumns is the stable column order shared by inserts, selects and
// the CSV export.
const tradeColumns = `id, instrument, account, entry_time, exit_time, duration, side, size, entry_price, exit_price, trade_pips, stop_loss_pips, take_profit_pips, canceled, profit`
