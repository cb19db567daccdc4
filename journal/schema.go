package journal

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	side TEXT NOT NULL,
	size REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	entry_bar INTEGER NOT NULL,
	exit_bar INTEGER NOT NULL,
	pnl REAL NOT NULL,
	fees REAL NOT NULL,
	net REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	bar INTEGER NOT NULL,
	balance REAL NOT NULL,
	equity REAL NOT NULL,
	fees REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_exit_bar ON trades(exit_bar);
CREATE INDEX IF NOT EXISTS idx_equity_bar ON equity(bar);
`
