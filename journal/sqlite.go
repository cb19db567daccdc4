package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal persists records to a SQLite database at the given path.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, side, size, entry_price, exit_price, entry_bar, exit_bar, pnl, fees, net, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Side, t.Size, t.EntryPrice, t.ExitPrice,
		t.EntryBar, t.ExitBar, t.Pnl, t.Fees, t.Net, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (bar, balance, equity, fees)
		VALUES (?, ?, ?, ?)`,
		e.Bar, e.Balance, e.Equity, e.Fees,
	)
	return err
}

// ListTradesClosedBetween returns trades whose exit bar falls in
// [fromBar, toBar], ordered by exit bar.
func (j *SQLiteJournal) ListTradesClosedBetween(fromBar, toBar int) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, side, size, entry_price, exit_price, entry_bar, exit_bar, pnl, fees, net, reason
		FROM trades
		WHERE exit_bar >= ? AND exit_bar <= ?
		ORDER BY exit_bar, trade_id`,
		fromBar, toBar,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(&t.TradeID, &t.Side, &t.Size, &t.EntryPrice, &t.ExitPrice,
			&t.EntryBar, &t.ExitBar, &t.Pnl, &t.Fees, &t.Net, &t.Reason); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// EquityCurve returns the persisted equity series ordered by bar.
func (j *SQLiteJournal) EquityCurve() ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`SELECT bar, balance, equity, fees FROM equity ORDER BY bar`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.Bar, &e.Balance, &e.Equity, &e.Fees); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
