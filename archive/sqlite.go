package archive

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL,
	trade_id TEXT NOT NULL,
	wallet_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	size REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	realized_pnl REAL NOT NULL,
	close_reason TEXT NOT NULL,
	reason TEXT NOT NULL,
	PRIMARY KEY (run_id, trade_id)
);

CREATE INDEX IF NOT EXISTS idx_trades_close_time ON trades(close_time);
`

// SQLite archives trades into a local SQLite database.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (a *SQLite) RecordTrade(r TradeRecord) error {
	_, err := a.db.Exec(`
		INSERT OR REPLACE INTO trades
		(run_id, trade_id, wallet_id, symbol, direction, size, entry_price, exit_price, open_time, close_time, realized_pnl, close_reason, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.TradeID, r.WalletID, r.Symbol, r.Direction, r.Size,
		r.EntryPrice, r.ExitPrice, r.OpenTime, r.CloseTime, r.RealizedPnL,
		r.CloseReason, r.Reason,
	)
	return err
}

// GetTrade returns the most recently archived record for tradeID.
func (a *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := a.db.QueryRow(`
		SELECT run_id, trade_id, wallet_id, symbol, direction, size, entry_price, exit_price, open_time, close_time, realized_pnl, close_reason, reason
		FROM trades
		WHERE trade_id = ?
		ORDER BY run_id DESC
		LIMIT 1`, tradeID)

	var rec TradeRecord
	err := scanTrade(row.Scan, &rec)
	if err == sql.ErrNoRows {
		return TradeRecord{}, fmt.Errorf("trade %q not archived", tradeID)
	}
	if err != nil {
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesByRun returns every record of one export run, in close-time
// order.
func (a *SQLite) ListTradesByRun(runID string) ([]TradeRecord, error) {
	return a.list(`
		SELECT run_id, trade_id, wallet_id, symbol, direction, size, entry_price, exit_price, open_time, close_time, realized_pnl, close_reason, reason
		FROM trades
		WHERE run_id = ?
		ORDER BY close_time ASC`, runID)
}

// ListClosedBetween returns archived trades whose close_time falls in
// [start, end).
func (a *SQLite) ListClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	return a.list(`
		SELECT run_id, trade_id, wallet_id, symbol, direction, size, entry_price, exit_price, open_time, close_time, realized_pnl, close_reason, reason
		FROM trades
		WHERE close_time >= ? AND close_time < ?
		ORDER BY close_time ASC`, start, end)
}

func (a *SQLite) list(query string, args ...any) ([]TradeRecord, error) {
	rows, err := a.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := scanTrade(rows.Scan, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanTrade(scan func(...any) error, rec *TradeRecord) error {
	return scan(
		&rec.RunID,
		&rec.TradeID,
		&rec.WalletID,
		&rec.Symbol,
		&rec.Direction,
		&rec.Size,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.OpenTime,
		&rec.CloseTime,
		&rec.RealizedPnL,
		&rec.CloseReason,
		&rec.Reason,
	)
}

func (a *SQLite) Close() error {
	return a.db.Close()
}
