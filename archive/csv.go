package archive

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSV archives trades into a single CSV file with a header row.
type CSV struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"run_id", "trade_id", "wallet_id", "symbol", "direction", "size",
		"entry_price", "exit_price", "open_time", "close_time",
		"realized_pnl", "close_reason", "reason",
	}); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSV{w: w, f: f}, nil
}

func (a *CSV) RecordTrade(r TradeRecord) error {
	if err := a.w.Write([]string{
		r.RunID,
		r.TradeID,
		r.WalletID,
		r.Symbol,
		r.Direction,
		f(r.Size),
		f(r.EntryPrice),
		f(r.ExitPrice),
		r.OpenTime.Format(time.RFC3339),
		r.CloseTime.Format(time.RFC3339),
		f(r.RealizedPnL),
		r.CloseReason,
		r.Reason,
	}); err != nil {
		return err
	}
	a.w.Flush()
	return a.w.Error()
}

func (a *CSV) Close() error {
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		return err
	}
	return a.f.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
