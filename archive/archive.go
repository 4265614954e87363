// Package archive exports closed trades out of the live journal for
// offline review: a CSV file for spreadsheets, or a SQLite database for
// ad-hoc queries. Each export is a run keyed by a ULID so repeated
// exports into the same database stay distinguishable.
package archive

import (
	"time"

	"github.com/rustyeddy/tradebook/journal"
)

// TradeRecord is the flattened, closed-only shape written to an archive
// backend.
type TradeRecord struct {
	RunID       string
	TradeID     string
	WalletID    string
	Symbol      string
	Direction   string
	Size        float64
	EntryPrice  float64
	ExitPrice   float64
	OpenTime    time.Time
	CloseTime   time.Time
	RealizedPnL float64
	CloseReason string
	Reason      string
}

// Archive is a write-side export target.
type Archive interface {
	RecordTrade(TradeRecord) error
	Close() error
}

// Records flattens the closed trades among trades into archive records
// tagged with runID. Open trades and closed trades with no realized PnL
// are left out; the archive is a ledger of realized results.
func Records(runID string, trades []journal.Trade) []TradeRecord {
	var out []TradeRecord
	for _, t := range trades {
		if !t.Closed() || t.PnLAbs == nil || t.ExitPrice == nil || t.ClosedAt == nil {
			continue
		}
		reason := ""
		if t.CloseReason != nil {
			reason = string(*t.CloseReason)
		}
		out = append(out, TradeRecord{
			RunID:       runID,
			TradeID:     t.ID,
			WalletID:    t.WalletID,
			Symbol:      t.Symbol,
			Direction:   string(t.Direction),
			Size:        t.PositionSize,
			EntryPrice:  t.EntryPrice,
			ExitPrice:   *t.ExitPrice,
			OpenTime:    t.CreatedAt.Time,
			CloseTime:   t.ClosedAt.Time,
			RealizedPnL: *t.PnLAbs,
			CloseReason: reason,
			Reason:      t.Reason,
		})
	}
	return out
}

// Export writes the closed trades among trades to a, returning how many
// records were written.
func Export(a Archive, runID string, trades []journal.Trade) (int, error) {
	recs := Records(runID, trades)
	for _, r := range recs {
		if err := a.RecordTrade(r); err != nil {
			return 0, err
		}
	}
	return len(recs), nil
}

// DayBounds returns the [start, end) interval covering the local day
// given as YYYY-MM-DD.
func DayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour), nil
}
