// Package journal implements the trade lifecycle: wallets, trades, the
// Open → Closed state machine, and the derived balance/equity/stat views
// the UI layers render. All persistence goes through store.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradebook/pnl"
)

// timeLayout is the on-disk timestamp format: local wall clock, second
// precision, no offset. Files written by earlier versions use the same
// layout, so it must not change.
const timeLayout = "2006-01-02T15:04:05"

// Timestamp marshals as the journal's on-disk layout instead of RFC3339.
type Timestamp struct {
	time.Time
}

// Now returns the current local time truncated to second precision.
func Now() Timestamp {
	return Timestamp{Time: time.Now().Truncate(time.Second)}
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.Format(timeLayout) + `"`), nil
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.ParseInLocation(timeLayout, s, time.Local)
	if err != nil {
		// Older exports carried offsets; accept them rather than drop
		// the record.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse timestamp %q: %w", s, err)
		}
	}
	ts.Time = t
	return nil
}

// Status of a trade. A trade is created Open and closes exactly once.
type Status string

const (
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
)

// Result of a closed trade, judged purely on realized PnL.
type Result string

const (
	ResultGain      Result = "Gain"
	ResultLoss      Result = "Loss"
	ResultBreakEven Result = "Break-even"
)

// CloseReason records which of the three close paths was taken.
type CloseReason string

const (
	CloseTP     CloseReason = "TP"
	CloseSL     CloseReason = "SL"
	CloseManual CloseReason = "Manual"
)

// Wallet is an independent capital pool. Its balance is never stored;
// it is always derived from InitialBalance plus the realized PnL of the
// wallet's closed trades.
type Wallet struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	InitialBalance float64   `json:"initial_balance"`
	RiskPercent    float64   `json:"risk_percent"`
	CreatedAt      Timestamp `json:"created_at"`
}

// Trade is one recorded position. The six exit-related pointer fields
// are nil while the trade is Open and are set together on close.
type Trade struct {
	ID               string        `json:"id"`
	WalletID         string        `json:"wallet_id"`
	Symbol           string        `json:"symbol"`
	Direction        pnl.Direction `json:"direction"`
	EntryPrice       float64       `json:"entry_price"`
	StopLoss         float64       `json:"stop_loss"`
	TakeProfit       float64       `json:"take_profit"`
	PositionSize     float64       `json:"position_size"`
	PositionValue    float64       `json:"position_value"`
	Reason           string        `json:"reason"`
	CreatedAt        Timestamp     `json:"created_at"`
	RiskAmount       float64       `json:"risk_amount"`
	RiskPctOfBalance float64       `json:"risk_pct_of_balance"`
	Status           Status        `json:"status"`

	ExitPrice   *float64     `json:"exit_price"`
	ClosedAt    *Timestamp   `json:"closed_at"`
	PnLAbs      *float64     `json:"pnl_abs"`
	PnLPct      *float64     `json:"pnl_pct"`
	Result      *Result      `json:"result"`
	CloseReason *CloseReason `json:"close_reason"`
}

// Closed reports whether the trade has left the Open state.
func (t *Trade) Closed() bool {
	return t.Status == StatusClosed
}

// closeStamp picks the ordering key for equity curves: close time, with
// the creation time as a fallback for malformed records.
func (t *Trade) closeStamp() time.Time {
	if t.ClosedAt != nil {
		return t.ClosedAt.Time
	}
	return t.CreatedAt.Time
}
