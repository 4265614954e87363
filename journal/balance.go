package journal

import "sort"

// CurrentBalance folds the realized PnL of closed trades onto the
// wallet's initial balance. Addition commutes, so no ordering is needed.
// A Closed trade with a missing pnl_abs is a data-integrity gap and
// contributes zero rather than failing the fold.
func CurrentBalance(trades []Trade, initialBalance float64) float64 {
	bal := initialBalance
	for i := range trades {
		t := &trades[i]
		if t.Closed() && t.PnLAbs != nil {
			bal += *t.PnLAbs
		}
	}
	return bal
}

// EquityPoint is one step of the cumulative balance series.
type EquityPoint struct {
	Time    Timestamp `json:"time"`
	Balance float64   `json:"balance"`
}

// EquityCurve returns one point per closed trade, ordered by close time
// (creation time for records missing it), starting from initialBalance.
// Pure over its input: callers may rebuild the curve at any time.
func EquityCurve(trades []Trade, initialBalance float64) []EquityPoint {
	closed := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.Closed() && t.PnLAbs != nil {
			closed = append(closed, t)
		}
	}
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].closeStamp().Before(closed[j].closeStamp())
	})

	bal := initialBalance
	points := make([]EquityPoint, 0, len(closed))
	for _, t := range closed {
		bal += *t.PnLAbs
		points = append(points, EquityPoint{Time: Timestamp{Time: t.closeStamp()}, Balance: bal})
	}
	return points
}
