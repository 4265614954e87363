package journal

// Summary aggregates the journal the way the stats view presents it.
type Summary struct {
	TotalTrades    int     `json:"total_trades"`
	ClosedTrades   int     `json:"closed_trades"`
	OpenTrades     int     `json:"open_trades"`
	Winners        int     `json:"winners"`
	Losers         int     `json:"losers"`
	BreakEven      int     `json:"breakeven"`
	WinRatePct     float64 `json:"winrate_pct"`
	PnLTotal       float64 `json:"pnl_total"`
	CurrentBalance float64 `json:"current_balance"`
	GrowthPct      float64 `json:"growth_pct"`
}

// Summarize computes the aggregate figures over trades against the
// summed initial balance of the wallets they belong to.
func Summarize(trades []Trade, initialSum float64) Summary {
	s := Summary{TotalTrades: len(trades)}

	var pnlTotal float64
	for i := range trades {
		t := &trades[i]
		if !t.Closed() {
			continue
		}
		s.ClosedTrades++
		var p float64
		if t.PnLAbs != nil {
			p = *t.PnLAbs
		}
		pnlTotal += p
		switch {
		case p > 0:
			s.Winners++
		case p < 0:
			s.Losers++
		default:
			s.BreakEven++
		}
	}

	s.OpenTrades = s.TotalTrades - s.ClosedTrades
	s.PnLTotal = pnlTotal
	s.CurrentBalance = initialSum + pnlTotal
	if s.ClosedTrades > 0 {
		s.WinRatePct = float64(s.Winners) / float64(s.ClosedTrades) * 100
	}
	if initialSum > 0 {
		s.GrowthPct = (s.CurrentBalance - initialSum) / initialSum * 100
	}
	return s
}
