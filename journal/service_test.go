package journal_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/pnl"
	"github.com/rustyeddy/tradebook/store"
)

func newTestService(t *testing.T) *journal.Service {
	t.Helper()

	st, err := store.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return journal.NewService(st, zerolog.Nop())
}

func TestWalletLifecycleScenario(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	w, err := svc.CreateWallet("main", 10000, 1.0)
	require.NoError(t, err)
	require.NotEmpty(t, w.ID)

	// Trade A: Long, closed at TP
	a, err := svc.CreateTrade(journal.TradeParams{
		WalletID:   w.ID,
		Symbol:     "btcusdt",
		Direction:  pnl.Long,
		EntryPrice: 100,
		StopLoss:   90,
		TakeProfit: 120,
		Size:       10,
		Reason:     "breakout",
	})
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", a.Symbol)
	assert.Equal(t, journal.StatusOpen, a.Status)
	assert.Len(t, a.ID, 6)
	assert.InDelta(t, 1000.0, a.PositionValue, 1e-9)
	assert.InDelta(t, 100.0, a.RiskAmount, 1e-9)
	assert.InDelta(t, 1.0, a.RiskPctOfBalance, 1e-9)
	assert.Nil(t, a.ExitPrice)
	assert.Nil(t, a.Result)

	a, err = svc.CloseTrade(a.ID, journal.CloseTP, 0)
	require.NoError(t, err)
	require.NotNil(t, a.PnLAbs)
	assert.InDelta(t, 200.0, *a.PnLAbs, 1e-9)
	assert.Equal(t, journal.ResultGain, *a.Result)
	assert.Equal(t, journal.CloseTP, *a.CloseReason)
	assert.InDelta(t, 120.0, *a.ExitPrice, 1e-9)
	require.NotNil(t, a.PnLPct)
	assert.InDelta(t, 2.0, *a.PnLPct, 1e-9, "pnl pct against balance before this close")

	bal, err := svc.CurrentBalance(w.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10200.0, bal, 1e-9)

	// Trade B: Short, closed at SL
	b, err := svc.CreateTrade(journal.TradeParams{
		WalletID:   w.ID,
		Symbol:     "ETHUSDT",
		Direction:  pnl.Short,
		EntryPrice: 50,
		StopLoss:   55,
		TakeProfit: 40,
		Size:       20,
		Reason:     "rejection at resistance",
	})
	require.NoError(t, err)

	b, err = svc.CloseTrade(b.ID, journal.CloseSL, 0)
	require.NoError(t, err)
	assert.InDelta(t, -100.0, *b.PnLAbs, 1e-9)
	assert.Equal(t, journal.ResultLoss, *b.Result)

	bal, err = svc.CurrentBalance(w.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10100.0, bal, 1e-9)

	curve, err := svc.EquityCurve(w.ID)
	require.NoError(t, err)
	require.Len(t, curve, 2)
	assert.InDelta(t, 10200.0, curve[0].Balance, 1e-9)
	assert.InDelta(t, 10100.0, curve[1].Balance, 1e-9)

	stats, err := svc.Stats(w.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ClosedTrades)
	assert.Equal(t, 1, stats.Winners)
	assert.Equal(t, 1, stats.Losers)
	assert.InDelta(t, 50.0, stats.WinRatePct, 1e-9)
	assert.InDelta(t, 10100.0, stats.CurrentBalance, 1e-9)
}

func TestCloseIsNotReenterable(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	w, err := svc.CreateWallet("main", 1000, 1)
	require.NoError(t, err)

	tr, err := svc.CreateTrade(journal.TradeParams{
		WalletID: w.ID, Symbol: "SOLUSDT", Direction: pnl.Long,
		EntryPrice: 10, StopLoss: 9, TakeProfit: 12, Size: 5, Reason: "test",
	})
	require.NoError(t, err)

	_, err = svc.CloseTrade(tr.ID, journal.CloseManual, 11)
	require.NoError(t, err)

	_, err = svc.CloseTrade(tr.ID, journal.CloseTP, 0)
	var verr *journal.ValidationError
	require.ErrorAs(t, err, &verr)

	// no double-counted PnL
	bal, err := svc.CurrentBalance(w.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1005.0, bal, 1e-9)
}

func TestCreateTradeValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	w, err := svc.CreateWallet("main", 1000, 1)
	require.NoError(t, err)

	valid := journal.TradeParams{
		WalletID: w.ID, Symbol: "XRPUSDT", Direction: pnl.Long,
		EntryPrice: 1, StopLoss: 0.9, TakeProfit: 1.2, Size: 100, Reason: "r",
	}

	tests := []struct {
		name   string
		mutate func(*journal.TradeParams)
	}{
		{"empty_symbol", func(p *journal.TradeParams) { p.Symbol = "  " }},
		{"zero_entry", func(p *journal.TradeParams) { p.EntryPrice = 0 }},
		{"negative_sl", func(p *journal.TradeParams) { p.StopLoss = -1 }},
		{"zero_size", func(p *journal.TradeParams) { p.Size = 0 }},
		{"empty_reason", func(p *journal.TradeParams) { p.Reason = "" }},
		{"bad_direction", func(p *journal.TradeParams) { p.Direction = "Sideways" }},
		{"unknown_wallet", func(p *journal.TradeParams) { p.WalletID = "nope" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			_, err := svc.CreateTrade(p)
			var verr *journal.ValidationError
			assert.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
		})
	}

	// the valid params do pass, and zero take-profit is allowed
	p := valid
	p.TakeProfit = 0
	_, err = svc.CreateTrade(p)
	assert.NoError(t, err)
}

func TestCloseAtTPRequiresTarget(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	w, err := svc.CreateWallet("main", 1000, 1)
	require.NoError(t, err)

	tr, err := svc.CreateTrade(journal.TradeParams{
		WalletID: w.ID, Symbol: "BTCUSDT", Direction: pnl.Long,
		EntryPrice: 100, StopLoss: 90, TakeProfit: 0, Size: 1, Reason: "no target",
	})
	require.NoError(t, err)

	_, err = svc.CloseTrade(tr.ID, journal.CloseTP, 0)
	var verr *journal.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.CloseTrade(tr.ID, journal.CloseManual, 0)
	assert.ErrorAs(t, err, &verr, "manual close needs a positive price")

	tr, err = svc.CloseTrade(tr.ID, journal.CloseSL, 0)
	require.NoError(t, err)
	assert.InDelta(t, -10.0, *tr.PnLAbs, 1e-9)
}

func TestEditOpenTradeRecomputesRisk(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	w, err := svc.CreateWallet("main", 10000, 1)
	require.NoError(t, err)

	tr, err := svc.CreateTrade(journal.TradeParams{
		WalletID: w.ID, Symbol: "BTCUSDT", Direction: pnl.Long,
		EntryPrice: 100, StopLoss: 90, TakeProfit: 120, Size: 10, Reason: "r",
	})
	require.NoError(t, err)

	newSL := 95.0
	newSize := 20.0
	tr, err = svc.EditOpenTrade(tr.ID, journal.TradeEdit{StopLoss: &newSL, Size: &newSize})
	require.NoError(t, err)

	assert.InDelta(t, 95.0, tr.StopLoss, 1e-9)
	assert.InDelta(t, 20.0, tr.PositionSize, 1e-9)
	assert.InDelta(t, 2000.0, tr.PositionValue, 1e-9)
	assert.InDelta(t, 100.0, tr.RiskAmount, 1e-9)
	assert.InDelta(t, 1.0, tr.RiskPctOfBalance, 1e-9)
}

func TestEditClosedTradeRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	w, err := svc.CreateWallet("main", 1000, 1)
	require.NoError(t, err)

	tr, err := svc.CreateTrade(journal.TradeParams{
		WalletID: w.ID, Symbol: "BTCUSDT", Direction: pnl.Long,
		EntryPrice: 100, StopLoss: 90, TakeProfit: 120, Size: 1, Reason: "r",
	})
	require.NoError(t, err)
	_, err = svc.CloseTrade(tr.ID, journal.CloseTP, 0)
	require.NoError(t, err)

	entry := 105.0
	_, err = svc.EditOpenTrade(tr.ID, journal.TradeEdit{EntryPrice: &entry})
	var verr *journal.ValidationError
	assert.ErrorAs(t, err, &verr)

	// deletion still works on a closed trade
	assert.NoError(t, svc.DeleteTrade(tr.ID))
}

func TestDeleteWalletCascades(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	w, err := svc.CreateWallet("doomed", 1000, 1)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateTrade(journal.TradeParams{
			WalletID: w.ID, Symbol: "BTCUSDT", Direction: pnl.Long,
			EntryPrice: 100, StopLoss: 90, TakeProfit: 120, Size: 1, Reason: "r",
		})
		require.NoError(t, err)
	}
	require.Len(t, svc.ListTrades(journal.Filter{WalletID: w.ID}), 3)

	require.NoError(t, svc.DeleteWallet(w.ID))
	assert.Empty(t, svc.ListTrades(journal.Filter{WalletID: w.ID}))
	assert.Empty(t, svc.Wallets())
}

func TestListTradesFilters(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	w, err := svc.CreateWallet("main", 1000, 1)
	require.NoError(t, err)

	btc, err := svc.CreateTrade(journal.TradeParams{
		WalletID: w.ID, Symbol: "BTCUSDT", Direction: pnl.Long,
		EntryPrice: 100, StopLoss: 90, TakeProfit: 120, Size: 1, Reason: "r",
	})
	require.NoError(t, err)
	_, err = svc.CreateTrade(journal.TradeParams{
		WalletID: w.ID, Symbol: "ETHUSDT", Direction: pnl.Short,
		EntryPrice: 50, StopLoss: 55, TakeProfit: 40, Size: 2, Reason: "r",
	})
	require.NoError(t, err)
	_, err = svc.CloseTrade(btc.ID, journal.CloseTP, 0)
	require.NoError(t, err)

	assert.Len(t, svc.ListTrades(journal.Filter{}), 2)
	assert.Len(t, svc.ListTrades(journal.Filter{Symbol: "btc"}), 1)
	assert.Len(t, svc.ListTrades(journal.Filter{Status: journal.StatusOpen}), 1)
	assert.Len(t, svc.ListTrades(journal.Filter{Status: journal.StatusClosed}), 1)
	assert.Empty(t, svc.ListTrades(journal.Filter{WalletID: "other"}))
}

func TestCreateWalletValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	var verr *journal.ValidationError
	_, err := svc.CreateWallet("", 1000, 1)
	assert.ErrorAs(t, err, &verr)
	_, err = svc.CreateWallet("w", -1, 1)
	assert.ErrorAs(t, err, &verr)
	_, err = svc.CreateWallet("w", 1000, 101)
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateWalletShiftsDerivedBalance(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	w, err := svc.CreateWallet("main", 1000, 1)
	require.NoError(t, err)

	tr, err := svc.CreateTrade(journal.TradeParams{
		WalletID: w.ID, Symbol: "BTCUSDT", Direction: pnl.Long,
		EntryPrice: 100, StopLoss: 90, TakeProfit: 120, Size: 1, Reason: "r",
	})
	require.NoError(t, err)
	_, err = svc.CloseTrade(tr.ID, journal.CloseTP, 0)
	require.NoError(t, err)

	// explicit user edit of the initial balance moves every derived figure
	w.InitialBalance = 2000
	require.NoError(t, svc.UpdateWallet(w))

	bal, err := svc.CurrentBalance(w.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2020.0, bal, 1e-9)
}

func TestGlobalStatsSpanWallets(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	w1, err := svc.CreateWallet("one", 1000, 1)
	require.NoError(t, err)
	w2, err := svc.CreateWallet("two", 500, 1)
	require.NoError(t, err)

	tr, err := svc.CreateTrade(journal.TradeParams{
		WalletID: w1.ID, Symbol: "BTCUSDT", Direction: pnl.Long,
		EntryPrice: 100, StopLoss: 90, TakeProfit: 120, Size: 1, Reason: "r",
	})
	require.NoError(t, err)
	_, err = svc.CloseTrade(tr.ID, journal.CloseTP, 0)
	require.NoError(t, err)

	_, err = svc.CreateTrade(journal.TradeParams{
		WalletID: w2.ID, Symbol: "ETHUSDT", Direction: pnl.Short,
		EntryPrice: 50, StopLoss: 55, TakeProfit: 40, Size: 2, Reason: "r",
	})
	require.NoError(t, err)

	s, err := svc.Stats("")
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalTrades)
	assert.Equal(t, 1, s.OpenTrades)
	assert.InDelta(t, 1520.0, s.CurrentBalance, 1e-9, "initial balances summed across wallets")
}

func TestSettingsRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	assert.Equal(t, "dark", svc.Setting("theme"))
	require.NoError(t, svc.PutSetting("theme", "light"))
	assert.Equal(t, "light", svc.Setting("theme"))
	assert.Empty(t, svc.Setting("missing"))
}

func TestSymbolsNormalized(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	require.NoError(t, svc.AddSymbol("  adausdt "))
	require.NoError(t, svc.AddSymbol("ADAUSDT"))

	syms := svc.Symbols()
	count := 0
	for _, s := range syms {
		if s == "ADAUSDT" {
			count++
		}
	}
	assert.Equal(t, 1, count, "symbols are upper-cased and de-duplicated")
	assert.IsIncreasing(t, syms)
}
