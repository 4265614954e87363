package journal

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradebook/pnl"
)

// Store is the durable home of the journal's collections. Mutating
// calls persist the whole owning collection before returning.
// DeleteWallet cascades to the wallet's trades.
type Store interface {
	Wallets() []Wallet
	Wallet(id string) (Wallet, bool)
	PutWallet(Wallet) error
	DeleteWallet(id string) error

	Trades() []Trade
	Trade(id string) (Trade, bool)
	PutTrade(Trade) error
	DeleteTrade(id string) error
	TradesForWallet(walletID string) []Trade

	Symbols() []string
	PutSymbols([]string) error

	Settings() map[string]string
	PutSetting(key, value string) error
}

// Service is the single entry point the presentation layers call. It
// owns no state of its own beyond the injected store and logger.
type Service struct {
	store Store
	log   zerolog.Logger

	// now is a seam for tests; production uses wall-clock Now.
	now func() Timestamp
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("component", "journal").Logger(),
		now:   Now,
	}
}

// CreateWallet registers a new capital pool.
func (s *Service) CreateWallet(name string, initialBalance, riskPercent float64) (Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Wallet{}, invalidf("name", "must not be empty")
	}
	if initialBalance < 0 {
		return Wallet{}, invalidf("initial_balance", "must not be negative")
	}
	if riskPercent < 0 || riskPercent > 100 {
		return Wallet{}, invalidf("risk_percent", "must be between 0 and 100")
	}

	w := Wallet{
		ID:             NewWalletID(),
		Name:           name,
		InitialBalance: initialBalance,
		RiskPercent:    riskPercent,
		CreatedAt:      s.now(),
	}
	if err := s.store.PutWallet(w); err != nil {
		return Wallet{}, err
	}
	s.log.Info().Str("wallet", w.ID).Str("name", w.Name).Msg("wallet created")
	return w, nil
}

// UpdateWallet overwrites a wallet's attributes. Changing
// InitialBalance retroactively shifts every balance derived for the
// wallet; that is the documented meaning of this explicit edit, never a
// silent recalculation.
func (s *Service) UpdateWallet(w Wallet) error {
	if _, ok := s.store.Wallet(w.ID); !ok {
		return invalidf("wallet_id", "unknown wallet %q", w.ID)
	}
	if strings.TrimSpace(w.Name) == "" {
		return invalidf("name", "must not be empty")
	}
	if w.InitialBalance < 0 {
		return invalidf("initial_balance", "must not be negative")
	}
	return s.store.PutWallet(w)
}

// DeleteWallet removes a wallet and every trade that references it.
func (s *Service) DeleteWallet(id string) error {
	if _, ok := s.store.Wallet(id); !ok {
		return invalidf("wallet_id", "unknown wallet %q", id)
	}
	if err := s.store.DeleteWallet(id); err != nil {
		return err
	}
	s.log.Info().Str("wallet", id).Msg("wallet deleted with its trades")
	return nil
}

// Wallets lists every wallet in file order.
func (s *Service) Wallets() []Wallet { return s.store.Wallets() }

// TradeParams carries the entry-form fields for a new trade.
type TradeParams struct {
	WalletID   string
	Symbol     string
	Direction  pnl.Direction
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Size       float64
	Reason     string
}

// CreateTrade validates the parameters and records a new Open trade.
// Prices and the position value are stored rounded to 2 decimals. The
// take-profit is deliberately not gated: a trade without a target is
// unusual but allowed.
func (s *Service) CreateTrade(p TradeParams) (Trade, error) {
	wallet, ok := s.store.Wallet(p.WalletID)
	if !ok {
		return Trade{}, invalidf("wallet_id", "unknown wallet %q", p.WalletID)
	}
	symbol := strings.ToUpper(strings.TrimSpace(p.Symbol))
	if symbol == "" {
		return Trade{}, invalidf("symbol", "must not be empty")
	}
	if p.Direction != pnl.Long && p.Direction != pnl.Short {
		return Trade{}, invalidf("direction", "must be Long or Short")
	}
	if p.EntryPrice <= 0 {
		return Trade{}, invalidf("entry_price", "must be positive")
	}
	if p.StopLoss <= 0 {
		return Trade{}, invalidf("stop_loss", "must be positive")
	}
	if p.Size <= 0 {
		return Trade{}, invalidf("position_size", "must be positive")
	}
	if strings.TrimSpace(p.Reason) == "" {
		return Trade{}, invalidf("reason", "must not be empty")
	}

	existing := make(map[string]Trade)
	for _, t := range s.store.Trades() {
		existing[t.ID] = t
	}
	code, err := NewTradeCode(existing)
	if err != nil {
		return Trade{}, err
	}

	bal := CurrentBalance(s.store.TradesForWallet(wallet.ID), wallet.InitialBalance)
	entry := pnl.Round2(p.EntryPrice)
	riskAmount := pnl.RiskAmount(entry, pnl.Round2(p.StopLoss), p.Size)

	t := Trade{
		ID:               code,
		WalletID:         wallet.ID,
		Symbol:           symbol,
		Direction:        p.Direction,
		EntryPrice:       entry,
		StopLoss:         pnl.Round2(p.StopLoss),
		TakeProfit:       pnl.Round2(p.TakeProfit),
		PositionSize:     p.Size,
		PositionValue:    pnl.Round2(entry * p.Size),
		Reason:           strings.TrimSpace(p.Reason),
		CreatedAt:        s.now(),
		RiskAmount:       riskAmount,
		RiskPctOfBalance: pnl.RiskPct(riskAmount, bal),
		Status:           StatusOpen,
	}
	if err := s.store.PutTrade(t); err != nil {
		return Trade{}, err
	}
	s.log.Info().Str("trade", t.ID).Str("symbol", t.Symbol).
		Str("direction", string(t.Direction)).Float64("size", t.PositionSize).
		Msg("trade opened")
	return t, nil
}

// CloseTrade moves an Open trade to Closed through one of the three
// close paths. The PnL percentage is computed against the wallet
// balance immediately before this close; closes are processed one at a
// time, so the base never includes the trade being closed.
func (s *Service) CloseTrade(id string, reason CloseReason, manualPrice float64) (Trade, error) {
	t, ok := s.store.Trade(id)
	if !ok {
		return Trade{}, invalidf("trade_id", "unknown trade %q", id)
	}
	if t.Closed() {
		return Trade{}, invalidf("status", "trade %s is already closed", id)
	}

	var exit float64
	switch reason {
	case CloseTP:
		exit = t.TakeProfit
		if exit <= 0 {
			return Trade{}, invalidf("take_profit", "trade %s has no take-profit to close at", id)
		}
	case CloseSL:
		exit = t.StopLoss
		if exit <= 0 {
			return Trade{}, invalidf("stop_loss", "trade %s has no stop-loss to close at", id)
		}
	case CloseManual:
		exit = manualPrice
		if exit <= 0 {
			return Trade{}, invalidf("exit_price", "manual close price must be positive")
		}
	default:
		return Trade{}, invalidf("close_reason", "unknown close method %q", reason)
	}
	exit = pnl.Round2(exit)

	wallet, ok := s.store.Wallet(t.WalletID)
	if !ok {
		return Trade{}, invalidf("wallet_id", "trade %s references unknown wallet %q", id, t.WalletID)
	}
	balBefore := CurrentBalance(s.store.TradesForWallet(wallet.ID), wallet.InitialBalance)

	p := pnl.PnL(t.Direction, t.EntryPrice, exit, t.PositionSize)
	now := s.now()

	t.Status = StatusClosed
	t.ExitPrice = &exit
	t.ClosedAt = &now
	t.PnLAbs = &p
	t.CloseReason = &reason
	if balBefore > 0 {
		pct := p / balBefore * 100
		t.PnLPct = &pct
	} else {
		t.PnLPct = nil
	}
	res := ResultBreakEven
	switch {
	case p > 0:
		res = ResultGain
	case p < 0:
		res = ResultLoss
	}
	t.Result = &res

	if err := s.store.PutTrade(t); err != nil {
		return Trade{}, err
	}
	s.log.Info().Str("trade", t.ID).Str("close_reason", string(reason)).
		Float64("exit", exit).Float64("pnl", p).Str("result", string(res)).
		Msg("trade closed")
	return t, nil
}

// TradeEdit carries the optional field updates for an Open trade.
type TradeEdit struct {
	EntryPrice *float64
	StopLoss   *float64
	TakeProfit *float64
	Size       *float64
}

// EditOpenTrade updates an Open trade's prices or size and recomputes
// the derived position value and risk figures. Closed trades reject
// economic edits; only DeleteTrade removes them.
func (s *Service) EditOpenTrade(id string, e TradeEdit) (Trade, error) {
	t, ok := s.store.Trade(id)
	if !ok {
		return Trade{}, invalidf("trade_id", "unknown trade %q", id)
	}
	if t.Closed() {
		return Trade{}, invalidf("status", "trade %s is closed and cannot be edited", id)
	}

	if e.EntryPrice != nil {
		if *e.EntryPrice <= 0 {
			return Trade{}, invalidf("entry_price", "must be positive")
		}
		t.EntryPrice = pnl.Round2(*e.EntryPrice)
	}
	if e.StopLoss != nil {
		if *e.StopLoss <= 0 {
			return Trade{}, invalidf("stop_loss", "must be positive")
		}
		t.StopLoss = pnl.Round2(*e.StopLoss)
	}
	if e.TakeProfit != nil {
		if *e.TakeProfit < 0 {
			return Trade{}, invalidf("take_profit", "must not be negative")
		}
		t.TakeProfit = pnl.Round2(*e.TakeProfit)
	}
	if e.Size != nil {
		if *e.Size <= 0 {
			return Trade{}, invalidf("position_size", "must be positive")
		}
		t.PositionSize = *e.Size
	}

	t.PositionValue = pnl.Round2(t.EntryPrice * t.PositionSize)
	t.RiskAmount = pnl.RiskAmount(t.EntryPrice, t.StopLoss, t.PositionSize)

	wallet, ok := s.store.Wallet(t.WalletID)
	if ok {
		bal := CurrentBalance(s.store.TradesForWallet(wallet.ID), wallet.InitialBalance)
		t.RiskPctOfBalance = pnl.RiskPct(t.RiskAmount, bal)
	}

	if err := s.store.PutTrade(t); err != nil {
		return Trade{}, err
	}
	return t, nil
}

// DeleteTrade removes a trade permanently, Open or Closed.
func (s *Service) DeleteTrade(id string) error {
	if _, ok := s.store.Trade(id); !ok {
		return invalidf("trade_id", "unknown trade %q", id)
	}
	return s.store.DeleteTrade(id)
}

// CurrentBalance derives the wallet's balance from its closed-trade
// ledger. Never cached, never stored.
func (s *Service) CurrentBalance(walletID string) (float64, error) {
	w, ok := s.store.Wallet(walletID)
	if !ok {
		return 0, invalidf("wallet_id", "unknown wallet %q", walletID)
	}
	return CurrentBalance(s.store.TradesForWallet(w.ID), w.InitialBalance), nil
}

// EquityCurve returns the wallet's cumulative balance series.
func (s *Service) EquityCurve(walletID string) ([]EquityPoint, error) {
	w, ok := s.store.Wallet(walletID)
	if !ok {
		return nil, invalidf("wallet_id", "unknown wallet %q", walletID)
	}
	return EquityCurve(s.store.TradesForWallet(w.ID), w.InitialBalance), nil
}

// Filter narrows ListTrades. Zero values match everything; the date
// range applies to the creation time, inclusive on both ends.
type Filter struct {
	WalletID string
	Symbol   string
	Status   Status
	From     time.Time
	To       time.Time
}

// ListTrades returns the trades matching f, for the history and
// reporting views and for export.
func (s *Service) ListTrades(f Filter) []Trade {
	symbol := strings.ToUpper(strings.TrimSpace(f.Symbol))
	var out []Trade
	for _, t := range s.store.Trades() {
		if f.WalletID != "" && t.WalletID != f.WalletID {
			continue
		}
		if symbol != "" && !strings.Contains(t.Symbol, symbol) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && t.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && t.CreatedAt.After(f.To) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Stats summarizes one wallet, or the whole journal when walletID is
// empty (all wallets, summed initial balances).
func (s *Service) Stats(walletID string) (Summary, error) {
	if walletID == "" {
		var initialSum float64
		for _, w := range s.store.Wallets() {
			initialSum += w.InitialBalance
		}
		return Summarize(s.store.Trades(), initialSum), nil
	}
	w, ok := s.store.Wallet(walletID)
	if !ok {
		return Summary{}, invalidf("wallet_id", "unknown wallet %q", walletID)
	}
	return Summarize(s.store.TradesForWallet(w.ID), w.InitialBalance), nil
}

// Symbols returns the entry-form symbol list.
func (s *Service) Symbols() []string { return s.store.Symbols() }

// AddSymbol registers a ticker for the entry form. The store keeps the
// list de-duplicated, upper-cased, and sorted.
func (s *Service) AddSymbol(symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return invalidf("symbol", "must not be empty")
	}
	return s.store.PutSymbols(append(s.store.Symbols(), symbol))
}

// Setting reads a settings value, "" when unset.
func (s *Service) Setting(key string) string { return s.store.Settings()[key] }

// PutSetting stores a settings value.
func (s *Service) PutSetting(key, value string) error {
	return s.store.PutSetting(key, value)
}
