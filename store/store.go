// Package store persists the journal's four collections as independent
// human-readable JSON documents under a single data directory, each
// written with atomic replace semantics. It is the only package that
// touches the disk; everything above reads and mutates through it.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradebook/journal"
)

const (
	walletsFile  = "wallets.json"
	tradesFile   = "trades.json"
	symbolsFile  = "symbols.json"
	settingsFile = "settings.json"
)

// DefaultSymbols seeds the symbol list on first run.
var DefaultSymbols = []string{"BTCUSDT", "ETHUSDT", "SOLUSDT", "XRPUSDT"}

// Report counts what Load had to repair or drop. A non-zero report is
// not an error; partial recovery beats a failed load.
type Report struct {
	SkippedWallets int
	SkippedTrades  int
	ReassignedRefs int
}

// Store exclusively owns the in-memory collections and their files.
// Single-writer by design; there is no locking because there is no
// concurrent mutation to arbitrate.
type Store struct {
	dir string
	log zerolog.Logger

	wallets     map[string]journal.Wallet
	walletOrder []string
	trades      map[string]journal.Trade
	tradeOrder  []string
	symbols     []string
	settings    map[string]string

	report Report
}

// Open loads all four collections from dir, creating the directory and
// defaults on first run. Malformed individual records are skipped and
// counted in the report rather than failing the load.
func Open(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}

	s := &Store{
		dir:      dir,
		log:      log.With().Str("component", "store").Logger(),
		wallets:  make(map[string]journal.Wallet),
		trades:   make(map[string]journal.Trade),
		settings: make(map[string]string),
	}

	s.loadWallets()
	s.loadTrades()
	if err := s.loadSymbols(); err != nil {
		return nil, err
	}
	s.loadSettings()

	if s.report.SkippedWallets > 0 || s.report.SkippedTrades > 0 || s.report.ReassignedRefs > 0 {
		s.log.Warn().
			Int("skipped_wallets", s.report.SkippedWallets).
			Int("skipped_trades", s.report.SkippedTrades).
			Int("reassigned_refs", s.report.ReassignedRefs).
			Msg("load recovered from damaged records")
	}
	return s, nil
}

// Dir returns the data directory the store was opened on.
func (s *Store) Dir() string { return s.dir }

// LoadReport returns what the initial load skipped or repaired.
func (s *Store) LoadReport() Report { return s.report }

// readList decodes a JSON array file into raw per-record messages so a
// single malformed record can be skipped without aborting the rest.
func readList(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *Store) loadWallets() {
	raw, err := readList(filepath.Join(s.dir, walletsFile))
	if err != nil {
		s.log.Warn().Err(err).Msg("wallets file unreadable, starting empty")
		return
	}
	for _, r := range raw {
		var w journal.Wallet
		if err := json.Unmarshal(r, &w); err != nil || w.ID == "" {
			s.report.SkippedWallets++
			s.log.Warn().Err(err).Msg("skipping malformed wallet record")
			continue
		}
		if _, dup := s.wallets[w.ID]; !dup {
			s.walletOrder = append(s.walletOrder, w.ID)
		}
		s.wallets[w.ID] = w
	}
}

func (s *Store) loadTrades() {
	raw, err := readList(filepath.Join(s.dir, tradesFile))
	if err != nil {
		s.log.Warn().Err(err).Msg("trades file unreadable, starting empty")
		return
	}
	for _, r := range raw {
		var t journal.Trade
		if err := json.Unmarshal(r, &t); err != nil {
			s.report.SkippedTrades++
			s.log.Warn().Err(err).Msg("skipping malformed trade record")
			continue
		}
		reassigned, err := journal.MigrateTrade(&t, s.wallets, s.walletOrder)
		if err != nil {
			s.report.SkippedTrades++
			s.log.Warn().Err(err).Msg("skipping unmigratable trade record")
			continue
		}
		if reassigned {
			s.report.ReassignedRefs++
			s.log.Warn().Str("trade", t.ID).Str("wallet", t.WalletID).
				Msg("trade referenced an unknown wallet, reassigned")
		}
		if _, dup := s.trades[t.ID]; !dup {
			s.tradeOrder = append(s.tradeOrder, t.ID)
		}
		s.trades[t.ID] = t
	}
}

func (s *Store) loadSymbols() error {
	var list []string
	data, err := os.ReadFile(filepath.Join(s.dir, symbolsFile))
	if err == nil {
		if err := json.Unmarshal(data, &list); err != nil {
			s.log.Warn().Err(err).Msg("symbols file unreadable, using defaults")
			list = nil
		}
	}
	if len(list) == 0 {
		list = DefaultSymbols
		s.symbols = normalizeSymbols(list)
		// First run: persist the defaults immediately.
		return s.saveSymbols()
	}
	s.symbols = normalizeSymbols(list)
	return nil
}

func (s *Store) loadSettings() {
	s.settings = map[string]string{"theme": "dark"}
	data, err := os.ReadFile(filepath.Join(s.dir, settingsFile))
	if err != nil {
		return
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		s.log.Warn().Err(err).Msg("settings file unreadable, using defaults")
		return
	}
	s.settings = m
}

func normalizeSymbols(in []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, sym := range in {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

func (s *Store) saveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, name), data); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func (s *Store) saveWallets() error {
	list := make([]journal.Wallet, 0, len(s.walletOrder))
	for _, id := range s.walletOrder {
		list = append(list, s.wallets[id])
	}
	return s.saveJSON(walletsFile, list)
}

func (s *Store) saveTrades() error {
	list := make([]journal.Trade, 0, len(s.tradeOrder))
	for _, id := range s.tradeOrder {
		list = append(list, s.trades[id])
	}
	return s.saveJSON(tradesFile, list)
}

func (s *Store) saveSymbols() error {
	return s.saveJSON(symbolsFile, s.symbols)
}

func (s *Store) saveSettings() error {
	return s.saveJSON(settingsFile, s.settings)
}

// Wallets returns every wallet in file order.
func (s *Store) Wallets() []journal.Wallet {
	list := make([]journal.Wallet, 0, len(s.walletOrder))
	for _, id := range s.walletOrder {
		list = append(list, s.wallets[id])
	}
	return list
}

func (s *Store) Wallet(id string) (journal.Wallet, bool) {
	w, ok := s.wallets[id]
	return w, ok
}

func (s *Store) PutWallet(w journal.Wallet) error {
	if _, exists := s.wallets[w.ID]; !exists {
		s.walletOrder = append(s.walletOrder, w.ID)
	}
	s.wallets[w.ID] = w
	return s.saveWallets()
}

// DeleteWallet removes the wallet and cascades to its trades, saving
// both collections.
func (s *Store) DeleteWallet(id string) error {
	if _, ok := s.wallets[id]; !ok {
		return nil
	}
	delete(s.wallets, id)
	s.walletOrder = removeID(s.walletOrder, id)

	removed := false
	for tid, t := range s.trades {
		if t.WalletID == id {
			delete(s.trades, tid)
			s.tradeOrder = removeID(s.tradeOrder, tid)
			removed = true
		}
	}
	if removed {
		if err := s.saveTrades(); err != nil {
			return err
		}
	}
	return s.saveWallets()
}

// Trades returns every trade in file order.
func (s *Store) Trades() []journal.Trade {
	list := make([]journal.Trade, 0, len(s.tradeOrder))
	for _, id := range s.tradeOrder {
		list = append(list, s.trades[id])
	}
	return list
}

func (s *Store) Trade(id string) (journal.Trade, bool) {
	t, ok := s.trades[id]
	return t, ok
}

func (s *Store) PutTrade(t journal.Trade) error {
	if _, exists := s.trades[t.ID]; !exists {
		s.tradeOrder = append(s.tradeOrder, t.ID)
	}
	s.trades[t.ID] = t
	return s.saveTrades()
}

func (s *Store) DeleteTrade(id string) error {
	if _, ok := s.trades[id]; !ok {
		return nil
	}
	delete(s.trades, id)
	s.tradeOrder = removeID(s.tradeOrder, id)
	return s.saveTrades()
}

// TradesForWallet returns the trades referencing walletID, in file
// order.
func (s *Store) TradesForWallet(walletID string) []journal.Trade {
	var out []journal.Trade
	for _, id := range s.tradeOrder {
		if t := s.trades[id]; t.WalletID == walletID {
			out = append(out, t)
		}
	}
	return out
}

// Symbols returns the normalized symbol list.
func (s *Store) Symbols() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// PutSymbols replaces the symbol list; it is stored de-duplicated,
// upper-cased, and sorted regardless of the input.
func (s *Store) PutSymbols(symbols []string) error {
	s.symbols = normalizeSymbols(symbols)
	return s.saveSymbols()
}

// Settings returns a copy of the settings map.
func (s *Store) Settings() map[string]string {
	out := make(map[string]string, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out
}

func (s *Store) PutSetting(key, value string) error {
	s.settings[key] = value
	return s.saveSettings()
}

func removeID(list []string, id string) []string {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
