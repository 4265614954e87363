package journal

import (
	"fmt"
	"strings"
)

// MigrateTrade upgrades a trade decoded from an older file format to the
// current shape. Exit fields absent from the raw record are already nil
// after decoding; what remains is structural validation and repairing a
// wallet reference that no longer resolves.
//
// A dangling wallet reference is reassigned to the first wallet in file
// order rather than dropping the trade. The returned reassigned flag
// lets the caller surface the repair instead of hiding it.
func MigrateTrade(t *Trade, wallets map[string]Wallet, walletOrder []string) (reassigned bool, err error) {
	if t.ID == "" {
		return false, fmt.Errorf("trade record missing id")
	}
	if t.Status == "" {
		t.Status = StatusOpen
	}
	if t.Status != StatusOpen && t.Status != StatusClosed {
		return false, fmt.Errorf("trade %s: unknown status %q", t.ID, t.Status)
	}
	t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))

	if _, ok := wallets[t.WalletID]; !ok && len(walletOrder) > 0 {
		t.WalletID = walletOrder[0]
		reassigned = true
	}
	return reassigned, nil
}
