package journal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A record written before the close fields existed.
const legacyTradeJSON = `{
	"id": "ABC123",
	"wallet_id": "w1",
	"symbol": "ethusdt",
	"direction": "Long",
	"entry_price": 100,
	"stop_loss": 90,
	"take_profit": 120,
	"position_size": 2,
	"position_value": 200,
	"reason": "legacy",
	"created_at": "2023-06-01T10:00:00",
	"risk_amount": 20,
	"risk_pct_of_balance": 2,
	"status": "Open"
}`

func TestMigrateLegacyRecord(t *testing.T) {
	t.Parallel()

	var tr Trade
	require.NoError(t, json.Unmarshal([]byte(legacyTradeJSON), &tr))

	wallets := map[string]Wallet{"w1": {ID: "w1"}}
	reassigned, err := MigrateTrade(&tr, wallets, []string{"w1"})
	require.NoError(t, err)

	assert.False(t, reassigned)
	assert.Equal(t, "ETHUSDT", tr.Symbol)
	assert.Nil(t, tr.ExitPrice)
	assert.Nil(t, tr.ClosedAt)
	assert.Nil(t, tr.PnLAbs)
	assert.Nil(t, tr.PnLPct)
	assert.Nil(t, tr.Result)
	assert.Nil(t, tr.CloseReason)
}

func TestMigrateReassignsDanglingWalletRef(t *testing.T) {
	t.Parallel()

	tr := Trade{ID: "XYZ789", WalletID: "gone", Status: StatusOpen}
	wallets := map[string]Wallet{"w1": {ID: "w1"}, "w2": {ID: "w2"}}

	reassigned, err := MigrateTrade(&tr, wallets, []string{"w2", "w1"})
	require.NoError(t, err)

	assert.True(t, reassigned)
	assert.Equal(t, "w2", tr.WalletID, "reassigned to the first wallet in file order")
}

func TestMigrateKeepsDanglingRefWhenNoWallets(t *testing.T) {
	t.Parallel()

	tr := Trade{ID: "XYZ789", WalletID: "gone", Status: StatusOpen}
	reassigned, err := MigrateTrade(&tr, map[string]Wallet{}, nil)
	require.NoError(t, err)

	assert.False(t, reassigned)
	assert.Equal(t, "gone", tr.WalletID)
}

func TestMigrateRejectsBrokenRecords(t *testing.T) {
	t.Parallel()

	_, err := MigrateTrade(&Trade{ID: ""}, nil, nil)
	assert.Error(t, err, "missing id")

	_, err = MigrateTrade(&Trade{ID: "A", Status: "Pending"}, nil, nil)
	assert.Error(t, err, "unknown status")
}

func TestMigrateDefaultsEmptyStatusToOpen(t *testing.T) {
	t.Parallel()

	tr := Trade{ID: "A1B2C3"}
	_, err := MigrateTrade(&tr, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, tr.Status)
}
