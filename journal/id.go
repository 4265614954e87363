package journal

import (
	cryptoRand "crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

// NewWalletID returns an opaque unique wallet id.
func NewWalletID() string {
	return uuid.NewString()
}

// NewTradeCode returns a short human-typeable trade code that does not
// collide with any key in existing. Entropy comes from crypto/rand so
// codes are unpredictable across runs.
func NewTradeCode(existing map[string]Trade) (string, error) {
	buf := make([]byte, codeLength)
	for {
		if _, err := cryptoRand.Read(buf); err != nil {
			return "", fmt.Errorf("trade code entropy: %w", err)
		}
		for i, b := range buf {
			buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
		}
		code := string(buf)
		if _, taken := existing[code]; !taken {
			return code, nil
		}
	}
}
