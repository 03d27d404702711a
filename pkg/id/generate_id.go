package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
// Used for borrower, investor and user public ids.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewTxID returns a random UUID for ledger transactions.
func NewTxID() string { return uuid.NewString() }
