package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Actions recorded in receipts and used as response tags.
const (
	ActionDeposit  = "deposit"
	ActionWithdraw = "withdraw"
)

// Response attribute keys.
const (
	AttributeExecute = "execute"
	AttributeDenom   = "denom"
	AttributeAmount  = "amount"
)

const (
	// MaxOwnerLen is the max length in bytes of a depositor identity. Owners
	// are length-prefixed with 2 bytes in storage keys.
	MaxOwnerLen = 255
	// DefaultNamespace is the storage namespace used for deposit records.
	DefaultNamespace = "deposits"
	// MaxAmountDigits is the number of decimal digits of MaxAmount.
	MaxAmountDigits = 39
)

// MaxAmount is the greatest balance a record can hold (2^128 - 1).
var MaxAmount = decimal.NewFromBigInt(
	new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)), 0,
)
