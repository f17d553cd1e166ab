package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Coin is an amount of some asset attached to, or moved out of, the ledger.
type Coin struct {
	Asset  string          `json:"denom"`
	Amount decimal.Decimal `json:"amount"`
}

// DepositKey identifies a deposit record.
type DepositKey struct {
	Owner string
	Asset string
}

// Deposit is the accumulated position of a depositor in one asset.
type Deposit struct {
	Owner string `json:"owner"`
	Asset string `json:"denom"`
	// Balance currently held in custody for the owner.
	Amount decimal.Decimal `json:"amount"`
	// Number of deposits folded into the record, net of withdrawals.
	Count uint64 `json:"count"`
}

func (d Deposit) Key() DepositKey {
	return DepositKey{d.Owner, d.Asset}
}

// Credit adds the given amount to the record and increments its counter.
// The record is left untouched if either operation overflows.
func (d *Deposit) Credit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	newAmount := d.Amount.Add(amount)
	if newAmount.GreaterThan(MaxAmount) {
		return ErrArithmeticOverflow
	}
	if d.Count == math.MaxUint64 {
		return ErrArithmeticOverflow
	}

	d.Amount = newAmount
	d.Count++
	return nil
}

// Debit subtracts the given amount from the record and decrements its
// counter. The record is left untouched if either operation underflows.
func (d *Deposit) Debit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	newAmount := d.Amount.Sub(amount)
	if newAmount.IsNegative() {
		return ErrInsufficientFunds
	}
	if d.Count == 0 {
		return ErrInvalidState
	}

	d.Amount = newAmount
	d.Count--
	return nil
}

// IsValid tells whether the record respects the invariants of the ledger.
// Records loaded from storage are checked with it before being mutated.
func (d Deposit) IsValid() bool {
	if !isValidOwner(d.Owner) || !isValidAsset(d.Asset) {
		return false
	}
	if validateAmountScale(d.Amount) != nil {
		return false
	}
	if !d.Amount.Equal(d.Amount.Truncate(0)) {
		return false
	}
	return !d.Amount.IsNegative() && !d.Amount.GreaterThan(MaxAmount)
}

// TransferInstruction is a directive for the host to move value out of the
// ledger custody to the recipient.
type TransferInstruction struct {
	Recipient string          `json:"recipient"`
	Asset     string          `json:"denom"`
	Amount    decimal.Decimal `json:"amount"`
}
