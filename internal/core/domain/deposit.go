package domain

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var denomRegexp = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._-]{2,127}$`)

// NewDeposit returns the record created by the first deposit of coin by owner.
func NewDeposit(owner string, coin Coin) (*Deposit, error) {
	if !isValidOwner(owner) {
		return nil, fmt.Errorf("%w: owner must be a non empty string of max %d bytes", ErrInvalidInput, MaxOwnerLen)
	}
	if err := ValidateCoin(coin); err != nil {
		return nil, err
	}

	return &Deposit{
		Owner:  owner,
		Asset:  coin.Asset,
		Amount: coin.Amount,
		Count:  1,
	}, nil
}

// ValidateCoin checks both the asset identifier and the amount of coin.
func ValidateCoin(coin Coin) error {
	if err := ValidateAsset(coin.Asset); err != nil {
		return err
	}
	return ValidateAmount(coin.Amount)
}

// ValidateAmount makes sure amount is a positive integer that fits 128 bits.
// The decimal exponent is bounded before any arithmetic takes place.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	if err := validateAmountScale(amount); err != nil {
		return err
	}
	if !amount.Equal(amount.Truncate(0)) {
		return fmt.Errorf("%w: amount must be an integer", ErrInvalidInput)
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: amount exceeds 128 bits", ErrArithmeticOverflow)
	}
	return nil
}

func validateAmountScale(amount decimal.Decimal) error {
	exp := amount.Exponent()
	if exp >= MaxAmountDigits {
		return fmt.Errorf("%w: amount exceeds 128 bits", ErrArithmeticOverflow)
	}
	if exp <= -MaxAmountDigits {
		return fmt.Errorf("%w: amount has too many decimal places", ErrInvalidInput)
	}
	return nil
}

// ValidateAsset makes sure asset is a well formed denomination.
func ValidateAsset(asset string) error {
	if !isValidAsset(asset) {
		return fmt.Errorf("%w: invalid denom %q", ErrInvalidInput, asset)
	}
	return nil
}

// ValidateOwner makes sure owner can be used as depositor identity.
func ValidateOwner(owner string) error {
	if !isValidOwner(owner) {
		return fmt.Errorf("%w: invalid address %q", ErrInvalidInput, owner)
	}
	return nil
}

func isValidAsset(asset string) bool {
	return denomRegexp.MatchString(asset)
}

func isValidOwner(owner string) bool {
	return len(owner) > 0 && len(owner) <= MaxOwnerLen
}
