package domain

import (
	"errors"
)

var (
	// ErrInvalidInput is returned for malformed or missing call data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrArithmeticOverflow is returned when a balance or a counter would
	// exceed its representable range.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the recorded
	// balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrArithmeticUnderflow is returned when a debit would take a balance
	// below zero. It's an alias of ErrInsufficientFunds.
	ErrArithmeticUnderflow = ErrInsufficientFunds
	// ErrInvalidState signals that a stored record would break an internal
	// invariant. It's never caused by ordinary user input.
	ErrInvalidState = errors.New("invalid state")
	// ErrRecordNotFound is returned when withdrawing from a (owner, asset) pair
	// that never received a deposit.
	ErrRecordNotFound = errors.New("deposit record not found")
)

// Error codes as exposed to clients.
const (
	CodeInvalidInput       = "invalid_input"
	CodeArithmeticOverflow = "arithmetic_overflow"
	CodeInsufficientFunds  = "insufficient_funds"
	CodeInvalidState       = "invalid_state"
	CodeRecordNotFound     = "record_not_found"
	CodeInternal           = "internal"
)

// ErrorCode maps the given error to the code of the ledger condition it
// wraps. Errors not originated by the ledger map to CodeInternal.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrArithmeticOverflow):
		return CodeArithmeticOverflow
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrRecordNotFound):
		return CodeRecordNotFound
	default:
		return CodeInternal
	}
}
