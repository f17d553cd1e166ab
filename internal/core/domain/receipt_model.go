package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is the journal entry of a successful deposit or withdrawal.
type Receipt struct {
	ID       string               `json:"id"`
	Owner    string               `json:"owner"`
	Action   string               `json:"action"`
	Asset    string               `json:"denom"`
	Amount   decimal.Decimal      `json:"amount"`
	Transfer *TransferInstruction `json:"transfer,omitempty"`
	// Unix timestamp in nanoseconds.
	Timestamp int64 `json:"timestamp"`
}

// NewReceipt returns a receipt with a random id for the given action.
func NewReceipt(
	owner, action string, coin Coin, transfer *TransferInstruction,
) Receipt {
	return Receipt{
		ID:        uuid.New().String(),
		Owner:     owner,
		Action:    action,
		Asset:     coin.Asset,
		Amount:    coin.Amount,
		Transfer:  transfer,
		Timestamp: time.Now().UnixNano(),
	}
}

// Topic returns the pubsub topic the receipt is published for.
func (r Receipt) Topic() string {
	return r.Action
}
