package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/custody-ledger/internal/core/domain"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
)

const (
	readOnlyTx  = true
	readWriteTx = false

	opListHoldings = "list_holdings"
	opListReceipts = "list_receipts"
)

// Service is the ledger engine. Every state transition runs within a single
// db transaction, so that a failing call never leaves partial writes behind.
type Service struct {
	repoManager ports.RepoManager
	events      *eventQueue
	deposits    depositMap
}

// NewService returns a ledger engine storing its records under namespace.
// Publisher is optional, if nil committed events are not published.
// Otherwise they are published one at a time, in the order the calls
// complete, until Close is called.
func NewService(
	repoManager ports.RepoManager, publisher ports.Publisher, namespace string,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	deposits, err := newDepositMap(namespace)
	if err != nil {
		return nil, err
	}

	var events *eventQueue
	if publisher != nil {
		events = newEventQueue(publisher)
	}

	return &Service{repoManager, events, deposits}, nil
}

// Close waits for the pending events to be published. Events of calls
// served afterwards are not published.
func (s *Service) Close() {
	if s.events != nil {
		s.events.close()
	}
}

// Deposit credits the caller with the value attached to the call. Exactly one
// coin must be attached.
func (s *Service) Deposit(
	ctx context.Context, caller string, funds []domain.Coin,
) (*Response, error) {
	receipt, err := s.deposit(ctx, caller, funds)
	observe(domain.ActionDeposit, err)
	if err != nil {
		logFailure(domain.ActionDeposit, caller, err)
		return nil, err
	}

	s.publish(*receipt)

	return newResponse().
		addAttribute(domain.AttributeExecute, domain.ActionDeposit).
		addAttribute(domain.AttributeDenom, receipt.Asset).
		addAttribute(domain.AttributeAmount, receipt.Amount.String()), nil
}

// Withdraw debits amount of asset from the caller's record and returns the
// instruction to transfer it back to the caller. The instruction is issued
// only once the debited record has been committed.
func (s *Service) Withdraw(
	ctx context.Context, caller string, amount decimal.Decimal, asset string,
) (*Response, error) {
	receipt, err := s.withdraw(ctx, caller, domain.Coin{Asset: asset, Amount: amount})
	observe(domain.ActionWithdraw, err)
	if err != nil {
		logFailure(domain.ActionWithdraw, caller, err)
		return nil, err
	}

	s.publish(*receipt)

	return newResponse().
		addAttribute(domain.AttributeExecute, domain.ActionWithdraw).
		addAttribute(domain.AttributeDenom, receipt.Asset).
		addAttribute(domain.AttributeAmount, receipt.Amount.String()).
		addMessage(*receipt.Transfer), nil
}

// ListHoldings returns the records of address ascending by asset. An address
// without holdings gets an empty list.
func (s *Service) ListHoldings(
	ctx context.Context, address string,
) ([]domain.Deposit, error) {
	if err := domain.ValidateOwner(address); err != nil {
		observe(opListHoldings, err)
		return nil, err
	}

	res, err := s.repoManager.RunTransaction(
		ctx, readOnlyTx, func(ctx context.Context) (interface{}, error) {
			return s.deposits.prefix(ctx, s.repoManager.StateStore(), address)
		},
	)
	observe(opListHoldings, err)
	if err != nil {
		logFailure(opListHoldings, address, err)
		return nil, err
	}
	return res.([]domain.Deposit), nil
}

// ListAllHoldings returns every record of the namespace ascending by owner
// and asset.
func (s *Service) ListAllHoldings(ctx context.Context) ([]domain.Deposit, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, readOnlyTx, func(ctx context.Context) (interface{}, error) {
			return s.deposits.all(ctx, s.repoManager.StateStore())
		},
	)
	if err != nil {
		return nil, err
	}
	return res.([]domain.Deposit), nil
}

// ListReceipts returns the journal of address, most recent first.
func (s *Service) ListReceipts(
	ctx context.Context, address string, page *domain.Page,
) ([]domain.Receipt, error) {
	if err := domain.ValidateOwner(address); err != nil {
		observe(opListReceipts, err)
		return nil, err
	}

	receipts, err := s.repoManager.ReceiptRepository().GetReceiptsForOwner(
		ctx, address, page,
	)
	observe(opListReceipts, err)
	if err != nil {
		return nil, err
	}
	if receipts == nil {
		receipts = make([]domain.Receipt, 0)
	}
	return receipts, nil
}

func (s *Service) deposit(
	ctx context.Context, caller string, funds []domain.Coin,
) (*domain.Receipt, error) {
	if err := domain.ValidateOwner(caller); err != nil {
		return nil, err
	}
	if len(funds) != 1 {
		return nil, fmt.Errorf(
			"%w: deposit requires exactly one attached coin, got %d",
			domain.ErrInvalidInput, len(funds),
		)
	}
	coin := funds[0]
	if err := domain.ValidateCoin(coin); err != nil {
		return nil, err
	}

	res, err := s.repoManager.RunTransaction(
		ctx, readWriteTx, func(ctx context.Context) (interface{}, error) {
			store := s.repoManager.StateStore()

			deposit, err := s.deposits.load(ctx, store, caller, coin.Asset)
			if err != nil {
				return nil, err
			}
			if deposit == nil {
				if deposit, err = domain.NewDeposit(caller, coin); err != nil {
					return nil, err
				}
			} else if err := deposit.Credit(coin.Amount); err != nil {
				return nil, err
			}

			if err := s.deposits.save(ctx, store, *deposit); err != nil {
				return nil, err
			}

			receipt := domain.NewReceipt(caller, domain.ActionDeposit, coin, nil)
			if err := s.repoManager.ReceiptRepository().AddReceipt(
				ctx, receipt,
			); err != nil {
				return nil, err
			}
			return &receipt, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*domain.Receipt), nil
}

func (s *Service) withdraw(
	ctx context.Context, caller string, coin domain.Coin,
) (*domain.Receipt, error) {
	if err := domain.ValidateOwner(caller); err != nil {
		return nil, err
	}
	if err := domain.ValidateCoin(coin); err != nil {
		return nil, err
	}

	res, err := s.repoManager.RunTransaction(
		ctx, readWriteTx, func(ctx context.Context) (interface{}, error) {
			store := s.repoManager.StateStore()

			deposit, err := s.deposits.load(ctx, store, caller, coin.Asset)
			if err != nil {
				return nil, err
			}
			if deposit == nil {
				return nil, fmt.Errorf(
					"%w: no deposit of %s for %s", domain.ErrRecordNotFound,
					coin.Asset, caller,
				)
			}
			if err := deposit.Debit(coin.Amount); err != nil {
				return nil, err
			}

			// The debited record is written before the transfer gets issued.
			if err := s.deposits.save(ctx, store, *deposit); err != nil {
				return nil, err
			}

			transfer := &domain.TransferInstruction{
				Recipient: caller,
				Asset:     coin.Asset,
				Amount:    coin.Amount,
			}
			receipt := domain.NewReceipt(
				caller, domain.ActionWithdraw, coin, transfer,
			)
			if err := s.repoManager.ReceiptRepository().AddReceipt(
				ctx, receipt,
			); err != nil {
				return nil, err
			}
			return &receipt, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*domain.Receipt), nil
}

func (s *Service) publish(receipt domain.Receipt) {
	if s.events == nil {
		return
	}
	s.events.push(receipt)
}

func logFailure(operation, address string, err error) {
	entry := log.WithError(err).WithFields(log.Fields{
		"operation": operation,
		"address":   address,
	})

	switch code := domain.ErrorCode(err); {
	case errors.Is(err, domain.ErrInvalidState):
		entry.Error("ledger invariant violated")
	case code == domain.CodeInternal:
		entry.Warn("ledger operation failed")
	default:
		entry.Debugf("ledger operation rejected: %s", code)
	}
}
