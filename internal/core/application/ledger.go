package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/custody-ledger/internal/core/application/ledger"
	"github.com/tdex-network/custody-ledger/internal/core/domain"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
)

// LedgerService defines the operations exposed by the custody ledger to the
// interface layer.
type LedgerService interface {
	// Deposit credits the caller with the coin attached to the call.
	Deposit(
		ctx context.Context, caller string, funds []domain.Coin,
	) (*ledger.Response, error)
	// Withdraw debits the caller and returns the transfer instruction for the
	// withdrawn amount.
	Withdraw(
		ctx context.Context, caller string, amount decimal.Decimal, asset string,
	) (*ledger.Response, error)
	// ListHoldings returns all the records of the given address.
	ListHoldings(ctx context.Context, address string) ([]domain.Deposit, error)
	// ListAllHoldings returns all the records of the ledger.
	ListAllHoldings(ctx context.Context) ([]domain.Deposit, error)
	// ListReceipts returns the paginated journal of the given address.
	ListReceipts(
		ctx context.Context, address string, page *domain.Page,
	) ([]domain.Receipt, error)
	// Close flushes the events of committed calls to the publisher.
	Close()
}

func NewLedgerService(
	repoManager ports.RepoManager, publisher ports.Publisher, namespace string,
) (LedgerService, error) {
	if len(namespace) == 0 {
		namespace = domain.DefaultNamespace
	}
	svc, err := ledger.NewService(repoManager, publisher, namespace)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
