package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/tdex-network/custody-ledger/internal/core/domain"
)

type receiptRepositoryImpl struct {
	locker   *sync.RWMutex
	receipts []domain.Receipt
}

func newReceiptRepositoryImpl() *receiptRepositoryImpl {
	return &receiptRepositoryImpl{
		locker:   &sync.RWMutex{},
		receipts: make([]domain.Receipt, 0),
	}
}

func (r *receiptRepositoryImpl) AddReceipt(
	ctx context.Context, receipt domain.Receipt,
) error {
	if tx := txFromContext(ctx); tx != nil {
		if tx.readOnly {
			return ErrReadOnlyTx
		}
		tx.receipts = append(tx.receipts, receipt)
		return nil
	}

	r.apply([]domain.Receipt{receipt})
	return nil
}

func (r *receiptRepositoryImpl) GetReceiptsForOwner(
	ctx context.Context, owner string, page *domain.Page,
) ([]domain.Receipt, error) {
	r.locker.RLock()
	all := append([]domain.Receipt{}, r.receipts...)
	r.locker.RUnlock()

	if tx := txFromContext(ctx); tx != nil {
		all = append(all, tx.receipts...)
	}

	receipts := make([]domain.Receipt, 0)
	for _, receipt := range all {
		if receipt.Owner == owner {
			receipts = append(receipts, receipt)
		}
	}
	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].Timestamp > receipts[j].Timestamp
	})

	if page == nil {
		return receipts, nil
	}
	from, to := page.Bounds(len(receipts))
	return receipts[from:to], nil
}

func (r *receiptRepositoryImpl) apply(receipts []domain.Receipt) {
	r.locker.Lock()
	defer r.locker.Unlock()

	r.receipts = append(r.receipts, receipts...)
}
