package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/custody-ledger/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type receiptRepositoryImpl struct {
	store *badgerhold.Store
}

func newReceiptRepositoryImpl(store *badgerhold.Store) domain.ReceiptRepository {
	return receiptRepositoryImpl{store}
}

func (r receiptRepositoryImpl) AddReceipt(
	ctx context.Context, receipt domain.Receipt,
) error {
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxInsert(tx, receipt.ID, &receipt)
	} else {
		err = r.store.Insert(receipt.ID, &receipt)
	}
	if err == badger.ErrReadOnlyTxn {
		return ErrReadOnlyTx
	}
	return err
}

func (r receiptRepositoryImpl) GetReceiptsForOwner(
	ctx context.Context, owner string, page *domain.Page,
) ([]domain.Receipt, error) {
	query := badgerhold.Where("Owner").Eq(owner).SortBy("Timestamp").Reverse()
	if page != nil {
		query = query.Skip(page.Offset()).Limit(page.Size)
	}

	return r.findReceipts(ctx, query)
}

func (r receiptRepositoryImpl) findReceipts(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Receipt, error) {
	var receipts []domain.Receipt
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &receipts, query)
	} else {
		err = r.store.Find(&receipts, query)
	}
	if err != nil {
		return nil, err
	}

	if receipts == nil {
		receipts = make([]domain.Receipt, 0)
	}
	return receipts, nil
}
