package inmemory

import (
	"context"
	"sync"

	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/tdex-network/custody-ledger/internal/core/domain"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
)

type txContextKey struct{}

// transaction buffers the writes of a RunTransaction handler until commit.
type transaction struct {
	readOnly bool
	writes   *memdb.DB
	receipts []domain.Receipt
}

func newTransaction(readOnly bool) *transaction {
	return &transaction{
		readOnly: readOnly,
		writes:   memdb.New(comparer.DefaultComparer, 0),
		receipts: make([]domain.Receipt, 0),
	}
}

func txFromContext(ctx context.Context) *transaction {
	if ctx == nil {
		return nil
	}
	tx, _ := ctx.Value(txContextKey{}).(*transaction)
	return tx
}

type RepoManager struct {
	// serializes transactions.
	txLocker *sync.Mutex

	stateStore        *stateStore
	receiptRepository *receiptRepositoryImpl
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		txLocker:          &sync.Mutex{},
		stateStore:        newStateStore(),
		receiptRepository: newReceiptRepositoryImpl(),
	}
}

func (r *RepoManager) StateStore() ports.StateStore {
	return r.stateStore
}

func (r *RepoManager) ReceiptRepository() domain.ReceiptRepository {
	return r.receiptRepository
}

// RunTransaction runs handler in isolation from other transactions. Writes
// are applied to the stores only if handler succeeds. Transactions can't be
// nested.
func (r *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	r.txLocker.Lock()
	defer r.txLocker.Unlock()

	tx := newTransaction(readOnly)
	res, err := handler(context.WithValue(ctx, txContextKey{}, tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		r.stateStore.apply(tx.writes)
		r.receiptRepository.apply(tx.receipts)
	}
	return res, nil
}

func (r *RepoManager) Close() {}
