package ports

import (
	"context"

	"github.com/tdex-network/custody-ledger/internal/core/domain"
)

// KV is a key/value pair returned by a StateStore scan.
type KV struct {
	Key   []byte
	Value []byte
}

// StateStore is the key/value persistence consumed by the ledger. Calls made
// with a context returned within RunTransaction read their own pending writes
// and are committed all together with the transaction.
type StateStore interface {
	// Get returns the value of the given key, or nil if the key is not set.
	Get(ctx context.Context, key []byte) ([]byte, error)
	// Put upserts the value of the given key.
	Put(ctx context.Context, key, value []byte) error
	// Scan returns all pairs whose key starts with prefix, ascending by key.
	Scan(ctx context.Context, prefix []byte) ([]KV, error)
}

// RepoManager holds the stores and repositories of the daemon and the means
// to use them in an all-or-nothing fashion.
type RepoManager interface {
	StateStore() StateStore
	ReceiptRepository() domain.ReceiptRepository

	// RunTransaction runs handler within a db transaction. Writes made by the
	// handler are committed only if it returns a nil error, otherwise they are
	// discarded.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
