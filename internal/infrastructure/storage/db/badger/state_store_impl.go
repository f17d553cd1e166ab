package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
)

// stateKeyPrefix keeps the ledger state apart from the badgerhold records
// stored in the same database.
var stateKeyPrefix = []byte("state/")

type stateStore struct {
	db *badger.DB
}

func newStateStore(db *badger.DB) ports.StateStore {
	return &stateStore{db}
}

func (s *stateStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := s.view(ctx, func(tx *badger.Txn) error {
		item, err := tx.Get(stateKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *stateStore) Put(ctx context.Context, key, value []byte) error {
	if tx := txFromContext(ctx); tx != nil {
		err := tx.Set(stateKey(key), value)
		if err == badger.ErrReadOnlyTxn {
			return ErrReadOnlyTx
		}
		return err
	}

	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(stateKey(key), value)
	})
}

func (s *stateStore) Scan(ctx context.Context, prefix []byte) ([]ports.KV, error) {
	kvs := make([]ports.KV, 0)
	err := s.view(ctx, func(tx *badger.Txn) error {
		fullPrefix := stateKey(prefix)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = fullPrefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(fullPrefix); iter.ValidForPrefix(fullPrefix); iter.Next() {
			item := iter.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			key := item.KeyCopy(nil)
			kvs = append(kvs, ports.KV{
				Key:   key[len(stateKeyPrefix):],
				Value: value,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return kvs, nil
}

// view runs fn within the transaction of ctx, if any, or within a new
// read-only one.
func (s *stateStore) view(ctx context.Context, fn func(tx *badger.Txn) error) error {
	if tx := txFromContext(ctx); tx != nil {
		return fn(tx)
	}
	return s.db.View(fn)
}

func stateKey(key []byte) []byte {
	buf := make([]byte, 0, len(stateKeyPrefix)+len(key))
	buf = append(buf, stateKeyPrefix...)
	return append(buf, key...)
}
