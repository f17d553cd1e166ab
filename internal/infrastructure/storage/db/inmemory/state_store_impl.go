package inmemory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
)

type stateStore struct {
	locker *sync.RWMutex
	db     *memdb.DB
}

func newStateStore() *stateStore {
	return &stateStore{
		locker: &sync.RWMutex{},
		db:     memdb.New(comparer.DefaultComparer, 0),
	}
}

func (s *stateStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	if tx := txFromContext(ctx); tx != nil {
		if value, err := tx.writes.Get(key); err == nil {
			return copyBytes(value), nil
		}
	}

	s.locker.RLock()
	defer s.locker.RUnlock()

	value, err := s.db.Get(key)
	if err != nil {
		if err == memdb.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return copyBytes(value), nil
}

func (s *stateStore) Put(ctx context.Context, key, value []byte) error {
	if tx := txFromContext(ctx); tx != nil {
		if tx.readOnly {
			return ErrReadOnlyTx
		}
		return tx.writes.Put(key, value)
	}

	s.locker.Lock()
	defer s.locker.Unlock()

	return s.db.Put(key, value)
}

func (s *stateStore) Scan(ctx context.Context, prefix []byte) ([]ports.KV, error) {
	s.locker.RLock()
	kvs := scanPrefix(s.db, prefix)
	s.locker.RUnlock()

	tx := txFromContext(ctx)
	if tx == nil || tx.writes.Len() <= 0 {
		return kvs, nil
	}

	// Pending writes shadow the committed values.
	pending := scanPrefix(tx.writes, prefix)
	merged := make(map[string][]byte, len(kvs)+len(pending))
	for _, kv := range kvs {
		merged[string(kv.Key)] = kv.Value
	}
	for _, kv := range pending {
		merged[string(kv.Key)] = kv.Value
	}

	result := make([]ports.KV, 0, len(merged))
	for key, value := range merged {
		result = append(result, ports.KV{Key: []byte(key), Value: value})
	}
	sort.Slice(result, func(i, j int) bool {
		return bytes.Compare(result[i].Key, result[j].Key) < 0
	})
	return result, nil
}

func (s *stateStore) apply(writes *memdb.DB) {
	s.locker.Lock()
	defer s.locker.Unlock()

	iter := writes.NewIterator(nil)
	defer iter.Release()

	for iter.Next() {
		//nolint
		s.db.Put(iter.Key(), iter.Value())
	}
}

func scanPrefix(db *memdb.DB, prefix []byte) []ports.KV {
	iter := db.NewIterator(util.BytesPrefix(prefix))
	defer iter.Release()

	kvs := make([]ports.KV, 0)
	for iter.Next() {
		kvs = append(kvs, ports.KV{
			Key:   copyBytes(iter.Key()),
			Value: copyBytes(iter.Value()),
		})
	}
	return kvs
}

func copyBytes(buf []byte) []byte {
	return append([]byte{}, buf...)
}
