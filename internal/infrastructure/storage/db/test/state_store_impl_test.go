package db_test

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
)

const (
	readOnlyTx  = true
	readWriteTx = false
)

func TestStateStoreImplementations(t *testing.T) {
	repoManagers := createRepoManagers(t)

	for i := range repoManagers {
		rm := repoManagers[i]

		t.Run(rm.Name, func(t *testing.T) {
			t.Run("put_and_get", func(t *testing.T) {
				testPutAndGet(t, rm.Manager)
			})
			t.Run("scan", func(t *testing.T) {
				testScan(t, rm.Manager)
			})
			t.Run("commit_transaction", func(t *testing.T) {
				testCommitTransaction(t, rm.Manager)
			})
			t.Run("rollback_transaction", func(t *testing.T) {
				testRollbackTransaction(t, rm.Manager)
			})
			t.Run("read_only_transaction", func(t *testing.T) {
				testReadOnlyTransaction(t, rm.Manager)
			})
			t.Run("concurrent_transactions", func(t *testing.T) {
				testConcurrentTransactions(t, rm.Manager)
			})
		})
	}
}

func testPutAndGet(t *testing.T, repoManager ports.RepoManager) {
	store := repoManager.StateStore()
	ctx := context.Background()
	key := randomBytes(16)

	value, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.Nil(t, value)

	err = store.Put(ctx, key, []byte("first"))
	require.NoError(t, err)

	value, err = store.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []byte("first"), value)

	err = store.Put(ctx, key, []byte("second"))
	require.NoError(t, err)

	value, err = store.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []byte("second"), value)
}

func testScan(t *testing.T, repoManager ports.RepoManager) {
	store := repoManager.StateStore()
	ctx := context.Background()
	prefix := []byte(randomHex(8))
	otherPrefix := append(append([]byte{}, prefix...), 'x')

	// Insert keys in reverse order to make sure scan sorts them.
	for i := 4; i >= 0; i-- {
		key := append(append([]byte{}, prefix...), []byte(fmt.Sprintf("/%d", i))...)
		err := store.Put(ctx, key, []byte(fmt.Sprintf("%d", i)))
		require.NoError(t, err)
	}
	err := store.Put(ctx, otherPrefix, []byte("other"))
	require.NoError(t, err)

	kvs, err := store.Scan(ctx, append(append([]byte{}, prefix...), '/'))
	require.NoError(t, err)
	require.Len(t, kvs, 5)
	for i, kv := range kvs {
		require.Equal(t, []byte(fmt.Sprintf("%s/%d", prefix, i)), kv.Key)
		require.Equal(t, []byte(fmt.Sprintf("%d", i)), kv.Value)
	}

	kvs, err = store.Scan(ctx, prefix)
	require.NoError(t, err)
	require.Len(t, kvs, 6)

	kvs, err = store.Scan(ctx, []byte(randomHex(8)))
	require.NoError(t, err)
	require.Empty(t, kvs)
}

func testCommitTransaction(t *testing.T, repoManager ports.RepoManager) {
	store := repoManager.StateStore()
	prefix := []byte(randomHex(8))
	committedKey := append(append([]byte{}, prefix...), 'a')
	pendingKey := append(append([]byte{}, prefix...), 'b')

	err := store.Put(context.Background(), committedKey, []byte("committed"))
	require.NoError(t, err)

	res, err := repoManager.RunTransaction(
		context.Background(), readWriteTx,
		func(ctx context.Context) (interface{}, error) {
			if err := store.Put(ctx, pendingKey, []byte("pending")); err != nil {
				return nil, err
			}

			// Pending writes are visible within the transaction.
			value, err := store.Get(ctx, pendingKey)
			if err != nil {
				return nil, err
			}
			require.Equal(t, []byte("pending"), value)

			kvs, err := store.Scan(ctx, prefix)
			if err != nil {
				return nil, err
			}
			require.Len(t, kvs, 2)
			require.Equal(t, committedKey, kvs[0].Key)
			require.Equal(t, pendingKey, kvs[1].Key)

			return len(kvs), nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, 2, res)

	value, err := store.Get(context.Background(), pendingKey)
	require.NoError(t, err)
	require.Equal(t, []byte("pending"), value)
}

func testRollbackTransaction(t *testing.T, repoManager ports.RepoManager) {
	store := repoManager.StateStore()
	key := randomBytes(16)
	expectedErr := fmt.Errorf("something went wrong")

	err := store.Put(context.Background(), key, []byte("before"))
	require.NoError(t, err)

	res, err := repoManager.RunTransaction(
		context.Background(), readWriteTx,
		func(ctx context.Context) (interface{}, error) {
			if err := store.Put(ctx, key, []byte("after")); err != nil {
				return nil, err
			}
			return nil, expectedErr
		},
	)
	require.ErrorIs(t, err, expectedErr)
	require.Nil(t, res)

	value, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, []byte("before"), value)
}

func testReadOnlyTransaction(t *testing.T, repoManager ports.RepoManager) {
	store := repoManager.StateStore()
	key := randomBytes(16)

	_, err := repoManager.RunTransaction(
		context.Background(), readOnlyTx,
		func(ctx context.Context) (interface{}, error) {
			return nil, store.Put(ctx, key, []byte("value"))
		},
	)
	require.Error(t, err)

	value, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	require.Nil(t, value)
}

func testConcurrentTransactions(t *testing.T, repoManager ports.RepoManager) {
	store := repoManager.StateStore()
	key := randomBytes(16)
	numOfTxs := 50

	increment := func(ctx context.Context) (interface{}, error) {
		value, err := store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		counter := 0
		if value != nil {
			if counter, err = strconv.Atoi(string(value)); err != nil {
				return nil, err
			}
		}
		return nil, store.Put(ctx, key, []byte(strconv.Itoa(counter+1)))
	}

	errs := make(chan error, numOfTxs)
	wg := &sync.WaitGroup{}
	wg.Add(numOfTxs)
	for i := 0; i < numOfTxs; i++ {
		go func() {
			defer wg.Done()
			_, err := repoManager.RunTransaction(
				context.Background(), readWriteTx, increment,
			)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	value, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, []byte(strconv.Itoa(numOfTxs)), value)
}
