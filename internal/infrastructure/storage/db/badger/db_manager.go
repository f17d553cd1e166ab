package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/custody-ledger/internal/core/domain"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	ledgerDir = "ledger"

	valueLogGCInterval     = 30 * time.Minute
	valueLogGCDiscardRatio = 0.5
)

type txContextKey struct{}

func txFromContext(ctx context.Context) *badger.Txn {
	if ctx == nil {
		return nil
	}
	tx, _ := ctx.Value(txContextKey{}).(*badger.Txn)
	return tx
}

type repoManager struct {
	store *badgerhold.Store

	stateStore        ports.StateStore
	receiptRepository domain.ReceiptRepository

	// badger transactions are optimistic: concurrent writers touching the
	// same keys would fail at commit with ErrConflict.
	txLocker *sync.Mutex

	closeOnce *sync.Once
	quit      chan struct{}
}

// NewRepoManager opens (or creates if not exists) the badger store in the
// given base directory. An empty base dir makes the store live in memory.
// Both the ledger state and the receipts journal share the same database, so
// that a single badger transaction covers them all.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, ledgerDir)
	}

	quit := make(chan struct{})
	store, err := createDb(dbDir, logger, quit)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	return &repoManager{
		store:             store,
		stateStore:        newStateStore(store.Badger()),
		receiptRepository: newReceiptRepositoryImpl(store),
		txLocker:          &sync.Mutex{},
		closeOnce:         &sync.Once{},
		quit:              quit,
	}, nil
}

func (r *repoManager) StateStore() ports.StateStore {
	return r.stateStore
}

func (r *repoManager) ReceiptRepository() domain.ReceiptRepository {
	return r.receiptRepository
}

func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if !readOnly {
		r.txLocker.Lock()
		defer r.txLocker.Unlock()
	}

	tx := r.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, txContextKey{}, tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing db transaction: %w", err)
		}
	}
	return res, nil
}

func (r *repoManager) Close() {
	r.closeOnce.Do(func() {
		close(r.quit)
		if err := r.store.Close(); err != nil {
			log.WithError(err).Warn("failed to close ledger db")
		}
	})
}

func createDb(
	dbDir string, logger badger.Logger, quit chan struct{},
) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(valueLogGCInterval)

		go func() {
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := db.Badger().RunValueLogGC(valueLogGCDiscardRatio); err != nil &&
						err != badger.ErrNoRewrite {
						log.Error(err)
					}
				case <-quit:
					return
				}
			}
		}()
	}

	return db, nil
}
