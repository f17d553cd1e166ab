package ledger

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/tdex-network/custody-ledger/internal/core/domain"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
)

// depositMap maps (owner, asset) pairs to deposit records on a state store.
//
// Keys are laid out as:
//
//	len(namespace) | namespace | len(owner) | owner | asset
//
// with 2-byte big-endian lengths. Prefixing the owner with its length makes
// sure that scanning the records of an owner never matches those of another
// owner sharing the same textual prefix.
type depositMap struct {
	namespace []byte
}

func newDepositMap(namespace string) (depositMap, error) {
	if len(namespace) <= 0 {
		return depositMap{}, fmt.Errorf("missing namespace")
	}
	if len(namespace) > math.MaxUint16 {
		return depositMap{}, fmt.Errorf("namespace too long")
	}
	return depositMap{lengthPrefixed(nil, []byte(namespace))}, nil
}

func (m depositMap) namespacePrefix() []byte {
	return append([]byte{}, m.namespace...)
}

func (m depositMap) ownerPrefix(owner string) []byte {
	return lengthPrefixed(m.namespacePrefix(), []byte(owner))
}

func (m depositMap) key(owner, asset string) []byte {
	return append(m.ownerPrefix(owner), asset...)
}

// load returns the record for the given pair, or nil if it doesn't exist.
func (m depositMap) load(
	ctx context.Context, store ports.StateStore, owner, asset string,
) (*domain.Deposit, error) {
	buf, err := store.Get(ctx, m.key(owner, asset))
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, nil
	}

	deposit, err := decodeDeposit(buf)
	if err != nil {
		return nil, err
	}
	if deposit.Owner != owner || deposit.Asset != asset {
		return nil, fmt.Errorf(
			"%w: record for %s/%s is stored under key of %s/%s",
			domain.ErrInvalidState, deposit.Owner, deposit.Asset, owner, asset,
		)
	}
	return deposit, nil
}

func (m depositMap) save(
	ctx context.Context, store ports.StateStore, deposit domain.Deposit,
) error {
	buf, err := json.Marshal(deposit)
	if err != nil {
		return err
	}
	return store.Put(ctx, m.key(deposit.Owner, deposit.Asset), buf)
}

// prefix returns all records of the given owner, ascending by asset.
func (m depositMap) prefix(
	ctx context.Context, store ports.StateStore, owner string,
) ([]domain.Deposit, error) {
	return m.scan(ctx, store, m.ownerPrefix(owner))
}

// all returns all records in the namespace, ascending by (owner, asset).
func (m depositMap) all(
	ctx context.Context, store ports.StateStore,
) ([]domain.Deposit, error) {
	return m.scan(ctx, store, m.namespacePrefix())
}

func (m depositMap) scan(
	ctx context.Context, store ports.StateStore, prefix []byte,
) ([]domain.Deposit, error) {
	kvs, err := store.Scan(ctx, prefix)
	if err != nil {
		return nil, err
	}

	deposits := make([]domain.Deposit, 0, len(kvs))
	for _, kv := range kvs {
		deposit, err := decodeDeposit(kv.Value)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(kv.Key, m.key(deposit.Owner, deposit.Asset)) {
			return nil, fmt.Errorf(
				"%w: record for %s/%s is stored under a foreign key",
				domain.ErrInvalidState, deposit.Owner, deposit.Asset,
			)
		}
		deposits = append(deposits, *deposit)
	}
	return deposits, nil
}

func decodeDeposit(buf []byte) (*domain.Deposit, error) {
	deposit := &domain.Deposit{}
	if err := json.Unmarshal(buf, deposit); err != nil {
		return nil, fmt.Errorf("%w: malformed deposit record: %s", domain.ErrInvalidState, err)
	}
	if !deposit.IsValid() {
		return nil, fmt.Errorf(
			"%w: deposit record %s/%s breaks ledger invariants",
			domain.ErrInvalidState, deposit.Owner, deposit.Asset,
		)
	}
	return deposit, nil
}

func lengthPrefixed(dst, part []byte) []byte {
	var size [2]byte
	binary.BigEndian.PutUint16(size[:], uint16(len(part)))
	dst = append(dst, size[:]...)
	return append(dst, part...)
}
