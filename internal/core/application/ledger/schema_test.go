package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/custody-ledger/internal/core/domain"
	"github.com/tdex-network/custody-ledger/internal/infrastructure/storage/db/inmemory"
)

func TestDepositMapKeys(t *testing.T) {
	m, err := newDepositMap("deposits")
	require.NoError(t, err)

	expected := append([]byte{0, 8}, "deposits"...)
	expected = append(expected, 0, 5)
	expected = append(expected, "alice"...)
	expected = append(expected, "utest"...)
	require.Equal(t, expected, m.key("alice", "utest"))

	// The owner prefix of "ab" must not match keys of "abc".
	require.NotEqual(t, m.ownerPrefix("ab"), m.ownerPrefix("abc")[:len(m.ownerPrefix("ab"))])

	_, err = newDepositMap("")
	require.Error(t, err)
}

func TestCorruptedRecords(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		record func(m depositMap) ([]byte, []byte)
	}{
		{
			name: "malformed record",
			record: func(m depositMap) ([]byte, []byte) {
				return m.key("alice", "utest"), []byte("not a deposit")
			},
		},
		{
			name: "record stored under another key",
			record: func(m depositMap) ([]byte, []byte) {
				buf, _ := json.Marshal(domain.Deposit{
					Owner:  "bob",
					Asset:  "utest",
					Amount: decimal.NewFromInt(10),
					Count:  1,
				})
				return m.key("alice", "utest"), buf
			},
		},
		{
			name: "negative balance",
			record: func(m depositMap) ([]byte, []byte) {
				buf, _ := json.Marshal(domain.Deposit{
					Owner:  "alice",
					Asset:  "utest",
					Amount: decimal.NewFromInt(-10),
					Count:  1,
				})
				return m.key("alice", "utest"), buf
			},
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repoManager := inmemory.NewRepoManager()
			svc, err := NewService(repoManager, nil, domain.DefaultNamespace)
			require.NoError(t, err)

			key, value := tt.record(svc.deposits)
			err = repoManager.StateStore().Put(ctx, key, value)
			require.NoError(t, err)

			_, err = svc.Deposit(ctx, "alice", []domain.Coin{
				{Asset: "utest", Amount: decimal.NewFromInt(1)},
			})
			require.ErrorIs(t, err, domain.ErrInvalidState)

			_, err = svc.Withdraw(ctx, "alice", decimal.NewFromInt(1), "utest")
			require.ErrorIs(t, err, domain.ErrInvalidState)

			_, err = svc.ListHoldings(ctx, "alice")
			require.ErrorIs(t, err, domain.ErrInvalidState)

			stored, err := repoManager.StateStore().Get(ctx, key)
			require.NoError(t, err)
			require.Equal(t, value, stored)
		})
	}
}
