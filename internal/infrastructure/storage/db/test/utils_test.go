package db_test

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/custody-ledger/internal/core/domain"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
	dbbadger "github.com/tdex-network/custody-ledger/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/custody-ledger/internal/infrastructure/storage/db/inmemory"
)

type repoManager struct {
	Name    string
	Manager ports.RepoManager
}

func createRepoManagers(t *testing.T) []repoManager {
	inmemoryRepoManager := inmemory.NewRepoManager()
	badgerRepoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		inmemoryRepoManager.Close()
		badgerRepoManager.Close()
	})

	return []repoManager{
		{
			Name:    "badger",
			Manager: badgerRepoManager,
		},
		{
			Name:    "inmemory",
			Manager: inmemoryRepoManager,
		},
	}
}

func makeRandomReceipts(owner string, num int) []domain.Receipt {
	receipts := make([]domain.Receipt, 0, num)
	for i := 0; i < num; i++ {
		receipts = append(receipts, domain.Receipt{
			ID:        randomId(),
			Owner:     owner,
			Action:    domain.ActionDeposit,
			Asset:     "utest",
			Amount:    decimal.NewFromInt(int64(randomIntInRange(1, 100000))),
			Timestamp: int64(1000000000 + i),
		})
	}
	return receipts
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomId() string {
	return uuid.New().String()
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}

func randomIntInRange(min, max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64()) + min
}
