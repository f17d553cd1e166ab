package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tdex-network/custody-ledger/internal/core/application"
	"github.com/tdex-network/custody-ledger/internal/core/domain"
	dbbadger "github.com/tdex-network/custody-ledger/internal/infrastructure/storage/db/badger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	app = &cobra.Command{
		Use:           "custodydump",
		Short:         "custody ledger dump tool",
		Long:          "this tool prints all deposit records stored in a custodyd datadir as JSON, optionally along with the receipts of every owner",
		Version:       formatVersion(),
		RunE:          action,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	datadir      string
	namespace    string
	withReceipts bool
)

type dumpReply struct {
	Deposits []domain.Deposit            `json:"deposits"`
	Receipts map[string][]domain.Receipt `json:"receipts,omitempty"`
}

func init() {
	app.Flags().StringVarP(&datadir, "datadir", "d", btcutil.AppDataDir("custody-ledger", false), "the datadir of the daemon to dump")
	app.Flags().StringVarP(&namespace, "namespace", "n", domain.DefaultNamespace, "the namespace of the deposit records")
	app.Flags().BoolVarP(&withReceipts, "receipts", "r", false, "include the receipts of every owner")
}

func main() {
	if err := app.Execute(); err != nil {
		log.Fatal(err)
	}
}

func action(cmd *cobra.Command, args []string) (err error) {
	start := time.Now()
	log.SetOutput(os.Stderr)
	log.Debug("starting dump...")

	defer func(start time.Time) {
		if err == nil {
			log.Debugf("dump ended in %fs", time.Since(start).Seconds())
		}
	}(start)

	return dump(datadir, namespace, withReceipts, os.Stdout)
}

func dump(datadir, namespace string, withReceipts bool, w io.Writer) error {
	dbDir := filepath.Join(datadir, "db")
	if _, err := os.Stat(dbDir); err != nil {
		return fmt.Errorf("invalid datadir: %s", err)
	}

	logger := log.New()
	logger.SetLevel(log.WarnLevel)
	repoManager, err := dbbadger.NewRepoManager(dbDir, logger)
	if err != nil {
		return err
	}
	defer repoManager.Close()

	ledgerSvc, err := application.NewLedgerService(repoManager, nil, namespace)
	if err != nil {
		return err
	}
	defer ledgerSvc.Close()

	ctx := context.Background()
	deposits, err := ledgerSvc.ListAllHoldings(ctx)
	if err != nil {
		return err
	}

	reply := dumpReply{Deposits: deposits}
	if withReceipts {
		reply.Receipts = make(map[string][]domain.Receipt)
		for _, deposit := range deposits {
			if _, ok := reply.Receipts[deposit.Owner]; ok {
				continue
			}
			receipts, err := ledgerSvc.ListReceipts(ctx, deposit.Owner, nil)
			if err != nil {
				return err
			}
			reply.Receipts[deposit.Owner] = receipts
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(reply)
}

func formatVersion() string {
	return fmt.Sprintf(
		"Version: %s\nCommit: %s\nDate: %s",
		version, commit, date,
	)
}
