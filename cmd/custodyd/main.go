package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/custody-ledger/internal/config"
	"github.com/tdex-network/custody-ledger/internal/core/application"
	"github.com/tdex-network/custody-ledger/internal/core/ports"
	"github.com/tdex-network/custody-ledger/internal/infrastructure/pubsub"
	dbbadger "github.com/tdex-network/custody-ledger/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/custody-ledger/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/tdex-network/custody-ledger/internal/interfaces/http"
	"github.com/tdex-network/custody-ledger/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to initialize config")
	}

	var (
		datadir        = config.GetDatadir()
		dbType         = config.GetString(config.DBTypeKey)
		namespace      = config.GetString(config.NamespaceKey)
		address        = fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey))
		rateLimit      = config.GetInt(config.RateLimitKey)
		webhookSecret  = config.GetString(config.WebhookSecretKey)
		profilerEnable = config.GetBool(config.EnableProfilerKey)
		statsInterval  = time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
	)
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	webhooks, err := config.GetWebhooks()
	if err != nil {
		log.WithError(err).Fatal("invalid webhook config")
	}

	repoManager, err := newRepoManager(dbType, config.GetDbDir())
	if err != nil {
		log.WithError(err).Fatal("failed to open db")
	}
	log.Debugf("opened %s db in %s", dbType, datadir)

	var publisher ports.Publisher
	if len(webhooks) > 0 {
		pubsubSvc := pubsub.NewService(webhookSecret)
		for _, hook := range webhooks {
			if _, err := pubsubSvc.Subscribe(hook.Event, hook.Endpoint, ""); err != nil {
				log.WithError(err).Fatalf("failed to add webhook %s", hook.Endpoint)
			}
			log.Debugf("added webhook %s for event %s", hook.Endpoint, hook.Event)
		}
		publisher = pubsubSvc
	}

	ledgerSvc, err := application.NewLedgerService(repoManager, publisher, namespace)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize ledger service")
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:   address,
		RateLimit: rateLimit,
		LedgerSvc: ledgerSvc,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize ledger interface")
	}

	ctx, cancel := context.WithCancel(context.Background())
	if profilerEnable {
		stats.EnableMemoryStatistics(ctx, statsInterval, config.GetProfilerDir(), "custody_")
	}

	defer func() {
		cancel()
		svc.Stop()
		ledgerSvc.Close()
		log.Debug("flushed ledger events")
		repoManager.Close()
		log.Debug("closed db")
		log.Info("shutdown")
	}()

	log.Info("starting daemon")
	if err := svc.Start(); err != nil {
		log.WithError(err).Error("failed to start daemon")
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	<-sigChan

	log.Info("shutting down daemon")
}

func newRepoManager(dbType, dbDir string) (ports.RepoManager, error) {
	if dbType == config.DBInMemory {
		return inmemory.NewRepoManager(), nil
	}

	logger := log.New()
	logger.SetLevel(log.WarnLevel)
	return dbbadger.NewRepoManager(dbDir, logger)
}
